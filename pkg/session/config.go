// Copyright (c) 2025 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package session

import "fmt"

// AckMode is the acknowledgement policy of a Session, fixed at construction.
type AckMode int

const (
	// AutoAcknowledge acknowledges each message as it is delivered.
	AutoAcknowledge AckMode = iota
	// ClientAcknowledge defers acknowledgement to Message.Acknowledge.
	ClientAcknowledge
	// SessionTransacted stages sends and acknowledgements until Commit.
	SessionTransacted
	// DupsOkAcknowledge acknowledges lazily; duplicate delivery is tolerated.
	DupsOkAcknowledge
)

// String returns the configuration tag for the mode.
func (m AckMode) String() string {
	switch m {
	case AutoAcknowledge:
		return "auto"
	case ClientAcknowledge:
		return "client"
	case SessionTransacted:
		return "transacted"
	case DupsOkAcknowledge:
		return "dups_ok"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseAckMode maps a configuration tag to an AckMode.
func ParseAckMode(
	tag string,
) (AckMode, error) {
	switch tag {
	case "", "auto":
		return AutoAcknowledge, nil
	case "client":
		return ClientAcknowledge, nil
	case "transacted":
		return SessionTransacted, nil
	case "dups_ok":
		return DupsOkAcknowledge, nil
	default:
		return AutoAcknowledge, fmt.Errorf("unknown ack mode %q", tag)
	}
}

// Config carries the externally supplied session settings.
type Config struct {
	// AckMode is the acknowledgement policy. Defaults to AutoAcknowledge.
	AckMode AckMode
	// SubjectPrefix namespaces every destination subject and stream this
	// session touches. Defaults to DefaultSubjectPrefix.
	SubjectPrefix string
	// ConnectionTag identifies the underlying connection for noLocal
	// filtering. When empty the tag is derived from the connection, so
	// sessions sharing a connection share a tag automatically. Set it
	// explicitly when distinct connections should count as one client.
	ConnectionTag string
}

// withDefaults returns a copy of the config with zero values filled in.
func (c *Config) withDefaults() Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.SubjectPrefix == "" {
		out.SubjectPrefix = DefaultSubjectPrefix
	}

	return out
}

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

package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Wire header names. Metadata travels in headers; the body carries only
// the payload.
const (
	HeaderKind          = "MP-Kind"
	HeaderID            = "MP-Id"
	HeaderTimestamp     = "MP-Timestamp"
	HeaderCorrelationID = "MP-Correlation-Id"
	HeaderReplyTo       = "MP-Reply-To"
	HeaderOrigin        = "MP-Origin"
	HeaderProperties    = "MP-Properties"
)

// Encode serializes a message onto a NATS subject. The message ID and
// timestamp are assigned here if unset, mirroring broker-assigned metadata
// semantics: the in-memory message is updated so the sender observes the
// assigned values.
func Encode(
	m *Message,
	subject string,
	origin string,
) (*nats.Msg, error) {
	if m.id == "" {
		m.id = uuid.New().String()
	}
	if m.timestamp.IsZero() {
		m.timestamp = time.Now().UTC()
	}
	m.origin = origin

	out := nats.NewMsg(subject)
	out.Header.Set(HeaderKind, m.kind.String())
	out.Header.Set(HeaderID, m.id)
	out.Header.Set(HeaderTimestamp, m.timestamp.Format(time.RFC3339Nano))
	if origin != "" {
		out.Header.Set(HeaderOrigin, origin)
	}
	if m.correlationID != "" {
		out.Header.Set(HeaderCorrelationID, m.correlationID)
	}
	if m.replyTo != "" {
		out.Header.Set(HeaderReplyTo, m.replyTo)
	}

	if len(m.properties) > 0 {
		props, err := json.Marshal(m.properties)
		if err != nil {
			return nil, fmt.Errorf("marshal properties: %w", err)
		}
		out.Header.Set(HeaderProperties, string(props))
	}

	switch m.kind {
	case KindText:
		out.Data = []byte(m.text)
	case KindBytes:
		out.Data = m.data
	case KindMap:
		body, err := json.Marshal(m.entries)
		if err != nil {
			return nil, fmt.Errorf("marshal map payload: %w", err)
		}
		out.Data = body
	case KindStream:
		body, err := json.Marshal(m.fields)
		if err != nil {
			return nil, fmt.Errorf("marshal stream payload: %w", err)
		}
		out.Data = body
	case KindGeneric:
		// No body.
	}

	return out, nil
}

// Decode materializes a message from a delivered NATS message. A missing
// kind header decodes as a generic message.
func Decode(
	in *nats.Msg,
) (*Message, error) {
	m := New()
	m.kind = parseKind(in.Header.Get(HeaderKind))
	m.id = in.Header.Get(HeaderID)
	m.correlationID = in.Header.Get(HeaderCorrelationID)
	m.replyTo = in.Header.Get(HeaderReplyTo)
	m.origin = in.Header.Get(HeaderOrigin)

	if ts := in.Header.Get(HeaderTimestamp); ts != "" {
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp header: %w", err)
		}
		m.timestamp = parsed
	}

	if props := in.Header.Get(HeaderProperties); props != "" {
		if err := json.Unmarshal([]byte(props), &m.properties); err != nil {
			return nil, fmt.Errorf("unmarshal properties: %w", err)
		}
	}

	switch m.kind {
	case KindText:
		m.text = string(in.Data)
	case KindBytes:
		m.data = in.Data
	case KindMap:
		m.entries = map[string]any{}
		if len(in.Data) > 0 {
			if err := json.Unmarshal(in.Data, &m.entries); err != nil {
				return nil, fmt.Errorf("unmarshal map payload: %w", err)
			}
		}
	case KindStream:
		if len(in.Data) > 0 {
			if err := json.Unmarshal(in.Data, &m.fields); err != nil {
				return nil, fmt.Errorf("unmarshal stream payload: %w", err)
			}
		}
	case KindGeneric:
		// No body.
	}

	return m, nil
}

func parseKind(
	tag string,
) Kind {
	switch tag {
	case "text":
		return KindText
	case "bytes":
		return KindBytes
	case "map":
		return KindMap
	case "stream":
		return KindStream
	default:
		return KindGeneric
	}
}

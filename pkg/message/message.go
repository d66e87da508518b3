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

// Package message models the unit of payload exchanged between producers
// and consumers: a tagged payload variant plus broker-assigned metadata and
// free-form application properties.
package message

import (
	"errors"
	"time"
)

// Kind tags the payload variant carried by a Message.
type Kind int

const (
	// KindGeneric is a message with no payload body.
	KindGeneric Kind = iota
	// KindText carries a string payload.
	KindText
	// KindBytes carries a raw byte payload.
	KindBytes
	// KindMap carries an unordered set of named values.
	KindMap
	// KindStream carries an ordered sequence of values.
	KindStream
)

// String returns the wire tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindMap:
		return "map"
	case KindStream:
		return "stream"
	default:
		return "generic"
	}
}

// ErrFormat is returned when a payload accessor does not match the
// message's kind.
var ErrFormat = errors.New("payload kind mismatch")

// Message is a unit of payload plus metadata. Messages are created through
// a Session, sent through a MessageProducer, and materialized on receipt by
// a MessageConsumer. A Message is not safe for concurrent mutation.
type Message struct {
	kind Kind

	id            string
	timestamp     time.Time
	correlationID string
	replyTo       string
	redelivered   bool
	origin        string

	text    string
	data    []byte
	entries map[string]any
	fields  []any

	properties map[string]any

	ackFn func() error
}

// New creates an empty generic message.
func New() *Message {
	return &Message{kind: KindGeneric, properties: map[string]any{}}
}

// NewText creates a text message with the given payload.
func NewText(
	text string,
) *Message {
	m := New()
	m.kind = KindText
	m.text = text

	return m
}

// NewBytes creates a bytes message with the given payload.
func NewBytes(
	data []byte,
) *Message {
	m := New()
	m.kind = KindBytes
	m.data = data

	return m
}

// NewMap creates an empty map message.
func NewMap() *Message {
	m := New()
	m.kind = KindMap
	m.entries = map[string]any{}

	return m
}

// NewStream creates an empty stream message.
func NewStream() *Message {
	m := New()
	m.kind = KindStream

	return m
}

// Kind returns the payload variant tag.
func (m *Message) Kind() Kind { return m.kind }

// ID returns the broker-visible message ID, assigned on send.
func (m *Message) ID() string { return m.id }

// Timestamp returns the send timestamp, assigned on send.
func (m *Message) Timestamp() time.Time { return m.timestamp }

// Redelivered reports whether the broker delivered this message before.
func (m *Message) Redelivered() bool { return m.redelivered }

// MarkRedelivered flags the message as a redelivery. Set by the consumer
// on receipt, never by applications.
func (m *Message) MarkRedelivered() { m.redelivered = true }

// CorrelationID returns the application correlation ID.
func (m *Message) CorrelationID() string { return m.correlationID }

// SetCorrelationID sets the application correlation ID.
func (m *Message) SetCorrelationID(
	id string,
) {
	m.correlationID = id
}

// ReplyTo returns the name of the destination replies should target.
func (m *Message) ReplyTo() string { return m.replyTo }

// SetReplyTo sets the reply destination name.
func (m *Message) SetReplyTo(
	destination string,
) {
	m.replyTo = destination
}

// Origin returns the connection tag of the sending session, used for
// noLocal filtering. Empty for messages not yet sent.
func (m *Message) Origin() string { return m.origin }

// Text returns the text payload.
func (m *Message) Text() (string, error) {
	if m.kind != KindText {
		return "", ErrFormat
	}

	return m.text, nil
}

// SetText replaces the text payload.
func (m *Message) SetText(
	text string,
) error {
	if m.kind != KindText {
		return ErrFormat
	}
	m.text = text

	return nil
}

// Bytes returns the byte payload.
func (m *Message) Bytes() ([]byte, error) {
	if m.kind != KindBytes {
		return nil, ErrFormat
	}

	return m.data, nil
}

// SetBytes replaces the byte payload.
func (m *Message) SetBytes(
	data []byte,
) error {
	if m.kind != KindBytes {
		return ErrFormat
	}
	m.data = data

	return nil
}

// SetEntry stores a named value in a map message.
func (m *Message) SetEntry(
	name string,
	value any,
) error {
	if m.kind != KindMap {
		return ErrFormat
	}
	m.entries[name] = value

	return nil
}

// Entry returns a named value from a map message.
func (m *Message) Entry(
	name string,
) (any, bool) {
	if m.kind != KindMap {
		return nil, false
	}
	v, ok := m.entries[name]

	return v, ok
}

// Entries returns the full name/value mapping of a map message.
func (m *Message) Entries() (map[string]any, error) {
	if m.kind != KindMap {
		return nil, ErrFormat
	}

	return m.entries, nil
}

// Append adds a value to the ordered field sequence of a stream message.
func (m *Message) Append(
	value any,
) error {
	if m.kind != KindStream {
		return ErrFormat
	}
	m.fields = append(m.fields, value)

	return nil
}

// Fields returns the ordered field sequence of a stream message.
func (m *Message) Fields() ([]any, error) {
	if m.kind != KindStream {
		return nil, ErrFormat
	}

	return m.fields, nil
}

// SetProperty stores an application property, visible to selectors.
func (m *Message) SetProperty(
	name string,
	value any,
) {
	m.properties[name] = value
}

// Property returns an application property.
func (m *Message) Property(
	name string,
) (any, bool) {
	v, ok := m.properties[name]

	return v, ok
}

// Properties returns the live property map. Selector evaluation reads it
// directly; callers must not mutate it after handing the message to a
// producer.
func (m *Message) Properties() map[string]any {
	return m.properties
}

// Acknowledge acknowledges delivery of this message. It is meaningful only
// for messages received under ClientAcknowledge sessions; elsewhere it is
// a no-op.
func (m *Message) Acknowledge() error {
	if m.ackFn == nil {
		return nil
	}

	return m.ackFn()
}

// SetAckFunc installs the acknowledgement hook. Set by the consumer on
// receipt, never by applications.
func (m *Message) SetAckFunc(
	fn func() error,
) {
	m.ackFn = fn
}

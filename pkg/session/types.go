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

import (
	"github.com/nats-io/nats.go"
)

// Conn is the slice of the broker connection a Session depends on. The
// connection itself is established and owned by the caller; a Session
// calls it and never closes it.
//
//go:generate go run github.com/golang/mock/mockgen -destination=mocks/mock_conn.go -package=mocks -source=types.go Conn
type Conn interface {
	// PublishMsg publishes an encoded message.
	PublishMsg(msg *nats.Msg) error

	// SubscribeSync creates a synchronous subscription on a subject.
	SubscribeSync(subj string) (*nats.Subscription, error)

	// QueueSubscribeSync creates a synchronous queue-group subscription.
	QueueSubscribeSync(subj string, queue string) (*nats.Subscription, error)

	// JetStream returns the JetStream context used for durable
	// subscription state.
	JetStream(opts ...nats.JSOpt) (nats.JetStreamContext, error)

	// IsClosed reports whether the connection is closed.
	IsClosed() bool
}

// Ensure *nats.Conn satisfies the Conn interface.
var _ Conn = (*nats.Conn)(nil)

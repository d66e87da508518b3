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

import "errors"

// Error kinds surfaced by this package. Failures from the broker are
// wrapped so callers can match the kind with errors.Is while retaining
// the underlying cause.
var (
	// ErrConnection indicates session establishment against the broker failed.
	ErrConnection = errors.New("connection establishment failed")
	// ErrDestination indicates destination creation or resolution failed,
	// including handles owned by another session.
	ErrDestination = errors.New("invalid destination")
	// ErrInvalidSelector indicates a malformed selector expression.
	ErrInvalidSelector = errors.New("invalid selector")
	// ErrSubscriptionConflict indicates a subscription name was reused with
	// an incompatible selector or sharing mode.
	ErrSubscriptionConflict = errors.New("subscription exists with incompatible configuration")
	// ErrSubscriptionInUse indicates an unsubscribe was blocked by an open
	// consumer or an uncommitted delivery.
	ErrSubscriptionInUse = errors.New("subscription still in use")
	// ErrNameResolution indicates the destination name cannot be reported.
	ErrNameResolution = errors.New("destination name unavailable")
	// ErrAlreadyDeleted indicates a repeated delete of a temporary destination.
	ErrAlreadyDeleted = errors.New("destination already deleted")
	// ErrTransport indicates a generic broker or transport failure.
	ErrTransport = errors.New("transport failure")

	// ErrClosed indicates an operation on a closed session, consumer, or
	// producer.
	ErrClosed = errors.New("closed")
	// ErrNotTransacted indicates Commit or Rollback on a session that was
	// not created with SessionTransacted.
	ErrNotTransacted = errors.New("session is not transacted")
	// ErrNoMessage indicates a bounded receive expired with no message.
	ErrNoMessage = errors.New("no message available")
)

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
	"fmt"
	"sync"
)

// DestinationKind tags the destination variant.
type DestinationKind int

const (
	// KindQueue is a named point-to-point destination.
	KindQueue DestinationKind = iota
	// KindTopic is a named publish/subscribe destination.
	KindTopic
	// KindTemporaryQueue is a session-scoped point-to-point destination.
	KindTemporaryQueue
	// KindTemporaryTopic is a session-scoped publish/subscribe destination.
	KindTemporaryTopic
)

// String returns a human-readable tag for the kind.
func (k DestinationKind) String() string {
	switch k {
	case KindQueue:
		return "queue"
	case KindTopic:
		return "topic"
	case KindTemporaryQueue:
		return "temporary-queue"
	case KindTemporaryTopic:
		return "temporary-topic"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Destination identifies a message target. It is an opaque handle: identity
// is the handle itself, never structural. Handles are valid only within the
// Session that created them.
//
// A Destination may be shared across goroutines for read access. Delete on
// a temporary destination must be externally synchronized against in-flight
// sends and receives; calling them concurrently is a caller error.
type Destination struct {
	kind      DestinationKind
	name      string
	subject   string
	sessionID string

	mu      sync.Mutex
	deleted bool
}

// Kind returns the destination variant tag.
func (d *Destination) Kind() DestinationKind { return d.kind }

// Subject returns the wire reference for this destination.
func (d *Destination) Subject() string { return d.subject }

// IsTemporary reports whether this destination is scoped to its session.
func (d *Destination) IsTemporary() bool {
	return d.kind == KindTemporaryQueue || d.kind == KindTemporaryTopic
}

// Name returns the destination name. Failing rather than returning an
// empty value is the convention here: once a temporary destination is
// deleted its name resolves to ErrNameResolution, never to "".
func (d *Destination) Name() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deleted {
		return "", fmt.Errorf("%w: %s deleted", ErrNameResolution, d.kind)
	}

	return d.name, nil
}

// Delete invalidates a temporary destination. The first call succeeds;
// any further call fails with ErrAlreadyDeleted, and any other use of the
// handle after deletion fails.
func (d *Destination) Delete() error {
	if !d.IsTemporary() {
		return fmt.Errorf("%w: cannot delete permanent %s", ErrDestination, d.kind)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deleted {
		return fmt.Errorf("%w: %s", ErrAlreadyDeleted, d.name)
	}
	d.deleted = true

	return nil
}

// usable returns an error when the handle has been invalidated.
func (d *Destination) usable() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deleted {
		return fmt.Errorf("%w: %s", ErrAlreadyDeleted, d.name)
	}

	return nil
}

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
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/msgport-io/msgport/internal/telemetry"
	"github.com/msgport-io/msgport/pkg/message"
)

// Producer sends messages to destinations. A producer bound to a
// destination at creation sends there; an unbound producer names a
// destination per send through SendTo.
type Producer struct {
	session *Session
	dest    *Destination
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Destination returns the bound destination, or nil for an unbound
// producer.
func (p *Producer) Destination() *Destination { return p.dest }

// Send sends a message to the producer's bound destination. It fails with
// ErrDestination on an unbound producer.
func (p *Producer) Send(
	ctx context.Context,
	m *message.Message,
) error {
	if p.dest == nil {
		return fmt.Errorf("%w: producer has no bound destination", ErrDestination)
	}

	return p.send(ctx, p.dest, m)
}

// SendTo sends a message to an explicitly named destination. It fails with
// ErrDestination on a producer already bound to one.
func (p *Producer) SendTo(
	ctx context.Context,
	dest *Destination,
	m *message.Message,
) error {
	if p.dest != nil {
		return fmt.Errorf("%w: producer is bound to %q", ErrDestination, p.dest.subject)
	}

	return p.send(ctx, dest, m)
}

func (p *Producer) send(
	ctx context.Context,
	dest *Destination,
	m *message.Message,
) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("%w: producer", ErrClosed)
	}
	p.mu.Unlock()

	if m == nil {
		return fmt.Errorf("%w: nil message", ErrDestination)
	}

	s := p.session
	s.mu.Lock()
	err := s.checkOwnedLocked(dest)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := dest.usable(); err != nil {
		return fmt.Errorf("%w: %v", ErrDestination, err)
	}

	ctx, span := telemetry.Tracer().Start(ctx, "producer.send")
	defer span.End()

	telemetry.InjectTraceContext(ctx, m.Properties())

	out, err := message.Encode(m, dest.subject, s.connTag)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if err := s.publish(out); err != nil {
		return err
	}

	telemetry.MessagesSent.WithLabelValues(dest.kind.String()).Inc()

	p.logger.Debug("producer.send",
		slog.String("session_id", s.id),
		slog.String("subject", dest.subject),
		slog.String("message_id", m.ID()),
	)

	return nil
}

// Close releases the producer. Close is idempotent.
func (p *Producer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.session.removeProducer(p)

	return nil
}

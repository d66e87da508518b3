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
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/msgport-io/msgport/internal/telemetry"
	"github.com/msgport-io/msgport/pkg/message"
	"github.com/msgport-io/msgport/pkg/selector"
)

// noWaitTimeout bounds how long ReceiveNoWait is willing to block on the
// transport round trip for an already-buffered message.
const noWaitTimeout = 25 * time.Millisecond

// State describes a consumer's lifecycle phase.
type State int

const (
	// StateCreated is a consumer that has not received yet.
	StateCreated State = iota
	// StateActive is a consumer that has started receiving.
	StateActive
	// StateClosed is a closed consumer.
	StateClosed
)

// String returns the state's tag.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handler consumes messages delivered through Consumer.Listen.
type Handler func(*message.Message)

// Consumer receives messages from one destination. Selector and no-local
// filtering happen client-side before a message is surfaced; filtered
// messages are never delivered to the application.
type Consumer struct {
	session *Session
	dest    *Destination
	sub     *nats.Subscription
	sel     *selector.Selector
	noLocal bool
	// subscriptionName is set for durable and shared consumers.
	subscriptionName string
	durable          bool
	stream           string
	logger           *slog.Logger

	mu    sync.Mutex
	state State
}

// State returns the consumer's lifecycle state.
func (c *Consumer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// SubscriptionName returns the named subscription this consumer is attached
// to, or an empty string for an unnamed consumer.
func (c *Consumer) SubscriptionName() string { return c.subscriptionName }

// Destination returns the destination this consumer receives from.
func (c *Consumer) Destination() *Destination { return c.dest }

// Receive blocks until a message passing the consumer's filters arrives,
// the context ends, or the consumer closes. A deadline expiry maps to
// ErrNoMessage, so callers can distinguish "nothing arrived" from a
// transport failure.
func (c *Consumer) Receive(
	ctx context.Context,
) (*message.Message, error) {
	if err := c.activate(); err != nil {
		return nil, err
	}

	for {
		raw, err := c.sub.NextMsgWithContext(ctx)
		if err != nil {
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				return nil, ErrNoMessage
			case errors.Is(err, context.Canceled):
				// Keep the sentinel reachable so callers can tell a
				// deliberate cancellation from a transport failure.
				return nil, fmt.Errorf("receive: %w", err)
			case errors.Is(err, nats.ErrBadSubscription),
				errors.Is(err, nats.ErrConnectionClosed):
				return nil, fmt.Errorf("%w: consumer", ErrClosed)
			default:
				return nil, fmt.Errorf("%w: receive: %v", ErrTransport, err)
			}
		}

		m, ok := c.surface(raw)
		if !ok {
			continue
		}

		return m, nil
	}
}

// ReceiveTimeout receives with an upper bound on waiting. It returns
// ErrNoMessage when no message passes the filters within the duration.
func (c *Consumer) ReceiveTimeout(
	d time.Duration,
) (*message.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	return c.Receive(ctx)
}

// ReceiveNoWait returns a message only when one is immediately available,
// and ErrNoMessage otherwise.
func (c *Consumer) ReceiveNoWait() (*message.Message, error) {
	return c.ReceiveTimeout(noWaitTimeout)
}

// Listen delivers messages to the handler until the context ends or the
// consumer closes. Deliveries are serial: the next message is not fetched
// until the handler returns.
func (c *Consumer) Listen(
	ctx context.Context,
	handler Handler,
) error {
	if handler == nil {
		return fmt.Errorf("%w: nil handler", ErrDestination)
	}

	for {
		m, err := c.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, ErrClosed) {
				return nil
			}

			return err
		}

		handler(m)
	}
}

// Close detaches the consumer from its subscription. Durable subscription
// state survives: only Session.Unsubscribe destroys it. Close is idempotent.
func (c *Consumer) Close() error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return nil
	}
	c.state = StateClosed
	c.mu.Unlock()

	telemetry.ConsumersOpen.Dec()

	// The subscription was bound to any durable consumer rather than
	// creating it, so unsubscribing here never deletes durable state.
	if err := c.sub.Unsubscribe(); err != nil &&
		!errors.Is(err, nats.ErrBadSubscription) &&
		!errors.Is(err, nats.ErrConnectionClosed) {
		c.session.removeConsumer(c)
		return fmt.Errorf("%w: unsubscribe: %v", ErrTransport, err)
	}

	c.session.removeConsumer(c)

	c.logger.Debug("consumer.close",
		slog.String("session_id", c.session.id),
		slog.String("subject", c.dest.subject),
	)

	return nil
}

// activate transitions the consumer to active, failing once closed.
func (c *Consumer) activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return fmt.Errorf("%w: consumer", ErrClosed)
	}
	c.state = StateActive

	return nil
}

// surface decodes a raw delivery and applies no-local and selector
// filtering plus the session's acknowledgement mode. It reports false when
// the message was filtered or unreadable, in which case the caller keeps
// waiting.
func (c *Consumer) surface(
	raw *nats.Msg,
) (*message.Message, bool) {
	m, err := message.Decode(raw)
	if err != nil {
		c.logger.Warn("consumer.decode",
			slog.String("subject", raw.Subject),
			slog.String("error", err.Error()),
		)
		c.discard(raw)

		return nil, false
	}

	if c.noLocal && m.Origin() == c.session.connTag {
		telemetry.MessagesFiltered.WithLabelValues("no_local").Inc()
		c.discard(raw)

		return nil, false
	}

	if c.sel != nil && !c.sel.Matches(m.Properties()) {
		telemetry.MessagesFiltered.WithLabelValues("selector").Inc()
		c.discard(raw)

		return nil, false
	}

	if c.durable {
		if md, mdErr := raw.Metadata(); mdErr == nil && md.NumDelivered > 1 {
			m.MarkRedelivered()
		}
	}

	c.settle(raw, m)

	// Continue the producer's trace across the broker hop.
	ctx := telemetry.ExtractTraceContext(context.Background(), m.Properties())
	_, span := telemetry.Tracer().Start(ctx, "consumer.receive")
	span.End()

	telemetry.MessagesReceived.WithLabelValues(c.dest.kind.String()).Inc()

	return m, true
}

// settle applies the session's acknowledgement mode to a delivered message.
func (c *Consumer) settle(
	raw *nats.Msg,
	m *message.Message,
) {
	switch c.session.cfg.AckMode {
	case ClientAcknowledge:
		if c.durable {
			m.SetAckFunc(func() error { return raw.Ack() })
		}
	case SessionTransacted:
		if c.durable {
			c.session.stageAck(c.subscriptionName, raw)
		}
	default:
		// AutoAcknowledge and DupsOkAcknowledge settle on delivery.
		if c.durable {
			if err := raw.Ack(); err != nil {
				c.logger.Warn("consumer.ack",
					slog.String("subject", raw.Subject),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// discard settles a filtered or unreadable delivery so the broker does not
// redeliver it to this subscription.
func (c *Consumer) discard(
	raw *nats.Msg,
) {
	if !c.durable {
		return
	}
	if err := raw.Term(); err != nil {
		c.logger.Warn("consumer.term",
			slog.String("subject", raw.Subject),
			slog.String("error", err.Error()),
		)
	}
}

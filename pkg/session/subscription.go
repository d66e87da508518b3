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
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/msgport-io/msgport/internal/telemetry"
	"github.com/msgport-io/msgport/pkg/selector"
)

// CreateConsumer creates a consumer on a destination. The selector is
// compiled before any subscription is made: a malformed selector fails
// with ErrInvalidSelector and creates nothing. Queue destinations deliver
// each message to one of their competing consumers; topic destinations
// deliver to every consumer.
func (s *Session) CreateConsumer(
	dest *Destination,
	selectorText string,
	noLocal bool,
) (*Consumer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: session", ErrClosed)
	}
	if err := s.checkOwnedLocked(dest); err != nil {
		return nil, err
	}
	if err := dest.usable(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestination, err)
	}

	sel, err := compileSelector(selectorText)
	if err != nil {
		return nil, err
	}

	var sub *nats.Subscription
	switch dest.kind {
	case KindQueue, KindTemporaryQueue:
		sub, err = s.conn.QueueSubscribeSync(dest.subject, queueGroupFor(dest))
	case KindTopic, KindTemporaryTopic:
		sub, err = s.conn.SubscribeSync(dest.subject)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe %s: %v", ErrTransport, dest.subject, err)
	}

	return s.registerConsumerLocked(dest, sub, sel, noLocal, "", false, ""), nil
}

// CreateDurableSubscriber creates, or attaches to, a named durable
// subscription on a permanent topic. The subscription and its selector are
// provider-side state that outlives the consumer; re-invocation with the
// same name and selector attaches to the existing subscription, while the
// same name with a different selector or sharing mode fails with
// ErrSubscriptionConflict.
func (s *Session) CreateDurableSubscriber(
	topic *Destination,
	name string,
	selectorText string,
	noLocal bool,
) (*Consumer, error) {
	return s.createDurable(topic, name, selectorText, noLocal, false)
}

// CreateSharedDurableConsumer creates, or attaches to, a named durable
// subscription whose messages are distributed between its consumers.
func (s *Session) CreateSharedDurableConsumer(
	topic *Destination,
	name string,
	selectorText string,
) (*Consumer, error) {
	return s.createDurable(topic, name, selectorText, false, true)
}

// CreateSharedConsumer creates, or attaches to, a named non-durable shared
// subscription on a topic: consumers with the same name split the topic's
// messages. The subscription vanishes once its last consumer closes.
func (s *Session) CreateSharedConsumer(
	topic *Destination,
	name string,
	selectorText string,
) (*Consumer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: session", ErrClosed)
	}
	if err := s.checkOwnedLocked(topic); err != nil {
		return nil, err
	}
	if topic.kind != KindTopic && topic.kind != KindTemporaryTopic {
		return nil, fmt.Errorf("%w: shared consumer requires a topic, got %s",
			ErrDestination, topic.kind)
	}
	if err := ValidateDestinationName(name); err != nil {
		return nil, fmt.Errorf("%w: subscription name: %v", ErrDestination, err)
	}

	sel, err := compileSelector(selectorText)
	if err != nil {
		return nil, err
	}

	if entry, ok := s.shared[name]; ok {
		if entry.selectorText != strings.TrimSpace(selectorText) {
			return nil, fmt.Errorf("%w: shared subscription %q selector mismatch",
				ErrSubscriptionConflict, name)
		}
		entry.refs++
	} else {
		s.shared[name] = &sharedEntry{
			selectorText: strings.TrimSpace(selectorText),
			refs:         1,
		}
	}

	sub, err := s.conn.QueueSubscribeSync(topic.subject, name)
	if err != nil {
		s.releaseSharedLocked(name)
		return nil, fmt.Errorf("%w: subscribe %s: %v", ErrTransport, topic.subject, err)
	}

	return s.registerConsumerLocked(topic, sub, sel, false, name, false, ""), nil
}

func (s *Session) createDurable(
	topic *Destination,
	name string,
	selectorText string,
	noLocal bool,
	shared bool,
) (*Consumer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: session", ErrClosed)
	}
	if err := s.checkOwnedLocked(topic); err != nil {
		return nil, err
	}
	if topic.kind != KindTopic {
		return nil, fmt.Errorf("%w: durable subscription requires a permanent topic, got %s",
			ErrDestination, topic.kind)
	}
	if err := ValidateDestinationName(name); err != nil {
		return nil, fmt.Errorf("%w: subscription name: %v", ErrDestination, err)
	}

	sel, err := compileSelector(selectorText)
	if err != nil {
		return nil, err
	}

	stream := BuildTopicStreamName(s.cfg.SubjectPrefix, topic.name)
	if err := s.ensureTopicStream(stream, topic.subject); err != nil {
		return nil, err
	}

	if err := s.ensureDurableConsumer(stream, name, selectorText, shared); err != nil {
		return nil, err
	}

	// Bind to the pre-created consumer so closing the subscription leaves
	// the durable identity intact; only Unsubscribe deletes it.
	var sub *nats.Subscription
	if shared {
		sub, err = s.js.QueueSubscribeSync(topic.subject, name,
			nats.Bind(stream, name), nats.ManualAck())
	} else {
		sub, err = s.js.SubscribeSync(topic.subject,
			nats.Bind(stream, name), nats.ManualAck())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: durable subscribe %s: %v", ErrTransport, name, err)
	}

	s.durableStreams[name] = stream

	s.logger.Debug("subscription.attach",
		slog.String("session_id", s.id),
		slog.String("subscription", name),
		slog.String("stream", stream),
		slog.Bool("shared", shared),
	)

	return s.registerConsumerLocked(topic, sub, sel, noLocal, name, true, stream), nil
}

// Unsubscribe destroys a durable subscription. It fails with
// ErrSubscriptionInUse while a consumer attached to the subscription is
// still open, or while a delivery under it waits on an uncommitted
// transaction.
func (s *Session) Unsubscribe(
	name string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: session", ErrClosed)
	}

	for c := range s.consumers {
		if c.subscriptionName == name && c.State() != StateClosed {
			return fmt.Errorf("%w: consumer still open on %q", ErrSubscriptionInUse, name)
		}
	}
	if s.tx != nil {
		for _, staged := range s.tx.acks {
			if staged.subscription == name {
				return fmt.Errorf("%w: uncommitted delivery under %q",
					ErrSubscriptionInUse, name)
			}
		}
	}

	stream, ok := s.durableStreams[name]
	if !ok {
		stream, ok = s.findDurableStream(name)
	}
	if !ok {
		return fmt.Errorf("%w: unknown durable subscription %q", ErrDestination, name)
	}

	if err := s.js.DeleteConsumer(stream, name); err != nil {
		if errors.Is(err, nats.ErrConsumerNotFound) {
			return fmt.Errorf("%w: unknown durable subscription %q", ErrDestination, name)
		}

		return fmt.Errorf("%w: delete durable %q: %v", ErrTransport, name, err)
	}
	delete(s.durableStreams, name)

	s.logger.Debug("subscription.unsubscribe",
		slog.String("session_id", s.id),
		slog.String("subscription", name),
	)

	return nil
}

// ensureTopicStream creates the stream backing a topic's durable
// subscriptions if it does not exist yet.
func (s *Session) ensureTopicStream(
	stream string,
	subject string,
) error {
	_, err := s.js.StreamInfo(stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("%w: stream info %s: %v", ErrTransport, stream, err)
	}

	_, err = s.js.AddStream(&nats.StreamConfig{
		Name:     stream,
		Subjects: []string{subject},
	})
	if err != nil {
		return fmt.Errorf("%w: create stream %s: %v", ErrTransport, stream, err)
	}

	return nil
}

// ensureDurableConsumer creates the durable consumer backing a named
// subscription, or verifies an existing one is compatible: attaching with
// an equal selector and sharing mode is idempotent, anything else
// conflicts. The selector text is persisted provider-side in the consumer
// description, so the check holds across sessions and processes.
func (s *Session) ensureDurableConsumer(
	stream string,
	name string,
	selectorText string,
	shared bool,
) error {
	trimmed := strings.TrimSpace(selectorText)

	info, err := s.js.ConsumerInfo(stream, name)
	if err == nil {
		if info.Config.Description != trimmed {
			return fmt.Errorf("%w: durable %q exists with selector %q",
				ErrSubscriptionConflict, name, info.Config.Description)
		}

		existingShared := info.Config.DeliverGroup != ""
		if existingShared != shared {
			return fmt.Errorf("%w: durable %q exists with shared=%t",
				ErrSubscriptionConflict, name, existingShared)
		}

		return nil
	}
	if !errors.Is(err, nats.ErrConsumerNotFound) {
		return fmt.Errorf("%w: consumer info %s: %v", ErrTransport, name, err)
	}

	cfg := &nats.ConsumerConfig{
		Durable:        name,
		Description:    trimmed,
		DeliverPolicy:  nats.DeliverNewPolicy,
		AckPolicy:      nats.AckExplicitPolicy,
		DeliverSubject: nats.NewInbox(),
	}
	if shared {
		cfg.DeliverGroup = name
	}

	if _, err := s.js.AddConsumer(stream, cfg); err != nil {
		return fmt.Errorf("%w: create durable %q: %v", ErrTransport, name, err)
	}

	return nil
}

// findDurableStream scans the broker's streams for a consumer with the
// given durable name. Used when the subscription was created by another
// session.
func (s *Session) findDurableStream(
	name string,
) (string, bool) {
	for stream := range s.js.StreamNames() {
		if _, err := s.js.ConsumerInfo(stream, name); err == nil {
			return stream, true
		}
	}

	return "", false
}

// registerConsumerLocked builds and registers a consumer. Callers hold s.mu.
func (s *Session) registerConsumerLocked(
	dest *Destination,
	sub *nats.Subscription,
	sel *selector.Selector,
	noLocal bool,
	subscriptionName string,
	durable bool,
	stream string,
) *Consumer {
	c := &Consumer{
		session:          s,
		dest:             dest,
		sub:              sub,
		sel:              sel,
		noLocal:          noLocal,
		subscriptionName: subscriptionName,
		durable:          durable,
		stream:           stream,
		state:            StateCreated,
		logger:           s.logger,
	}
	s.consumers[c] = struct{}{}
	telemetry.ConsumersOpen.Inc()

	return c
}

// releaseSharedLocked drops one reference from a shared slot. Callers hold
// s.mu.
func (s *Session) releaseSharedLocked(
	name string,
) {
	if entry, ok := s.shared[name]; ok {
		entry.refs--
		if entry.refs <= 0 {
			delete(s.shared, name)
		}
	}
}

// compileSelector compiles a selector expression, mapping an empty string
// to no filter and a malformed expression to ErrInvalidSelector.
func compileSelector(
	text string,
) (*selector.Selector, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	sel, err := selector.Compile(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}

	return sel, nil
}

// queueGroupFor derives the queue group binding a queue destination's
// competing consumers. Temporary queue subjects contain dots, which queue
// group names may not.
func queueGroupFor(
	dest *Destination,
) string {
	if dest.kind == KindQueue {
		return dest.name
	}

	return strings.ReplaceAll(dest.subject, ".", "_")
}

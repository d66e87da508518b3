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

// Package session implements a messaging session model over a NATS
// connection: destinations, producers, consumers, and durable/shared
// subscriptions in front of the broker that owns delivery.
//
// A Session serializes its own operations with an internal mutex, so a
// single Session may be shared across goroutines, but throughput-sensitive
// callers should derive one Session per goroutine from the same connection.
// Handles created by a Session (destinations, producers, consumers,
// messages) are valid only when used with that Session.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/msgport-io/msgport/internal/telemetry"
	"github.com/msgport-io/msgport/pkg/message"
)

// stagedAck is a delivered-but-unacknowledged message held by a
// transacted session until Commit or Rollback.
type stagedAck struct {
	subscription string
	msg          *nats.Msg
}

// transaction is the local staging area of a SessionTransacted session.
// There is no coordinator: Commit publishes staged sends and acknowledges
// staged deliveries, Rollback discards sends and redelivers.
type transaction struct {
	sends []*nats.Msg
	acks  []stagedAck
}

// sharedEntry tracks a session-local shared subscription slot.
type sharedEntry struct {
	selectorText string
	refs         int
}

// Session owns destination, message, producer, and consumer creation over
// one established broker connection. The connection is an external
// collaborator: the Session uses it and never closes it.
type Session struct {
	logger *slog.Logger
	conn   Conn
	js     nats.JetStreamContext
	cfg    Config

	id      string
	connTag string

	mu        sync.Mutex
	closed    bool
	consumers map[*Consumer]struct{}
	producers map[*Producer]struct{}
	temps     []*Destination
	// durableStreams maps durable subscription names created through this
	// session to their backing stream.
	durableStreams map[string]string
	shared         map[string]*sharedEntry
	tx             *transaction
}

// New establishes a session over an existing connection. It either returns
// a fully usable Session whose acknowledgement mode equals the supplied
// configuration, or fails with ErrConnection; it never returns a partially
// initialized Session.
func New(
	logger *slog.Logger,
	conn Conn,
	cfg *Config,
) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if conn == nil {
		return nil, fmt.Errorf("%w: nil connection", ErrConnection)
	}
	if conn.IsClosed() {
		return nil, fmt.Errorf("%w: connection is closed", ErrConnection)
	}

	resolved := cfg.withDefaults()
	if resolved.AckMode < AutoAcknowledge || resolved.AckMode > DupsOkAcknowledge {
		return nil, fmt.Errorf("%w: unknown ack mode %d", ErrConnection, int(resolved.AckMode))
	}
	if err := ValidateDestinationName(resolved.SubjectPrefix); err != nil {
		return nil, fmt.Errorf("%w: subject prefix: %v", ErrConnection, err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("%w: jetstream context: %v", ErrConnection, err)
	}

	id := uuid.New().String()
	connTag := resolved.ConnectionTag
	if connTag == "" {
		// Derive the tag from the connection, not the session, so
		// noLocal filters sends from sibling sessions sharing the
		// connection without callers coordinating a tag.
		connTag = fmt.Sprintf("conn-%p", conn)
	}

	s := &Session{
		logger:         logger,
		conn:           conn,
		js:             js,
		cfg:            resolved,
		id:             id,
		connTag:        connTag,
		consumers:      map[*Consumer]struct{}{},
		producers:      map[*Producer]struct{}{},
		durableStreams: map[string]string{},
		shared:         map[string]*sharedEntry{},
	}
	if resolved.AckMode == SessionTransacted {
		s.tx = &transaction{}
	}
	telemetry.SessionsOpen.Inc()

	s.logger.Debug("session.open",
		slog.String("session_id", s.id),
		slog.String("ack_mode", resolved.AckMode.String()),
	)

	return s, nil
}

// AckMode returns the acknowledgement mode fixed at construction.
func (s *Session) AckMode() AckMode { return s.cfg.AckMode }

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreateQueue resolves a permanent point-to-point destination by name.
// Queues need no server-side registration, so repeated calls with the same
// name are idempotent.
func (s *Session) CreateQueue(
	name string,
) (*Destination, error) {
	return s.createNamed(KindQueue, name)
}

// CreateTopic resolves a permanent publish/subscribe destination by name.
func (s *Session) CreateTopic(
	name string,
) (*Destination, error) {
	return s.createNamed(KindTopic, name)
}

func (s *Session) createNamed(
	kind DestinationKind,
	name string,
) (*Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: session", ErrClosed)
	}
	if err := ValidateDestinationName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestination, err)
	}

	subject := BuildQueueSubject(s.cfg.SubjectPrefix, name)
	if kind == KindTopic {
		subject = BuildTopicSubject(s.cfg.SubjectPrefix, name)
	}

	return &Destination{
		kind:      kind,
		name:      name,
		subject:   subject,
		sessionID: s.id,
	}, nil
}

// CreateTemporaryQueue allocates a queue that exists only for this
// session's lifetime. It is deleted when the session closes, or earlier
// through Destination.Delete.
func (s *Session) CreateTemporaryQueue() (*Destination, error) {
	return s.createTemporary(KindTemporaryQueue)
}

// CreateTemporaryTopic allocates a topic that exists only for this
// session's lifetime.
func (s *Session) CreateTemporaryTopic() (*Destination, error) {
	return s.createTemporary(KindTemporaryTopic)
}

func (s *Session) createTemporary(
	kind DestinationKind,
) (*Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: session", ErrClosed)
	}

	uid := strings.ReplaceAll(uuid.New().String(), "-", "")

	subject := BuildTemporaryQueueSubject(s.cfg.SubjectPrefix, uid)
	if kind == KindTemporaryTopic {
		subject = BuildTemporaryTopicSubject(s.cfg.SubjectPrefix, uid)
	}

	d := &Destination{
		kind:      kind,
		name:      subject,
		subject:   subject,
		sessionID: s.id,
	}
	s.temps = append(s.temps, d)

	s.logger.Debug("destination.temporary",
		slog.String("session_id", s.id),
		slog.String("subject", subject),
	)

	return d, nil
}

// CreateProducer allocates a producer. A nil destination creates a
// destination-less producer whose sends must each name a destination.
func (s *Session) CreateProducer(
	dest *Destination,
) (*Producer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: session", ErrClosed)
	}
	if dest != nil {
		if err := s.checkOwnedLocked(dest); err != nil {
			return nil, err
		}
	}

	p := &Producer{
		session: s,
		dest:    dest,
		logger:  s.logger,
	}
	s.producers[p] = struct{}{}

	return p, nil
}

// CreateMessage allocates an empty generic message.
func (s *Session) CreateMessage() (*message.Message, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	return message.New(), nil
}

// CreateTextMessage allocates a text message with the given payload.
func (s *Session) CreateTextMessage(
	text string,
) (*message.Message, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	return message.NewText(text), nil
}

// CreateBytesMessage allocates a bytes message with the given payload.
func (s *Session) CreateBytesMessage(
	data []byte,
) (*message.Message, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	return message.NewBytes(data), nil
}

// CreateMapMessage allocates an empty map message.
func (s *Session) CreateMapMessage() (*message.Message, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	return message.NewMap(), nil
}

// CreateStreamMessage allocates an empty stream message.
func (s *Session) CreateStreamMessage() (*message.Message, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	return message.NewStream(), nil
}

// Commit publishes staged sends and acknowledges staged deliveries. It is
// valid only on SessionTransacted sessions. Sends are flushed in order; on
// a publish failure the remaining staged work is preserved so the caller
// may retry Commit or Rollback.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: session", ErrClosed)
	}
	if s.tx == nil {
		return ErrNotTransacted
	}

	for len(s.tx.sends) > 0 {
		if err := s.conn.PublishMsg(s.tx.sends[0]); err != nil {
			return fmt.Errorf("%w: commit publish: %v", ErrTransport, err)
		}
		s.tx.sends = s.tx.sends[1:]
	}

	for _, staged := range s.tx.acks {
		if err := staged.msg.Ack(); err != nil {
			s.logger.Warn("commit.ack",
				slog.String("session_id", s.id),
				slog.String("error", err.Error()),
			)
		}
	}
	s.tx.acks = nil

	s.logger.Debug("session.commit", slog.String("session_id", s.id))

	return nil
}

// Rollback discards staged sends and releases staged deliveries back to
// the broker for redelivery.
func (s *Session) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: session", ErrClosed)
	}
	if s.tx == nil {
		return ErrNotTransacted
	}

	s.tx.sends = nil
	for _, staged := range s.tx.acks {
		if err := staged.msg.Nak(); err != nil {
			s.logger.Warn("rollback.nak",
				slog.String("session_id", s.id),
				slog.String("error", err.Error()),
			)
		}
	}
	s.tx.acks = nil

	s.logger.Debug("session.rollback", slog.String("session_id", s.id))

	return nil
}

// Close closes every consumer and producer created by this session,
// deletes its temporary destinations, and releases the session. Staged
// transacted work is discarded without acknowledgement. The underlying
// connection stays open. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true

	consumers := make([]*Consumer, 0, len(s.consumers))
	for c := range s.consumers {
		consumers = append(consumers, c)
	}
	producers := make([]*Producer, 0, len(s.producers))
	for p := range s.producers {
		producers = append(producers, p)
	}
	temps := s.temps
	s.temps = nil
	s.tx = nil
	s.mu.Unlock()

	for _, c := range consumers {
		if err := c.Close(); err != nil {
			s.logger.Warn("session.close.consumer",
				slog.String("session_id", s.id),
				slog.String("error", err.Error()),
			)
		}
	}
	for _, p := range producers {
		_ = p.Close()
	}
	for _, d := range temps {
		// Already-deleted temporaries are fine here.
		_ = d.Delete()
	}
	telemetry.SessionsOpen.Dec()

	s.logger.Debug("session.close", slog.String("session_id", s.id))

	return nil
}

// checkOpen returns ErrClosed once the session is closed.
func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: session", ErrClosed)
	}

	return nil
}

// checkOwnedLocked verifies a destination handle was created by this
// session. Callers hold s.mu.
func (s *Session) checkOwnedLocked(
	d *Destination,
) error {
	if d == nil {
		return fmt.Errorf("%w: nil destination", ErrDestination)
	}
	if d.sessionID != s.id {
		return fmt.Errorf("%w: destination created by another session", ErrDestination)
	}

	return nil
}

// publish sends an encoded message, staging it when the session is
// transacted.
func (s *Session) publish(
	m *nats.Msg,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: session", ErrClosed)
	}

	if s.tx != nil {
		s.tx.sends = append(s.tx.sends, m)
		return nil
	}

	if err := s.conn.PublishMsg(m); err != nil {
		return fmt.Errorf("%w: publish: %v", ErrTransport, err)
	}

	return nil
}

// stageAck records a delivered-but-unacknowledged message under a
// transacted session.
func (s *Session) stageAck(
	subscription string,
	m *nats.Msg,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return
	}
	s.tx.acks = append(s.tx.acks, stagedAck{subscription: subscription, msg: m})
}

// removeProducer drops a producer from the session registry.
func (s *Session) removeProducer(
	p *Producer,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.producers, p)
}

// removeConsumer drops a consumer from the session registry and releases
// its shared-subscription slot, if any.
func (s *Session) removeConsumer(
	c *Consumer,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.consumers, c)

	if c.subscriptionName != "" && !c.durable {
		s.releaseSharedLocked(c.subscriptionName)
	}
}

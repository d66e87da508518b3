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

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/suite"

	"github.com/msgport-io/msgport/pkg/session"
)

type SubscriptionPublicTestSuite struct {
	suite.Suite

	nc   *nats.Conn
	sess *session.Session
}

func (s *SubscriptionPublicTestSuite) SetupTest() {
	srv := startBroker(s.T())
	s.nc = connect(s.T(), srv)

	sess, err := session.New(nil, s.nc, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = sess.Close() })

	s.sess = sess
}

func (s *SubscriptionPublicTestSuite) flush() {
	s.Require().NoError(s.nc.Flush())
}

func (s *SubscriptionPublicTestSuite) sendText(
	producer *session.Producer,
	text string,
) {
	out, err := s.sess.CreateTextMessage(text)
	s.Require().NoError(err)
	s.Require().NoError(producer.Send(context.Background(), out))
}

func (s *SubscriptionPublicTestSuite) TestDurableSurvivesConsumerClose() {
	topic, err := s.sess.CreateTopic("audit")
	s.Require().NoError(err)

	consumer, err := s.sess.CreateDurableSubscriber(topic, "auditor", "", false)
	s.Require().NoError(err)
	s.Equal("auditor", consumer.SubscriptionName())
	s.flush()

	producer, err := s.sess.CreateProducer(topic)
	s.Require().NoError(err)

	s.sendText(producer, "first")

	got, err := consumer.ReceiveTimeout(receiveWait)
	s.Require().NoError(err)
	text, err := got.Text()
	s.Require().NoError(err)
	s.Equal("first", text)

	s.Require().NoError(consumer.Close())

	// Published while no consumer is attached; the durable subscription
	// retains it.
	s.sendText(producer, "missed")

	reattached, err := s.sess.CreateDurableSubscriber(topic, "auditor", "", false)
	s.Require().NoError(err)
	s.flush()

	got, err = reattached.ReceiveTimeout(receiveWait)
	s.Require().NoError(err)
	text, err = got.Text()
	s.Require().NoError(err)
	s.Equal("missed", text)

	s.Require().NoError(reattached.Close())
	s.Require().NoError(s.sess.Unsubscribe("auditor"))
}

func (s *SubscriptionPublicTestSuite) TestDurableAttachConflicts() {
	topic, err := s.sess.CreateTopic("audit")
	s.Require().NoError(err)

	consumer, err := s.sess.CreateDurableSubscriber(topic, "auditor", "region = 'eu'", false)
	s.Require().NoError(err)
	s.Require().NoError(consumer.Close())

	tests := []struct {
		name   string
		attach func() (*session.Consumer, error)
	}{
		{
			name: "when the selector differs",
			attach: func() (*session.Consumer, error) {
				return s.sess.CreateDurableSubscriber(topic, "auditor", "region = 'us'", false)
			},
		},
		{
			name: "when the sharing mode differs",
			attach: func() (*session.Consumer, error) {
				return s.sess.CreateSharedDurableConsumer(topic, "auditor", "region = 'eu'")
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := tc.attach()

			s.ErrorIs(err, session.ErrSubscriptionConflict)
		})
	}

	reattached, err := s.sess.CreateDurableSubscriber(topic, "auditor", "region = 'eu'", false)
	s.Require().NoError(err, "an equal selector and mode reattaches")
	s.Require().NoError(reattached.Close())
}

func (s *SubscriptionPublicTestSuite) TestDurableRequiresPermanentTopic() {
	queue, err := s.sess.CreateQueue("orders")
	s.Require().NoError(err)

	_, err = s.sess.CreateDurableSubscriber(queue, "auditor", "", false)
	s.ErrorIs(err, session.ErrDestination)

	tmp, err := s.sess.CreateTemporaryTopic()
	s.Require().NoError(err)

	_, err = s.sess.CreateDurableSubscriber(tmp, "auditor", "", false)
	s.ErrorIs(err, session.ErrDestination)
}

func (s *SubscriptionPublicTestSuite) TestSharedDurableSplitsDeliveries() {
	topic, err := s.sess.CreateTopic("work")
	s.Require().NoError(err)

	first, err := s.sess.CreateSharedDurableConsumer(topic, "workers", "")
	s.Require().NoError(err)
	second, err := s.sess.CreateSharedDurableConsumer(topic, "workers", "")
	s.Require().NoError(err)
	s.flush()

	producer, err := s.sess.CreateProducer(topic)
	s.Require().NoError(err)

	want := []string{"a", "b", "c", "d"}
	for _, text := range want {
		s.sendText(producer, text)
	}

	got := map[string]bool{}
	deadline := time.Now().Add(receiveWait)
	for len(got) < len(want) && time.Now().Before(deadline) {
		for _, consumer := range []*session.Consumer{first, second} {
			m, err := consumer.ReceiveTimeout(200 * time.Millisecond)
			if err != nil {
				continue
			}

			text, textErr := m.Text()
			s.Require().NoError(textErr)
			got[text] = true
		}
	}

	s.Len(got, len(want), "every message is delivered exactly once across the group")

	s.Require().NoError(first.Close())
	s.Require().NoError(second.Close())
	s.Require().NoError(s.sess.Unsubscribe("workers"))
}

func (s *SubscriptionPublicTestSuite) TestSharedConsumerConflict() {
	topic, err := s.sess.CreateTopic("work")
	s.Require().NoError(err)

	first, err := s.sess.CreateSharedConsumer(topic, "workers", "region = 'eu'")
	s.Require().NoError(err)
	defer func() { _ = first.Close() }()

	_, err = s.sess.CreateSharedConsumer(topic, "workers", "region = 'us'")
	s.ErrorIs(err, session.ErrSubscriptionConflict)

	second, err := s.sess.CreateSharedConsumer(topic, "workers", "region = 'eu'")
	s.Require().NoError(err, "an equal selector joins the shared subscription")
	s.Require().NoError(second.Close())
}

func (s *SubscriptionPublicTestSuite) TestSharedConsumerRequiresTopic() {
	queue, err := s.sess.CreateQueue("orders")
	s.Require().NoError(err)

	_, err = s.sess.CreateSharedConsumer(queue, "workers", "")
	s.ErrorIs(err, session.ErrDestination)
}

func (s *SubscriptionPublicTestSuite) TestUnsubscribe() {
	topic, err := s.sess.CreateTopic("audit")
	s.Require().NoError(err)

	consumer, err := s.sess.CreateDurableSubscriber(topic, "auditor", "", false)
	s.Require().NoError(err)

	s.ErrorIs(s.sess.Unsubscribe("auditor"), session.ErrSubscriptionInUse,
		"open consumers block unsubscribe")

	s.Require().NoError(consumer.Close())
	s.Require().NoError(s.sess.Unsubscribe("auditor"))

	s.ErrorIs(s.sess.Unsubscribe("auditor"), session.ErrDestination,
		"the durable state is gone")
	s.ErrorIs(s.sess.Unsubscribe("never-existed"), session.ErrDestination)
}

func (s *SubscriptionPublicTestSuite) TestUnsubscribeFromAnotherSession() {
	topic, err := s.sess.CreateTopic("audit")
	s.Require().NoError(err)

	consumer, err := s.sess.CreateDurableSubscriber(topic, "auditor", "", false)
	s.Require().NoError(err)
	s.Require().NoError(consumer.Close())

	other, err := session.New(nil, s.nc, nil)
	s.Require().NoError(err)
	defer func() { _ = other.Close() }()

	s.Require().NoError(other.Unsubscribe("auditor"),
		"durable subscriptions are provider state, not session state")
}

func (s *SubscriptionPublicTestSuite) TestTransactedDurableAcknowledgement() {
	sess, err := session.New(nil, s.nc, &session.Config{AckMode: session.SessionTransacted})
	s.Require().NoError(err)
	defer func() { _ = sess.Close() }()

	topic, err := sess.CreateTopic("audit")
	s.Require().NoError(err)

	consumer, err := sess.CreateDurableSubscriber(topic, "auditor", "", false)
	s.Require().NoError(err)
	s.Require().NoError(s.nc.Flush())

	producer, err := sess.CreateProducer(topic)
	s.Require().NoError(err)

	out, err := sess.CreateTextMessage("entry")
	s.Require().NoError(err)
	s.Require().NoError(producer.Send(context.Background(), out))
	s.Require().NoError(sess.Commit())

	got, err := consumer.ReceiveTimeout(receiveWait)
	s.Require().NoError(err)
	s.False(got.Redelivered())

	s.ErrorIs(sess.Unsubscribe("auditor"), session.ErrSubscriptionInUse,
		"an uncommitted delivery pins the subscription")

	// Rollback releases the delivery for redelivery.
	s.Require().NoError(sess.Rollback())

	redelivered, err := consumer.ReceiveTimeout(receiveWait)
	s.Require().NoError(err)
	s.True(redelivered.Redelivered())

	text, err := redelivered.Text()
	s.Require().NoError(err)
	s.Equal("entry", text)

	s.Require().NoError(sess.Commit())
	s.Require().NoError(consumer.Close())
	s.Require().NoError(sess.Unsubscribe("auditor"))
}

func TestSubscriptionPublicTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionPublicTestSuite))
}

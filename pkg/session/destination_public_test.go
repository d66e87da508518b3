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

	"github.com/stretchr/testify/suite"

	"github.com/msgport-io/msgport/pkg/session"
)

type DestinationPublicTestSuite struct {
	suite.Suite

	sess *session.Session
}

func (s *DestinationPublicTestSuite) SetupTest() {
	srv := startBroker(s.T())
	nc := connect(s.T(), srv)

	sess, err := session.New(nil, nc, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = sess.Close() })

	s.sess = sess
}

func (s *DestinationPublicTestSuite) TestKindString() {
	tests := []struct {
		name string
		kind session.DestinationKind
		want string
	}{
		{name: "when kind is queue", kind: session.KindQueue, want: "queue"},
		{name: "when kind is topic", kind: session.KindTopic, want: "topic"},
		{name: "when kind is temporary queue", kind: session.KindTemporaryQueue, want: "temporary-queue"},
		{name: "when kind is temporary topic", kind: session.KindTemporaryTopic, want: "temporary-topic"},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Equal(tc.want, tc.kind.String())
		})
	}
}

func (s *DestinationPublicTestSuite) TestNamedDestinations() {
	queue, err := s.sess.CreateQueue("orders")
	s.Require().NoError(err)

	name, err := queue.Name()
	s.Require().NoError(err)
	s.Equal("orders", name)
	s.False(queue.IsTemporary())

	s.ErrorIs(queue.Delete(), session.ErrDestination,
		"permanent destinations cannot be deleted")
}

func (s *DestinationPublicTestSuite) TestTemporaryLifecycle() {
	tmp, err := s.sess.CreateTemporaryQueue()
	s.Require().NoError(err)
	s.True(tmp.IsTemporary())

	name, err := tmp.Name()
	s.Require().NoError(err)
	s.NotEmpty(name)

	s.Require().NoError(tmp.Delete())

	_, err = tmp.Name()
	s.ErrorIs(err, session.ErrNameResolution)

	s.ErrorIs(tmp.Delete(), session.ErrAlreadyDeleted)
}

func (s *DestinationPublicTestSuite) TestDeletedHandleRejectedBySend() {
	tmp, err := s.sess.CreateTemporaryQueue()
	s.Require().NoError(err)

	producer, err := s.sess.CreateProducer(tmp)
	s.Require().NoError(err)

	s.Require().NoError(tmp.Delete())

	msg, err := s.sess.CreateTextMessage("late")
	s.Require().NoError(err)

	s.Error(producer.Send(context.Background(), msg))
}

func (s *DestinationPublicTestSuite) TestDeletedHandleRejectedByConsumer() {
	tmp, err := s.sess.CreateTemporaryTopic()
	s.Require().NoError(err)

	s.Require().NoError(tmp.Delete())

	_, err = s.sess.CreateConsumer(tmp, "", false)
	s.ErrorIs(err, session.ErrDestination)
}

func TestDestinationPublicTestSuite(t *testing.T) {
	suite.Run(t, new(DestinationPublicTestSuite))
}

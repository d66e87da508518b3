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
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/msgport-io/msgport/pkg/session"
)

type SubjectsPublicTestSuite struct {
	suite.Suite
}

func (s *SubjectsPublicTestSuite) TestValidateDestinationName() {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{
			name:  "when name is alphanumeric",
			input: "orders",
		},
		{
			name:  "when name contains dashes and underscores",
			input: "orders_eu-west1",
		},
		{
			name:        "when name is empty",
			input:       "",
			expectError: true,
		},
		{
			name:        "when name starts with punctuation",
			input:       "-orders",
			expectError: true,
		},
		{
			name:        "when name contains a subject separator",
			input:       "orders.eu",
			expectError: true,
		},
		{
			name:        "when name contains a wildcard",
			input:       "orders*",
			expectError: true,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			err := session.ValidateDestinationName(tc.input)

			if tc.expectError {
				s.Error(err)
			} else {
				s.NoError(err)
			}
		})
	}
}

func (s *SubjectsPublicTestSuite) TestBuildSubjects() {
	s.Equal("mq.q.orders", session.BuildQueueSubject("mq", "orders"))
	s.Equal("mq.t.prices", session.BuildTopicSubject("mq", "prices"))
	s.Equal("mq.tmp.q.abc123", session.BuildTemporaryQueueSubject("mq", "abc123"))
	s.Equal("mq.tmp.t.abc123", session.BuildTemporaryTopicSubject("mq", "abc123"))
}

func (s *SubjectsPublicTestSuite) TestBuildTopicStreamName() {
	tests := []struct {
		name   string
		prefix string
		topic  string
		want   string
	}{
		{
			name:   "when topic is plain",
			prefix: "mq",
			topic:  "prices",
			want:   "MQ_T_PRICES",
		},
		{
			name:   "when topic contains dashes",
			prefix: "mq",
			topic:  "prices-eu",
			want:   "MQ_T_PRICES-EU",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Equal(tc.want, session.BuildTopicStreamName(tc.prefix, tc.topic))
		})
	}
}

func TestSubjectsPublicTestSuite(t *testing.T) {
	suite.Run(t, new(SubjectsPublicTestSuite))
}

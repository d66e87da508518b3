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

type ConfigPublicTestSuite struct {
	suite.Suite
}

func (s *ConfigPublicTestSuite) TestParseAckMode() {
	tests := []struct {
		name        string
		tag         string
		want        session.AckMode
		expectError bool
	}{
		{
			name: "when tag is empty defaults to auto",
			tag:  "",
			want: session.AutoAcknowledge,
		},
		{
			name: "when tag is auto",
			tag:  "auto",
			want: session.AutoAcknowledge,
		},
		{
			name: "when tag is client",
			tag:  "client",
			want: session.ClientAcknowledge,
		},
		{
			name: "when tag is transacted",
			tag:  "transacted",
			want: session.SessionTransacted,
		},
		{
			name: "when tag is dups_ok",
			tag:  "dups_ok",
			want: session.DupsOkAcknowledge,
		},
		{
			name:        "when tag is unknown",
			tag:         "bogus",
			expectError: true,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			got, err := session.ParseAckMode(tc.tag)

			if tc.expectError {
				s.Error(err)
			} else {
				s.NoError(err)
				s.Equal(tc.want, got)
			}
		})
	}
}

func (s *ConfigPublicTestSuite) TestAckModeString() {
	s.Equal("auto", session.AutoAcknowledge.String())
	s.Equal("client", session.ClientAcknowledge.String())
	s.Equal("transacted", session.SessionTransacted.String())
	s.Equal("dups_ok", session.DupsOkAcknowledge.String())
}

func TestConfigPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigPublicTestSuite))
}

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

package cmd

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/msgport-io/msgport/pkg/message"
)

type ReceiveTestSuite struct {
	suite.Suite
}

func (s *ReceiveTestSuite) TestMessageRow() {
	msg := message.NewText("hello")
	msg.SetProperty("region", "eu")
	msg.SetProperty("total", 250)

	row := messageRow(msg)

	s.Len(row, 6)
	s.Equal("text", row[1])
	s.Equal("5 B", row[3])
	s.Equal("hello", row[4])
	s.Equal("region=eu, total=250", row[5])
}

func (s *ReceiveTestSuite) TestMessageRowWithoutProperties() {
	msg := message.NewBytes([]byte{0x01, 0x02, 0x03})

	row := messageRow(msg)

	s.Equal("bytes", row[1])
	s.Equal("3 B", row[3])
	s.Equal("(3 B binary)", row[4])
	s.Equal("None", row[5])
}

func TestReceiveTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiveTestSuite))
}

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

package cli_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/msgport-io/msgport/internal/cli"
)

type UIPublicTestSuite struct {
	suite.Suite
}

func (s *UIPublicTestSuite) TestFormatAge() {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "when duration is zero", d: 0, want: ""},
		{name: "when duration is negative", d: -time.Minute, want: ""},
		{name: "when duration is seconds", d: 30 * time.Second, want: "30s"},
		{name: "when duration is minutes", d: 45 * time.Minute, want: "45m"},
		{name: "when duration is hours", d: 12*time.Hour + 30*time.Minute, want: "12h 30m"},
		{name: "when duration is days", d: 76 * time.Hour, want: "3d 4h"},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Equal(tc.want, cli.FormatAge(tc.d))
		})
	}
}

func (s *UIPublicTestSuite) TestFormatBytes() {
	tests := []struct {
		name string
		b    int
		want string
	}{
		{name: "when size is bytes", b: 512, want: "512 B"},
		{name: "when size is kilobytes", b: 5325, want: "5.2 KB"},
		{name: "when size is megabytes", b: 1048576, want: "1.0 MB"},
		{name: "when size is gigabytes", b: 1610612736, want: "1.5 GB"},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Equal(tc.want, cli.FormatBytes(tc.b))
		})
	}
}

func (s *UIPublicTestSuite) TestFormatList() {
	tests := []struct {
		name string
		list []string
		want string
	}{
		{name: "when the list is empty", list: nil, want: "None"},
		{name: "when the list has one entry", list: []string{"a"}, want: "a"},
		{name: "when the list has entries", list: []string{"a", "b"}, want: "a, b"},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Equal(tc.want, cli.FormatList(tc.list))
		})
	}
}

func TestUIPublicTestSuite(t *testing.T) {
	suite.Run(t, new(UIPublicTestSuite))
}

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
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/msgport-io/msgport/internal/cli"
)

// recordingLifecycle records Stop calls into a shared log.
type recordingLifecycle struct {
	name    string
	stopped *[]string
}

func (r *recordingLifecycle) Start() {}

func (r *recordingLifecycle) Stop(_ context.Context) {
	*r.stopped = append(*r.stopped, r.name)
}

type LifecyclePublicTestSuite struct {
	suite.Suite
}

func (s *LifecyclePublicTestSuite) TestRunServerStopsInReverseOrder() {
	var stopped []string
	broker := &recordingLifecycle{name: "broker", stopped: &stopped}
	metrics := &recordingLifecycle{name: "metrics", stopped: &stopped}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli.RunServer(ctx, broker, metrics)

	s.Equal([]string{"metrics", "broker"}, stopped)
}

func (s *LifecyclePublicTestSuite) TestRunServerWithNoServers() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli.RunServer(ctx)
}

func TestLifecyclePublicTestSuite(t *testing.T) {
	suite.Run(t, new(LifecyclePublicTestSuite))
}

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

package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/msgport-io/msgport/internal/telemetry"
)

type PropagationPublicTestSuite struct {
	suite.Suite
}

func (s *PropagationPublicTestSuite) SetupTest() {
	otel.SetTextMapPropagator(propagation.TraceContext{})
}

func (s *PropagationPublicTestSuite) spanContext() trace.SpanContext {
	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	s.Require().NoError(err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	s.Require().NoError(err)

	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func (s *PropagationPublicTestSuite) TestRoundTrip() {
	ctx := trace.ContextWithSpanContext(context.Background(), s.spanContext())
	properties := map[string]any{"region": "eu"}

	telemetry.InjectTraceContext(ctx, properties)

	s.Contains(properties, "traceparent")
	s.Equal("eu", properties["region"], "application properties are untouched")

	got := trace.SpanContextFromContext(
		telemetry.ExtractTraceContext(context.Background(), properties),
	)

	s.Equal(s.spanContext().TraceID(), got.TraceID())
	s.Equal(s.spanContext().SpanID(), got.SpanID())
}

func (s *PropagationPublicTestSuite) TestExtractWithoutContext() {
	got := trace.SpanContextFromContext(
		telemetry.ExtractTraceContext(context.Background(), map[string]any{}),
	)

	s.False(got.IsValid())
}

func (s *PropagationPublicTestSuite) TestInjectWithoutSpan() {
	properties := map[string]any{}

	telemetry.InjectTraceContext(context.Background(), properties)

	s.Empty(properties)
}

func TestPropagationPublicTestSuite(t *testing.T) {
	suite.Run(t, new(PropagationPublicTestSuite))
}

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

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Compile-time check that propertyCarrier satisfies TextMapCarrier.
var _ propagation.TextMapCarrier = propertyCarrier{}

// propertyCarrier carries trace context inside a message's application
// properties, so a span started at the producer continues at the consumer.
type propertyCarrier struct {
	properties map[string]any
}

// Get returns the value for the key.
func (c propertyCarrier) Get(
	key string,
) string {
	v, ok := c.properties[key].(string)
	if !ok {
		return ""
	}

	return v
}

// Set stores a key-value pair.
func (c propertyCarrier) Set(
	key string,
	value string,
) {
	c.properties[key] = value
}

// Keys returns all keys in the carrier.
func (c propertyCarrier) Keys() []string {
	keys := make([]string, 0, len(c.properties))
	for k := range c.properties {
		keys = append(keys, k)
	}

	return keys
}

// InjectTraceContext injects the current span's trace context into message
// properties. No-op without an active span.
func InjectTraceContext(
	ctx context.Context,
	properties map[string]any,
) {
	otel.GetTextMapPropagator().Inject(ctx, propertyCarrier{properties: properties})
}

// ExtractTraceContext returns a context carrying the trace context found
// in message properties, or the original context when none is present.
func ExtractTraceContext(
	ctx context.Context,
	properties map[string]any,
) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propertyCarrier{properties: properties})
}

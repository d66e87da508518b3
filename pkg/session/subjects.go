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

package session

import (
	"fmt"
	"regexp"
	"strings"
)

// Subject hierarchy: {prefix}.q.{name} for queues, {prefix}.t.{name} for
// topics, {prefix}.tmp.{q|t}.{uid} for temporaries. Durable subscriptions
// on a topic are backed by a stream capturing the topic's subject.
const (
	// DefaultSubjectPrefix namespaces all destination subjects.
	DefaultSubjectPrefix = "mq"

	queueToken     = "q"
	topicToken     = "t"
	temporaryToken = "tmp"
)

// destinationNamePattern restricts destination and subscription names to
// characters valid in a single NATS subject token.
var destinationNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// streamNameSanitizer rewrites characters JetStream rejects in stream names.
var streamNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// ValidateDestinationName checks that a destination or subscription name
// can be embedded in the subject hierarchy.
func ValidateDestinationName(
	name string,
) error {
	if !destinationNamePattern.MatchString(name) {
		return fmt.Errorf("name %q must match %s", name, destinationNamePattern)
	}

	return nil
}

// BuildQueueSubject creates the subject for a named queue.
// Example: mq.q.orders
func BuildQueueSubject(
	prefix string,
	name string,
) string {
	return fmt.Sprintf("%s.%s.%s", prefix, queueToken, name)
}

// BuildTopicSubject creates the subject for a named topic.
// Example: mq.t.prices
func BuildTopicSubject(
	prefix string,
	name string,
) string {
	return fmt.Sprintf("%s.%s.%s", prefix, topicToken, name)
}

// BuildTemporaryQueueSubject creates the subject for a session-scoped queue.
// Example: mq.tmp.q.4f9b1c...
func BuildTemporaryQueueSubject(
	prefix string,
	uid string,
) string {
	return fmt.Sprintf("%s.%s.%s.%s", prefix, temporaryToken, queueToken, uid)
}

// BuildTemporaryTopicSubject creates the subject for a session-scoped topic.
// Example: mq.tmp.t.4f9b1c...
func BuildTemporaryTopicSubject(
	prefix string,
	uid string,
) string {
	return fmt.Sprintf("%s.%s.%s.%s", prefix, temporaryToken, topicToken, uid)
}

// BuildTopicStreamName creates the JetStream stream name backing durable
// subscriptions on a topic.
// Example: MQ_T_PRICES
func BuildTopicStreamName(
	prefix string,
	name string,
) string {
	sanitized := streamNameSanitizer.ReplaceAllString(name, "_")

	return strings.ToUpper(fmt.Sprintf("%s_%s_%s", prefix, topicToken, sanitized))
}

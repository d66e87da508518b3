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
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/msgport-io/msgport/internal/cli"
	"github.com/msgport-io/msgport/pkg/session"
)

// openSession connects to the configured broker and establishes a session
// over the connection. The caller owns both and closes the session before
// the connection.
func openSession(
	log *slog.Logger,
) (*nats.Conn, *session.Session) {
	nc, err := cli.Connect(appConfig.Broker)
	if err != nil {
		cli.LogFatal(log, "failed to connect to broker", err,
			"url", cli.BrokerURL(appConfig.Broker))
	}

	cfg, err := cli.BuildSessionConfig(appConfig.Session)
	if err != nil {
		cli.LogFatal(log, "invalid session config", err)
	}

	sess, err := session.New(log, nc, cfg)
	if err != nil {
		cli.LogFatal(log, "failed to open session", err)
	}

	return nc, sess
}

// resolveDestination resolves the queue or topic named by the command
// flags. Exactly one of queueName and topicName may be set.
func resolveDestination(
	sess *session.Session,
	queueName string,
	topicName string,
) (*session.Destination, error) {
	switch {
	case queueName != "" && topicName != "":
		return nil, fmt.Errorf("only one of --queue and --topic may be set")
	case queueName != "":
		return sess.CreateQueue(queueName)
	case topicName != "":
		return sess.CreateTopic(topicName)
	default:
		return nil, fmt.Errorf("one of --queue or --topic is required")
	}
}

// parseProperties converts repeated key=value flags to a property map.
// Values parse as booleans or numbers when they look like one, so selector
// comparisons work without quoting games.
func parseProperties(
	pairs []string,
) (map[string]any, error) {
	props := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed property %q, want key=value", pair)
		}
		props[key] = coerceValue(value)
	}

	return props, nil
}

func coerceValue(
	value string,
) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}

	var n float64
	if _, err := fmt.Sscanf(value, "%g", &n); err == nil &&
		fmt.Sprintf("%g", n) == value {
		return n
	}

	return value
}

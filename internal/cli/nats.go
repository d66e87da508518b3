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

// Package cli provides shared utilities for CLI startup commands.
package cli

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/msgport-io/msgport/internal/config"
	"github.com/msgport-io/msgport/pkg/session"
)

// BuildNATSOptions converts a config Broker block to NATS connect options.
func BuildNATSOptions(
	broker config.Broker,
) ([]nats.Option, error) {
	opts := []nats.Option{}

	if broker.ClientName != "" {
		opts = append(opts, nats.Name(broker.ClientName))
	}

	switch broker.Auth.Type {
	case "user_pass":
		opts = append(opts, nats.UserInfo(broker.Auth.Username, broker.Auth.Password))
	case "nkey":
		opt, err := nats.NkeyOptionFromSeed(broker.Auth.NKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load nkey seed: %w", err)
		}
		opts = append(opts, opt)
	}

	return opts, nil
}

// BrokerURL builds the client URL for a config Broker block.
func BrokerURL(
	broker config.Broker,
) string {
	return fmt.Sprintf("nats://%s:%d", broker.Host, broker.Port)
}

// Connect establishes the broker connection described by the config.
func Connect(
	broker config.Broker,
) (*nats.Conn, error) {
	opts, err := BuildNATSOptions(broker)
	if err != nil {
		return nil, err
	}

	nc, err := nats.Connect(BrokerURL(broker), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	return nc, nil
}

// BuildSessionConfig converts a config Session block to a session.Config.
func BuildSessionConfig(
	sess config.Session,
) (*session.Config, error) {
	mode, err := session.ParseAckMode(sess.AckMode)
	if err != nil {
		return nil, err
	}

	return &session.Config{
		AckMode:       mode,
		SubjectPrefix: sess.SubjectPrefix,
		ConnectionTag: sess.ConnectionTag,
	}, nil
}

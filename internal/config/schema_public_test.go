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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/msgport-io/msgport/internal/config"
)

type SchemaPublicTestSuite struct {
	suite.Suite
}

func (s *SchemaPublicTestSuite) validConfig() *config.Config {
	return &config.Config{
		Broker: config.Broker{
			Host:       "127.0.0.1",
			Port:       4222,
			ClientName: "msgport",
			Auth: config.BrokerAuth{
				Type:     "user_pass",
				Username: "service",
				Password: "secret",
			},
		},
		Session: config.Session{
			AckMode:       "client",
			SubjectPrefix: "mq",
		},
		Server: config.Server{
			Host: "0.0.0.0",
			Port: 4222,
		},
		Telemetry: config.Telemetry{
			Tracing: config.TracingConfig{
				Enabled:  true,
				Exporter: "stdout",
			},
		},
	}
}

func (s *SchemaPublicTestSuite) TestValidate() {
	tests := []struct {
		name        string
		mutate      func(cfg *config.Config)
		expectError bool
		contains    string
	}{
		{
			name:   "when the config is valid",
			mutate: func(*config.Config) {},
		},
		{
			name:   "when optional sections are zero",
			mutate: func(cfg *config.Config) { *cfg = config.Config{} },
		},
		{
			name:        "when the broker port is out of range",
			mutate:      func(cfg *config.Config) { cfg.Broker.Port = 70000 },
			expectError: true,
			contains:    "lte",
		},
		{
			name:        "when the broker auth type is unknown",
			mutate:      func(cfg *config.Config) { cfg.Broker.Auth.Type = "token" },
			expectError: true,
			contains:    "oneof",
		},
		{
			name:        "when the ack mode is unknown",
			mutate:      func(cfg *config.Config) { cfg.Session.AckMode = "bogus" },
			expectError: true,
			contains:    "ack mode",
		},
		{
			name:        "when the subject prefix is invalid",
			mutate:      func(cfg *config.Config) { cfg.Session.SubjectPrefix = ".bad" },
			expectError: true,
			contains:    "must start alphanumeric",
		},
		{
			name:        "when the trace exporter is unknown",
			mutate:      func(cfg *config.Config) { cfg.Telemetry.Tracing.Exporter = "jaeger" },
			expectError: true,
			contains:    "oneof",
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			cfg := s.validConfig()
			tc.mutate(cfg)

			err := config.Validate(cfg)

			if tc.expectError {
				s.Require().Error(err)
				s.Contains(err.Error(), tc.contains)
			} else {
				s.NoError(err)
			}
		})
	}
}

func TestSchemaPublicTestSuite(t *testing.T) {
	suite.Run(t, new(SchemaPublicTestSuite))
}

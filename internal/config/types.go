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

// Package config holds the root structure of the YAML configuration file.
package config

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	Broker    Broker    `mapstructure:"broker"`
	Session   Session   `mapstructure:"session"`
	Server    Server    `mapstructure:"server,omitempty"`
	Telemetry Telemetry `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// Broker holds client-side connection settings for the message broker.
type Broker struct {
	// Host the broker hostname.
	Host string `mapstructure:"host"`
	// Port the broker port.
	Port int `mapstructure:"port"    validate:"gte=0,lte=65535"`
	// ClientName the client name for identification.
	ClientName string `mapstructure:"client_name"`
	// Auth holds client-side authentication configuration.
	Auth BrokerAuth `mapstructure:"auth,omitempty"`
}

// BrokerAuth holds client-side authentication settings for connecting to
// the broker.
type BrokerAuth struct {
	// Type is the auth method: "none", "user_pass", or "nkey".
	Type string `mapstructure:"type"      validate:"omitempty,oneof=none user_pass nkey"`
	// Username for user_pass auth.
	Username string `mapstructure:"username"`
	// Password for user_pass auth.
	Password string `mapstructure:"password"`
	// NKeyFile path to the NKey seed file for nkey auth.
	NKeyFile string `mapstructure:"nkey_file"`
}

// Session holds the default session settings applied by the CLI.
type Session struct {
	// AckMode is the acknowledgement mode tag: "auto", "client",
	// "transacted", or "dups_ok". Defaults to "auto" when empty.
	AckMode string `mapstructure:"ack_mode"       validate:"valid_ack_mode"`
	// SubjectPrefix namespaces every destination subject.
	SubjectPrefix string `mapstructure:"subject_prefix" validate:"valid_destination_name"`
	// ConnectionTag identifies this connection for no-local filtering.
	ConnectionTag string `mapstructure:"connection_tag"`
}

// Server configuration settings for the embedded broker.
type Server struct {
	// Host the server will bind to.
	Host string `mapstructure:"host"`
	// Port the server will bind to.
	Port int `mapstructure:"port"      validate:"gte=0,lte=65535"`
	// StoreDir the directory for JetStream file storage.
	StoreDir string `mapstructure:"store_dir"`
	// Auth holds server-side authentication configuration.
	Auth ServerAuth `mapstructure:"auth,omitempty"`
}

// ServerAuth holds server-side authentication settings for the embedded
// broker.
type ServerAuth struct {
	// Type is the auth method: "none" or "user_pass".
	Type string `mapstructure:"type"  validate:"omitempty,oneof=none user_pass"`
	// Users allowed to connect (for user_pass auth).
	Users []ServerUser `mapstructure:"users"`
}

// ServerUser represents an allowed username/password pair for the embedded
// broker.
type ServerUser struct {
	// Username for the user.
	Username string `mapstructure:"username"`
	// Password for the user.
	Password string `mapstructure:"password"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Addr is the listen address for the Prometheus scrape endpoint
	// (e.g. ":9090"). Empty disables the endpoint.
	Addr string `mapstructure:"addr"`
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter; only "stdout" is supported.
	Exporter string `mapstructure:"exporter" validate:"omitempty,oneof=stdout"`
}

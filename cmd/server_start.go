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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/msgport-io/msgport/internal/cli"
	"github.com/msgport-io/msgport/internal/config"
)

// serverReadyTimeout bounds how long startup waits for the broker to
// accept connections.
const serverReadyTimeout = 10 * time.Second

// brokerLifecycle adapts the embedded broker to the Lifecycle interface.
type brokerLifecycle struct {
	server *server.Server
	logger *slog.Logger
}

func (b *brokerLifecycle) Start() {
	go b.server.Start()

	if !b.server.ReadyForConnections(serverReadyTimeout) {
		cli.LogFatal(b.logger, "broker not ready for connections", nil)
	}

	b.logger.Info("broker ready",
		slog.String("client_url", b.server.ClientURL()),
	)
}

func (b *brokerLifecycle) Stop(_ context.Context) {
	b.server.Shutdown()
	b.server.WaitForShutdown()
}

// buildServerOptions converts the config Server block to embedded broker
// options. JetStream is always enabled: durable subscriptions depend on it.
func buildServerOptions(
	cfg config.Server,
) *server.Options {
	opts := &server.Options{
		Host:      cfg.Host,
		Port:      cfg.Port,
		JetStream: true,
		StoreDir:  cfg.StoreDir,
	}

	if cfg.Auth.Type == "user_pass" {
		users := make([]*server.User, 0, len(cfg.Auth.Users))
		for _, u := range cfg.Auth.Users {
			users = append(users, &server.User{
				Username: u.Username,
				Password: u.Password,
			})
		}
		opts.Users = users
	}

	return opts
}

// metricsLifecycle adapts the Prometheus scrape endpoint to the Lifecycle
// interface.
type metricsLifecycle struct {
	srv    *http.Server
	path   string
	logger *slog.Logger
}

// newMetricsLifecycle builds the scrape endpoint when configured, or
// returns nil when disabled.
func newMetricsLifecycle(
	cfg config.MetricsConfig,
	log *slog.Logger,
) *metricsLifecycle {
	if cfg.Addr == "" {
		return nil
	}

	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	return &metricsLifecycle{
		srv:    &http.Server{Addr: cfg.Addr, Handler: mux},
		path:   path,
		logger: log,
	}
}

func (m *metricsLifecycle) Start() {
	go func() {
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("metrics endpoint failed",
				slog.String("addr", m.srv.Addr),
				slog.String("error", err.Error()),
			)
		}
	}()

	m.logger.Info("metrics endpoint listening",
		slog.String("addr", m.srv.Addr),
		slog.String("path", m.path),
	)
}

func (m *metricsLifecycle) Stop(ctx context.Context) {
	_ = m.srv.Shutdown(ctx)
}

// serverStartCmd represents the serverStart command.
var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the embedded broker",
	Long: `Start the embedded broker with JetStream enabled, which backs
durable subscriptions and transacted acknowledgement.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		log := logger.With("component", "broker")

		s, err := server.NewServer(buildServerOptions(appConfig.Server))
		if err != nil {
			cli.LogFatal(log, "failed to create broker", err)
		}

		servers := []cli.Lifecycle{&brokerLifecycle{server: s, logger: log}}
		if m := newMetricsLifecycle(appConfig.Telemetry.Metrics, log); m != nil {
			servers = append(servers, m)
		}

		for _, srv := range servers {
			srv.Start()
		}
		cli.RunServer(ctx, servers...)
	},
}

func init() {
	serverCmd.AddCommand(serverStartCmd)
}

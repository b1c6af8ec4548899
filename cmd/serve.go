// Package cmd provides the CLI commands for the engage tool.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hackdook/engage/config"
	"github.com/hackdook/engage/pkg/api"
	"github.com/hackdook/engage/pkg/db"
	"github.com/hackdook/engage/pkg/logging"
	"github.com/hackdook/engage/pkg/store"
)

// Serve command flags
var (
	serveListenAddr string
)

// ServeDeps holds the dependencies for the serve command.
type ServeDeps struct {
	LoadConfig  func() (*config.Config, error)
	ConnectToDB func(context.Context, *db.Config) (*pgxpool.Pool, error)
}

// DefaultServeDeps returns the default dependencies for production use.
func DefaultServeDeps() *ServeDeps {
	return &ServeDeps{
		LoadConfig: config.LoadConfig,
		ConnectToDB: func(ctx context.Context, cfg *db.Config) (*pgxpool.Pool, error) {
			return db.ConnectWithRetry(ctx, cfg, 5, 2*time.Second)
		},
	}
}

// NewServeCommand creates the serve command.
func NewServeCommand(deps *ServeDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultServeDeps()
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engagement HTTP API server",
		Long: `Run the engagement HTTP API server.

The server accepts engagement uploads (transcript + chat log per week),
stores per-participant tallies in PostgreSQL, and serves them back as JSON.

Endpoints:
  POST /api/v1/engagement        Upload a week's transcript and chat log
  GET  /api/v1/engagement/{week} Query tallies for a week
  GET  /api/v1/weeks             List weeks with data
  GET  /healthz                  Liveness plus database connectivity
  GET  /version                  Build info
  GET  /metrics                  Prometheus metrics

Database settings come from HD_DB_* environment variables, the config file,
and the OS keyring for the password. The schema is synced at startup.

Examples:
  # Run with defaults (listen on :8080)
  engage serve

  # Custom listen address
  engage serve --listen :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVar(&serveListenAddr, "listen", "", "Listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, deps *ServeDeps) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if serveListenAddr != "" {
		cfg.ListenAddress = serveListenAddr
	}

	logger := logging.NewLogger(&logging.Config{
		Level:       logging.Level(cfg.LogLevel),
		ServiceName: "engage",
		JSONFormat:  cfg.LogJSON,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := deps.ConnectToDB(ctx, cfg.DBConfig())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close(pool)

	if err := db.SyncSchema(ctx, pool); err != nil {
		return fmt.Errorf("syncing schema: %w", err)
	}
	logger.Info("schema synced")

	registry := prometheus.NewRegistry()
	if _, err := db.RegisterPoolStatsCollector(pool, "engage", registry); err != nil {
		logger.Warn("registering pool stats collector", logging.Err(err))
	}

	repo := store.NewRepository(pool, logger)
	server := api.NewServer(cfg, repo, func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	}, logger, registry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

// Package api implements the HTTP interface of the engage service: multipart
// engagement uploads, per-week queries, health and metrics endpoints.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hackdook/engage/config"
	"github.com/hackdook/engage/pkg/buildinfo"
	"github.com/hackdook/engage/pkg/engage"
	"github.com/hackdook/engage/pkg/logging"
	"github.com/hackdook/engage/pkg/store"
)

// Store is the persistence surface the handlers need. *store.Repository
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	CreateSession(ctx context.Context, weekNumber int, tallies map[string]engage.Tally) (*store.Session, []store.ParticipantTally, error)
	GetEngagementByWeek(ctx context.Context, weekNumber int) (*store.Session, []store.ParticipantTally, error)
	ListWeeks(ctx context.Context) ([]int, error)
}

// PingFunc reports backend connectivity for the health endpoint.
type PingFunc func(ctx context.Context) error

// Server wires the HTTP handlers to their dependencies.
type Server struct {
	cfg     *config.Config
	store   Store
	ping    PingFunc
	logger  logging.Logger
	metrics *httpMetrics
	reg     *prometheus.Registry

	httpServer *http.Server
}

// NewServer creates a Server. The registry may already hold other collectors
// (pool stats); the HTTP metrics are registered onto it here.
func NewServer(cfg *config.Config, st Store, ping PingFunc, logger logging.Logger, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		ping:    ping,
		logger:  logger.With(logging.F("component", "api")),
		metrics: newHTTPMetrics(reg),
		reg:     reg,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// routes builds the request mux with the middleware chain applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/engagement", s.handleCreateEngagement)
	mux.HandleFunc("GET /api/v1/engagement/{week}", s.handleGetEngagement)
	mux.HandleFunc("GET /api/v1/weeks", s.handleListWeeks)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /version", buildinfo.Handler("engage"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	var h http.Handler = mux
	h = s.metricsMiddleware(mux, h)
	h = s.loggingMiddleware(h)
	h = requestIDMiddleware(h)
	return h
}

// Handler exposes the full middleware-wrapped mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until it is shut down. It returns nil after a
// clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.F("address", s.cfg.ListenAddress))

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

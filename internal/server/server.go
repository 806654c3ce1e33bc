// Package server provides the HTTP control surface for the confsync
// refresh service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/confsync/confsync"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	svc       confsync.Confsync
	logger    *zerolog.Logger
	config    Config
	httpSrv   *http.Server
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(svc confsync.Confsync, logger *zerolog.Logger, cfg Config) *Server {
	s := &Server{
		svc:       svc,
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe starts serving. Blocks until the listener fails or
// Shutdown is called; a clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info().
		Str("addr", s.httpSrv.Addr).
		Str("prefix", s.config.PathPrefix).
		Msg("HTTP server listening")

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.httpSrv.Shutdown(ctx)
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}

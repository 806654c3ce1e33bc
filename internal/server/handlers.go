package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/confsync/confsync/internal/server/response"
	"github.com/confsync/confsync/pkg/errors"
)

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "confsync",
		"version": "v1",
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleStatus handles GET /api/v1/status.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, s.svc.Status())
}

// handlePreview handles GET /api/v1/preview. The optional limit query
// parameter caps how many candidates are returned; 0 means all.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid limit parameter", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	candidates, err := s.svc.Preview(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Preview failed")
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"count":      len(candidates),
		"candidates": candidates,
	})
}

// handleExport handles GET /api/v1/export.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.svc.Export(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Export failed")
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, snapshot)
}

// handleRefresh handles POST /api/v1/refresh. The cycle runs in the
// background; the request returns as soon as it is queued or started. A
// cycle already in flight yields 409.
func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if s.svc.Status().Running {
		response.ErrorFromType(w, errors.ErrAlreadyRunning)
		return
	}

	// Prefer the scheduler queue so cycles stay serialized on its loop.
	if s.svc.Trigger() {
		response.Accepted(w, map[string]string{"status": "queued"})
		return
	}

	// Scheduler is off; run a one-shot cycle detached from the request.
	go func() {
		if _, err := s.svc.RunCycle(context.Background()); err != nil && !errors.IsAlreadyRunning(err) {
			s.logger.Error().Err(err).Msg("Manual refresh cycle failed")
		}
	}()
	response.Accepted(w, map[string]string{"status": "started"})
}

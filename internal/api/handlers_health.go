// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/coachplan/internal/logging"
	"github.com/tomtom215/coachplan/internal/recommend"
)

// Pinger reports whether the backing datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies for HTTP request handlers.
type Handler struct {
	engine *recommend.Engine
	db     Pinger
}

// NewHandler creates a handler backed by the given engine and datastore.
func NewHandler(engine *recommend.Engine, db Pinger) *Handler {
	return &Handler{
		engine: engine,
		db:     db,
	}
}

// HealthLive handles GET /api/v1/health/live. It reports process
// liveness only and never touches the datastore.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. The service is ready
// once the datastore answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.db.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
		rw.ServiceUnavailable("datastore is not reachable")
		return
	}

	rw.Success(map[string]string{"status": "ready"})
}

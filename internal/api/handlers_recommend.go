// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/coachplan/internal/logging"
	"github.com/tomtom215/coachplan/internal/metrics"
	"github.com/tomtom215/coachplan/internal/recommend"
)

// recommendationsPayload is the JSON shape of a successful
// recommendations response.
type recommendationsPayload struct {
	Status          string                     `json:"status"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	TotalCandidates int                        `json:"total_candidates"`
	Metadata        recommend.ResponseMetadata `json:"metadata"`
}

// Recommendations handles GET /api/v1/recommendations/user/{userID}.
//
// Query parameters:
//   - mode: content, collaborative, or hybrid (default hybrid)
//   - limit: maximum results (default and cap from config)
//   - reasons: keep only the last N explanation phrases per plan
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	start := time.Now()

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("user ID is required")
		return
	}

	modeParam := r.URL.Query().Get("mode")
	if modeParam == "" {
		modeParam = "hybrid"
	}
	mode, err := recommend.ParseMode(modeParam)
	if err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeInvalidMode, "mode must be content, collaborative, or hybrid")
		return
	}

	limit, ok := h.parseIntParam(rw, r, "limit")
	if !ok {
		return
	}
	maxReasons, ok := h.parseIntParam(rw, r, "reasons")
	if !ok {
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		UserID:     userID,
		Mode:       mode,
		Limit:      limit,
		MaxReasons: maxReasons,
		RequestID:  logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		h.writeRecommendError(rw, r, mode, err)
		return
	}

	metrics.RecordRecommendation(mode.String(), resp.Status.String(), resp.TotalCandidates, time.Since(start))

	if resp.Status == recommend.StatusProfileNotFound {
		rw.Error(http.StatusNotFound, ErrCodeProfileNotFound, "no training profile found, please complete your profile")
		return
	}

	rw.Success(recommendationsPayload{
		Status:          resp.Status.String(),
		Recommendations: resp.Recommendations,
		TotalCandidates: resp.TotalCandidates,
		Metadata:        resp.Metadata,
	})
}

// parseIntParam parses an optional non-negative integer query
// parameter. Writes a 400 response and returns false on bad input.
func (h *Handler) parseIntParam(rw *ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		rw.BadRequest(name + " must be a non-negative integer")
		return 0, false
	}
	return v, true
}

// writeRecommendError maps engine errors to HTTP responses.
func (h *Handler) writeRecommendError(rw *ResponseWriter, r *http.Request, mode recommend.Mode, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidMode):
		metrics.RecordRecommendation(mode.String(), "invalid_mode", 0, 0)
		rw.Error(http.StatusBadRequest, ErrCodeInvalidMode, "mode must be content, collaborative, or hybrid")

	case errors.Is(err, recommend.ErrUpstreamUnavailable):
		metrics.RecordRecommendation(mode.String(), "unavailable", 0, 0)
		logging.Ctx(r.Context()).Warn().Err(err).Msg("recommendation backend unavailable")
		rw.ServiceUnavailable("recommendation data is temporarily unavailable")

	default:
		metrics.RecordRecommendation(mode.String(), "error", 0, 0)
		logging.Ctx(r.Context()).Error().Err(err).Msg("recommendation failed")
		rw.InternalError("failed to generate recommendations")
	}
}

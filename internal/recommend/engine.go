// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages to
// maintain clean separation. The store interfaces allow integration
// with the database package without creating circular imports.

// Engine coordinates the three ranking strategies and produces final
// recommendations. Each request is processed statelessly from fresh
// reads: the engine holds no locks, no caches, and no long-lived
// connections, which is intentional given profiles and catalogs can
// change between requests and staleness must never be silently cached.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	stores Stores

	content       *ContentScorer
	collaborative *CollaborativeScorer
	hybrid        *HybridCombiner
}

// NewEngine creates a recommendation engine over the given stores.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, stores Stores, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if stores.Profiles == nil || stores.Catalog == nil ||
		stores.Similarity == nil || stores.Activity == nil {
		return nil, fmt.Errorf("all four stores must be set")
	}

	return &Engine{
		config:        cfg,
		logger:        logger.With().Str("component", "recommend").Logger(),
		stores:        stores,
		content:       NewContentScorer(cfg.Content),
		collaborative: NewCollaborativeScorer(cfg.Collaborative, stores.Activity),
		hybrid:        NewHybridCombiner(cfg.Hybrid),
	}, nil
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// Recommend generates ranked recommendations for a user.
//
// The mode is validated before any data access. Terminal non-error
// outcomes (no profile, nothing matched) are reported via
// Response.Status; only upstream failures and invalid modes return an
// error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if err := validateMode(req.Mode); err != nil {
		return nil, err
	}

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	inputs, err := e.fetchInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	if inputs.profile == nil {
		logger.Debug().Msg("no declared profile")
		return e.terminalResponse(req, StatusProfileNotFound, 0, start), nil
	}

	profile := NormalizeProfile(inputs.profile)
	for i := range inputs.candidates {
		NormalizeCandidate(&inputs.candidates[i])
	}

	scored, err := e.runScorers(ctx, req.Mode, profile, inputs)
	if err != nil {
		return nil, err
	}

	if len(scored) == 0 {
		logger.Debug().Int("candidates", len(inputs.candidates)).Msg("nothing matched")
		return e.terminalResponse(req, StatusNoCandidates, len(inputs.candidates), start), nil
	}

	recs := e.buildRecommendations(req, scored, profile, inputs.candidates)

	resp := &Response{
		Status:          StatusOK,
		Recommendations: recs,
		TotalCandidates: len(inputs.candidates),
		Metadata:        e.buildMetadata(req, start),
	}

	logger.Debug().
		Int("candidates", len(inputs.candidates)).
		Int("returned", len(recs)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// validateMode rejects unrecognized modes before any data access.
func validateMode(m Mode) error {
	switch m {
	case ModeContent, ModeCollaborative, ModeHybrid:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	if req.Limit <= 0 {
		req.Limit = e.config.Limits.DefaultLimit
	}
	if req.Limit > e.config.Limits.MaxLimit {
		req.Limit = e.config.Limits.MaxLimit
	}

	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Str("mode", req.Mode.String()).
		Logger()
}

// requestInputs holds the snapshot of external data one request runs on.
type requestInputs struct {
	profile      *UserProfile
	candidates   []PlanCandidate
	similarUsers []string
}

// fetchResult carries one accessor's outcome out of the parallel fetch.
type fetchResult struct {
	name string
	err  error
}

// fetchInputs reads the accessors concurrently, bounded by the
// configured fetch timeout. The reads are independent and nothing
// mutates shared state, so there are no ordering constraints between
// them. A missing profile is not an error; any other failure surfaces
// as ErrUpstreamUnavailable with no internal retries.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) fetchInputs(ctx context.Context, req Request) (*requestInputs, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.config.Limits.FetchTimeout)
	defer cancel()

	inputs := &requestInputs{}
	results := make([]fetchResult, 0, 3)
	var mu sync.Mutex
	var wg sync.WaitGroup

	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn()
			mu.Lock()
			results = append(results, fetchResult{name: name, err: err})
			mu.Unlock()
		}()
	}

	fetch("profile", func() error {
		p, err := e.stores.Profiles.GetProfile(fetchCtx, req.UserID)
		if errors.Is(err, ErrProfileNotFound) {
			return nil // terminal state, handled by the caller
		}
		if err != nil {
			return err
		}
		inputs.profile = p
		return nil
	})

	fetch("catalog", func() error {
		c, err := e.stores.Catalog.ListActiveCandidates(fetchCtx)
		if err != nil {
			return err
		}
		inputs.candidates = c
		return nil
	})

	// The similarity relation is only needed when the collaborative
	// signal participates.
	if req.Mode != ModeContent {
		fetch("similarity", func() error {
			s, err := e.stores.Similarity.SimilarUsers(fetchCtx, req.UserID)
			if err != nil {
				return err
			}
			inputs.similarUsers = s
			return nil
		})
	}

	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			e.logger.Warn().
				Str("accessor", r.name).
				Err(r.err).
				Msg("accessor read failed")
			return nil, fmt.Errorf("%w: %s: %s", ErrUpstreamUnavailable, r.name, r.err)
		}
	}

	return inputs, nil
}

// runScorers dispatches to the strategy for the requested mode.
// Scoring is pure computation over the fetched snapshot.
func (e *Engine) runScorers(ctx context.Context, mode Mode, profile *UserProfile, inputs *requestInputs) ([]ScoredPlan, error) {
	switch mode {
	case ModeContent:
		return e.content.Score(profile, inputs.candidates), nil

	case ModeCollaborative:
		scored, err := e.scoreCollaborative(ctx, inputs)
		if err != nil {
			return nil, err
		}
		return scored, nil

	case ModeHybrid:
		contentScored := e.content.Score(profile, inputs.candidates)
		collabScored, err := e.scoreCollaborative(ctx, inputs)
		if err != nil {
			return nil, err
		}
		return e.hybrid.Combine(contentScored, collabScored), nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
}

// scoreCollaborative runs the collaborative scorer and restricts the
// result to the active candidate pool: behavioral signal for a retired
// plan is real but the plan is no longer recommendable.
func (e *Engine) scoreCollaborative(ctx context.Context, inputs *requestInputs) ([]ScoredPlan, error) {
	scoreCtx, cancel := context.WithTimeout(ctx, e.config.Limits.FetchTimeout)
	defer cancel()

	scored, err := e.collaborative.Score(scoreCtx, inputs.similarUsers)
	if err != nil {
		return nil, fmt.Errorf("%w: activity: %s", ErrUpstreamUnavailable, err)
	}

	active := make(map[string]struct{}, len(inputs.candidates))
	for i := range inputs.candidates {
		active[inputs.candidates[i].ID] = struct{}{}
	}

	filtered := scored[:0]
	for _, p := range scored {
		if _, ok := active[p.PlanID]; ok {
			filtered = append(filtered, p)
		}
	}

	return filtered, nil
}

// buildRecommendations converts scored plans into the final output
// units: normalized score, joined plan name, and explanations for the
// returned window only.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildRecommendations(req Request, scored []ScoredPlan, profile *UserProfile, candidates []PlanCandidate) []Recommendation {
	normalized := minMaxScale(scored)

	if len(scored) > req.Limit {
		scored = scored[:req.Limit]
	}

	byID := make(map[string]*PlanCandidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	recs := make([]Recommendation, 0, len(scored))
	for _, p := range scored {
		rec := Recommendation{
			PlanID:          p.PlanID,
			Score:           p.Score,
			NormalizedScore: normalized[p.PlanID],
		}

		if c, ok := byID[p.PlanID]; ok {
			rec.Name = c.Name
			rec.Explanation = TruncateReasons(Explain(profile, c), req.MaxReasons)
		}

		recs = append(recs, rec)
	}

	return recs
}

// terminalResponse builds a response for a terminal non-error state.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) terminalResponse(req Request, status Status, totalCandidates int, start time.Time) *Response {
	return &Response{
		Status:          status,
		Recommendations: []Recommendation{},
		TotalCandidates: totalCandidates,
		Metadata:        e.buildMetadata(req, start),
	}
}

// buildMetadata constructs response metadata.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildMetadata(req Request, start time.Time) ResponseMetadata {
	return ResponseMetadata{
		RequestID: req.RequestID,
		UserID:    req.UserID,
		Mode:      req.Mode.String(),
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: time.Now(),
	}
}

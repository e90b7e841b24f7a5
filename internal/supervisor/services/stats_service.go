// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// StatsRefresher recomputes plan adoption aggregates from raw activations.
type StatsRefresher interface {
	RefreshPlanStats(ctx context.Context) error
}

// StatsRefreshConfig holds configuration for the stats refresh service.
type StatsRefreshConfig struct {
	// RefreshOnStartup triggers a refresh when the service starts.
	RefreshOnStartup bool

	// RefreshInterval is how often to recompute plan stats.
	RefreshInterval time.Duration
}

// StatsRefreshService keeps the plan_stats aggregates current so the
// recommendation scorers read precomputed popularity signals instead
// of aggregating activations per request.
type StatsRefreshService struct {
	refresher StatsRefresher
	config    StatsRefreshConfig
	logger    zerolog.Logger
	name      string
}

// NewStatsRefreshService creates a stats refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStatsRefreshService(refresher StatsRefresher, cfg StatsRefreshConfig, logger zerolog.Logger) *StatsRefreshService {
	return &StatsRefreshService{
		refresher: refresher,
		config:    cfg,
		logger:    logger.With().Str("service", "stats-refresh").Logger(),
		name:      "stats-refresh",
	}
}

// Serve implements the suture.Service interface. A failed refresh is
// logged and retried on the next tick rather than crashing the service.
func (s *StatsRefreshService) Serve(ctx context.Context) error {
	if s.config.RefreshInterval <= 0 {
		s.config.RefreshInterval = 15 * time.Minute
	}

	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("stats refresh service starting")

	if s.config.RefreshOnStartup {
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial stats refresh failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("stats refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled stats refresh failed")
			}
		}
	}
}

// refresh runs one refresh cycle with its own timeout.
func (s *StatsRefreshService) refresh(ctx context.Context) error {
	refreshCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := s.refresher.RefreshPlanStats(refreshCtx); err != nil {
		return err
	}

	s.logger.Debug().
		Dur("duration", time.Since(start)).
		Msg("plan stats refreshed")
	return nil
}

// String implements fmt.Stringer so suture can name the service in logs.
func (s *StatsRefreshService) String() string {
	return s.name
}

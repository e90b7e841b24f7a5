// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/coachplan/internal/logging"
	"github.com/tomtom215/coachplan/internal/metrics"
	"github.com/tomtom215/coachplan/internal/recommend"
)

// BreakerStores decorates the storage accessors with circuit breakers,
// one per accessor, so a struggling database sheds load fast instead of
// stacking up timed-out queries. An open circuit surfaces as
// recommend.ErrUpstreamUnavailable; callers treat it exactly like any
// other upstream failure, and no retries happen here.
type BreakerStores struct {
	inner recommend.Stores

	profiles   *gobreaker.CircuitBreaker[*recommend.UserProfile]
	catalog    *gobreaker.CircuitBreaker[[]recommend.PlanCandidate]
	similarity *gobreaker.CircuitBreaker[[]string]
	adoption   *gobreaker.CircuitBreaker[map[string]recommend.AdoptionStats]
	sessions   *gobreaker.CircuitBreaker[map[string]int]
}

// NewBreakerStores wraps the given stores with circuit breakers.
func NewBreakerStores(inner recommend.Stores) *BreakerStores {
	return &BreakerStores{
		inner:      inner,
		profiles:   newBreaker[*recommend.UserProfile]("profiles"),
		catalog:    newBreaker[[]recommend.PlanCandidate]("catalog"),
		similarity: newBreaker[[]string]("similarity"),
		adoption:   newBreaker[map[string]recommend.AdoptionStats]("adoption"),
		sessions:   newBreaker[map[string]int]("sessions"),
	}
}

// Stores returns the decorated accessor bundle.
func (b *BreakerStores) Stores() recommend.Stores {
	return recommend.Stores{
		Profiles:   b,
		Catalog:    b,
		Similarity: b,
		Activity:   b,
	}
}

// newBreaker builds a breaker with shared settings for one accessor.
func newBreaker[T any](name string) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.TotalFailures*2 >= counts.Requests
		},
		IsSuccessful: func(err error) bool {
			// A missing profile is a valid answer, not a store failure.
			return err == nil || errors.Is(err, recommend.ErrProfileNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			if to == gobreaker.StateOpen {
				metrics.BreakerTrips.WithLabelValues(name).Inc()
			}
			logging.Warn().
				Str("store", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
}

// breakerStateValue maps breaker states to gauge values.
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// mapBreakerErr converts open-circuit rejections to the caller-facing
// unavailable error.
func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit open", recommend.ErrUpstreamUnavailable)
	}
	return err
}

// GetProfile implements recommend.ProfileStore.
func (b *BreakerStores) GetProfile(ctx context.Context, userID string) (*recommend.UserProfile, error) {
	p, err := b.profiles.Execute(func() (*recommend.UserProfile, error) {
		return b.inner.Profiles.GetProfile(ctx, userID)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return p, nil
}

// ListActiveCandidates implements recommend.CatalogStore.
func (b *BreakerStores) ListActiveCandidates(ctx context.Context) ([]recommend.PlanCandidate, error) {
	c, err := b.catalog.Execute(func() ([]recommend.PlanCandidate, error) {
		return b.inner.Catalog.ListActiveCandidates(ctx)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return c, nil
}

// SimilarUsers implements recommend.SimilarityStore.
func (b *BreakerStores) SimilarUsers(ctx context.Context, userID string) ([]string, error) {
	s, err := b.similarity.Execute(func() ([]string, error) {
		return b.inner.Similarity.SimilarUsers(ctx, userID)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return s, nil
}

// AdoptionStats implements recommend.ActivityStore.
func (b *BreakerStores) AdoptionStats(ctx context.Context, userIDs []string) (map[string]recommend.AdoptionStats, error) {
	s, err := b.adoption.Execute(func() (map[string]recommend.AdoptionStats, error) {
		return b.inner.Activity.AdoptionStats(ctx, userIDs)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return s, nil
}

// SessionCounts implements recommend.ActivityStore.
func (b *BreakerStores) SessionCounts(ctx context.Context, userIDs []string) (map[string]int, error) {
	s, err := b.sessions.Execute(func() (map[string]int, error) {
		return b.inner.Activity.SessionCounts(ctx, userIDs)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return s, nil
}

// Compile-time interface checks.
var (
	_ recommend.ProfileStore    = (*BreakerStores)(nil)
	_ recommend.CatalogStore    = (*BreakerStores)(nil)
	_ recommend.SimilarityStore = (*BreakerStores)(nil)
	_ recommend.ActivityStore   = (*BreakerStores)(nil)
)

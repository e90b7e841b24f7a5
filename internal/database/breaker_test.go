// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coachplan/internal/recommend"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// failingStores implements all four accessor interfaces and always fails.
type failingStores struct {
	err error
}

func (f *failingStores) GetProfile(ctx context.Context, userID string) (*recommend.UserProfile, error) {
	return nil, f.err
}

func (f *failingStores) ListActiveCandidates(ctx context.Context) ([]recommend.PlanCandidate, error) {
	return nil, f.err
}

func (f *failingStores) SimilarUsers(ctx context.Context, userID string) ([]string, error) {
	return nil, f.err
}

func (f *failingStores) AdoptionStats(ctx context.Context, userIDs []string) (map[string]recommend.AdoptionStats, error) {
	return nil, f.err
}

func (f *failingStores) SessionCounts(ctx context.Context, userIDs []string) (map[string]int, error) {
	return nil, f.err
}

func failingBundle(err error) recommend.Stores {
	f := &failingStores{err: err}
	return recommend.Stores{Profiles: f, Catalog: f, Similarity: f, Activity: f}
}

func TestBreakerStores_PassesThroughSuccess(t *testing.T) {
	db := newTestDB(t)
	seedTestData(t, db)

	breaker := NewBreakerStores(db.Stores())
	stores := breaker.Stores()

	p, err := stores.Profiles.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != "user-1" {
		t.Errorf("unexpected profile: %+v", p)
	}

	candidates, err := stores.Catalog.ListActiveCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) == 0 {
		t.Error("expected candidates through the breaker")
	}
}

func TestBreakerStores_ProfileNotFoundIsNotAFailure(t *testing.T) {
	db := newTestDB(t)
	breaker := NewBreakerStores(db.Stores())

	// Repeated not-found answers must never trip the circuit.
	for i := 0; i < 20; i++ {
		_, err := breaker.GetProfile(context.Background(), "nobody")
		if !errors.Is(err, recommend.ErrProfileNotFound) {
			t.Fatalf("call %d: expected ErrProfileNotFound, got %v", i, err)
		}
	}
}

func TestBreakerStores_OpensAfterConsecutiveFailures(t *testing.T) {
	breaker := NewBreakerStores(failingBundle(errors.New("connection refused")))

	// Drive the breaker past its failure threshold.
	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = breaker.ListActiveCandidates(context.Background())
		if lastErr == nil {
			t.Fatal("expected error from failing store")
		}
	}

	if !errors.Is(lastErr, recommend.ErrUpstreamUnavailable) {
		t.Fatalf("expected open circuit to surface as ErrUpstreamUnavailable, got %v", lastErr)
	}
}

func TestBreakerStores_BreakersAreIndependent(t *testing.T) {
	db := newTestDB(t)
	seedTestData(t, db)

	inner := db.Stores()
	inner.Catalog = &failingStores{err: errors.New("connection refused")}
	breaker := NewBreakerStores(inner)

	// Trip the catalog breaker.
	for i := 0; i < 10; i++ {
		_, _ = breaker.ListActiveCandidates(context.Background())
	}

	// Profile reads keep working.
	if _, err := breaker.GetProfile(context.Background(), "user-1"); err != nil {
		t.Errorf("profile breaker must be unaffected, got %v", err)
	}
}

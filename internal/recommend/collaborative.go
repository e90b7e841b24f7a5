// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import (
	"context"
	"fmt"
)

// CollaborativeScorer scores plans by aggregated behavior of users
// similar to the target user.
//
// Per plan, across the similar-user set:
//   - activation count: direct popularity signal
//   - average rating (3.0 when unrated): satisfaction signal
//   - logged session count: weak secondary signal of sustained
//     engagement, weighted lowest because it is the noisiest
//
// score = activations*wA + avgRating*wR + sessions*wS
type CollaborativeScorer struct {
	weights  CollaborativeWeights
	activity ActivityStore
}

// NewCollaborativeScorer creates a collaborative scorer backed by the
// given activity accessor.
func NewCollaborativeScorer(weights CollaborativeWeights, activity ActivityStore) *CollaborativeScorer {
	return &CollaborativeScorer{weights: weights, activity: activity}
}

// Score returns scored plans sorted descending by score, ties broken by
// plan ID ascending. An empty similar-user set returns an empty list
// immediately: no signal, no fabricated score.
func (s *CollaborativeScorer) Score(ctx context.Context, similarUsers []string) ([]ScoredPlan, error) {
	if len(similarUsers) == 0 {
		return []ScoredPlan{}, nil
	}

	adoption, err := s.activity.AdoptionStats(ctx, similarUsers)
	if err != nil {
		return nil, fmt.Errorf("adoption stats: %w", err)
	}

	sessions, err := s.activity.SessionCounts(ctx, similarUsers)
	if err != nil {
		return nil, fmt.Errorf("session counts: %w", err)
	}

	// Union of plans seen in either aggregate. A plan with sessions
	// but no recorded adoption scores on the neutral rating default.
	planIDs := make(map[string]struct{}, len(adoption)+len(sessions))
	for id := range adoption {
		planIDs[id] = struct{}{}
	}
	for id := range sessions {
		planIDs[id] = struct{}{}
	}

	scored := make([]ScoredPlan, 0, len(planIDs))
	for id := range planIDs {
		stats, ok := adoption[id]
		if !ok {
			stats = AdoptionStats{Count: 0, AvgRating: neutralRating}
		}
		if stats.AvgRating == 0 {
			stats.AvgRating = neutralRating
		}

		score := float64(stats.Count)*s.weights.Activation +
			stats.AvgRating*s.weights.Rating +
			float64(sessions[id])*s.weights.Session

		scored = append(scored, ScoredPlan{PlanID: id, Score: score})
	}

	sortPlans(scored)
	return scored, nil
}

// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import (
	"math"
	"testing"
)

func testProfile() *UserProfile {
	return &UserProfile{
		UserID:     "user-1",
		Goal:       "mass",
		Level:      "beginner",
		WeeklyDays: 3,
		Equipment:  "home-basic",
	}
}

func TestContentScorer_Score(t *testing.T) {
	scorer := NewContentScorer(DefaultConfig().Content)

	t.Run("full attribute match", func(t *testing.T) {
		candidates := []PlanCandidate{
			{
				ID: "plan-a", Goal: "mass", Level: "beginner",
				WeeklyDays: 3, Equipment: "home-basic",
				AdopterCount: 0, AvgRating: 3.0,
			},
		}

		scored := scorer.Score(testProfile(), candidates)
		if len(scored) != 1 {
			t.Fatalf("expected 1 scored plan, got %d", len(scored))
		}
		if scored[0].Score != 35 {
			t.Errorf("expected score 35, got %v", scored[0].Score)
		}
	})

	t.Run("popularity boost is capped", func(t *testing.T) {
		candidates := []PlanCandidate{
			{
				ID: "plan-b", Goal: "strength", Level: "beginner",
				WeeklyDays: 4, Equipment: "home-basic",
				AdopterCount: 50, AvgRating: 4.5,
			},
		}

		// 0 (goal) + 8 (level) + 8 (day delta 1) + 5 (equipment) + 10 (capped boost)
		scored := scorer.Score(testProfile(), candidates)
		if len(scored) != 1 {
			t.Fatalf("expected 1 scored plan, got %d", len(scored))
		}
		if scored[0].Score != 31 {
			t.Errorf("expected score 31, got %v", scored[0].Score)
		}
	})

	t.Run("full match outranks popular partial match", func(t *testing.T) {
		candidates := []PlanCandidate{
			{
				ID: "plan-b", Goal: "strength", Level: "beginner",
				WeeklyDays: 4, Equipment: "home-basic",
				AdopterCount: 50, AvgRating: 4.5,
			},
			{
				ID: "plan-a", Goal: "mass", Level: "beginner",
				WeeklyDays: 3, Equipment: "home-basic",
			},
		}

		scored := scorer.Score(testProfile(), candidates)
		if len(scored) != 2 {
			t.Fatalf("expected 2 scored plans, got %d", len(scored))
		}
		if scored[0].PlanID != "plan-a" {
			t.Errorf("expected plan-a first, got %s", scored[0].PlanID)
		}
	})

	t.Run("zero score plans are dropped", func(t *testing.T) {
		candidates := []PlanCandidate{
			{
				ID: "plan-c", Goal: "endurance", Level: "advanced",
				WeeklyDays: 6, Equipment: "full-gym",
			},
		}

		scored := scorer.Score(testProfile(), candidates)
		if len(scored) != 0 {
			t.Errorf("expected no scored plans, got %d", len(scored))
		}
	})

	t.Run("ties break on ascending plan ID", func(t *testing.T) {
		candidates := []PlanCandidate{
			{ID: "plan-z", Goal: "mass", Level: "beginner", WeeklyDays: 3, Equipment: "home-basic"},
			{ID: "plan-a", Goal: "mass", Level: "beginner", WeeklyDays: 3, Equipment: "home-basic"},
		}

		scored := scorer.Score(testProfile(), candidates)
		if len(scored) != 2 {
			t.Fatalf("expected 2 scored plans, got %d", len(scored))
		}
		if scored[0].PlanID != "plan-a" || scored[1].PlanID != "plan-z" {
			t.Errorf("expected [plan-a plan-z], got [%s %s]", scored[0].PlanID, scored[1].PlanID)
		}
	})
}

func TestContentScorer_dayCloseness(t *testing.T) {
	scorer := NewContentScorer(DefaultConfig().Content)
	profile := testProfile() // 3 days per week

	tests := []struct {
		name      string
		planDays  int
		wantDelta float64
	}{
		{name: "exact match", planDays: 3, wantDelta: 12},
		{name: "off by one", planDays: 4, wantDelta: 8},
		{name: "off by two", planDays: 5, wantDelta: 4},
		{name: "off by three", planDays: 6, wantDelta: 0},
		{name: "unspecified", planDays: 0, wantDelta: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := PlanCandidate{ID: "p", Goal: "mass", Level: "beginner", Equipment: "home-basic"}
			base.WeeklyDays = tt.planDays

			scored := scorer.Score(profile, []PlanCandidate{base})
			if len(scored) != 1 {
				t.Fatalf("expected a scored plan")
			}

			want := 10 + 8 + 5 + tt.wantDelta
			if scored[0].Score != want {
				t.Errorf("days=%d: expected score %v, got %v", tt.planDays, want, scored[0].Score)
			}
		})
	}
}

func TestContentScorer_popularityMonotonic(t *testing.T) {
	scorer := NewContentScorer(DefaultConfig().Content)
	profile := testProfile()

	score := func(adopters int, rating float64) float64 {
		c := PlanCandidate{
			ID: "p", Goal: "mass", Level: "beginner",
			WeeklyDays: 3, Equipment: "home-basic",
			AdopterCount: adopters, AvgRating: rating,
		}
		return scorer.Score(profile, []PlanCandidate{c})[0].Score
	}

	if score(10, 4.0) <= score(2, 4.0) {
		t.Error("more adopters should not lower the score")
	}
	if score(10, 4.5) <= score(10, 3.5) {
		t.Error("higher rating should not lower the score")
	}

	// Sub-average ratings pull the boost negative before the log term
	// compensates.
	low := score(1, 1.0)
	neutral := score(1, 3.0)
	if low >= neutral {
		t.Error("rating below 3.0 should reduce the boost")
	}
}

func TestContentScorer_boostNeverExceedsCap(t *testing.T) {
	w := DefaultConfig().Content
	scorer := NewContentScorer(w)
	profile := testProfile()

	c := PlanCandidate{
		ID: "p", Goal: "mass", Level: "beginner",
		WeeklyDays: 3, Equipment: "home-basic",
		AdopterCount: 1_000_000, AvgRating: 5.0,
	}

	scored := scorer.Score(profile, []PlanCandidate{c})
	base := w.Goal + w.Level + w.Days[0] + w.Equipment
	if got := scored[0].Score - base; got > w.PopularityCap+1e-9 {
		t.Errorf("boost %v exceeds cap %v", got, w.PopularityCap)
	}
	if math.IsNaN(scored[0].Score) || math.IsInf(scored[0].Score, 0) {
		t.Errorf("score must be finite, got %v", scored[0].Score)
	}
}

func TestContentScorer_missingProfileFields(t *testing.T) {
	scorer := NewContentScorer(DefaultConfig().Content)

	profile := &UserProfile{UserID: "user-1", Level: "beginner"}
	candidates := []PlanCandidate{
		{ID: "p", Goal: "mass", Level: "beginner", WeeklyDays: 3, Equipment: "home-basic"},
	}

	// Unset goal, days, and equipment contribute nothing rather than
	// mismatching.
	scored := scorer.Score(profile, candidates)
	if len(scored) != 1 {
		t.Fatalf("expected 1 scored plan, got %d", len(scored))
	}
	if scored[0].Score != 8 {
		t.Errorf("expected level-only score 8, got %v", scored[0].Score)
	}
}

// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import (
	"math"
	"testing"
)

func TestHybridCombiner_Combine(t *testing.T) {
	combiner := NewHybridCombiner(DefaultConfig().Hybrid)

	t.Run("blends normalized signals", func(t *testing.T) {
		content := []ScoredPlan{
			{PlanID: "plan-a", Score: 35},
			{PlanID: "plan-b", Score: 15},
		}
		collaborative := []ScoredPlan{
			{PlanID: "plan-b", Score: 20},
			{PlanID: "plan-a", Score: 10},
		}

		combined := combiner.Combine(content, collaborative)
		if len(combined) != 2 {
			t.Fatalf("expected 2 plans, got %d", len(combined))
		}

		// plan-a: 0.6*100 + 0.4*0 = 60; plan-b: 0.6*0 + 0.4*100 = 40
		if combined[0].PlanID != "plan-a" || math.Abs(combined[0].Score-60) > 1e-9 {
			t.Errorf("expected plan-a at 60, got %s at %v", combined[0].PlanID, combined[0].Score)
		}
		if combined[1].PlanID != "plan-b" || math.Abs(combined[1].Score-40) > 1e-9 {
			t.Errorf("expected plan-b at 40, got %s at %v", combined[1].PlanID, combined[1].Score)
		}
	})

	t.Run("empty collaborative falls back to content exactly", func(t *testing.T) {
		content := []ScoredPlan{
			{PlanID: "plan-a", Score: 35},
			{PlanID: "plan-b", Score: 15},
			{PlanID: "plan-c", Score: 25},
		}

		combined := combiner.Combine(content, nil)
		if len(combined) != 3 {
			t.Fatalf("expected 3 plans, got %d", len(combined))
		}

		norm := minMaxScale(content)
		for _, p := range combined {
			if p.Score != norm[p.PlanID] {
				t.Errorf("plan %s: expected normalized content score %v, got %v",
					p.PlanID, norm[p.PlanID], p.Score)
			}
		}
	})

	t.Run("single candidate maps to 100", func(t *testing.T) {
		content := []ScoredPlan{{PlanID: "plan-a", Score: 7}}
		collaborative := []ScoredPlan{{PlanID: "plan-a", Score: 3}}

		combined := combiner.Combine(content, collaborative)
		if len(combined) != 1 {
			t.Fatalf("expected 1 plan, got %d", len(combined))
		}
		if combined[0].Score != 100 {
			t.Errorf("expected 100, got %v", combined[0].Score)
		}
	})

	t.Run("content anchored plans only", func(t *testing.T) {
		content := []ScoredPlan{{PlanID: "plan-a", Score: 10}}
		collaborative := []ScoredPlan{
			{PlanID: "plan-a", Score: 5},
			{PlanID: "plan-x", Score: 50},
		}

		combined := combiner.Combine(content, collaborative)
		for _, p := range combined {
			if p.PlanID == "plan-x" {
				t.Error("collaborative-only plan must not surface")
			}
		}
	})

	t.Run("missing collaborative entry contributes zero", func(t *testing.T) {
		content := []ScoredPlan{
			{PlanID: "plan-a", Score: 30},
			{PlanID: "plan-b", Score: 10},
		}
		collaborative := []ScoredPlan{
			{PlanID: "plan-b", Score: 5},
			{PlanID: "plan-c", Score: 9},
		}

		combined := combiner.Combine(content, collaborative)

		var planA ScoredPlan
		for _, p := range combined {
			if p.PlanID == "plan-a" {
				planA = p
			}
		}
		// plan-a has only the content signal: 0.6*100 + 0.4*0
		if math.Abs(planA.Score-60) > 1e-9 {
			t.Errorf("expected 60, got %v", planA.Score)
		}
		if planA.Sources["collaborative"] != 0 {
			t.Errorf("expected zero collaborative source, got %v", planA.Sources["collaborative"])
		}
	})

	t.Run("scores stay within 0 to 100", func(t *testing.T) {
		content := []ScoredPlan{
			{PlanID: "a", Score: 1000},
			{PlanID: "b", Score: 0.5},
			{PlanID: "c", Score: 42},
		}
		collaborative := []ScoredPlan{
			{PlanID: "a", Score: 3},
			{PlanID: "b", Score: 99999},
			{PlanID: "c", Score: 17},
		}

		for _, p := range combiner.Combine(content, collaborative) {
			if p.Score < 0 || p.Score > 100 {
				t.Errorf("plan %s: score %v outside [0,100]", p.PlanID, p.Score)
			}
		}
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		content := []ScoredPlan{
			{PlanID: "b", Score: 20},
			{PlanID: "a", Score: 20},
			{PlanID: "c", Score: 30},
		}
		collaborative := []ScoredPlan{
			{PlanID: "a", Score: 5},
			{PlanID: "b", Score: 5},
		}

		first := combiner.Combine(content, collaborative)
		for i := 0; i < 10; i++ {
			next := combiner.Combine(content, collaborative)
			if len(next) != len(first) {
				t.Fatal("result length changed between runs")
			}
			for j := range next {
				if next[j].PlanID != first[j].PlanID || next[j].Score != first[j].Score {
					t.Fatalf("run %d diverged at index %d", i, j)
				}
			}
		}
	})
}

func TestMinMaxScale(t *testing.T) {
	tests := []struct {
		name  string
		plans []ScoredPlan
		want  map[string]float64
	}{
		{
			name:  "empty input",
			plans: nil,
			want:  map[string]float64{},
		},
		{
			name:  "single value maps to 100",
			plans: []ScoredPlan{{PlanID: "a", Score: 7}},
			want:  map[string]float64{"a": 100},
		},
		{
			name: "identical values all map to 100",
			plans: []ScoredPlan{
				{PlanID: "a", Score: 5},
				{PlanID: "b", Score: 5},
			},
			want: map[string]float64{"a": 100, "b": 100},
		},
		{
			name: "linear rescale",
			plans: []ScoredPlan{
				{PlanID: "a", Score: 10},
				{PlanID: "b", Score: 20},
				{PlanID: "c", Score: 30},
			},
			want: map[string]float64{"a": 0, "b": 50, "c": 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := minMaxScale(tt.plans)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), len(got))
			}
			for id, want := range tt.want {
				if math.Abs(got[id]-want) > 1e-9 {
					t.Errorf("plan %s: expected %v, got %v", id, want, got[id])
				}
			}
		})
	}
}

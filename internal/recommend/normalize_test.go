// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import "testing"

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Strength", want: "strength"},
		{name: "trims whitespace", input: "  mass  ", want: "mass"},
		{name: "strips diacritics", input: "força", want: "forca"},
		{name: "combined", input: "  FORÇA ", want: "forca"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
		{name: "already canonical", input: "home-basic", want: "home-basic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTerm(tt.input); got != tt.want {
				t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeProfile(t *testing.T) {
	original := &UserProfile{
		UserID:     "User-1",
		Goal:       " Mass ",
		Level:      "Beginner",
		WeeklyDays: 3,
		Equipment:  "Home-Basic",
	}

	normalized := NormalizeProfile(original)

	if normalized.Goal != "mass" || normalized.Level != "beginner" || normalized.Equipment != "home-basic" {
		t.Errorf("attributes not normalized: %+v", normalized)
	}
	if normalized.UserID != "User-1" {
		t.Error("user ID must not be normalized, it is an opaque identifier")
	}
	if normalized.WeeklyDays != 3 {
		t.Error("weekly days must be preserved")
	}
	if original.Goal != " Mass " {
		t.Error("input profile must not be mutated")
	}
}

func TestNormalizeProfile_Nil(t *testing.T) {
	if NormalizeProfile(nil) != nil {
		t.Error("nil profile should normalize to nil")
	}
}

func TestNormalizeCandidate(t *testing.T) {
	c := PlanCandidate{
		ID:        "Plan-1",
		Goal:      "STRENGTH",
		Level:     " Intermediate",
		Equipment: "Força",
	}

	NormalizeCandidate(&c)

	if c.Goal != "strength" || c.Level != "intermediate" || c.Equipment != "forca" {
		t.Errorf("attributes not normalized: %+v", c)
	}
	if c.ID != "Plan-1" {
		t.Error("plan ID must not be normalized, it is an opaque identifier")
	}
}

func TestSortPlans(t *testing.T) {
	plans := []ScoredPlan{
		{PlanID: "c", Score: 10},
		{PlanID: "a", Score: 30},
		{PlanID: "d", Score: 10},
		{PlanID: "b", Score: 10},
	}

	sortPlans(plans)

	want := []string{"a", "b", "c", "d"}
	for i, id := range want {
		if plans[i].PlanID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, plans[i].PlanID)
		}
	}
}

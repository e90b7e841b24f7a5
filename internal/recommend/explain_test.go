// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import (
	"reflect"
	"testing"
)

func TestExplain(t *testing.T) {
	profile := testProfile() // mass, beginner, 3 days, home-basic

	tests := []struct {
		name      string
		candidate PlanCandidate
		want      []string
	}{
		{
			name: "all attributes match in fixed order",
			candidate: PlanCandidate{
				ID: "p", Goal: "mass", Level: "beginner",
				WeeklyDays: 3, Equipment: "home-basic",
			},
			want: []string{
				"matches your mass goal",
				"suited to beginner level",
				"fits your 3 training days per week",
				"works with home-basic equipment",
			},
		},
		{
			name: "popular plan gains a social reason",
			candidate: PlanCandidate{
				ID: "p", Goal: "mass", Level: "intermediate",
				WeeklyDays: 5, Equipment: "full-gym",
				AdopterCount: 5,
			},
			want: []string{
				"matches your mass goal",
				"popular among users",
			},
		},
		{
			name: "below adoption threshold no social reason",
			candidate: PlanCandidate{
				ID: "p", Goal: "mass",
				AdopterCount: 4,
			},
			want: []string{"matches your mass goal"},
		},
		{
			name:      "nothing matches",
			candidate: PlanCandidate{ID: "p", Goal: "endurance", Level: "advanced"},
			want:      []string{},
		},
		{
			name: "day mismatch omits the day reason",
			candidate: PlanCandidate{
				ID: "p", Goal: "mass", Level: "beginner",
				WeeklyDays: 4, Equipment: "home-basic",
			},
			want: []string{
				"matches your mass goal",
				"suited to beginner level",
				"works with home-basic equipment",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Explain(profile, &tt.candidate)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTruncateReasons(t *testing.T) {
	reasons := []string{"one", "two", "three", "four"}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "zero keeps all", n: 0, want: reasons},
		{name: "negative keeps all", n: -1, want: reasons},
		{name: "larger than input keeps all", n: 10, want: reasons},
		{name: "keeps the last n", n: 2, want: []string{"three", "four"}},
		{name: "exactly the length", n: 4, want: reasons},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateReasons(reasons, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

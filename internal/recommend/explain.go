// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import "fmt"

// popularThreshold is the adopter count at or above which a plan earns
// the trailing popularity phrase.
const popularThreshold = 5

// Explain derives human-readable reasons a plan is relevant to a
// profile. Deterministic and evaluated independently of scoring: one
// phrase per matched dimension in fixed order (goal, level, weekly
// days, equipment), plus a trailing popularity phrase when the plan has
// at least five adopters. Presentation only; never influences ranking.
// Truncation is the caller's job, not done here.
func Explain(profile *UserProfile, c *PlanCandidate) []string {
	reasons := make([]string, 0, 5)

	if profile.Goal != "" && c.Goal == profile.Goal {
		reasons = append(reasons, fmt.Sprintf("matches your %s goal", profile.Goal))
	}

	if profile.Level != "" && c.Level == profile.Level {
		reasons = append(reasons, fmt.Sprintf("suited to %s level", profile.Level))
	}

	if profile.WeeklyDays > 0 && c.WeeklyDays == profile.WeeklyDays {
		reasons = append(reasons, fmt.Sprintf("fits your %d training days per week", profile.WeeklyDays))
	}

	if profile.Equipment != "" && c.Equipment == profile.Equipment {
		reasons = append(reasons, fmt.Sprintf("works with %s equipment", profile.Equipment))
	}

	if c.AdopterCount >= popularThreshold {
		reasons = append(reasons, "popular among users")
	}

	return reasons
}

// TruncateReasons keeps the last n reasons of an explanation.
// n <= 0 keeps everything. Kept separate from generation so callers
// control presentation limits.
func TruncateReasons(reasons []string, n int) []string {
	if n <= 0 || len(reasons) <= n {
		return reasons
	}
	return reasons[len(reasons)-n:]
}

// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import "math"

// ContentScorer scores candidate plans against a declared user profile
// using independent weighted attribute matches plus a capped,
// logarithmically-dampened popularity boost.
//
// The score for a candidate is the sum of:
//   - goal match
//   - level match
//   - training-day closeness (graceful degradation by day difference,
//     since day-count preference is soft rather than hard)
//   - equipment match
//   - min(cap, adopterFactor*ln(1+adopters) + ratingFactor*(rating-3.0))
//
// Candidates scoring <= 0 share nothing with the user and are dropped:
// present in the catalog, but not recommended.
type ContentScorer struct {
	weights ContentWeights
}

// NewContentScorer creates a content-based scorer with the given weights.
func NewContentScorer(weights ContentWeights) *ContentScorer {
	return &ContentScorer{weights: weights}
}

// Score returns scored plans sorted descending by score, ties broken by
// plan ID ascending. The profile and candidates must already be
// normalized. An empty candidate list yields an empty result.
func (s *ContentScorer) Score(profile *UserProfile, candidates []PlanCandidate) []ScoredPlan {
	scored := make([]ScoredPlan, 0, len(candidates))

	for i := range candidates {
		score := s.scoreCandidate(profile, &candidates[i])
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredPlan{
			PlanID: candidates[i].ID,
			Score:  score,
		})
	}

	sortPlans(scored)
	return scored
}

// scoreCandidate computes the weighted-match score for one candidate.
// Empty profile fields contribute zero to their term; missing data is
// never penalized.
func (s *ContentScorer) scoreCandidate(profile *UserProfile, c *PlanCandidate) float64 {
	var score float64

	if profile.Goal != "" && c.Goal == profile.Goal {
		score += s.weights.Goal
	}

	if profile.Level != "" && c.Level == profile.Level {
		score += s.weights.Level
	}

	if profile.WeeklyDays > 0 && c.WeeklyDays > 0 {
		diff := profile.WeeklyDays - c.WeeklyDays
		if diff < 0 {
			diff = -diff
		}
		if diff < len(s.weights.Days) {
			score += s.weights.Days[diff]
		}
	}

	if profile.Equipment != "" && c.Equipment == profile.Equipment {
		score += s.weights.Equipment
	}

	score += s.popularityBoost(c)

	return score
}

// popularityBoost computes the bounded popularity contribution.
// Logarithmic in adopter count so a handful of early adopters cannot
// dominate matched attributes; the cap bounds popularity's influence
// relative to profile fit.
func (s *ContentScorer) popularityBoost(c *PlanCandidate) float64 {
	// A plan nobody has rated carries no rating signal either way.
	rating := c.AvgRating
	if rating <= 0 {
		rating = neutralRating
	}

	boost := s.weights.AdopterFactor*math.Log(1+float64(c.AdopterCount)) +
		s.weights.RatingFactor*(rating-neutralRating)

	return math.Min(s.weights.PopularityCap, boost)
}

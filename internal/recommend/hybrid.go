// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

// HybridCombiner blends content-based and collaborative scores on a
// common 0-100 scale.
//
// Both input lists are independently min-max normalized to [0,100],
// then blended per plan in the content-based list:
//
//	final = wContent*normContent + wCollab*normCollab
//
// A plan absent from the collaborative list contributes 0 for that
// term. Only plans in the content-based result are eligible: hybrid
// mode is profile-anchored, so collaborative-only plans that fail all
// profile matches are not surfaced.
type HybridCombiner struct {
	weights HybridWeights
}

// NewHybridCombiner creates a combiner with the given blend weights.
func NewHybridCombiner(weights HybridWeights) *HybridCombiner {
	return &HybridCombiner{weights: weights}
}

// Combine returns the blended ranking, sorted descending by score with
// ties broken by plan ID ascending. When the collaborative list is
// empty entirely, the final score is exactly the normalized content
// score: a deliberate special case so an absent signal does not dilute
// the present one.
func (h *HybridCombiner) Combine(content, collaborative []ScoredPlan) []ScoredPlan {
	normContent := minMaxScale(content)
	normCollab := minMaxScale(collaborative)

	combined := make([]ScoredPlan, 0, len(content))
	for _, p := range content {
		nc := normContent[p.PlanID]

		var score float64
		if len(collaborative) == 0 {
			score = nc
		} else {
			score = h.weights.Content*nc + h.weights.Collaborative*normCollab[p.PlanID]
		}

		combined = append(combined, ScoredPlan{
			PlanID: p.PlanID,
			Score:  score,
			Sources: map[string]float64{
				"content":       nc,
				"collaborative": normCollab[p.PlanID],
			},
		})
	}

	sortPlans(combined)
	return combined
}

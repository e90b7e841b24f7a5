// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper removes combining marks after canonical
// decomposition, so "forca" and "força" compare equal.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeTerm canonicalizes a free-text profile or plan attribute:
// trimmed, lower-cased, diacritics stripped. Comparisons throughout the
// core assume both sides passed through this function.
func NormalizeTerm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}

	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		// Malformed input falls back to the lower-cased form rather
		// than failing the whole request over one attribute.
		return s
	}
	return stripped
}

// NormalizeProfile returns a copy of the profile with all string
// attributes canonicalized.
func NormalizeProfile(p *UserProfile) *UserProfile {
	if p == nil {
		return nil
	}

	out := *p
	out.Goal = NormalizeTerm(p.Goal)
	out.Level = NormalizeTerm(p.Level)
	out.Equipment = NormalizeTerm(p.Equipment)
	return &out
}

// NormalizeCandidate canonicalizes a candidate's string attributes
// in place so they compare cleanly against a normalized profile.
func NormalizeCandidate(c *PlanCandidate) {
	c.Goal = NormalizeTerm(c.Goal)
	c.Level = NormalizeTerm(c.Level)
	c.Equipment = NormalizeTerm(c.Equipment)
}

// minMaxScale rescales scores linearly onto [0,100]. When max == min
// (all candidates scored identically, including a single candidate)
// every score maps to 100: degenerate but defined, preserving "all
// equally relevant" semantics while avoiding division by zero.
func minMaxScale(plans []ScoredPlan) map[string]float64 {
	if len(plans) == 0 {
		return map[string]float64{}
	}

	minScore, maxScore := plans[0].Score, plans[0].Score
	for _, p := range plans[1:] {
		if p.Score < minScore {
			minScore = p.Score
		}
		if p.Score > maxScore {
			maxScore = p.Score
		}
	}

	scaled := make(map[string]float64, len(plans))
	span := maxScore - minScore
	for _, p := range plans {
		if span == 0 {
			scaled[p.PlanID] = 100
			continue
		}
		scaled[p.PlanID] = (p.Score - minScore) / span * 100
	}

	return scaled
}

// sortPlans orders plans by score descending with ties broken by plan
// ID ascending, so identical inputs always produce identical output.
func sortPlans(plans []ScoredPlan) {
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Score != plans[j].Score {
			return plans[i].Score > plans[j].Score
		}
		return plans[i].PlanID < plans[j].PlanID
	})
}

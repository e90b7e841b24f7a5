// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for terminal and rejected states. Callers distinguish
// them with errors.Is; the HTTP layer maps them to response codes.
var (
	// ErrProfileNotFound indicates the user has no declared preferences.
	// This is a legitimate terminal state, not an upstream failure.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidMode indicates an unrecognized recommendation mode.
	// Rejected before any data access; defaults are never substituted.
	ErrInvalidMode = errors.New("invalid recommendation mode")

	// ErrUpstreamUnavailable indicates an accessor timed out or errored.
	// Surfaced as retryable; the core itself performs no retries.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// neutralRating is the midpoint of the 1-5 rating scale, used in place
// of missing rating data so unrated plans are neither boosted nor
// penalized.
const neutralRating = 3.0

// Mode specifies the ranking strategy for a recommendation request.
type Mode int

const (
	// ModeContent ranks by attribute similarity to the declared profile.
	ModeContent Mode = iota
	// ModeCollaborative ranks by aggregated behavior of similar users.
	ModeCollaborative
	// ModeHybrid blends both signals on a common 0-100 scale.
	ModeHybrid
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeContent:
		return "content"
	case ModeCollaborative:
		return "collaborative"
	case ModeHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode string to a Mode.
// Unrecognized values return ErrInvalidMode; there is no silent default.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "content":
		return ModeContent, nil
	case "collaborative":
		return ModeCollaborative, nil
	case "hybrid":
		return ModeHybrid, nil
	default:
		return 0, ErrInvalidMode
	}
}

// Status classifies the outcome of a recommendation request.
// Terminal non-error states are reported here so an empty result is
// never indistinguishable from "legitimately nothing matched".
type Status int

const (
	// StatusOK indicates recommendations were produced.
	StatusOK Status = iota
	// StatusProfileNotFound indicates the user has no declared profile.
	StatusProfileNotFound
	// StatusNoCandidates indicates the catalog was empty or nothing matched.
	StatusNoCandidates
)

// String returns a machine-readable status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusProfileNotFound:
		return "profile_not_found"
	case StatusNoCandidates:
		return "no_candidates"
	default:
		return "unknown"
	}
}

// UserProfile holds a user's declared training preferences.
// String fields are normalized (lower-case, diacritic-free) at read
// time so downstream comparisons are locale-insensitive.
type UserProfile struct {
	// UserID is the opaque user identifier.
	UserID string `json:"user_id"`

	// Goal is the declared training goal
	// (mass, strength, endurance, fat-loss, health).
	Goal string `json:"goal"`

	// Level is the declared experience level
	// (beginner, intermediate, advanced).
	Level string `json:"level"`

	// WeeklyDays is the weekly training-day target (1-7, 0 if unset).
	WeeklyDays int `json:"weekly_days"`

	// Equipment is the declared equipment access
	// (full-gym, home-basic, home-advanced, bodyweight, minimal).
	Equipment string `json:"equipment"`
}

// PlanCandidate is an immutable snapshot of an active training plan
// with denormalized popularity statistics.
type PlanCandidate struct {
	// ID is the opaque plan identifier.
	ID string `json:"id"`

	// Name is the plan title.
	Name string `json:"name"`

	// Description is the plan summary.
	Description string `json:"description,omitempty"`

	// Goal is the plan's target training goal.
	Goal string `json:"goal"`

	// Level is the plan's target experience level.
	Level string `json:"level"`

	// WeeklyDays is the number of training days the plan prescribes.
	WeeklyDays int `json:"weekly_days"`

	// Equipment is the equipment the plan requires.
	Equipment string `json:"equipment"`

	// AdopterCount is the number of users who ever activated the plan.
	AdopterCount int `json:"adopter_count"`

	// AvgRating is the mean rating (1.0-5.0, 3.0 when no ratings exist).
	AvgRating float64 `json:"avg_rating"`
}

// AdoptionStats aggregates plan activations by a set of users.
type AdoptionStats struct {
	// Count is the number of activations.
	Count int `json:"count"`

	// AvgRating is the mean rating by those users (3.0 when unrated).
	AvgRating float64 `json:"avg_rating"`
}

// ScoredPlan is the transient output of a single scorer. Scores are
// strategy-relative magnitudes and are not comparable across scorers
// before normalization.
type ScoredPlan struct {
	// PlanID is the scored plan's identifier.
	PlanID string `json:"plan_id"`

	// Score is the unitless strategy-relative score.
	Score float64 `json:"score"`

	// Sources is a breakdown of scores by strategy, when blended.
	Sources map[string]float64 `json:"sources,omitempty"`
}

// Recommendation is the final per-plan output unit.
type Recommendation struct {
	// PlanID is the recommended plan's identifier.
	PlanID string `json:"plan_id"`

	// Name is the plan title, joined in for presentation.
	Name string `json:"name,omitempty"`

	// Score is the raw strategy score.
	Score float64 `json:"score"`

	// NormalizedScore is the score on the common 0-100 scale.
	NormalizedScore float64 `json:"normalized_score"`

	// Explanation is the ordered list of human-readable reasons.
	Explanation []string `json:"explanation,omitempty"`
}

// Request represents a recommendation request.
type Request struct {
	// UserID is the user to generate recommendations for.
	UserID string `json:"user_id"`

	// Mode selects the ranking strategy.
	Mode Mode `json:"mode"`

	// Limit is the maximum number of recommendations to return.
	// Defaults to Config.Limits.DefaultLimit if zero.
	Limit int `json:"limit,omitempty"`

	// MaxReasons truncates each explanation to its last N phrases.
	// Zero keeps all phrases. Truncation is presentation-side only.
	MaxReasons int `json:"max_reasons,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response represents a recommendation response.
type Response struct {
	// Status classifies the outcome.
	Status Status `json:"status"`

	// Recommendations is the ranked list, score descending,
	// ties broken by plan ID ascending.
	Recommendations []Recommendation `json:"recommendations"`

	// TotalCandidates is the number of candidate plans considered.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the user the recommendations are for.
	UserID string `json:"user_id"`

	// Mode is the ranking strategy used.
	Mode string `json:"mode"`

	// LatencyMS is the total recommendation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// ProfileStore provides read access to declared user preferences.
// Owned by the external account subsystem; the core only reads.
type ProfileStore interface {
	// GetProfile returns the user's declared profile.
	// Returns ErrProfileNotFound when no profile exists.
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
}

// CatalogStore provides read access to the candidate plan pool.
type CatalogStore interface {
	// ListActiveCandidates returns active plans with popularity
	// statistics joined in. Absent statistics default to
	// AdopterCount=0, AvgRating=3.0. No profile filtering happens
	// here; filtering is the scorer's job.
	ListActiveCandidates(ctx context.Context) ([]PlanCandidate, error)
}

// SimilarityStore provides the precomputed similar-user relation.
// The core never computes similarity itself.
type SimilarityStore interface {
	// SimilarUsers returns users behaviorally close to the target,
	// excluding the target itself. Empty is valid and signals
	// "no collaborative signal available".
	SimilarUsers(ctx context.Context, userID string) ([]string, error)
}

// ActivityStore provides aggregated plan activity for sets of users.
type ActivityStore interface {
	// AdoptionStats returns per-plan activation counts and average
	// ratings for the given users.
	AdoptionStats(ctx context.Context, userIDs []string) (map[string]AdoptionStats, error)

	// SessionCounts returns per-plan logged training-session counts
	// for the given users.
	SessionCounts(ctx context.Context, userIDs []string) (map[string]int, error)
}

// Stores bundles the four read accessors the engine depends on.
type Stores struct {
	Profiles   ProfileStore
	Catalog    CatalogStore
	Similarity SimilarityStore
	Activity   ActivityStore
}

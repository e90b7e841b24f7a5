// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package recommend

import (
	"fmt"
	"time"
)

// Config holds recommendation engine configuration.
type Config struct {
	// Content configures content-based scoring.
	Content ContentWeights `json:"content" koanf:"content"`

	// Collaborative configures collaborative scoring.
	Collaborative CollaborativeWeights `json:"collaborative" koanf:"collaborative"`

	// Hybrid configures the blend of the two signals.
	Hybrid HybridWeights `json:"hybrid" koanf:"hybrid"`

	// Limits configures request bounds.
	Limits Limits `json:"limits" koanf:"limits"`
}

// ContentWeights holds the weighted-match parameters for the
// content-based scorer.
type ContentWeights struct {
	// Goal is the score for an exact goal match.
	Goal float64 `json:"goal" koanf:"goal"`

	// Level is the score for an exact level match.
	Level float64 `json:"level" koanf:"level"`

	// Days scores training-day closeness: Days[0] for an exact match,
	// Days[1] for a difference of one, Days[2] for a difference of two.
	// Larger differences contribute nothing.
	Days [3]float64 `json:"days" koanf:"days"`

	// Equipment is the score for an exact equipment match.
	Equipment float64 `json:"equipment" koanf:"equipment"`

	// PopularityCap bounds the popularity boost so adoption volume
	// cannot dominate matched attributes.
	PopularityCap float64 `json:"popularity_cap" koanf:"popularity_cap"`

	// AdopterFactor scales the logarithmic adopter term of the boost.
	AdopterFactor float64 `json:"adopter_factor" koanf:"adopter_factor"`

	// RatingFactor scales the rating deviation term of the boost.
	RatingFactor float64 `json:"rating_factor" koanf:"rating_factor"`
}

// CollaborativeWeights holds the aggregation weights for the
// collaborative scorer.
type CollaborativeWeights struct {
	// Activation weighs the count of adoptions by similar users.
	Activation float64 `json:"activation" koanf:"activation"`

	// Rating weighs those users' average rating.
	Rating float64 `json:"rating" koanf:"rating"`

	// Session weighs the count of logged training sessions. Lowest
	// by default because session volume is the noisiest signal.
	Session float64 `json:"session" koanf:"session"`
}

// HybridWeights holds the blend weights for hybrid mode.
// Both signals are min-max normalized to [0,100] before blending.
type HybridWeights struct {
	// Content is the weight of the normalized content score.
	Content float64 `json:"content" koanf:"content"`

	// Collaborative is the weight of the normalized collaborative score.
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`
}

// Limits holds request bounds.
type Limits struct {
	// DefaultLimit is the number of recommendations when unspecified.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps the number of recommendations per request.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// FetchTimeout bounds each accessor read. A timeout surfaces as
	// ErrUpstreamUnavailable; retries belong to the caller.
	FetchTimeout time.Duration `json:"fetch_timeout" koanf:"fetch_timeout"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentWeights{
			Goal:          10,
			Level:         8,
			Days:          [3]float64{12, 8, 4},
			Equipment:     5,
			PopularityCap: 10,
			AdopterFactor: 2.0,
			RatingFactor:  1.5,
		},
		Collaborative: CollaborativeWeights{
			Activation: 1.0,
			Rating:     2.0,
			Session:    0.2,
		},
		Hybrid: HybridWeights{
			Content:       0.6,
			Collaborative: 0.4,
		},
		Limits: Limits{
			DefaultLimit: 10,
			MaxLimit:     50,
			FetchTimeout: 5 * time.Second,
		},
	}
}

// Validate checks configuration for invalid values.
func (c *Config) Validate() error {
	if c.Content.PopularityCap < 0 {
		return fmt.Errorf("content.popularity_cap must be >= 0, got %f", c.Content.PopularityCap)
	}
	if c.Hybrid.Content < 0 || c.Hybrid.Collaborative < 0 {
		return fmt.Errorf("hybrid weights must be >= 0, got %f/%f", c.Hybrid.Content, c.Hybrid.Collaborative)
	}
	if c.Hybrid.Content+c.Hybrid.Collaborative == 0 {
		return fmt.Errorf("hybrid weights must not both be zero")
	}
	if c.Limits.DefaultLimit <= 0 {
		return fmt.Errorf("limits.default_limit must be > 0, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= default_limit, got %d < %d",
			c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.FetchTimeout <= 0 {
		return fmt.Errorf("limits.fetch_timeout must be > 0, got %s", c.Limits.FetchTimeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

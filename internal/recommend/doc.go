// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

// Package recommend implements the training plan recommendation core.
//
// # Architecture
//
// Three ranking strategies operate over a per-request snapshot of user
// and catalog data:
//
//   - Content-Based: attribute matching between a user's declared
//     profile (goal, level, weekly availability, equipment) and each
//     plan's attributes, plus a capped popularity boost
//   - Collaborative: behavioral signal aggregated from users with
//     similar training histories (activations, ratings, sessions)
//   - Hybrid: both signals normalized to a common scale and blended
//     with configurable weights, anchored on the content result
//
// # Design Principles
//
//   - Deterministic: same inputs produce identical output order; ties
//     break on ascending plan ID
//   - Stateless: every request recomputes from fresh reads, nothing is
//     cached between requests
//   - Auditable: every returned plan carries human-readable reasons
//   - Traceable: request IDs propagate through structured logs
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, stores, logger)
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    UserID: userID,
//	    Mode:   recommend.ModeHybrid,
//	    Limit:  10,
//	})
//
// # Thread Safety
//
// The engine holds no mutable state after construction and is safe for
// concurrent use.
package recommend

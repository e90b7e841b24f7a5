// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/coachplan/internal/metrics"
	"github.com/tomtom215/coachplan/internal/recommend"
)

// Compile-time interface checks.
var (
	_ recommend.ProfileStore    = (*DB)(nil)
	_ recommend.CatalogStore    = (*DB)(nil)
	_ recommend.SimilarityStore = (*DB)(nil)
	_ recommend.ActivityStore   = (*DB)(nil)
)

// Stores bundles the DB as the four accessor interfaces.
func (db *DB) Stores() recommend.Stores {
	return recommend.Stores{
		Profiles:   db,
		Catalog:    db,
		Similarity: db,
		Activity:   db,
	}
}

// GetProfile returns the declared training profile for a user.
// Returns recommend.ErrProfileNotFound when the user has no profile.
func (db *DB) GetProfile(ctx context.Context, userID string) (*recommend.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT user_id, goal, level, weekly_days, equipment
		FROM profiles
		WHERE user_id = ?
	`, userID)

	var p recommend.UserProfile
	err := row.Scan(&p.UserID, &p.Goal, &p.Level, &p.WeeklyDays, &p.Equipment)
	metrics.RecordDBQuery("select", "profiles", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, recommend.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	return &p, nil
}

// ListActiveCandidates returns all active plans joined with their
// adoption aggregates.
func (db *DB) ListActiveCandidates(ctx context.Context) ([]recommend.PlanCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			p.id,
			p.name,
			p.description,
			p.goal,
			p.level,
			p.weekly_days,
			p.equipment,
			COALESCE(s.adopter_count, 0),
			COALESCE(s.avg_rating, 0)
		FROM plans p
		LEFT JOIN plan_stats s ON s.plan_id = p.id
		WHERE p.active
		ORDER BY p.id
	`)
	metrics.RecordDBQuery("select", "plans", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []recommend.PlanCandidate
	for rows.Next() {
		var c recommend.PlanCandidate
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description,
			&c.Goal, &c.Level, &c.WeeklyDays, &c.Equipment,
			&c.AdopterCount, &c.AvgRating,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

// SimilarUsers returns the precomputed similar-user IDs for a user,
// most similar first. An unknown user yields an empty slice, not an
// error.
func (db *DB) SimilarUsers(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT similar_user_id
		FROM similar_users
		WHERE user_id = ?
		ORDER BY rank
	`, userID)
	metrics.RecordDBQuery("select", "similar_users", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query similar users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan similar user: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similar users: %w", err)
	}

	return ids, nil
}

// AdoptionStats returns per-plan activation counts and average ratings
// across the given users.
func (db *DB) AdoptionStats(ctx context.Context, userIDs []string) (map[string]recommend.AdoptionStats, error) {
	if len(userIDs) == 0 {
		return map[string]recommend.AdoptionStats{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT plan_id, COUNT(*), COALESCE(AVG(rating), 0)
		FROM plan_activations
		WHERE user_id IN (%s)
		GROUP BY plan_id
	`, placeholders(len(userIDs)))

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, toArgs(userIDs)...)
	metrics.RecordDBQuery("select", "plan_activations", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query adoption stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]recommend.AdoptionStats)
	for rows.Next() {
		var planID string
		var s recommend.AdoptionStats
		if err := rows.Scan(&planID, &s.Count, &s.AvgRating); err != nil {
			return nil, fmt.Errorf("scan adoption stats: %w", err)
		}
		stats[planID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate adoption stats: %w", err)
	}

	return stats, nil
}

// SessionCounts returns per-plan logged session counts across the
// given users.
func (db *DB) SessionCounts(ctx context.Context, userIDs []string) (map[string]int, error) {
	if len(userIDs) == 0 {
		return map[string]int{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT plan_id, COUNT(*)
		FROM training_sessions
		WHERE user_id IN (%s)
		GROUP BY plan_id
	`, placeholders(len(userIDs)))

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, toArgs(userIDs)...)
	metrics.RecordDBQuery("select", "training_sessions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query session counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var planID string
		var n int
		if err := rows.Scan(&planID, &n); err != nil {
			return nil, fmt.Errorf("scan session count: %w", err)
		}
		counts[planID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session counts: %w", err)
	}

	return counts, nil
}

// placeholders builds a "?, ?, ?" list of length n.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// toArgs converts string IDs to query arguments.
func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

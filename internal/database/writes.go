// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/coachplan/internal/metrics"
	"github.com/tomtom215/coachplan/internal/recommend"
)

// UpsertProfile creates or replaces a user's declared profile.
func (db *DB) UpsertProfile(ctx context.Context, p *recommend.UserProfile) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO profiles (user_id, goal, level, weekly_days, equipment, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.UserID, p.Goal, p.Level, p.WeeklyDays, p.Equipment)
	metrics.RecordDBQuery("upsert", "profiles", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// UpsertPlan creates or replaces a plan in the catalog.
func (db *DB) UpsertPlan(ctx context.Context, c *recommend.PlanCandidate, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO plans (id, name, description, goal, level, weekly_days, equipment, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Description, c.Goal, c.Level, c.WeeklyDays, c.Equipment, active)
	metrics.RecordDBQuery("upsert", "plans", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

// RecordActivation records a user adopting a plan. The rating is
// optional; pass a nil pointer when the user has not rated.
func (db *DB) RecordActivation(ctx context.Context, userID, planID string, rating *float64) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	var r sql.NullFloat64
	if rating != nil {
		r = sql.NullFloat64{Float64: *rating, Valid: true}
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO plan_activations (user_id, plan_id, rating, activated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`, userID, planID, r)
	metrics.RecordDBQuery("upsert", "plan_activations", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("record activation: %w", err)
	}
	return nil
}

// RecordSession logs one completed training session.
func (db *DB) RecordSession(ctx context.Context, userID, planID string, performedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO training_sessions (id, user_id, plan_id, performed_at)
		VALUES (?, ?, ?, ?)
	`, uuid.New().String(), userID, planID, performedAt)
	metrics.RecordDBQuery("insert", "training_sessions", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// SetSimilarUsers replaces the similarity list for a user. The slice
// order defines the rank, most similar first.
func (db *DB) SetSimilarUsers(ctx context.Context, userID string, similarIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin similarity update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM similar_users WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear similar users: %w", err)
	}

	for rank, id := range similarIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO similar_users (user_id, similar_user_id, rank)
			VALUES (?, ?, ?)
		`, userID, id, rank); err != nil {
			return fmt.Errorf("insert similar user: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit similarity update: %w", err)
	}
	return nil
}

// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

// Package database provides DuckDB-backed storage for user profiles,
// the plan catalog, activity history, and the user similarity relation.
// It implements the read interfaces the recommend package consumes.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/coachplan/internal/config"
	"github.com/tomtom215/coachplan/internal/logging"
	"github.com/tomtom215/coachplan/internal/metrics"
)

// DB wraps the DuckDB connection and owns schema lifecycle.
type DB struct {
	conn         *sql.DB
	queryTimeout time.Duration
}

// New creates a database connection and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// The data directory may not exist on first start.
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable auto-install/auto-load to prevent hangs in restricted
	// network environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:         conn,
		queryTimeout: cfg.QueryTimeout,
	}

	db.configureConnectionPool()

	if err := db.initSchema(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Msg("database ready")

	return db, nil
}

// configureConnectionPool tunes the sql.DB pool for DuckDB's
// in-process model.
func (db *DB) configureConnectionPool() {
	maxOpen := runtime.NumCPU()
	if maxOpen < 2 {
		maxOpen = 2
	}

	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)

	metrics.DBConnectionPoolSize.Set(float64(maxOpen))
}

// initSchema creates tables if they do not exist.
func (db *DB) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id      VARCHAR PRIMARY KEY,
			goal         VARCHAR NOT NULL DEFAULT '',
			level        VARCHAR NOT NULL DEFAULT '',
			weekly_days  INTEGER NOT NULL DEFAULT 0,
			equipment    VARCHAR NOT NULL DEFAULT '',
			updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id           VARCHAR PRIMARY KEY,
			name         VARCHAR NOT NULL,
			description  VARCHAR NOT NULL DEFAULT '',
			goal         VARCHAR NOT NULL DEFAULT '',
			level        VARCHAR NOT NULL DEFAULT '',
			weekly_days  INTEGER NOT NULL DEFAULT 0,
			equipment    VARCHAR NOT NULL DEFAULT '',
			active       BOOLEAN NOT NULL DEFAULT true,
			created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS plan_activations (
			user_id      VARCHAR NOT NULL,
			plan_id      VARCHAR NOT NULL,
			rating       DOUBLE,
			activated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, plan_id)
		)`,
		`CREATE TABLE IF NOT EXISTS training_sessions (
			id           VARCHAR PRIMARY KEY,
			user_id      VARCHAR NOT NULL,
			plan_id      VARCHAR NOT NULL,
			performed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS similar_users (
			user_id         VARCHAR NOT NULL,
			similar_user_id VARCHAR NOT NULL,
			rank            INTEGER NOT NULL,
			PRIMARY KEY (user_id, similar_user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS plan_stats (
			plan_id       VARCHAR PRIMARY KEY,
			adopter_count INTEGER NOT NULL DEFAULT 0,
			avg_rating    DOUBLE NOT NULL DEFAULT 0,
			refreshed_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}

// RefreshPlanStats recomputes the per-plan adoption aggregates from
// plan_activations. Run after bulk activation writes; reads tolerate
// slightly stale stats.
func (db *DB) RefreshPlanStats(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO plan_stats (plan_id, adopter_count, avg_rating, refreshed_at)
		SELECT
			plan_id,
			COUNT(*),
			COALESCE(AVG(rating), 0),
			CURRENT_TIMESTAMP
		FROM plan_activations
		GROUP BY plan_id
	`)
	metrics.RecordDBQuery("refresh", "plan_stats", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("refresh plan stats: %w", err)
	}
	return nil
}

// Ping verifies the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Conn returns the underlying SQL connection for packages needing
// direct access.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// closeQuietly closes a connection ignoring errors, for cleanup paths
// where a close failure has nothing actionable.
func closeQuietly(conn *sql.DB) {
	_ = conn.Close()
}

// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

// Package main is the entry point for the Coachplan server.
//
// Coachplan recommends training plans to users based on their declared
// profile (goal, experience level, weekly availability, equipment) and
// on the behavior of similar users. Recommendations are served over a
// REST API with three modes: content, collaborative, and hybrid.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML file,
//     environment variables)
//  2. Database: DuckDB with the profile, plan, and activity schema
//  3. Stores: direct DuckDB stores, optionally wrapped in circuit
//     breakers
//  4. Engine: the recommendation engine over the stores
//  5. HTTP Server: Chi router with the recommendations API
//  6. Supervisor: Suture tree running the HTTP server and the plan
//     stats refresher
//
// # Configuration
//
// Environment variables use the COACHPLAN_ prefix, for example:
//
//	export COACHPLAN_SERVER_PORT=8080
//	export COACHPLAN_DATABASE_PATH=/data/coachplan.duckdb
//	export COACHPLAN_LOG_LEVEL=debug
//	./coachplan
//
// A YAML config file is read from config.yaml, /etc/coachplan/, or
// the path in CONFIG_PATH. Environment variables win over the file.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests to finish
// within the shutdown timeout, and closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/coachplan/internal/api"
	"github.com/tomtom215/coachplan/internal/config"
	"github.com/tomtom215/coachplan/internal/database"
	"github.com/tomtom215/coachplan/internal/logging"
	"github.com/tomtom215/coachplan/internal/recommend"
	"github.com/tomtom215/coachplan/internal/supervisor"
	"github.com/tomtom215/coachplan/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Int("port", cfg.Server.Port).
		Bool("breaker_enabled", cfg.Database.BreakerEnabled).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	// Wrap the stores in circuit breakers unless disabled. Breakers
	// convert repeated store failures into fast upstream-unavailable
	// errors instead of hammering a broken database.
	stores := db.Stores()
	if cfg.Database.BreakerEnabled {
		stores = database.NewBreakerStores(stores).Stores()
		logging.Info().Msg("Store circuit breakers enabled")
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, stores, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	handler := api.NewHandler(engine, db)
	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.API.CORSOrigins
	mwConfig.RateLimitRequests = cfg.API.RateLimit
	mwConfig.RateLimitWindow = cfg.API.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.API.RateLimit <= 0
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewStatsRefreshService(db, services.StatsRefreshConfig{
		RefreshOnStartup: true,
		RefreshInterval:  cfg.Database.StatsRefreshInterval,
	}, logging.Logger()))

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor closes the channel.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/coachplan/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/coachplan/config.yaml",
	"/etc/coachplan/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:                 "/data/coachplan.duckdb",
			MaxMemory:            "2GB",
			Threads:              0, // 0 = use runtime.NumCPU()
			QueryTimeout:         5 * time.Second,
			BreakerEnabled:       true,
			StatsRefreshInterval: 15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		API: APIConfig{
			RateLimit:       100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Recommend: *recommend.DefaultConfig(),
	}
}

// LoadWithKoanf loads configuration in three layers: struct defaults,
// optional YAML file, then environment variables (highest priority).
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// COACHPLAN_SERVER_PORT -> server.port etc.
	envProvider := env.Provider("COACHPLAN_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exist.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when set via environment variables.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices
// for the paths listed in sliceConfigPaths. Environment variables can
// only carry strings, so COACHPLAN_API_CORS_ORIGINS="a,b" arrives as
// one string.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw := k.Get(path)
		s, ok := raw.(string)
		if !ok {
			continue
		}

		parts := strings.Split(s, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				values = append(values, trimmed)
			}
		}

		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("setting %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf
// config paths.
//
// Examples:
//   - COACHPLAN_SERVER_PORT -> server.port
//   - COACHPLAN_DATABASE_PATH -> database.path
//   - COACHPLAN_LOG_LEVEL -> logging.level
//   - COACHPLAN_RECOMMEND_DEFAULT_LIMIT -> recommend.limits.default_limit
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "COACHPLAN_"))

	envMappings := map[string]string{
		// Server
		"server_host":             "server.host",
		"server_port":             "server.port",
		"server_read_timeout":     "server.read_timeout",
		"server_write_timeout":    "server.write_timeout",
		"server_shutdown_timeout": "server.shutdown_timeout",

		// Database
		"database_path":          "database.path",
		"database_max_memory":    "database.max_memory",
		"database_threads":       "database.threads",
		"database_query_timeout": "database.query_timeout",
		"database_breaker":       "database.breaker_enabled",
		"database_stats_refresh": "database.stats_refresh_interval",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// API
		"api_rate_limit":        "api.rate_limit",
		"api_rate_limit_window": "api.rate_limit_window",
		"api_cors_origins":      "api.cors_origins",

		// Recommendation engine
		"recommend_default_limit":  "recommend.limits.default_limit",
		"recommend_max_limit":      "recommend.limits.max_limit",
		"recommend_fetch_timeout":  "recommend.limits.fetch_timeout",
		"recommend_hybrid_content": "recommend.hybrid.content",
		"recommend_hybrid_collab":  "recommend.hybrid.collaborative",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped variables fall through as underscore-to-dot paths so new
	// config keys work without a mapping entry.
	return strings.ReplaceAll(key, "_", ".")
}

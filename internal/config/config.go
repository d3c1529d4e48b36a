// Package config reads the runtime configuration from the environment.
// A .env file is loaded by the entrypoint before this runs.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	AppEnv      string // dev | production
	DatabaseDSN string
	// DatabaseDriver selects postgres or sqlite. Empty defaults to sqlite
	// for single-user installs.
	DatabaseDriver string

	// UseMigrations switches to versioned SQL migrations instead of
	// AutoMigrate.
	UseMigrations  bool
	MigrationsPath string
	Seed           bool

	OfflineCachePath string
	SyncInterval     time.Duration
}

func Load() Config {
	cfg := Config{
		Port:             getenv("PORT", "8080"),
		AppEnv:           getenv("APP_ENV", "dev"),
		DatabaseDSN:      getenv("DATABASE_DSN", "factures.db"),
		DatabaseDriver:   getenv("DATABASE_DRIVER", "sqlite"),
		UseMigrations:    os.Getenv("MIGRATIONS") == "1",
		MigrationsPath:   getenv("MIGRATIONS_PATH", "migrations"),
		Seed:             os.Getenv("DB_SEED") == "1",
		OfflineCachePath: getenv("OFFLINE_CACHE_PATH", "offline.db"),
		SyncInterval:     getDuration("SYNC_INTERVAL_SECONDS", 300),
	}
	return cfg
}

func (c Config) IsProduction() bool { return c.AppEnv == "production" }

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallbackSeconds int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallbackSeconds) * time.Second
}

// Package cli consolidates the startup steps shared by cmd/truckbooks and
// cmd/truckbooks-worker: logging, env loading, config validation and store
// selection.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"truckbooks/internal/config"
	applog "truckbooks/internal/log"
	"truckbooks/internal/store"
)

// SetupLogger initializes structured logging for the named component and
// installs it as the process default.
func SetupLogger(component string) *applog.Logger {
	logger := applog.New(slog.LevelInfo, component)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are ignored
// silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the configured record store, exiting the process on
// failure. The caller owns the returned closer; for the memory backend it is
// a no-op.
func OpenStore(logger *applog.Logger, cfg *config.Config) (store.Store, func() error) {
	switch cfg.DataBackend {
	case "memory":
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
		return store.NewMemoryStore(), func() error { return nil }
	default:
		sqliteStore, err := store.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
		return sqliteStore, sqliteStore.Close
	}
}

// Package cli provides common initialization shared by cmd/fintrack
// and cmd/fintrack-worker.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// Setup loads the optional .env file, installs the default logger and
// returns a validated configuration. Exits the process on invalid
// configuration since nothing can run without one.
func Setup(component string) (*applog.Logger, *config.Config) {
	// .env is for local development; absence is fine in production.
	_ = godotenv.Load()

	logger := applog.New(component, slog.LevelInfo)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return logger, cfg
}

// OpenRepository opens the SQLite repository or exits the process.
func OpenRepository(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// Package cli provides common CLI initialization utilities shared by
// cmd/bollette and cmd/bollette-worker.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bollette/internal/config"
	"bollette/internal/extract"
	"bollette/internal/policy"
	"bollette/internal/roster"
	"bollette/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *slog.Logger, dbPath string) *storage.SQLiteRepository {
	sqliteRepo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return sqliteRepo
}

// InitRoster builds the tenant directory and policy engine. With no
// workbook configured it falls back to the built-in policies and an empty
// directory in the configured mode.
func InitRoster(logger *slog.Logger, cfg *config.Config) (roster.Directory, *policy.Engine) {
	mode := roster.Mode(cfg.RosterMode)

	if cfg.RosterXLSXPath == "" {
		logger.Warn("No roster workbook configured, using built-in policies only")
		return roster.NewMemory(mode, nil), policy.Default()
	}

	dir, policies, err := roster.LoadWorkbook(cfg.RosterXLSXPath, mode)
	if err != nil {
		logger.Error("Failed to load roster workbook", "error", err, "path", cfg.RosterXLSXPath)
		os.Exit(1)
	}

	engine := policy.Default()
	if len(policies) > 0 {
		engine = policy.New(policies)
	}
	logger.Info("Roster loaded",
		"path", cfg.RosterXLSXPath,
		"houses", len(dir.HouseNumbers()),
		"policies", len(policies))
	return dir, engine
}

// HouseStrategyFromConfig maps the configured strategy name onto the
// extractor constant. Callers validate the config first.
func HouseStrategyFromConfig(cfg *config.Config) extract.HouseStrategy {
	if cfg.HouseMatchStrategy == "street" {
		return extract.HouseByStreetSuffix
	}
	return extract.HouseByLabel
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}

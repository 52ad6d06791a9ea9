// Package cli holds the terminal front end and the process setup shared by
// every ledger subcommand.
package cli

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"

	"ledger/internal/config"
	"ledger/internal/log"
)

// SetupLogger builds the process logger and installs it as the slog default.
func SetupLogger(level slog.Level, w io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local runs. A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates the result.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

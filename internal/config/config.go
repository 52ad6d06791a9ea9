package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// HTTP Server
	Port string `env:"PORT"`

	// Store
	LedgerFile   string `env:"LEDGER_FILE" validate:"required"`
	DataBackend  string `env:"DATA_BACKEND" validate:"oneof=csv sqlite memory"`
	SQLiteDBPath string `env:"SQLITE_DB_PATH" validate:"required_if=DataBackend sqlite"`

	// Report
	PlotFile string `env:"PLOT_FILE" validate:"required,endswith=.png"`
	Currency string `env:"CURRENCY" validate:"required,max=8"`

	// PlotCacheTTL keeps rendered web charts; zero disables the cache.
	PlotCacheTTL time.Duration `env:"PLOT_CACHE_TTL" validate:"min=0"`

	LogLevel string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Rate limiting for POST endpoints
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" validate:"min=1"`
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		LedgerFile:   getEnv("LEDGER_FILE", "finance_data.csv"),
		DataBackend:  strings.ToLower(getEnv("DATA_BACKEND", "csv")),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ledger.db"),

		PlotFile: getEnv("PLOT_FILE", "transactions_plot.png"),
		Currency: getEnv("CURRENCY", "FCFA"),

		PlotCacheTTL: getEnvDuration("PLOT_CACHE_TTL", 30*time.Second),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errors = append(errors, formatFieldError(fe))
			}
		} else {
			errors = append(errors, err.Error())
		}
	}

	if c.DataBackend == "csv" && c.LedgerFile != "" {
		if info, err := os.Stat(c.LedgerFile); err == nil && info.IsDir() {
			errors = append(errors, fmt.Sprintf("ledger file '%s' is a directory", c.LedgerFile))
		}
	}

	// Check if the SQLite directory exists or can be created
	if c.DataBackend == "sqlite" && c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Addr is the listen address of the web server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("invalid %s '%v': must be one of [%s]", fe.Field(), fe.Value(), fe.Param())
	case "endswith":
		return fmt.Sprintf("invalid %s '%v': must end with %s", fe.Field(), fe.Value(), fe.Param())
	case "max":
		return fmt.Sprintf("invalid %s '%v': must be at most %s characters long", fe.Field(), fe.Value(), fe.Param())
	case "gt":
		return fmt.Sprintf("invalid %s %v: must be greater than %s", fe.Field(), fe.Value(), fe.Param())
	case "min":
		return fmt.Sprintf("invalid %s %v: must be at least %s", fe.Field(), fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("invalid %s '%v': failed %s", fe.Field(), fe.Value(), fe.Tag())
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

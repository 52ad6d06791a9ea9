package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:           "8081",
		LedgerFile:     "finance_data.csv",
		DataBackend:    "csv",
		SQLiteDBPath:   "./data/ledger.db",
		PlotFile:       "transactions_plot.png",
		Currency:       "FCFA",
		PlotCacheTTL:   30 * time.Second,
		LogLevel:       "info",
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid csv backend config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid memory backend config",
			mutate:  func(c *Config) { c.DataBackend = "memory" },
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = filepath.Join(t.TempDir(), "db", "ledger.db")
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "postgres" },
			wantErr:     true,
			errorString: "invalid DATA_BACKEND 'postgres': must be one of [csv sqlite memory]",
		},
		{
			name:        "missing ledger file",
			mutate:      func(c *Config) { c.LedgerFile = "" },
			wantErr:     true,
			errorString: "LEDGER_FILE is required",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLITE_DB_PATH is required",
		},
		{
			name:        "plot file must be png",
			mutate:      func(c *Config) { c.PlotFile = "plot.jpg" },
			wantErr:     true,
			errorString: "invalid PLOT_FILE 'plot.jpg': must end with .png",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid LOG_LEVEL 'verbose'",
		},
		{
			name:        "invalid rate limit",
			mutate:      func(c *Config) { c.RateLimitRPS = 0 },
			wantErr:     true,
			errorString: "invalid RATE_LIMIT_RPS 0: must be greater than 0",
		},
		{
			name:        "invalid burst",
			mutate:      func(c *Config) { c.RateLimitBurst = 0 },
			wantErr:     true,
			errorString: "invalid RATE_LIMIT_BURST 0: must be at least 1",
		},
		{
			name:        "negative plot cache ttl",
			mutate:      func(c *Config) { c.PlotCacheTTL = -time.Second },
			wantErr:     true,
			errorString: "PLOT_CACHE_TTL",
		},
		{
			name:   "plot cache disabled",
			mutate: func(c *Config) { c.PlotCacheTTL = 0 },
		},
		{
			name:        "ledger file is a directory",
			mutate:      func(c *Config) { c.LedgerFile = t.TempDir() },
			wantErr:     true,
			errorString: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.DataBackend = "nope"
	cfg.Currency = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration validation failed:\n- ") {
		t.Errorf("unexpected prefix: %q", msg)
	}
	if got := strings.Count(msg, "\n- "); got != 3 {
		t.Errorf("expected 3 problems, got %d in %q", got, msg)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"PORT", "LEDGER_FILE", "DATA_BACKEND", "SQLITE_DB_PATH", "PLOT_FILE",
		"CURRENCY", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()
		if *cfg != validConfig() {
			t.Errorf("Load() = %+v, want %+v", *cfg, validConfig())
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("LEDGER_FILE", "/tmp/money.csv")
		t.Setenv("DATA_BACKEND", "SQLite")
		t.Setenv("CURRENCY", "EUR")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("RATE_LIMIT_RPS", "0.5")
		t.Setenv("RATE_LIMIT_BURST", "not-a-number")
		t.Setenv("PLOT_CACHE_TTL", "1m")

		cfg := Load()
		if cfg.Port != "9090" || cfg.LedgerFile != "/tmp/money.csv" || cfg.Currency != "EUR" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SlogLevel() != slog.LevelDebug {
			t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
		}
		if cfg.RateLimitRPS != 0.5 {
			t.Errorf("Load() RateLimitRPS = %v, want 0.5", cfg.RateLimitRPS)
		}
		if cfg.RateLimitBurst != 10 {
			t.Errorf("Load() RateLimitBurst = %v, want default 10", cfg.RateLimitBurst)
		}
		if cfg.PlotCacheTTL != time.Minute {
			t.Errorf("Load() PlotCacheTTL = %v, want 1m", cfg.PlotCacheTTL)
		}
		if cfg.Addr() != ":9090" {
			t.Errorf("Addr() = %v", cfg.Addr())
		}
	})
}

package cli

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(slog.LevelWarn, &buf)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LEDGER_FILE", "ledger.csv")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("PLOT_FILE", "chart.png")

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DataBackend)

	t.Setenv("PLOT_FILE", "chart.jpg")
	_, err = LoadAndValidateConfig()
	assert.ErrorContains(t, err, "PLOT_FILE")
}

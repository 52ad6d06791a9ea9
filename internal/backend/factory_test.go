package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/config"
	"ledger/internal/ledger/csvfile"
	"ledger/internal/ledger/memory"
	"ledger/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", LedgerFile: "a.csv", SQLiteDBPath: "b.db"})
	require.NoError(t, err)
	assert.Equal(t, Config{Type: SQLiteBackend, LedgerFile: "a.csv", SQLiteDBPath: "b.db"}, cfg)

	_, err = FromAppConfig(&config.Config{DataBackend: "postgres"})
	assert.ErrorContains(t, err, "valid: [csv sqlite memory]")

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Type: CSVBackend}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: "postgres"}.Validate())
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
}

func TestBackendTypes(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		assert.True(t, bt.IsValid(), bt.String())
	}
	assert.False(t, BackendType("CSV").IsValid())
	assert.False(t, BackendType("").IsValid())
}

func TestCreateCSVBackendWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance_data.csv")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: CSVBackend, LedgerFile: path})
	require.NoError(t, err)
	defer res.Close()

	assert.IsType(t, &csvfile.Store{}, res.Store)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Amount,Category,Description\n", string(b))
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLiteRepository{}, res.Store)
	assert.NoError(t, res.Close())
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, res.Store)
	assert.NoError(t, res.Close())
}

package backend

import (
	"context"
	"fmt"

	"ledger/internal/ledger/csvfile"
	"ledger/internal/ledger/memory"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend builds the configured store and initializes it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case CSVBackend:
		res = f.createCSVBackend(config)
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		res = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := res.Store.Initialize(ctx); err != nil {
		res.Close()
		return nil, fmt.Errorf("initialize %s backend: %w", config.Type, err)
	}
	return res, nil
}

func (f *DefaultFactory) createCSVBackend(config Config) *BackendResult {
	f.logger.Info("Initialized CSV backend", "ledger_file", config.LedgerFile)
	return &BackendResult{Store: csvfile.New(config.LedgerFile), Type: CSVBackend}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &BackendResult{Store: repo, Type: SQLiteBackend, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createMemoryBackend() *BackendResult {
	f.logger.Info("Initialized memory backend")
	return &BackendResult{Store: memory.New(), Type: MemoryBackend}
}

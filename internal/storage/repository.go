// Package storage keeps the ledger in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	mu      sync.Mutex
	db      *sql.DB
	queries *Queries
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Initialize checks the schema is reachable; the table itself comes from migrations.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if _, err := r.queries.CountTransactions(ctx); err != nil {
		return fmt.Errorf("check transactions table: %w", err)
	}
	return nil
}

// Append implements ledger.Writer
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Date:        t.Date.Format(isoDate),
		Amount:      core.FormatAmount(t.Amount),
		Category:    t.Category.String(),
		Description: t.Description,
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).DebugContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		log.FieldDate, t.Date.String(),
		log.FieldAmount, row.Amount,
		log.FieldCategory, row.Category)
	return nil
}

// Range implements ledger.RangeReader. Like the CSV store it decodes every
// row, so one malformed row fails the whole query.
func (r *SQLiteRepository) Range(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var out []core.Transaction
	for _, row := range rows {
		t, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", row.ID, err)
		}
		if t.Date.Within(start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func decodeRow(row TransactionRow) (core.Transaction, error) {
	d, err := time.Parse(isoDate, row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: date %q", core.ErrMalformedRecord, row.Date)
	}
	amount, err := core.ParseStoredAmount(row.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        core.Date{Time: d},
		Amount:      amount,
		Category:    core.Category(row.Category),
		Description: row.Description,
	}, nil
}

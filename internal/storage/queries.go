package storage

import (
	"context"
	"database/sql"
)

// isoDate is the sortable layout of the date column.
const isoDate = "2006-01-02"

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// TransactionRow is one row of the transactions table.
type TransactionRow struct {
	ID          int64
	Date        string
	Amount      string
	Category    string
	Description string
}

type CreateTransactionParams struct {
	Date        string
	Amount      string
	Category    string
	Description string
}

const createTransaction = `
INSERT INTO transactions (date, amount, category, description)
VALUES (?, ?, ?, ?)
RETURNING id, date, amount, category, description`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, createTransaction, arg.Date, arg.Amount, arg.Category, arg.Description)
	var i TransactionRow
	err := row.Scan(&i.ID, &i.Date, &i.Amount, &i.Category, &i.Description)
	return i, err
}

const listTransactions = `
SELECT id, date, amount, category, description
FROM transactions
ORDER BY id`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.ID, &i.Date, &i.Amount, &i.Category, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactions).Scan(&n)
	return n, err
}

// Package ledger defines the transaction store ports and the persisted record shape.
package ledger

import (
	"context"

	"ledger/internal/core"
)

// Ports for store adapters.
type (
	Initializer interface {
		// Initialize creates the store with its header if absent. Idempotent.
		Initialize(ctx context.Context) error
	}

	Writer interface {
		// Append adds one already-validated transaction after every existing row.
		Append(ctx context.Context, t core.Transaction) error
	}

	RangeReader interface {
		// Range returns the transactions dated within [start, end], in store order.
		Range(ctx context.Context, start, end core.Date) ([]core.Transaction, error)
	}

	Store interface {
		Initializer
		Writer
		RangeReader
	}
)

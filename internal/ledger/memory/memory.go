package memory

import (
	"context"
	"slices"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var _ ledger.Store = (*Store)(nil)

// New returns a store preloaded with seed, kept in the given order.
func New(seed ...core.Transaction) *Store {
	return &Store{items: slices.Clone(seed)}
}

// Initialize is a no-op; an in-process store always exists.
func (s *Store) Initialize(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Append(ctx context.Context, t core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return nil
}

func (s *Store) Range(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.items {
		if t.Date.Within(start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Len reports how many transactions are held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

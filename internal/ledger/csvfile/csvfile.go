// Package csvfile persists the ledger as a comma-separated file with a fixed header.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Store is an append-only CSV ledger. Every operation opens the file, uses it
// and closes it before returning.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ ledger.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Initialize writes the header when the file is missing or empty.
func (s *Store) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure()
}

// Append writes one row after the last one. Prior rows are never rewritten.
func (s *Store) Append(ctx context.Context, t core.Transaction) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close ledger: %w", cerr)
		}
	}()

	if err := terminateLastLine(f); err != nil {
		return fmt.Errorf("prepare ledger append: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(ledger.EncodeRecord(t)); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ledger row: %w", err)
	}
	return nil
}

// Range reads the whole file and keeps the rows dated within [start, end].
// A row with an unparseable date or amount fails the whole query.
func (s *Store) Range(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	if err := ledger.CheckHeader(header); err != nil {
		return nil, err
	}

	var out []core.Transaction
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger row: %w", err)
		}
		t, err := ledger.DecodeRecord(rec)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		if t.Date.Within(start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ensure must be called with mu held.
func (s *Store) ensure() error {
	info, err := os.Stat(s.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		if dir := filepath.Dir(s.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create ledger directory: %w", err)
			}
		}
	default:
		return fmt.Errorf("stat ledger: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(ledger.Columns); err != nil {
		f.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	return f.Close()
}

// terminateLastLine adds a newline when a hand-edited file lacks a final one.
func terminateLastLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte{'\n'})
	return err
}

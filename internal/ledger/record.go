package ledger

import (
	"fmt"
	"slices"
	"strings"

	"ledger/internal/core"
)

// Columns is the fixed header of the persisted store.
var Columns = []string{"Date", "Amount", "Category", "Description"}

// EncodeRecord renders t in column order.
func EncodeRecord(t core.Transaction) []string {
	return []string{
		t.Date.String(),
		core.FormatAmount(t.Amount),
		t.Category.String(),
		t.Description,
	}
}

// DecodeRecord parses one persisted row. The category is taken as stored.
func DecodeRecord(rec []string) (core.Transaction, error) {
	if len(rec) != len(Columns) {
		return core.Transaction{}, fmt.Errorf("%w: want %d fields, got %d", core.ErrMalformedRecord, len(Columns), len(rec))
	}
	date, err := core.ParseStoredDate(rec[0])
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseStoredAmount(rec[1])
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    core.Category(rec[2]),
		Description: rec[3],
	}, nil
}

// CheckHeader verifies the column order of a persisted header row.
// A leading byte order mark is tolerated.
func CheckHeader(header []string) error {
	got := slices.Clone(header)
	if len(got) > 0 {
		got[0] = strings.TrimPrefix(got[0], "\ufeff")
	}
	if !slices.Equal(got, Columns) {
		return fmt.Errorf("%w: got %v, want %v", core.ErrHeaderMismatch, header, Columns)
	}
	return nil
}

package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

const header = "Date,Amount,Category,Description\n"

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finance_data.csv")
	return New(path), path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func jan(day int) core.Date { return core.NewDate(2024, 1, day) }

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)

	require.NoError(t, s.Initialize(ctx))
	assert.Equal(t, header, readFile(t, path))

	require.NoError(t, s.Append(ctx, core.Transaction{
		Date: jan(2), Amount: decimal.NewFromInt(5), Category: core.Expense, Description: "bus",
	}))
	before := readFile(t, path)

	require.NoError(t, s.Initialize(ctx))
	assert.Equal(t, before, readFile(t, path))
}

func TestInitializeCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.csv")
	require.NoError(t, New(path).Initialize(context.Background()))
	assert.Equal(t, header, readFile(t, path))
}

func TestAppendThenRange(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, s.Initialize(ctx))

	salary := core.Transaction{
		Date:        jan(1),
		Amount:      decimal.RequireFromString("100.0"),
		Category:    core.Income,
		Description: "salary",
	}
	require.NoError(t, s.Append(ctx, salary))

	got, err := s.Range(ctx, jan(1), jan(31))
	require.NoError(t, err)
	if diff := cmp.Diff([]core.Transaction{salary}, got); diff != "" {
		t.Fatalf("range mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, header+"01-01-2024,100.0,Income,salary\n", readFile(t, path))
}

func TestAppendWithoutInitializeCreatesStore(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)

	require.NoError(t, s.Append(ctx, core.Transaction{
		Date: jan(3), Amount: decimal.RequireFromString("7.25"), Category: core.Expense, Description: "coffee, cake",
	}))
	assert.Equal(t, header+"03-01-2024,7.25,Expense,\"coffee, cake\"\n", readFile(t, path))
}

func TestAppendTerminatesUnfinishedLine(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	writeFile(t, path, header+"02-01-2024,1,Income,x")

	require.NoError(t, s.Append(ctx, core.Transaction{
		Date: jan(4), Amount: decimal.NewFromInt(2), Category: core.Expense,
	}))
	assert.Equal(t, header+"02-01-2024,1,Income,x\n04-01-2024,2,Expense,\n", readFile(t, path))

	got, err := s.Range(ctx, jan(1), jan(31))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRangeBoundsAreInclusiveAndOrderPreserved(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	writeFile(t, path, header+
		"10-01-2024,3,Expense,c\n"+
		"01-01-2024,1,Income,a\n"+
		"31-12-2023,9,Income,before\n"+
		"05-01-2024,2,Expense,b\n"+
		"11-01-2024,9,Expense,after\n")

	got, err := s.Range(ctx, jan(1), jan(10))
	require.NoError(t, err)

	var descs []string
	for _, tx := range got {
		descs = append(descs, tx.Description)
	}
	assert.Equal(t, []string{"c", "a", "b"}, descs)
}

func TestRangeEmptyResults(t *testing.T) {
	ctx := context.Background()

	missing, _ := newStore(t)
	got, err := missing.Range(ctx, jan(1), jan(31))
	require.NoError(t, err)
	assert.Empty(t, got)

	s, path := newStore(t)
	writeFile(t, path, header+"01-06-2024,1,Income,x\n")
	got, err = s.Range(ctx, jan(1), jan(31))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Range(ctx, jan(31), jan(1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRangeMalformedDateFailsWholeQuery(t *testing.T) {
	s, path := newStore(t)
	writeFile(t, path, header+
		"01-01-2024,1,Income,ok\n"+
		"2024-01-02,1,Income,bad\n")

	got, err := s.Range(context.Background(), jan(1), jan(31))
	require.ErrorIs(t, err, core.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 3")
	assert.Nil(t, got)
}

func TestRangeRejectsHeaderMismatch(t *testing.T) {
	s, path := newStore(t)
	writeFile(t, path, "Amount,Date,Category,Description\n1,01-01-2024,Income,x\n")

	_, err := s.Range(context.Background(), jan(1), jan(31))
	assert.ErrorIs(t, err, core.ErrHeaderMismatch)
}

func TestRangeAcceptsByteOrderMark(t *testing.T) {
	s, path := newStore(t)
	writeFile(t, path, "\ufeff"+header+"01-01-2024,1,Income,x\n")

	got, err := s.Range(context.Background(), jan(1), jan(31))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

package report

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func tx(day int, amount string, c core.Category, desc string) core.Transaction {
	return core.Transaction{
		Date:        core.NewDate(2024, 1, day),
		Amount:      decimal.RequireFromString(amount),
		Category:    c,
		Description: desc,
	}
}

func sample() []core.Transaction {
	return []core.Transaction{
		tx(3, "40", core.Expense, "groceries"),
		tx(1, "100", core.Income, "salary"),
		tx(3, "10.5", core.Expense, "bus"),
		tx(3, "20", core.Income, "refund"),
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, core.Summarize(sample()), "FCFA"))

	out := buf.String()
	assert.Contains(t, out, "Total Income: FCFA 120.00\n")
	assert.Contains(t, out, "Total Expense: FCFA 50.50\n")
	assert.Contains(t, out, "Net Savings: FCFA 69.50\n")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sample()[:2]))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"Date", "Amount", "Category", "Description"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"03-01-2024", "40.00", "Expense", "groceries"}, strings.Fields(lines[1]))
	assert.Equal(t, strings.Index(lines[0], "Amount"), strings.Index(lines[2], "100.00"))
}

func TestDailySeries(t *testing.T) {
	s := NewDailySeries(sample())

	require.Len(t, s.Dates, 2)
	assert.Equal(t, "01-01-2024", s.Dates[0].String())
	assert.Equal(t, "03-01-2024", s.Dates[1].String())
	assert.Equal(t, []string{"100", "20"}, []string{s.Income[0].String(), s.Income[1].String()})
	assert.Equal(t, []string{"0", "50.5"}, []string{s.Expense[0].String(), s.Expense[1].String()})
}

func TestNewPlotRejectsEmpty(t *testing.T) {
	_, err := NewPlot(nil)
	assert.ErrorIs(t, err, ErrNothingToPlot)
	assert.ErrorIs(t, SavePlot(filepath.Join(t.TempDir(), "x.png"), nil), ErrNothingToPlot)
}

func TestNewPlotLabels(t *testing.T) {
	p, err := NewPlot(sample())
	require.NoError(t, err)
	assert.Equal(t, PlotTitle, p.Title.Text)
	assert.Equal(t, "Date", p.X.Label.Text)
	assert.Equal(t, "Amount", p.Y.Label.Text)
}

func TestSavePlotWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions_plot.png")
	require.NoError(t, SavePlot(path, sample()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.DecodeConfig(f)
	assert.NoError(t, err)
}

func TestWritePNGSingleDay(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, []core.Transaction{tx(1, "5", core.Income, "")}))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Positive(t, cfg.Width)
}

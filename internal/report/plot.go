package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"slices"

	"github.com/shopspring/decimal"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"ledger/internal/core"
)

const (
	PlotTitle = "Incomes & Expenses over time"

	plotWidth  = 10 * vg.Inch
	plotHeight = 5 * vg.Inch
)

var ErrNothingToPlot = errors.New("no transactions to plot")

var (
	incomeColor  = color.RGBA{B: 255, A: 255}
	expenseColor = color.RGBA{R: 255, A: 255}
)

// DailySeries holds per-day income and expense sums over the distinct dates
// of a result, ascending. Days without one category get zero.
type DailySeries struct {
	Dates   []core.Date
	Income  []decimal.Decimal
	Expense []decimal.Decimal
}

func NewDailySeries(txs []core.Transaction) DailySeries {
	income := map[core.Date]decimal.Decimal{}
	expense := map[core.Date]decimal.Decimal{}
	var dates []core.Date
	for _, t := range txs {
		if _, seen := income[t.Date]; !seen {
			dates = append(dates, t.Date)
			income[t.Date] = decimal.Zero
			expense[t.Date] = decimal.Zero
		}
		switch t.Category {
		case core.Income:
			income[t.Date] = income[t.Date].Add(t.Amount)
		case core.Expense:
			expense[t.Date] = expense[t.Date].Add(t.Amount)
		}
	}
	slices.SortFunc(dates, func(a, b core.Date) int { return a.Compare(b.Time) })

	s := DailySeries{Dates: dates}
	for _, d := range dates {
		s.Income = append(s.Income, income[d])
		s.Expense = append(s.Expense, expense[d])
	}
	return s
}

func (s DailySeries) points(values []decimal.Decimal) plotter.XYs {
	xys := make(plotter.XYs, len(s.Dates))
	for i, d := range s.Dates {
		xys[i].X = float64(d.Unix())
		xys[i].Y = values[i].InexactFloat64()
	}
	return xys
}

// NewPlot builds the income and expense chart for txs.
func NewPlot(txs []core.Transaction) (*plot.Plot, error) {
	if len(txs) == 0 {
		return nil, ErrNothingToPlot
	}
	series := NewDailySeries(txs)

	p := plot.New()
	p.Title.Text = PlotTitle
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Amount"
	p.X.Tick.Marker = plot.TimeTicks{Format: core.DateLayout}
	p.Add(plotter.NewGrid())

	incomeLine, err := plotter.NewLine(series.points(series.Income))
	if err != nil {
		return nil, fmt.Errorf("income line: %w", err)
	}
	incomeLine.LineStyle.Color = incomeColor

	expenseLine, err := plotter.NewLine(series.points(series.Expense))
	if err != nil {
		return nil, fmt.Errorf("expense line: %w", err)
	}
	expenseLine.LineStyle.Color = expenseColor

	p.Add(incomeLine, expenseLine)
	p.Legend.Add(core.Income.String(), incomeLine)
	p.Legend.Add(core.Expense.String(), expenseLine)
	p.Legend.Top = true
	return p, nil
}

// SavePlot writes the chart to path; the extension picks the image format.
func SavePlot(path string, txs []core.Transaction) error {
	p, err := NewPlot(txs)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// WritePNG streams the chart as PNG.
func WritePNG(w io.Writer, txs []core.Transaction) error {
	p, err := NewPlot(txs)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// Package report renders query results as text and charts.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// WriteSummary prints the three totals with two decimals, prefixed by currency.
func WriteSummary(w io.Writer, s core.Summary, currency string) error {
	_, err := fmt.Fprintf(w,
		"\nSummary:\nTotal Income: %s %s\nTotal Expense: %s %s\nNet Savings: %s %s\n",
		currency, s.TotalIncome.StringFixed(2),
		currency, s.TotalExpense.StringFixed(2),
		currency, s.NetSavings.StringFixed(2),
	)
	return err
}

// WriteTable prints txs as aligned columns in store column order.
func WriteTable(w io.Writer, txs []core.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range ledger.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Date, t.Amount.StringFixed(2), t.Category, t.Description)
	}
	return tw.Flush()
}

package http

import (
	"html/template"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/services"
)

type rowView struct {
	Date        string
	Amount      string
	Category    string
	Description string
	Class       string
}

type summaryView struct {
	TotalIncome  string
	TotalExpense string
	NetSavings   string
}

type transactionsView struct {
	Message    string
	Empty      bool
	Columns    []string
	Rows       []rowView
	Summary    summaryView
	Currency   string
	RangeQuery template.URL
}

func newTransactionsView(res services.QueryResult, sum core.Summary, currency string) transactionsView {
	v := transactionsView{
		Message:  res.Message,
		Empty:    res.Empty,
		Columns:  ledger.Columns,
		Currency: currency,
		RangeQuery: template.URL(RangeParams{
			Start: res.Start.String(),
			End:   res.End.String(),
		}.Encode()),
		Summary: summaryView{
			TotalIncome:  sum.TotalIncome.StringFixed(2),
			TotalExpense: sum.TotalExpense.StringFixed(2),
			NetSavings:   sum.NetSavings.StringFixed(2),
		},
	}
	for _, t := range res.Transactions {
		class := "expense"
		if t.Category == core.Income {
			class = "income"
		}
		v.Rows = append(v.Rows, rowView{
			Date:        t.Date.String(),
			Amount:      t.Amount.StringFixed(2),
			Category:    t.Category.String(),
			Description: t.Description,
			Class:       class,
		})
	}
	return v
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

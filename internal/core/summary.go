package core

import "github.com/shopspring/decimal"

// Summary aggregates a set of transactions by category.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetSavings   decimal.Decimal
}

// Summarize partitions on the stored labels. Rows with any other label count
// toward neither total.
func Summarize(txs []Transaction) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Category {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		NetSavings:   income.Sub(expense),
	}
}

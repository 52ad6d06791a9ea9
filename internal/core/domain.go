package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical day-month-year rendering used in the store and the UI.
const DateLayout = "02-01-2006"

// dateInputLayout accepts one or two digit days and months.
const dateInputLayout = "2-1-2006"

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

type (
	// Category is the stored label of a transaction, never the input code.
	Category string

	Date struct {
		time.Time
	}

	Transaction struct {
		Date        Date
		Amount      decimal.Decimal
		Category    Category
		Description string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrMalformedRecord = errors.New("malformed record")
	ErrHeaderMismatch  = errors.New("unexpected header")
)

// categoryCodes maps the single-letter input codes to stored labels.
var categoryCodes = map[string]Category{
	"I": Income,
	"E": Expense,
}

// now is swapped in tests.
var now = time.Now

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Date {
	y, m, d := now().Date()
	return NewDate(y, int(m), d)
}

// String renders the date as dd-mm-yyyy.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Within reports whether d falls in the inclusive range [start, end].
func (d Date) Within(start, end Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

func parseDate(s string) (Date, error) {
	t, err := time.Parse(dateInputLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// ParseStoredDate parses a persisted Date cell. Failures wrap ErrMalformedRecord.
func ParseStoredDate(s string) (Date, error) {
	d, err := parseDate(strings.TrimSpace(s))
	if err != nil {
		return Date{}, malformed("date", s)
	}
	return d, nil
}

// ParseStoredAmount parses a persisted Amount cell. Failures wrap ErrMalformedRecord.
func ParseStoredAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, malformed("amount", s)
	}
	return amount, nil
}

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the stored labels.
func (c Category) Valid() bool {
	return c == Income || c == Expense
}

package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// User-facing validation messages. Front ends print them verbatim.
const (
	MsgInvalidDate     = "Invalid date format. Please enter the date in dd-mm-yyyy format"
	MsgInvalidAmount   = "Amount must be a positive value"
	MsgInvalidCategory = "Invalid category, please enter 'I' for Income or 'E' for Expense."
)

const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDescription = "description"
)

// FieldError is the typed result of a rejected field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every rejected field of one entry, in form order.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Field returns the error recorded for name, or nil.
func (v ValidationErrors) Field(name string) *FieldError {
	for _, e := range v {
		if e.Field == name {
			return e
		}
	}
	return nil
}

// ParseDate parses day-month-year input and returns it normalized.
// An empty string yields today's date when allowDefault is set.
func ParseDate(text string, allowDefault bool) (Date, error) {
	text = strings.TrimSpace(text)
	if allowDefault && text == "" {
		return Today(), nil
	}
	d, err := parseDate(text)
	if err != nil {
		return Date{}, &FieldError{Field: FieldDate, Message: MsgInvalidDate, Err: ErrInvalidDate}
	}
	return d, nil
}

// Amount bounds. The exponent is checked before any comparison so that
// inputs like 1e20000000 are rejected without expanding them.
const (
	maxAmountScale    = 10
	maxAmountExponent = 15
)

var maxAmount = decimal.New(1, maxAmountExponent)

// FormatAmount renders a with the fractional digits it was parsed with, so
// "100.0" is stored as "100.0" rather than "100".
func FormatAmount(a decimal.Decimal) string {
	if exp := a.Exponent(); exp < 0 {
		return a.StringFixed(-exp)
	}
	return a.String()
}

// ParseAmount parses a strictly positive decimal amount no larger than 1e15
// with at most ten fractional digits.
func ParseAmount(text string) (decimal.Decimal, error) {
	invalid := &FieldError{Field: FieldAmount, Message: MsgInvalidAmount, Err: ErrInvalidAmount}
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, invalid
	}
	if exp := amount.Exponent(); exp < -maxAmountScale || exp > maxAmountExponent {
		return decimal.Zero, invalid
	}
	if amount.GreaterThan(maxAmount) {
		return decimal.Zero, invalid
	}
	return amount, nil
}

// ParseCategory maps a case-insensitive 'I' or 'E' to its stored label.
func ParseCategory(text string) (Category, error) {
	if c, ok := categoryCodes[strings.ToUpper(strings.TrimSpace(text))]; ok {
		return c, nil
	}
	return "", &FieldError{Field: FieldCategory, Message: MsgInvalidCategory, Err: ErrInvalidCategory}
}

// ParseDescription accepts any text, including the empty string.
func ParseDescription(text string) string {
	return text
}

func malformed(column, value string) error {
	return fmt.Errorf("%w: %s %q", ErrMalformedRecord, column, value)
}

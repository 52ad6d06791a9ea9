// Package prompt collects transaction fields interactively.
//
// Every field prompt loops until the input validates: the validation message is
// printed and the same prompt is shown again. End of input stops the loop with
// io.EOF so a closed terminal never spins.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

const (
	AmountPrompt      = "Enter the amount: "
	CategoryPrompt    = "Enter a category ('I' for Income or 'E' for Expense): "
	DescriptionPrompt = "Enter a description: "
)

// Prompter reads answers line by line from in and writes prompts to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// ErrorStyle decorates validation messages, e.g. with terminal colors.
	ErrorStyle func(a ...any) string
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:         bufio.NewReader(in),
		out:        out,
		ErrorStyle: fmt.Sprint,
	}
}

// Line shows prompt and returns the next input line without its terminator.
func (p *Prompter) Line(prompt string) (string, error) {
	if _, err := io.WriteString(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Date asks until a dd-mm-yyyy date (or, with allowDefault, an empty line) is given.
func (p *Prompter) Date(prompt string, allowDefault bool) (core.Date, error) {
	for {
		text, err := p.Line(prompt)
		if err != nil {
			return core.Date{}, err
		}
		d, err := core.ParseDate(text, allowDefault)
		if err == nil {
			return d, nil
		}
		p.reject(err)
	}
}

func (p *Prompter) Amount() (decimal.Decimal, error) {
	for {
		text, err := p.Line(AmountPrompt)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := core.ParseAmount(text)
		if err == nil {
			return amount, nil
		}
		p.reject(err)
	}
}

func (p *Prompter) Category() (core.Category, error) {
	for {
		text, err := p.Line(CategoryPrompt)
		if err != nil {
			return "", err
		}
		c, err := core.ParseCategory(text)
		if err == nil {
			return c, nil
		}
		p.reject(err)
	}
}

func (p *Prompter) Description() (string, error) {
	text, err := p.Line(DescriptionPrompt)
	if err != nil {
		return "", err
	}
	return core.ParseDescription(text), nil
}

// Confirm returns true for "y" or "yes", case-insensitively.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	text, err := p.Line(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *Prompter) reject(err error) {
	fmt.Fprintln(p.out, p.ErrorStyle(err.Error()))
}

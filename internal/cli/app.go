package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"ledger/internal/core"
	"ledger/internal/prompt"
	"ledger/internal/report"
	"ledger/internal/services"
)

const (
	MsgEntryAdded    = "Entry added successfully"
	MsgInvalidChoice = "Invalid choice. Please enter 1, 2 or 3."
	MsgGoodbye       = "Exiting..."
	PlotQuestion     = "Do you want to see a plot? (y/n) "
	ChoicePrompt     = "Enter your choice (1-3): "
	StartDatePrompt  = "Enter the start date (dd-mm-yyyy): "
	EndDatePrompt    = "Enter the end date (dd-mm-yyyy): "
	EntryDatePrompt  = "Enter the date of the transaction (dd-mm-yyyy) or enter for today's date: "
)

const (
	menuHeading = "\n*** Personal Finance Tracker ***"
	menuAdd     = "1. Add a new transaction"
	menuView    = "2. View transactions and summary within a date range"
	menuExit    = "3. Exit"
)

// Options configure the terminal front end.
type Options struct {
	Currency string
	PlotFile string
	// Plain disables terminal colors.
	Plain bool
}

// ViewOptions preset the view command. Empty bounds are prompted for.
type ViewOptions struct {
	Start string
	End   string
	Plot  bool
}

// App runs the interactive ledger commands against one service.
type App struct {
	svc    *services.LedgerService
	prompt *prompt.Prompter
	out    io.Writer
	opts   Options

	errorStyle   func(a ...any) string
	successStyle func(a ...any) string
}

func NewApp(svc *services.LedgerService, in io.Reader, out io.Writer, opts Options) *App {
	a := &App{
		svc:          svc,
		prompt:       prompt.New(in, out),
		out:          out,
		opts:         opts,
		errorStyle:   color.Red.Sprint,
		successStyle: color.Green.Sprint,
	}
	if opts.Plain {
		a.errorStyle = fmt.Sprint
		a.successStyle = fmt.Sprint
	}
	a.prompt.ErrorStyle = a.errorStyle
	return a
}

// Init creates the store when it does not exist yet.
func (a *App) Init(ctx context.Context) error {
	return a.svc.Initialize(ctx)
}

// Menu loops over the main menu until Exit is chosen or input ends.
func (a *App) Menu(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out, menuHeading)
		fmt.Fprintln(a.out, menuAdd)
		fmt.Fprintln(a.out, menuView)
		fmt.Fprintln(a.out, menuExit)

		choice, err := a.prompt.Line(ChoicePrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = a.Add(ctx)
		case "2":
			err = a.View(ctx, ViewOptions{})
		case "3":
			fmt.Fprintln(a.out, MsgGoodbye)
			return nil
		default:
			fmt.Fprintln(a.out, a.errorStyle(MsgInvalidChoice))
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Add prompts for every field and appends the entry.
func (a *App) Add(ctx context.Context) error {
	date, err := a.prompt.Date(EntryDatePrompt, true)
	if err != nil {
		return err
	}
	amount, err := a.prompt.Amount()
	if err != nil {
		return err
	}
	category, err := a.prompt.Category()
	if err != nil {
		return err
	}
	desc, err := a.prompt.Description()
	if err != nil {
		return err
	}

	t := core.Transaction{Date: date, Amount: amount, Category: category, Description: desc}
	if err := a.svc.Record(ctx, t); err != nil {
		fmt.Fprintln(a.out, a.errorStyle(err.Error()))
		return err
	}
	fmt.Fprintln(a.out, a.successStyle(MsgEntryAdded))
	return nil
}

// View queries a range, prints the table and summary and optionally saves the plot.
func (a *App) View(ctx context.Context, opts ViewOptions) error {
	start, err := a.bound(StartDatePrompt, opts.Start)
	if err != nil {
		return err
	}
	end, err := a.bound(EndDatePrompt, opts.End)
	if err != nil {
		return err
	}

	res, err := a.svc.Query(ctx, start, end)
	if err != nil {
		fmt.Fprintln(a.out, a.errorStyle(err.Error()))
		return err
	}
	fmt.Fprintln(a.out, res.Message)
	if res.Empty {
		return nil
	}

	if err := report.WriteTable(a.out, res.Transactions); err != nil {
		return err
	}
	if err := report.WriteSummary(a.out, a.svc.Summarize(res.Transactions), a.opts.Currency); err != nil {
		return err
	}

	plot := opts.Plot
	if !plot {
		if plot, err = a.prompt.Confirm(PlotQuestion); err != nil {
			return err
		}
	}
	if !plot {
		return nil
	}
	if err := a.svc.SavePlot(ctx, a.opts.PlotFile, res.Transactions); err != nil {
		fmt.Fprintln(a.out, a.errorStyle(err.Error()))
		return err
	}
	fmt.Fprintln(a.out, a.successStyle(fmt.Sprintf("Plot saved as '%s'.", a.opts.PlotFile)))
	return nil
}

// bound parses a preset date, or prompts until one is valid. A bad preset
// is reported and then prompted for.
func (a *App) bound(label, preset string) (core.Date, error) {
	if preset != "" {
		d, err := core.ParseDate(preset, false)
		if err == nil {
			return d, nil
		}
		fmt.Fprintln(a.out, a.errorStyle(err.Error()))
	}
	return a.prompt.Date(label, false)
}

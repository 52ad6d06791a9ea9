// Package services holds the ledger operations shared by the terminal and web front ends.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/metrics"
	"ledger/internal/report"
)

// Query bound field names, reported in ValidationErrors.
const (
	FieldStart = "start"
	FieldEnd   = "end"
)

// MsgNoTransactions is shown when a range matches nothing.
const MsgNoTransactions = "No transactions found in the given range."

// AddRequest carries raw, unvalidated field text.
type AddRequest struct {
	Date        string
	Amount      string
	Category    string
	Description string
}

type QueryResult struct {
	Start        core.Date
	End          core.Date
	Transactions []core.Transaction
	Empty        bool
	Message      string
}

type LedgerService struct {
	store   ledger.Store
	logger  *log.Logger
	metrics metrics.Recorder
}

func NewLedgerService(store ledger.Store, logger *log.Logger, recorder metrics.Recorder) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &LedgerService{
		store:   store,
		logger:  logger.WithComponent(log.ComponentLedger),
		metrics: recorder,
	}
}

// Initialize makes sure the store exists.
func (s *LedgerService) Initialize(ctx context.Context) error {
	if err := s.store.Initialize(ctx); err != nil {
		s.logger.LogFields(ctx, slog.LevelError, "Failed to initialize store",
			log.NewFields().WithOperation(log.OpInitialize).WithError(err))
		return fmt.Errorf("initialize store: %w", err)
	}
	return nil
}

// AddTransaction validates every field and appends the entry. An empty date
// means today. Invalid input is returned as core.ValidationErrors.
func (s *LedgerService) AddTransaction(ctx context.Context, req AddRequest) (core.Transaction, error) {
	var verrs core.ValidationErrors
	date, err := core.ParseDate(req.Date, true)
	verrs = collect(verrs, err)
	amount, err := core.ParseAmount(req.Amount)
	verrs = collect(verrs, err)
	category, err := core.ParseCategory(req.Category)
	verrs = collect(verrs, err)

	if len(verrs) > 0 {
		s.metrics.RecordAppend(metrics.StatusInvalid, "")
		s.logger.LogFields(ctx, slog.LevelDebug, "Rejected transaction input",
			log.NewFields().WithOperation(log.OpValidate).WithError(verrs))
		return core.Transaction{}, verrs
	}

	t := core.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: core.ParseDescription(req.Description),
	}
	if err := s.Record(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// Record appends a transaction whose fields are already validated.
func (s *LedgerService) Record(ctx context.Context, t core.Transaction) error {
	fields := log.NewFields().
		WithOperation(log.OpAppend).
		WithTransaction(t.Date.String(), core.FormatAmount(t.Amount), t.Category.String())

	if err := s.store.Append(ctx, t); err != nil {
		s.metrics.RecordAppend(metrics.StatusError, t.Category.String())
		s.logger.LogFields(ctx, slog.LevelError, "Failed to append transaction", fields.WithError(err))
		return fmt.Errorf("append transaction: %w", err)
	}

	s.metrics.RecordAppend(metrics.StatusSuccess, t.Category.String())
	s.logger.LogFields(ctx, slog.LevelInfo, "Transaction added", fields)
	return nil
}

// QueryTransactions parses both bounds as dd-mm-yyyy and runs Query.
func (s *LedgerService) QueryTransactions(ctx context.Context, start, end string) (QueryResult, error) {
	var verrs core.ValidationErrors
	from, err := core.ParseDate(start, false)
	verrs = collect(verrs, renameField(err, FieldStart))
	to, err := core.ParseDate(end, false)
	verrs = collect(verrs, renameField(err, FieldEnd))
	if len(verrs) > 0 {
		s.metrics.RecordQuery(metrics.StatusInvalid, 0, 0)
		return QueryResult{}, verrs
	}
	return s.Query(ctx, from, to)
}

// Query returns the transactions within [start, end] in store order. Store
// errors fail the whole query.
func (s *LedgerService) Query(ctx context.Context, start, end core.Date) (QueryResult, error) {
	began := time.Now()
	txs, err := s.store.Range(ctx, start, end)
	if err != nil {
		s.metrics.RecordQuery(metrics.StatusError, 0, time.Since(began))
		s.logger.LogFields(ctx, slog.LevelError, "Failed to query transactions",
			log.NewFields().
				WithOperation(log.OpQuery).
				WithRange(start.String(), end.String(), 0).
				WithError(err))
		return QueryResult{}, fmt.Errorf("query transactions: %w", err)
	}
	s.metrics.RecordQuery(metrics.StatusSuccess, len(txs), time.Since(began))
	s.logger.LogFields(ctx, slog.LevelDebug, "Transactions queried",
		log.NewFields().WithOperation(log.OpQuery).WithRange(start.String(), end.String(), len(txs)))

	res := QueryResult{
		Start:        start,
		End:          end,
		Transactions: txs,
		Empty:        len(txs) == 0,
	}
	if res.Empty {
		res.Message = MsgNoTransactions
	} else {
		res.Message = fmt.Sprintf("Transactions from %s to %s (%d found)", start, end, len(txs))
	}
	return res, nil
}

// Summarize totals income and expense over txs.
func (s *LedgerService) Summarize(txs []core.Transaction) core.Summary {
	return core.Summarize(txs)
}

// SavePlot writes the income and expense chart of txs to path.
func (s *LedgerService) SavePlot(ctx context.Context, path string, txs []core.Transaction) error {
	return s.plot(ctx, path, func() error { return report.SavePlot(path, txs) })
}

// WritePlot streams the chart of txs as PNG.
func (s *LedgerService) WritePlot(ctx context.Context, w io.Writer, txs []core.Transaction) error {
	return s.plot(ctx, "", func() error { return report.WritePNG(w, txs) })
}

func (s *LedgerService) plot(ctx context.Context, path string, render func() error) error {
	err := render()
	switch {
	case errors.Is(err, report.ErrNothingToPlot):
		s.metrics.RecordPlot(metrics.StatusInvalid)
	case err != nil:
		s.metrics.RecordPlot(metrics.StatusError)
		s.logger.LogFields(ctx, slog.LevelError, "Failed to render plot",
			log.NewFields().WithOperation(log.OpPlot).WithError(err))
	default:
		s.metrics.RecordPlot(metrics.StatusSuccess)
		if path != "" {
			s.logger.InfoContext(ctx, "Plot saved", "file", path)
		}
	}
	return err
}

// Close releases the store when it holds resources.
func (s *LedgerService) Close() error {
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func collect(verrs core.ValidationErrors, err error) core.ValidationErrors {
	var fe *core.FieldError
	if errors.As(err, &fe) {
		return append(verrs, fe)
	}
	return verrs
}

func renameField(err error, field string) error {
	var fe *core.FieldError
	if errors.As(err, &fe) {
		return &core.FieldError{Field: field, Message: fe.Message, Err: fe.Err}
	}
	return err
}

package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/report"
	"ledger/internal/services"
)

const (
	MsgTransactionAdded = "Transaction added successfully!"
	MsgNothingToPlot    = "No transactions to plot in the given range."
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	today := core.Today()
	data := struct {
		Today      string
		MonthStart string
	}{
		Today:      today.String(),
		MonthStart: core.NewDate(today.Year(), int(today.Month()), 1).String(),
	}
	s.render(w, r, http.StatusOK, "index.html", data)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := ParseAddRequest(r)
	if err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	t, err := s.svc.AddTransaction(r.Context(), req)
	var verrs core.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		s.render(w, r, http.StatusUnprocessableEntity, "field_errors", verrs)
		return
	case err != nil:
		InternalServerError("Failed to save the transaction").Write(w)
		return
	}

	if s.plots != nil {
		s.plots.Purge()
	}
	NewHTMXResponse().
		TriggerTransactionCreated(t.Date.String()).
		Notice("success", MsgTransactionAdded).
		Write(w)
}

func (s *Server) handleViewTransactions(w http.ResponseWriter, r *http.Request) {
	res, ok := s.query(w, r)
	if !ok {
		return
	}
	view := newTransactionsView(res, s.svc.Summarize(res.Transactions), s.opts.Currency)
	s.render(w, r, http.StatusOK, "transactions", view)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	key := ParseRangeParams(r.URL.Query()).Encode()
	var gen uint64
	if s.plots != nil {
		gen = s.plots.Generation()
		if png, ok := s.plots.Get(key); ok {
			writePNG(w, png)
			return
		}
	}

	res, ok := s.query(w, r)
	if !ok {
		return
	}
	if res.Empty {
		NotFoundError(MsgNothingToPlot).Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.svc.WritePlot(r.Context(), &buf, res.Transactions); err != nil {
		InternalServerError("Failed to render the plot").Write(w)
		return
	}
	if s.plots != nil {
		// An add that landed during the render purged the cache; keep it empty.
		s.plots.PutAt(gen, key, buf.Bytes())
	}
	writePNG(w, buf.Bytes())
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleSavePlot(w http.ResponseWriter, r *http.Request) {
	res, ok := s.query(w, r)
	if !ok {
		return
	}
	err := s.svc.SavePlot(r.Context(), s.opts.PlotFile, res.Transactions)
	switch {
	case errors.Is(err, report.ErrNothingToPlot):
		NotFoundError(MsgNothingToPlot).Write(w)
	case err != nil:
		InternalServerError("Failed to save the plot").Write(w)
	default:
		NewHTMXResponse().Notice("success", fmt.Sprintf("Plot saved as '%s'.", s.opts.PlotFile)).Write(w)
	}
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Initialize(r.Context()); err != nil {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldComponent, log.ComponentRateLimit,
		log.FieldClientIP, s.resolver.ClientIP(r))
	w.Header().Set("Retry-After", "1")
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
}

// query parses the range parameters and runs the query, writing the error
// response itself when it fails.
func (s *Server) query(w http.ResponseWriter, r *http.Request) (services.QueryResult, bool) {
	params := ParseRangeParams(r.URL.Query())
	res, err := s.svc.QueryTransactions(r.Context(), params.Start, params.End)
	var verrs core.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		s.render(w, r, http.StatusUnprocessableEntity, "field_errors", verrs)
		return res, false
	case err != nil:
		InternalServerError("Failed to read transactions").Write(w)
		return res, false
	}
	return res, true
}

// render executes a template into a buffer so a failure still yields a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	began := time.Now()
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldComponent, log.ComponentTemplate,
			log.FieldOperation, log.OpRender,
			"template", name,
			log.FieldError, err)
		InternalServerError("Failed to render page").Write(w)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Template rendered",
		"template", name, log.FieldDuration, time.Since(began).Milliseconds())
	NewHTMXResponse().Status(status).BodyHTML(buf.Bytes()).Write(w)
}

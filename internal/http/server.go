// Package http serves the ledger web UI.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"ledger/internal/cache"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
	"ledger/internal/services"
	appweb "ledger/web"
)

// Options are the server settings taken from configuration.
type Options struct {
	Addr     string
	PlotFile string
	Currency string

	RateLimit ratelimit.Config

	// PlotCacheTTL keeps rendered charts per range; zero disables caching.
	PlotCacheTTL time.Duration

	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

type Server struct {
	http.Server
	templates *template.Template
	svc       *services.LedgerService
	limiter   *ratelimit.Limiter
	resolver  *security.ClientIPResolver
	logger    *log.Logger
	opts      Options

	plots   *cache.LRU[[]byte]
	janitor *cache.Janitor

	shutdownOnce sync.Once
}

// NewServer configures routes, templates and middleware, returning a
// ready-to-run server. Template parse errors are fatal.
func NewServer(opts Options, svc *services.LedgerService, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		templates: t,
		svc:       svc,
		limiter:   ratelimit.NewLimiter(opts.RateLimit),
		resolver:  security.NewClientIPResolver(),
		logger:    logger,
		opts:      opts,
	}
	if opts.PlotCacheTTL > 0 {
		s.plots = cache.NewLRU[[]byte](64, opts.PlotCacheTTL)
		s.janitor = cache.StartJanitor(opts.PlotCacheTTL, s.plots)
	}

	mux := http.NewServeMux()
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /transactions", s.handleAddTransaction)
	mux.HandleFunc("GET /transactions", s.handleViewTransactions)
	mux.HandleFunc("GET /plot.png", s.handlePlot)
	mux.HandleFunc("POST /plot/save", s.handleSavePlot)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.resolver.ClientIP, s.handleRateLimited, http.MethodPost)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = log.RequestMiddleware(logger, trace.FromRequest, s.resolver.ClientIP)(handler)
	handler = trace.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		if s.janitor != nil {
			s.janitor.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
		s.logger.Info("HTTP server stopped", log.FieldOperation, log.OpShutdown)
	})
	return shutdownErr
}

// Command ledger records income and expense transactions and reports on them,
// either interactively in the terminal or through a small web UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	apphttp "ledger/internal/http"
	"ledger/internal/log"
	"ledger/internal/metrics"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/services"
)

const usage = `Usage: ledger [command] [flags]

Commands:
  (none)   interactive menu
  add      add one transaction
  view     show transactions and summary within a date range
  init     create the ledger store if missing
  serve    start the web UI
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	cmd := ""
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		logger := cli.SetupLogger(cfg.SlogLevel(), stdout)
		if err := serve(ctx, cfg, logger); err != nil {
			logger.Error("Server error", log.FieldError, err)
			return 1
		}
		return 0
	case "", "add", "view", "init":
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	// Terminal output belongs to the user; logs go to stderr and only when they matter.
	level := cfg.SlogLevel()
	if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logger := cli.SetupLogger(level, stderr).WithComponent(log.ComponentCLI)

	svc, closeStore, err := newService(ctx, cfg, logger, metrics.Noop{})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closeStore()

	app := cli.NewApp(svc, stdin, stdout, cli.Options{
		Currency: cfg.Currency,
		PlotFile: cfg.PlotFile,
		Plain:    os.Getenv("NO_COLOR") != "",
	})

	switch cmd {
	case "":
		err = app.Menu(ctx)
	case "add":
		err = app.Add(ctx)
	case "init":
		err = app.Init(ctx)
	case "view":
		fs := flag.NewFlagSet("view", flag.ContinueOnError)
		fs.SetOutput(stderr)
		var opts cli.ViewOptions
		fs.StringVar(&opts.Start, "start", "", "start date (dd-mm-yyyy)")
		fs.StringVar(&opts.End, "end", "", "end date (dd-mm-yyyy)")
		fs.BoolVar(&opts.Plot, "plot", false, "save the chart without asking")
		if err := fs.Parse(args); err != nil {
			return 2
		}
		err = app.View(ctx, opts)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return 1
	}
	return 0
}

// newService opens the configured store and wraps it in a ledger service.
func newService(ctx context.Context, cfg *config.Config, logger *log.Logger, recorder metrics.Recorder) (*services.LedgerService, func(), error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to close store", log.FieldBackend, res.Type, log.FieldError, err)
		}
	}
	return services.NewLedgerService(res.Store, logger, recorder), closeStore, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewPrometheusMetrics()
	svc, closeStore, err := newService(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer closeStore()

	rl := ratelimit.DefaultConfig()
	rl.RequestsPerSecond = cfg.RateLimitRPS
	rl.Burst = cfg.RateLimitBurst

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:           cfg.Addr(),
		PlotFile:       cfg.PlotFile,
		Currency:       cfg.Currency,
		RateLimit:      rl,
		PlotCacheTTL:   cfg.PlotCacheTTL,
		MetricsHandler: m.Handler(),
	}, svc, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting ledger server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

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
	"path/filepath"
	"syscall"
	"time"

	"github.com/aluiziolira/go-scrape-headlines/config"
	"github.com/aluiziolira/go-scrape-headlines/models"
	"github.com/aluiziolira/go-scrape-headlines/pipeline"
	"github.com/aluiziolira/go-scrape-headlines/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, nil))
}

// run executes one scrape and returns the process exit code. A non-nil
// transport replaces the network transport for every source request.
func run(args []string, stdout io.Writer, transport http.RoundTripper) int {
	defaultCfg := config.DefaultConfig()
	limitDefault := defaultCfg.DisplayLimit
	if value, ok, err := config.EnvInt("SCRAPER_LIMIT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_LIMIT: %v\n", err)
		return 1
	} else if ok {
		limitDefault = value
	}
	outputDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		outputDefault = value
	}
	sourcesDefault, _ := config.EnvString("SCRAPER_SOURCES")
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	flags := flag.NewFlagSet("scraper", flag.ContinueOnError)
	outputFile := flags.String("output", outputDefault, "Output file path")
	displayLimit := flags.Int("limit", limitDefault, "Number of headlines to print")
	displayWidth := flags.Int("display-width", defaultCfg.DisplayWidth, "Truncate printed headlines to this many columns (0 disables)")
	sourcesFile := flags.String("sources", sourcesDefault, "YAML file overriding the primary/fallback sources")
	timeout := flags.Duration("timeout", defaultCfg.Timeout, "Per-request timeout")
	fallbackOnEmpty := flags.Bool("fallback-on-empty", defaultCfg.FallbackOnEmpty, "Treat a page with no matching headlines as a failed source")
	respectRobots := flags.Bool("respect-robots", defaultCfg.RespectRobotsTxt, "Respect robots.txt directives")
	verbose := flags.Bool("v", false, "Enable verbose logging")
	metricsAddr := flags.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.OutputFile = *outputFile
	cfg.DisplayLimit = *displayLimit
	cfg.DisplayWidth = *displayWidth
	cfg.Timeout = *timeout
	cfg.FallbackOnEmpty = *fallbackOnEmpty
	cfg.RespectRobotsTxt = *respectRobots
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr
	if *sourcesFile != "" {
		if err := cfg.LoadSources(*sourcesFile); err != nil {
			slog.Error("loading sources", slog.Any("error", err))
			return 1
		}
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		return 1
	}

	slog.Info("starting news headlines scraper",
		slog.String("primary", cfg.Primary.URL),
		slog.String("fallback", cfg.Fallback.URL),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		return 1
	}
	if transport != nil {
		s.WithTransport(transport)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", slog.Any("error", err))
			}
		}()
	}

	result, err := s.Run(ctx)
	if err != nil {
		slog.Error("scraping failed", slog.Any("error", err))
		fmt.Fprintln(stdout, "Failed to scrape headlines from all sources")
		printAttempts(stdout, result)
		return 1
	}

	pipeline.Display(stdout, result.Headlines, cfg.DisplayLimit, cfg.DisplayWidth)

	if result.Headlines.Len() == 0 {
		fmt.Fprintln(stdout, "No headlines to save!")
		return 1
	}

	writer := pipeline.NewTextWriter(cfg.OutputFile)
	if err := writer.Write(result.Headlines); err != nil {
		slog.Error("saving headlines", slog.Any("error", err))
		fmt.Fprintln(stdout, "Failed to save headlines to file")
		return 1
	}
	if err := writer.Validate(); err != nil {
		slog.Error("output validation failed", slog.Any("error", err))
		return 1
	}

	printSummary(stdout, result, writer.Path())
	return 0
}

func printSummary(w io.Writer, result *models.ScrapeResult, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "Scrape complete")
	fmt.Fprintf(w, "  Source:        %s (%s)\n", result.Source, result.URL)
	fmt.Fprintf(w, "  Headlines:     %d\n", result.Headlines.Len())
	fmt.Fprintf(w, "  Attempts:      %d\n", len(result.Attempts))
	fmt.Fprintf(w, "  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	if abs, err := filepath.Abs(outputFile); err == nil {
		outputFile = abs
	}
	fmt.Fprintf(w, "  Output file:   %s\n", outputFile)
	fmt.Fprintln(w, separator)
}

func printAttempts(w io.Writer, result *models.ScrapeResult) {
	if result == nil {
		return
	}
	for _, a := range result.Attempts {
		reason := "ok"
		if a.Err != nil {
			reason = scraper.ErrorTypeLabel(a.Err)
		}
		fmt.Fprintf(w, "  %-10s %-30s %s\n", a.Source, a.URL, reason)
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

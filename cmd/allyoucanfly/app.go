package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/cache"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/config"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/database"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/fetcher"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/log"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/report"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/route"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/search"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/throttle"
)

// loadConfig builds a Config from defaults and the configuration file.
// If the user explicitly specified a config file path, a missing file is an
// error; otherwise the defaults are used silently.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	path := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case path != "":
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")
	return cfg, nil
}

// getBoolFlag reads a boolean flag from the command or the root.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the secure structured logger for cfg.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return log.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return log.NewSecureLogger(w, cfg.Verbose)
}

// signalContext returns a context cancelled on interrupt. Cancelling a
// search still yields a partial, aborted result.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// loadGraph reads the route catalog.
func loadGraph(cfg *config.Config) (*route.Graph, error) {
	catalog, err := route.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load route catalog: %w", err)
	}
	g, err := route.New(catalog)
	if err != nil {
		return nil, fmt.Errorf("invalid route catalog %s: %w", cfg.CatalogPath, err)
	}
	return g, nil
}

// openCache opens the configured cache store and wraps it in a LegCache.
func openCache(cfg *config.Config, logger *slog.Logger) (*cache.LegCache, cache.Store, error) {
	store, err := database.Open(cfg.CacheBackend, cfg.DataDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache store: %w", err)
	}
	return cache.New(store, cfg.CacheTTL, cache.WithLogger(logger)), store, nil
}

// newFetcher builds the configured leg source.
func newFetcher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (fetcher.Fetcher, error) {
	if cfg.FixturesDir != "" {
		return fetcher.NewDir(cfg.FixturesDir)
	}

	if cfg.ProxyAddress != "" {
		if err := fetcher.CheckProxy(ctx, cfg.ProxyAddress); err != nil {
			return nil, fmt.Errorf("proxy check failed (make sure a SOCKS5 proxy is running at %s): %w", cfg.ProxyAddress, err)
		}
		logger.Info("proxy connection verified", slog.String("address", cfg.ProxyAddress))
	}

	return fetcher.NewHTTP(fetcher.HTTPConfig{
		URLTemplate:  cfg.URLTemplate,
		Headers:      cfg.Headers,
		ProxyAddress: cfg.ProxyAddress,
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
	}, fetcher.WithLogger(logger))
}

// newEngine wires the search engine for cfg. The returned cleanup releases
// the throttle timer and the cache store.
func newEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*search.Engine, func(), error) {
	graph, err := loadGraph(cfg)
	if err != nil {
		return nil, nil, err
	}

	f, err := newFetcher(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	legs, store, err := openCache(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	th := throttle.New(throttle.Config{
		MaxConsecutive:  cfg.MaxConsecutive,
		BaseDelay:       cfg.BaseDelay,
		Jitter:          cfg.Jitter,
		Cooldown:        cfg.Cooldown,
		InactivityReset: cfg.InactivityReset,
	}, throttle.WithLogger(logger))

	composer := search.NewComposer(graph, legs, th, f,
		search.WithLogger(logger),
		search.WithOptions(searchOptions(cfg)),
	)

	cleanup := func() {
		th.Stop()
		if err := store.Close(); err != nil {
			logger.Error("failed to close cache store", slog.String("error", err.Error()))
		}
	}
	return search.NewEngine(composer), cleanup, nil
}

// searchOptions maps the configuration onto engine options.
func searchOptions(cfg *config.Config) search.Options {
	return search.Options{
		MaxRetries:         cfg.MaxRetries,
		RetryBaseDelay:     cfg.RetryBaseDelay,
		ShortCooldown:      cfg.ShortCooldown,
		MediumCooldown:     cfg.MediumCooldown,
		LongCooldown:       cfg.LongCooldown,
		BookingHorizonDays: cfg.BookingHorizonDays,
		Concurrency:        cfg.Concurrency,
		MinTurnaround:      cfg.MinTurnaround,
	}
}

// openReportOutput returns the report destination: cfg.ReportFile when set,
// otherwise fallback. The file is created with owner-only permissions.
func openReportOutput(cfg *config.Config, fallback io.Writer) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return fallback, func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// newReportWriter selects the report format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

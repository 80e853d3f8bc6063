package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/config"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/report"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/search"
)

// errUnreachable is returned after the report when every hop failed.
var errUnreachable = errors.New("flight data source unreachable")

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search ORIGINS DESTINATIONS",
		Short: "Search flight itineraries",
		Long: `Search finds itineraries from ORIGINS to DESTINATIONS on one date.

ORIGINS and DESTINATIONS are comma-separated airport codes, airport group
codes from the route catalog (e.g. LON), or ANY for every origin.

Examples:
  # Direct flights
  allyoucanfly search BUD LTN --date 2025-03-10

  # Up to two transfers, allowing next-day connections
  allyoucanfly search BUD,VIE MAD --date 2025-03-10 --transfers 2 --overnight

  # One stop with an airport change within 80 km
  allyoucanfly search BUD MAD --date 2025-03-10 --transfers 1 --radius 80

  # Round trip with two candidate return dates, streamed as found
  allyoucanfly search ANY LON --date 2025-03-10 --return 2025-03-14,2025-03-15 --stream

  # Offline search against JSON fixtures, Markdown report to a file
  allyoucanfly search BUD LTN --date 2025-03-10 --fixtures ./legs --markdown -o out/report.md`,
		Args: cobra.ExactArgs(2),
		RunE: runSearchCmd,
	}

	cmd.Flags().StringP("date", "d", "", "Departure date (YYYY-MM-DD)")
	cmd.Flags().StringSliceP("return", "r", nil, "Return dates for a round trip (YYYY-MM-DD, repeatable)")
	cmd.Flags().IntP("transfers", "t", 0, "Maximum transfers (0, 1 or 2)")
	cmd.Flags().Float64("radius", 0, "Allow an airport change within this many km (0 disables)")
	cmd.Flags().Bool("overnight", false, "Allow connecting flights on later days")
	cmd.Flags().Int("max-day-offset", config.DefaultMaxDayOffset, "Latest day offset of a connecting flight with --overnight")
	cmd.Flags().Int("min-connection", int(config.DefaultMinConnection.Minutes()), "Minimum connection in minutes")
	cmd.Flags().Int("max-connection", int(config.DefaultMaxConnection.Minutes()), "Maximum connection in minutes")
	cmd.Flags().Int("horizon", 0, "Booking horizon in days from today (0 is unlimited)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Candidates resolved in parallel")
	cmd.Flags().Bool("stream", false, "Print itineraries as they are found")

	// Sources
	cmd.Flags().String("catalog", "", "Route catalog file (YAML or JSON)")
	cmd.Flags().String("fixtures", "", "Read legs from JSON fixtures in this directory")
	cmd.Flags().String("url", "", "Leg endpoint URL template with {origin}, {destination} and {date}")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy for leg requests (host:port)")
	cmd.Flags().String("cache", "", "Cache backend: sqlite, badger or memory")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, req, err := buildSearch(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid search: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	return runSearch(ctx, cmd, cfg, req, logger)
}

// buildSearch merges flags over the loaded configuration and parses the
// positional arguments into a search request.
func buildSearch(cmd *cobra.Command, args []string) (*config.Config, search.Request, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, search.Request{}, err
	}

	flags := cmd.Flags()
	if err := applySearchFlags(cmd, cfg); err != nil {
		return nil, search.Request{}, err
	}

	dateText, err := flags.GetString("date")
	if err != nil {
		return nil, search.Request{}, err
	}
	date, err := model.ParseDate(dateText)
	if err != nil {
		return nil, search.Request{}, fmt.Errorf("invalid --date %q: %w", dateText, err)
	}

	returnTexts, err := flags.GetStringSlice("return")
	if err != nil {
		return nil, search.Request{}, err
	}
	returns, err := parseDates(returnTexts)
	if err != nil {
		return nil, search.Request{}, err
	}

	req := search.Request{
		Query: search.Query{
			Origins:        parseCodes(args[0]),
			Destinations:   parseCodes(args[1]),
			Date:           date,
			MaxTransfers:   cfg.MaxTransfers,
			RadiusKm:       cfg.RadiusKm,
			AllowOvernight: cfg.AllowOvernight,
			MaxDayOffset:   cfg.MaxDayOffset,
			MinConnection:  cfg.MinConnection,
			MaxConnection:  cfg.MaxConnection,
		},
		ReturnDates: returns,
	}
	return cfg, req, nil
}

// applySearchFlags overlays only the flags the user set, so file values
// survive flag defaults.
func applySearchFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	set := func(name string, apply func() error) {
		if err != nil || !flags.Changed(name) {
			return
		}
		err = apply()
	}

	set("transfers", func() (e error) { cfg.MaxTransfers, e = flags.GetInt("transfers"); return })
	set("radius", func() (e error) { cfg.RadiusKm, e = flags.GetFloat64("radius"); return })
	set("overnight", func() (e error) { cfg.AllowOvernight, e = flags.GetBool("overnight"); return })
	set("max-day-offset", func() (e error) { cfg.MaxDayOffset, e = flags.GetInt("max-day-offset"); return })
	set("min-connection", func() error { return setMinutes(flags.GetInt, "min-connection", &cfg.MinConnection) })
	set("max-connection", func() error { return setMinutes(flags.GetInt, "max-connection", &cfg.MaxConnection) })
	set("horizon", func() (e error) { cfg.BookingHorizonDays, e = flags.GetInt("horizon"); return })
	set("concurrency", func() (e error) { cfg.Concurrency, e = flags.GetInt("concurrency"); return })
	set("stream", func() (e error) { cfg.Stream, e = flags.GetBool("stream"); return })
	set("catalog", func() (e error) { cfg.CatalogPath, e = flags.GetString("catalog"); return })
	set("fixtures", func() (e error) {
		cfg.FixturesDir, e = flags.GetString("fixtures")
		cfg.URLTemplate = ""
		return
	})
	set("url", func() (e error) {
		cfg.URLTemplate, e = flags.GetString("url")
		cfg.FixturesDir = ""
		return
	})
	set("proxy", func() (e error) { cfg.ProxyAddress, e = flags.GetString("proxy"); return })
	set("cache", func() (e error) { cfg.CacheBackend, e = flags.GetString("cache"); return })
	if err != nil {
		return err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	cfg.ReportFile, err = flags.GetString("output")
	return err
}

func setMinutes(get func(string) (int, error), name string, dst *time.Duration) error {
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = time.Duration(v) * time.Minute
	return nil
}

// parseCodes splits a comma-separated station list.
func parseCodes(arg string) []string {
	var codes []string
	for _, part := range strings.Split(arg, ",") {
		if code := strings.ToUpper(strings.TrimSpace(part)); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// parseDates parses return dates, dropping duplicates.
func parseDates(texts []string) ([]time.Time, error) {
	seen := make(map[string]bool, len(texts))
	var dates []time.Time
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" || seen[text] {
			continue
		}
		d, err := model.ParseDate(text)
		if err != nil {
			return nil, fmt.Errorf("invalid --return %q: %w", text, err)
		}
		seen[text] = true
		dates = append(dates, d)
	}
	return dates, nil
}

// runSearch executes one search and writes the report.
func runSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, req search.Request, logger *slog.Logger) error {
	engine, cleanup, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var sink search.Sink
	if cfg.Stream || cfg.Verbose {
		sink = report.NewProgress(cmd.ErrOrStderr(), cfg.Stream)
	}

	logger.Info("starting search",
		slog.String("origins", strings.Join(req.Origins, ",")),
		slog.String("destinations", strings.Join(req.Destinations, ",")),
		slog.String("date", model.FormatDate(req.Date)),
		slog.Int("transfers", req.MaxTransfers),
		slog.Bool("round_trip", req.RoundTrip()),
	)

	result, err := engine.Search(ctx, req, sink)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	output, closeOutput, err := openReportOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := newReportWriter(cfg, output).Write(result); err != nil {
		_ = closeOutput()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := closeOutput(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if result.Status() == model.StatusUnreachable {
		return errUnreachable
	}
	return nil
}

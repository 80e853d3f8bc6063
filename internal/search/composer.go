package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/cache"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/fetcher"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/route"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/throttle"
)

// Composer builds itineraries over the route graph.
// One Composer is shared by every search of the process so that all fetches
// go through the same cache and throttle.
type Composer struct {
	graph    *route.Graph
	cache    *cache.LegCache
	throttle *throttle.Throttle
	fetcher  fetcher.Fetcher
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
	sleep    throttle.SleepFunc
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// WithOptions replaces the engine settings.
func WithOptions(opts Options) Option {
	return func(c *Composer) {
		c.opts = opts
	}
}

// WithClock sets the time source used for the booking horizon.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		c.now = now
	}
}

// WithSleep replaces the transport backoff wait.
func WithSleep(sleep throttle.SleepFunc) Option {
	return func(c *Composer) {
		c.sleep = sleep
	}
}

// NewComposer creates a Composer.
func NewComposer(graph *route.Graph, legs *cache.LegCache, th *throttle.Throttle, f fetcher.Fetcher, opts ...Option) *Composer {
	c := &Composer{
		graph:    graph,
		cache:    legs,
		throttle: th,
		fetcher:  f,
		opts:     DefaultOptions(),
		logger:   slog.Default(),
		now:      time.Now,
		sleep:    throttle.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.opts.Concurrency < 1 {
		c.opts.Concurrency = 1
	}
	return c
}

// Graph returns the route graph.
func (c *Composer) Graph() *route.Graph {
	return c.graph
}

// candidate is one unit of search work: a fixed path or an airport-change pair.
type candidate struct {
	label   string
	resolve func(ctx context.Context, s *session) ([]model.Itinerary, error)
}

// Compose runs a directional search and returns the sorted itineraries.
// A cancelled context is not an error: the itineraries found so far are
// returned with Outcome.Aborted set.
func (c *Composer) Compose(ctx context.Context, q Query, sink Sink) ([]model.Itinerary, model.Outcome, error) {
	return c.compose(ctx, q, sink, c.logger)
}

func (c *Composer) compose(ctx context.Context, q Query, sink Sink, logger *slog.Logger) ([]model.Itinerary, model.Outcome, error) {
	if err := q.Validate(); err != nil {
		return nil, model.Outcome{}, err
	}
	if sink == nil {
		sink = NopSink{}
	}

	origins, err := c.graph.ExpandAll(q.Origins)
	if err != nil {
		return nil, model.Outcome{}, fmt.Errorf("origins: %w", err)
	}
	destinations, err := c.graph.ExpandAll(q.Destinations)
	if err != nil {
		return nil, model.Outcome{}, fmt.Errorf("destinations: %w", err)
	}
	q.Date = model.Day(q.Date)

	s := c.newSession(logger)
	candidates := c.directCandidates(q, origins, destinations)
	switch {
	case q.MaxTransfers == 0:
	case q.RadiusKm > 0:
		candidates = append(candidates, c.airportChangeCandidates(q, origins, destinations)...)
	default:
		candidates = append(candidates, c.multiStopCandidates(q, origins, destinations)...)
	}

	logger.Info("composing itineraries",
		slog.Int("origins", len(origins)),
		slog.Int("destinations", len(destinations)),
		slog.String("date", model.FormatDate(q.Date)),
		slog.Int("candidates", len(candidates)),
	)

	results := c.run(ctx, s, candidates, sink)

	outcome := s.snapshot()
	outcome.Aborted = ctx.Err() != nil
	return results, outcome, nil
}

// run resolves candidates with bounded concurrency. Results are deduplicated
// by identity key and streamed to the sink as they are found.
func (c *Composer) run(ctx context.Context, s *session, candidates []candidate, sink Sink) []model.Itinerary {
	var (
		mu      sync.Mutex
		results []model.Itinerary
		seen    = make(map[string]bool)
		done    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	total := len(candidates)
	for _, cand := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			its, err := cand.resolve(gctx, s)

			mu.Lock()
			defer mu.Unlock()
			for _, it := range its {
				key := it.Key()
				if seen[key] {
					continue
				}
				seen[key] = true
				results = append(results, it)
				sink.Append(it)
			}
			done++
			sink.Progress(done, total, cand.label)

			if err != nil && !errors.Is(err, errHopFailed) {
				return err
			}
			return nil
		})
	}
	// Only context errors reach the group; they are reported through Outcome.
	_ = g.Wait()

	model.SortItineraries(results)
	return results
}

func (c *Composer) withinHorizon(date time.Time) bool {
	if c.opts.BookingHorizonDays <= 0 {
		return true
	}
	limit := model.Day(c.now()).AddDate(0, 0, c.opts.BookingHorizonDays)
	return !model.Day(date).After(limit)
}

func (c *Composer) tierCooldown(tier fetcher.Tier) time.Duration {
	switch tier {
	case fetcher.TierLong:
		return c.opts.LongCooldown
	case fetcher.TierMedium:
		return c.opts.MediumCooldown
	default:
		return c.opts.ShortCooldown
	}
}

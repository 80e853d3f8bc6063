package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Request is one user search: a directional query plus optional return dates.
type Request struct {
	Query
	ReturnDates []time.Time
}

// RoundTrip reports whether return dates were requested.
func (r Request) RoundTrip() bool {
	return len(r.ReturnDates) > 0
}

// Engine runs search sessions. Each session sweeps the leg cache once, runs
// the composer or the round-trip matcher, and wraps the outcome.
type Engine struct {
	composer *Composer
	matcher  *Matcher
}

// NewEngine creates an Engine over composer.
func NewEngine(composer *Composer) *Engine {
	return &Engine{
		composer: composer,
		matcher:  NewMatcher(composer),
	}
}

// Search runs one session. Only invalid requests return an error; aborted
// and failed searches are described by the result status.
func (e *Engine) Search(ctx context.Context, req Request, sink Sink) (*model.SearchResult, error) {
	started := e.composer.now()
	logger := e.composer.logger.With(slog.String("session", uuid.NewString()))

	if removed := e.composer.cache.Sweep(ctx, started); removed > 0 {
		logger.Info("expired cache entries removed", slog.Int("count", removed))
	}

	var (
		its     []model.Itinerary
		outcome model.Outcome
		err     error
	)
	if req.RoundTrip() {
		its, outcome, err = e.matcher.match(ctx, req.Query, req.ReturnDates, sink, logger)
	} else {
		its, outcome, err = e.composer.compose(ctx, req.Query, sink, logger)
	}
	if err != nil {
		return nil, err
	}

	result := &model.SearchResult{
		Origins:      req.Origins,
		Destinations: req.Destinations,
		Date:         model.FormatDate(req.Date),
		Itineraries:  its,
		Outcome:      outcome,
		StartedAt:    started,
		Elapsed:      e.composer.now().Sub(started).Round(time.Millisecond).String(),
	}
	for _, rd := range req.ReturnDates {
		result.ReturnDates = append(result.ReturnDates, model.FormatDate(rd))
	}
	if result.Itineraries == nil {
		result.Itineraries = []model.Itinerary{}
	}

	stats := e.composer.throttle.Stats()
	logger.Info("search finished",
		slog.String("status", string(result.Status())),
		slog.Int("itineraries", len(result.Itineraries)),
		slog.Int("fetches", outcome.Fetches),
		slog.Int("cache_hits", outcome.CacheHits),
		slog.Int("failed_hops", outcome.FailedHops),
		slog.Int("cooldowns", stats.Cooldowns),
		slog.Int("penalties", stats.Penalties),
		slog.String("elapsed", result.Elapsed),
	)
	return result, nil
}

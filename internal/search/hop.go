package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/cache"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/fetcher"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/leg"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// hopResult is the memoized outcome of one hop within a session.
type hopResult struct {
	legs   []model.Leg
	failed bool
}

// session holds the per-search state: counters and the hop memo.
type session struct {
	c      *Composer
	logger *slog.Logger

	mu      sync.Mutex
	outcome model.Outcome
	memo    map[string]hopResult
	flight  singleflight.Group
}

func (c *Composer) newSession(logger *slog.Logger) *session {
	return &session{
		c:      c,
		logger: logger,
		memo:   make(map[string]hopResult),
	}
}

func (s *session) count(fn func(o *model.Outcome)) {
	s.mu.Lock()
	fn(&s.outcome)
	s.mu.Unlock()
}

func (s *session) snapshot() model.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// hop returns the normalized legs of origin to destination on date.
// Dates that the route graph or the booking horizon rule out return no legs
// without any lookup. The error is the context error or errHopFailed.
func (s *session) hop(ctx context.Context, origin, destination string, date time.Time) ([]model.Leg, error) {
	date = model.Day(date)
	if !s.c.withinHorizon(date) || !s.c.graph.IsDateValid(origin, destination, date) {
		return nil, nil
	}
	key := cache.Key(origin, destination, date)

	s.mu.Lock()
	res, ok := s.memo[key]
	s.mu.Unlock()
	if ok {
		return res.result()
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		r, err := s.resolve(ctx, key, origin, destination, date)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.memo[key] = r
		s.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(hopResult).result()
}

func (r hopResult) result() ([]model.Leg, error) {
	if r.failed {
		return nil, errHopFailed
	}
	return r.legs, nil
}

// resolve runs cache lookup, throttled fetch with retries and classification.
func (s *session) resolve(ctx context.Context, key, origin, destination string, date time.Time) (hopResult, error) {
	if raw, ok := s.c.cache.Get(ctx, key); ok {
		s.count(func(o *model.Outcome) {
			o.CacheHits++
			o.ResolvedHops++
		})
		s.logger.Debug("cache hit", slog.String("key", key), slog.Int("legs", len(raw)))
		return hopResult{legs: s.normalize(raw, origin, destination)}, nil
	}

	opts := s.c.opts
	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if err := s.c.throttle.Acquire(ctx); err != nil {
			return hopResult{}, err
		}
		s.count(func(o *model.Outcome) { o.Fetches++ })
		raw, err := s.c.fetcher.Fetch(ctx, origin, destination, date)
		s.c.throttle.Release()

		if err == nil {
			s.c.cache.Put(ctx, key, raw)
			s.count(func(o *model.Outcome) { o.ResolvedHops++ })
			s.logger.Debug("fetched legs", slog.String("key", key), slog.Int("legs", len(raw)))
			return hopResult{legs: s.normalize(raw, origin, destination)}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return hopResult{}, ctxErr
		}

		lastErr = err
		kind, tier := fetcher.Classify(err)
		s.logger.Debug("fetch failed",
			slog.String("key", key),
			slog.Int("attempt", attempt+1),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)

		var waitErr error
		switch kind {
		case fetcher.KindBadRequest:
			s.count(func(o *model.Outcome) { o.ResolvedHops++ })
			return hopResult{legs: []model.Leg{}}, nil
		case fetcher.KindRateLimited:
			waitErr = s.c.throttle.Penalize(ctx, s.c.tierCooldown(tier))
		case fetcher.KindMalformed:
			waitErr = s.c.throttle.Penalize(ctx, opts.ShortCooldown)
		default:
			if attempt < opts.MaxRetries {
				waitErr = s.c.sleep(ctx, opts.RetryBaseDelay<<attempt)
			}
		}
		if waitErr != nil {
			return hopResult{}, waitErr
		}
	}

	s.count(func(o *model.Outcome) { o.FailedHops++ })
	s.logger.Warn("hop abandoned",
		slog.String("key", key),
		slog.Int("attempts", opts.MaxRetries+1),
		slog.String("error", lastErr.Error()),
	)
	return hopResult{failed: true}, nil
}

// normalize converts raw legs and keeps those of the requested hop.
func (s *session) normalize(raw []model.RawLeg, origin, destination string) []model.Leg {
	out := make([]model.Leg, 0, len(raw))
	for _, r := range raw {
		if r.DepartureStation == "" {
			r.DepartureStation = origin
		}
		if r.ArrivalStation == "" {
			r.ArrivalStation = destination
		}
		l, err := leg.Normalize(r)
		if err != nil {
			s.logger.Debug("skipping leg", slog.String("flight", r.FlightCode), slog.String("error", err.Error()))
			continue
		}
		if l.Origin != origin || l.Destination != destination {
			continue
		}
		if l.OriginName == "" {
			if a, ok := s.c.graph.Airport(origin); ok {
				l.OriginName = a.Name
			}
		}
		if l.DestinationName == "" {
			if a, ok := s.c.graph.Airport(destination); ok {
				l.DestinationName = a.Name
			}
		}
		out = append(out, l)
	}
	return out
}

package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// planKey identifies one inbound sub-search.
type planKey struct {
	from string
	to   string
	date string
}

// Matcher pairs outbound itineraries with inbound ones.
type Matcher struct {
	composer      *Composer
	minTurnaround time.Duration
	logger        *slog.Logger
}

// NewMatcher creates a Matcher over composer using its MinTurnaround.
func NewMatcher(composer *Composer) *Matcher {
	return &Matcher{
		composer:      composer,
		minTurnaround: composer.opts.MinTurnaround,
		logger:        composer.logger,
	}
}

// Match runs the outbound search, then one inbound search per unique plan
// key, and returns the outbound itineraries that have at least one
// acceptable return attached. Only progress of the outbound search and the
// final matches reach the sink.
func (m *Matcher) Match(ctx context.Context, q Query, returnDates []time.Time, sink Sink) ([]model.Itinerary, model.Outcome, error) {
	return m.match(ctx, q, returnDates, sink, m.logger)
}

func (m *Matcher) match(ctx context.Context, q Query, returnDates []time.Time, sink Sink, logger *slog.Logger) ([]model.Itinerary, model.Outcome, error) {
	if sink == nil {
		sink = NopSink{}
	}

	outbound, outcome, err := m.composer.compose(ctx, q, progressOnly{next: sink}, logger)
	if err != nil {
		return nil, outcome, err
	}
	outbound = dedupeBySignature(outbound)

	wildcard := q.hasWildcardOrigin()
	var destGroup map[string]bool
	if wildcard {
		members, err := m.composer.graph.ExpandAll(q.Destinations)
		if err != nil {
			return nil, outcome, err
		}
		destGroup = make(map[string]bool, len(members))
		for _, d := range members {
			destGroup[d] = true
		}
	}

	plans := make(map[planKey][]model.Itinerary)
	var matched []model.Itinerary

	for _, out := range outbound {
		if ctx.Err() != nil {
			break
		}

		var accepted []model.Itinerary
		seen := make(map[string]bool)
		for _, rd := range returnDates {
			key, inboundQuery := m.plan(q, out, model.Day(rd), wildcard)

			inbound, ok := plans[key]
			if !ok {
				var sub model.Outcome
				inbound, sub, err = m.composer.compose(ctx, inboundQuery, NopSink{}, logger)
				if err != nil {
					logger.Warn("inbound search skipped", slog.String("from", key.from), slog.String("error", err.Error()))
					inbound = nil
				}
				outcome.Merge(sub)
				if ctx.Err() != nil {
					break
				}
				plans[key] = inbound
			}

			for _, in := range inbound {
				if !m.accepts(out, in, wildcard, destGroup) {
					continue
				}
				k := in.Key()
				if seen[k] {
					continue
				}
				seen[k] = true
				accepted = append(accepted, in)
			}
		}

		if len(accepted) == 0 {
			continue
		}
		model.SortItineraries(accepted)
		out.Returns = accepted
		matched = append(matched, out)
	}

	model.SortItineraries(matched)
	for _, it := range matched {
		sink.Append(it)
	}

	outcome.Aborted = outcome.Aborted || ctx.Err() != nil
	logger.Info("round trips matched",
		slog.Int("outbound", len(outbound)),
		slog.Int("matched", len(matched)),
		slog.Int("inbound_searches", len(plans)),
	)
	return matched, outcome, nil
}

// plan returns the inbound plan key and query for one outbound itinerary.
// Regular searches fly back from the outbound arrival to the original
// origins. Wildcard-origin searches fly back from the destination group to
// the outbound origin.
func (m *Matcher) plan(q Query, out model.Itinerary, date time.Time, wildcard bool) (planKey, Query) {
	inbound := q
	inbound.Date = date
	if wildcard {
		inbound.Origins = slices.Clone(q.Destinations)
		inbound.Destinations = []string{out.Origin()}
		return planKey{from: joinCodes(q.Destinations), to: out.Origin(), date: model.FormatDate(date)}, inbound
	}
	inbound.Origins = []string{out.Destination()}
	inbound.Destinations = slices.Clone(q.Origins)
	return planKey{from: out.Destination(), to: joinCodes(q.Origins), date: model.FormatDate(date)}, inbound
}

// accepts applies the turnaround rule and, for wildcard origins, the
// station checks.
func (m *Matcher) accepts(out, in model.Itinerary, wildcard bool, destGroup map[string]bool) bool {
	if !in.Departure().After(out.Arrival()) {
		return false
	}
	if in.Departure().Sub(out.Arrival()) < m.minTurnaround {
		return false
	}
	if wildcard {
		if !destGroup[in.Origin()] || in.Destination() != out.Origin() {
			return false
		}
	}
	return true
}

func dedupeBySignature(its []model.Itinerary) []model.Itinerary {
	seen := make(map[string]bool, len(its))
	out := make([]model.Itinerary, 0, len(its))
	for _, it := range its {
		sig := it.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, it)
	}
	return out
}

func joinCodes(codes []string) string {
	sorted := slices.Clone(codes)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

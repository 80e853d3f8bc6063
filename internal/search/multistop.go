package search

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// paths enumerates simple paths from each origin to any destination with
// between minStations and maxStations stations, deduplicated by signature.
func (c *Composer) paths(origins, destinations []string, minStations, maxStations int) [][]string {
	targets := make(map[string]bool, len(destinations))
	for _, d := range destinations {
		targets[d] = true
	}

	var (
		out  [][]string
		seen = make(map[string]bool)
	)
	var walk func(path []string, visited map[string]bool)
	walk = func(path []string, visited map[string]bool) {
		last := path[len(path)-1]
		if len(path) >= minStations && targets[last] {
			sig := strings.Join(path, "-")
			if !seen[sig] {
				seen[sig] = true
				out = append(out, slices.Clone(path))
			}
		}
		if len(path) == maxStations {
			return
		}
		for _, next := range c.graph.Neighbors(last) {
			if visited[next] {
				continue
			}
			visited[next] = true
			walk(append(path, next), visited)
			delete(visited, next)
		}
	}

	for _, o := range origins {
		walk([]string{o}, map[string]bool{o: true})
	}
	return out
}

// precheck confirms that every hop of path has at least one valid date in
// the window it could be probed in, before any network access.
func (c *Composer) precheck(q Query, path []string) bool {
	span := q.maxOffset() + 1
	for i := 0; i+1 < len(path); i++ {
		from := q.Date
		to := q.Date.AddDate(0, 0, i*span)
		if !c.graph.HasDateWithin(path[i], path[i+1], from, to) {
			return false
		}
	}
	return true
}

// multiStopCandidates returns one candidate per connecting path.
func (c *Composer) multiStopCandidates(q Query, origins, destinations []string) []candidate {
	var out []candidate
	for _, path := range c.paths(origins, destinations, 3, q.MaxTransfers+2) {
		if !c.precheck(q, path) {
			continue
		}
		out = append(out, candidate{
			label: strings.Join(path, "-"),
			resolve: func(ctx context.Context, s *session) ([]model.Itinerary, error) {
				chains, err := s.chains(ctx, q, path, 0, nil)
				its := make([]model.Itinerary, 0, len(chains))
				for _, ch := range chains {
					its = append(its, model.NewItinerary(ch...))
				}
				return its, err
			},
		})
	}
	return out
}

// chains resolves path from hop idx onward. prev is the leg that arrived at
// path[idx], nil for the first hop. The base case is a single empty
// continuation that callers prepend their leg onto. A failed hop drops only
// the continuations that need it; a context error stops the recursion and
// returns what was built so far.
func (s *session) chains(ctx context.Context, q Query, path []string, idx int, prev *model.Leg) ([][]model.Leg, error) {
	if idx == len(path)-1 {
		return [][]model.Leg{{}}, nil
	}

	var dates []time.Time
	if prev == nil {
		dates = []time.Time{q.Date}
	} else {
		base := prev.LocalArrivalDate()
		for _, off := range q.offsets() {
			dates = append(dates, base.AddDate(0, 0, off))
		}
	}

	var out [][]model.Leg
	for _, date := range dates {
		legs, err := s.hop(ctx, path[idx], path[idx+1], date)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			continue
		}
		for _, l := range legs {
			if prev != nil && !q.connects(l.Departure.Sub(prev.Arrival)) {
				continue
			}
			rest, err := s.chains(ctx, q, path, idx+1, &l)
			for _, r := range rest {
				chain := make([]model.Leg, 0, len(r)+1)
				chain = append(chain, l)
				chain = append(chain, r...)
				out = append(out, chain)
			}
			if err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

package model

import (
	"sort"
	"time"
)

// Status summarizes how a search ended, so presentation can tell the cases apart.
type Status string

const (
	// StatusComplete means the search ran to the end and found itineraries.
	StatusComplete Status = "complete"

	// StatusNoResults means the search ran to the end and found nothing.
	StatusNoResults Status = "no-results"

	// StatusAborted means the search was cancelled; results are partial.
	StatusAborted Status = "aborted"

	// StatusUnreachable means every attempted hop failed and none succeeded.
	StatusUnreachable Status = "unreachable"
)

// Outcome records the bookkeeping of a search session.
type Outcome struct {
	Aborted      bool `json:"aborted"`
	Fetches      int  `json:"fetches"`
	CacheHits    int  `json:"cache_hits"`
	ResolvedHops int  `json:"resolved_hops"`
	FailedHops   int  `json:"failed_hops"`
}

// Merge adds the counters of another outcome.
func (o *Outcome) Merge(other Outcome) {
	o.Aborted = o.Aborted || other.Aborted
	o.Fetches += other.Fetches
	o.CacheHits += other.CacheHits
	o.ResolvedHops += other.ResolvedHops
	o.FailedHops += other.FailedHops
}

// SearchResult is the final output of a search handed to presentation.
type SearchResult struct {
	Origins      []string    `json:"origins"`
	Destinations []string    `json:"destinations"`
	Date         string      `json:"date"`
	ReturnDates  []string    `json:"return_dates,omitempty"`
	Itineraries  []Itinerary `json:"itineraries"`
	Outcome      Outcome     `json:"outcome"`
	StartedAt    time.Time   `json:"started_at"`
	Elapsed      string      `json:"elapsed"`
}

// Status derives the search status from the outcome and itineraries.
func (r *SearchResult) Status() Status {
	switch {
	case r.Outcome.Aborted:
		return StatusAborted
	case len(r.Itineraries) > 0:
		return StatusComplete
	case r.Outcome.FailedHops > 0 && r.Outcome.ResolvedHops == 0:
		return StatusUnreachable
	default:
		return StatusNoResults
	}
}

// SortItineraries orders itineraries by departure, then total duration,
// then identity key, so output is deterministic.
func SortItineraries(its []Itinerary) {
	sort.SliceStable(its, func(i, j int) bool {
		di, dj := its[i].Departure(), its[j].Departure()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		ti, tj := its[i].Duration().TotalMinutes, its[j].Duration().TotalMinutes
		if ti != tj {
			return ti < tj
		}
		return its[i].Key() < its[j].Key()
	})
}

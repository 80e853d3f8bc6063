package search

import (
	"context"
	"fmt"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/spatial"
)

// changeCandidate is one (origin, A, B, destination) one-stop combination
// where the traveler lands at A and departs from B.
type changeCandidate struct {
	Origin      string
	Arrive      string
	Depart      string
	Destination string
	DistanceKm  float64
}

// changePairs computes the airport-change candidates: first-hop arrival
// airports reachable on the selected date, second-hop departure airports
// reachable within the day-offset window, cross-joined under the radius.
func (c *Composer) changePairs(q Query, origins, destinations []string) []changeCandidate {
	var out []changeCandidate
	for _, o := range origins {
		var arrivals []string
		for _, a := range c.graph.Neighbors(o) {
			if c.graph.IsDateValid(o, a, q.Date) {
				arrivals = append(arrivals, a)
			}
		}
		if len(arrivals) == 0 {
			continue
		}

		for _, d := range destinations {
			if d == o {
				continue
			}
			departures := c.secondHopDepartures(q, d)

			for _, a := range arrivals {
				if a == d {
					continue
				}
				airA, _ := c.graph.Airport(a)
				for _, b := range departures {
					if b == o {
						continue
					}
					airB, _ := c.graph.Airport(b)
					dist, ok := spatial.WithinRadius(airA, airB, q.RadiusKm)
					if !ok {
						continue
					}
					out = append(out, changeCandidate{
						Origin:      o,
						Arrive:      a,
						Depart:      b,
						Destination: d,
						DistanceKm:  dist,
					})
				}
			}
		}
	}
	return out
}

func (c *Composer) secondHopDepartures(q Query, destination string) []string {
	var out []string
	for _, b := range c.graph.Inbound(destination) {
		for _, off := range q.offsets() {
			if c.graph.IsDateValid(b, destination, q.Date.AddDate(0, 0, off)) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// airportChangeCandidates wraps changePairs into resolvable candidates.
func (c *Composer) airportChangeCandidates(q Query, origins, destinations []string) []candidate {
	pairs := c.changePairs(q, origins, destinations)
	out := make([]candidate, 0, len(pairs))
	for _, p := range pairs {
		label := p.Origin + "-" + p.Arrive + "-" + p.Destination
		if p.Arrive != p.Depart {
			label = fmt.Sprintf("%s-%s/%s-%s", p.Origin, p.Arrive, p.Depart, p.Destination)
		}
		out = append(out, candidate{
			label: label,
			resolve: func(ctx context.Context, s *session) ([]model.Itinerary, error) {
				return s.resolveChange(ctx, q, p)
			},
		})
	}
	return out
}

// resolveChange fetches both hops of a candidate and combines every pair of
// legs whose gap is within the connection window.
func (s *session) resolveChange(ctx context.Context, q Query, p changeCandidate) ([]model.Itinerary, error) {
	first, err := s.hop(ctx, p.Origin, p.Arrive, q.Date)
	if err != nil || len(first) == 0 {
		return nil, err
	}

	var second []model.Leg
	for _, off := range q.offsets() {
		legs, err := s.hop(ctx, p.Depart, p.Destination, q.Date.AddDate(0, 0, off))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		second = append(second, legs...)
	}

	var change *model.AirportChange
	if p.Arrive != p.Depart {
		change = &model.AirportChange{From: p.Arrive, To: p.Depart, DistanceKm: p.DistanceKm}
	}

	var out []model.Itinerary
	for _, l1 := range first {
		for _, l2 := range second {
			if !q.connects(l2.Departure.Sub(l1.Arrival)) {
				continue
			}
			it := model.NewItinerary(l1, l2)
			if change != nil {
				c := *change
				it.AirportChange = &c
			}
			out = append(out, it)
		}
	}
	return out, nil
}

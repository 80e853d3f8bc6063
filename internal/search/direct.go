package search

import (
	"context"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// directCandidates returns one candidate per published, date-valid pair.
func (c *Composer) directCandidates(q Query, origins, destinations []string) []candidate {
	var out []candidate
	for _, o := range origins {
		for _, d := range destinations {
			if o == d || !c.graph.IsDateValid(o, d, q.Date) {
				continue
			}
			origin, dest := o, d
			out = append(out, candidate{
				label: origin + "-" + dest,
				resolve: func(ctx context.Context, s *session) ([]model.Itinerary, error) {
					legs, err := s.hop(ctx, origin, dest, q.Date)
					if err != nil {
						return nil, err
					}
					its := make([]model.Itinerary, 0, len(legs))
					for _, l := range legs {
						its = append(its, model.NewItinerary(l))
					}
					return its, nil
				},
			})
		}
	}
	return out
}

package search

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/route"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/spatial"
)

// TestPaths tests the depth-first path enumeration bounds.
func TestPaths(t *testing.T) {
	t.Parallel()

	// Complete directed graph over six stations.
	codes := []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"}
	var edges []edge
	for _, a := range codes {
		for _, b := range codes {
			if a != b {
				edges = append(edges, edge{a, b, nil})
			}
		}
	}
	h := newHarness(t, catalogOf(edges...))

	for transfers := 0; transfers <= MaxTransfersLimit; transfers++ {
		t.Run(fmt.Sprintf("%d transfers", transfers), func(t *testing.T) {
			t.Parallel()

			maxStations := transfers + 2
			paths := h.composer.paths([]string{"AAA", "BBB"}, []string{"EEE", "FFF"}, 2, maxStations)
			if len(paths) == 0 {
				t.Fatal("expected paths")
			}

			seen := make(map[string]bool)
			for _, p := range paths {
				if len(p) > maxStations {
					t.Errorf("path %v exceeds %d stations", p, maxStations)
				}
				stations := make(map[string]bool)
				for _, s := range p {
					if stations[s] {
						t.Errorf("path %v repeats %s", p, s)
					}
					stations[s] = true
				}
				sig := fmt.Sprint(p)
				if seen[sig] {
					t.Errorf("path %v returned twice", p)
				}
				seen[sig] = true
			}
		})
	}

	t.Run("random sparse graphs", func(t *testing.T) {
		t.Parallel()

		rng := rand.New(rand.NewPCG(1, 2))
		for round := 0; round < 20; round++ {
			var sparse []edge
			for _, a := range codes {
				for _, b := range codes {
					if a != b && rng.IntN(3) == 0 {
						sparse = append(sparse, edge{a, b, nil})
					}
				}
			}
			g, err := route.New(catalogOf(sparse...))
			if err != nil {
				t.Fatal(err)
			}
			c := &Composer{graph: g}
			for _, p := range c.paths(codes[:2], codes[3:], 3, 4) {
				if len(p) < 3 || len(p) > 4 {
					t.Errorf("path %v outside 3..4 stations", p)
				}
				it := model.Itinerary{}
				for i := 0; i+1 < len(p); i++ {
					it.Legs = append(it.Legs, model.Leg{Origin: p[i], Destination: p[i+1]})
					if !g.EdgeExists(p[i], p[i+1]) {
						t.Errorf("path %v uses missing edge %s-%s", p, p[i], p[i+1])
					}
				}
				if !it.IsCycleFree() {
					t.Errorf("path %v repeats a station", p)
				}
			}
		}
	})
}

func located(code string, lat, lon float64) model.Airport {
	return model.Airport{Code: code, Latitude: lat, Longitude: lon, HasLocation: true}
}

func changeCatalog() *route.Catalog {
	c := catalogOf(
		edge{"BUD", "LTN", nil},
		edge{"BUD", "VIE", nil},
		edge{"STN", "MAD", nil},
		edge{"LTN", "MAD", nil},
		edge{"VIE", "MAD", nil},
		edge{"BCN", "MAD", nil},
	)
	c.Airports = []model.Airport{
		located("BUD", 47.4369, 19.2556),
		located("LTN", 51.8747, -0.3683),
		located("STN", 51.8850, 0.2350),
		located("VIE", 48.1103, 16.5697),
		located("BCN", 41.2971, 2.0785),
		located("MAD", 40.4983, -3.5676),
	}
	return c
}

// TestChangePairs tests airport-change candidate generation.
func TestChangePairs(t *testing.T) {
	t.Parallel()

	h := newHarness(t, changeCatalog())

	for _, radius := range []float64{1, 50, 300, 2000} {
		t.Run(fmt.Sprintf("radius %.0f km", radius), func(t *testing.T) {
			t.Parallel()

			q := baseQuery([]string{"BUD"}, []string{"MAD"}, 1)
			q.RadiusKm = radius
			for _, p := range h.composer.changePairs(q, []string{"BUD"}, []string{"MAD"}) {
				if p.Arrive == p.Depart {
					continue
				}
				a, _ := h.graph.Airport(p.Arrive)
				b, _ := h.graph.Airport(p.Depart)
				d, _ := spatial.AirportDistanceKm(a, b)
				if d > radius {
					t.Errorf("pair %s/%s at %.1f km exceeds %.0f km", p.Arrive, p.Depart, d, radius)
				}
			}
		})
	}

	t.Run("same airport always qualifies", func(t *testing.T) {
		t.Parallel()

		q := baseQuery([]string{"BUD"}, []string{"MAD"}, 1)
		q.RadiusKm = 0.001
		pairs := h.composer.changePairs(q, []string{"BUD"}, []string{"MAD"})
		found := map[string]bool{}
		for _, p := range pairs {
			found[p.Arrive+"/"+p.Depart] = true
		}
		if !found["LTN/LTN"] || !found["VIE/VIE"] {
			t.Errorf("got %v, expected LTN/LTN and VIE/VIE", found)
		}
		if found["LTN/STN"] {
			t.Error("expected LTN/STN to be excluded at 1 m")
		}
	})

	t.Run("London pair appears within 50 km", func(t *testing.T) {
		t.Parallel()

		q := baseQuery([]string{"BUD"}, []string{"MAD"}, 1)
		q.RadiusKm = 50
		found := false
		for _, p := range h.composer.changePairs(q, []string{"BUD"}, []string{"MAD"}) {
			if p.Arrive == "LTN" && p.Depart == "STN" {
				found = true
			}
		}
		if !found {
			t.Error("expected LTN/STN within 50 km")
		}
	})
}

// TestComposeAirportChange tests airport-change itineraries end to end.
func TestComposeAirportChange(t *testing.T) {
	t.Parallel()

	h := newHarness(t, changeCatalog())
	h.fetcher.add(
		rawLeg("BUD", "LTN", "2025-03-10", "6:00 AM", "8:00 AM"),
		rawLeg("STN", "MAD", "2025-03-10", "12:00 PM", "2:30 PM"),
		rawLeg("LTN", "MAD", "2025-03-10", "9:00 AM", "11:30 AM"),
	)

	q := baseQuery([]string{"BUD"}, []string{"MAD"}, 1)
	q.RadiusKm = 50

	its, _, err := h.composer.Compose(context.Background(), q, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var change, same int
	for _, it := range its {
		switch it.Route() {
		case "BUD-LTN-STN-MAD":
			change++
			if it.AirportChange == nil || it.AirportChange.From != "LTN" || it.AirportChange.To != "STN" {
				t.Errorf("got %+v, expected LTN to STN change metadata", it.AirportChange)
			} else if it.AirportChange.DistanceKm <= 0 || it.AirportChange.DistanceKm > 50 {
				t.Errorf("got distance %.1f, expected within 50 km", it.AirportChange.DistanceKm)
			}
		case "BUD-LTN-MAD":
			same++
			if it.AirportChange != nil {
				t.Error("expected no change metadata for a same-airport connection")
			}
		}
	}
	// BUD-LTN-MAD connects in 60 minutes, below the 90 minute minimum.
	if change != 1 || same != 0 {
		t.Errorf("got %d change and %d same-airport itineraries, expected 1 and 0", change, same)
	}
}

package model

import (
	"strings"
	"time"
)

// AirportChange describes the ground transfer of a one-stop itinerary whose
// first leg arrives at a different airport than the second leg departs from.
type AirportChange struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceKm float64 `json:"distance_km"`
}

// Itinerary is an ordered, non-empty sequence of legs with no repeated station.
// Returns is filled only for round-trip searches.
type Itinerary struct {
	Legs          []Leg          `json:"legs"`
	AirportChange *AirportChange `json:"airport_change,omitempty"`
	Returns       []Itinerary    `json:"returns,omitempty"`
}

// NewItinerary builds an itinerary from legs. The slice is copied.
func NewItinerary(legs ...Leg) Itinerary {
	copied := make([]Leg, len(legs))
	copy(copied, legs)
	return Itinerary{Legs: copied}
}

// Origin returns the first leg's departure station.
func (it Itinerary) Origin() string {
	if len(it.Legs) == 0 {
		return ""
	}
	return it.Legs[0].Origin
}

// Destination returns the last leg's arrival station.
func (it Itinerary) Destination() string {
	if len(it.Legs) == 0 {
		return ""
	}
	return it.Legs[len(it.Legs)-1].Destination
}

// Departure returns the first leg's departure instant.
func (it Itinerary) Departure() time.Time {
	if len(it.Legs) == 0 {
		return time.Time{}
	}
	return it.Legs[0].Departure
}

// Arrival returns the last leg's arrival instant.
func (it Itinerary) Arrival() time.Time {
	if len(it.Legs) == 0 {
		return time.Time{}
	}
	return it.Legs[len(it.Legs)-1].Arrival
}

// Duration is the door-to-door time from first departure to last arrival.
func (it Itinerary) Duration() Duration {
	return NewDuration(int(it.Arrival().Sub(it.Departure()).Round(time.Minute) / time.Minute))
}

// Connections returns the gaps between consecutive legs.
func (it Itinerary) Connections() []time.Duration {
	if len(it.Legs) < 2 {
		return nil
	}
	gaps := make([]time.Duration, 0, len(it.Legs)-1)
	for i := 1; i < len(it.Legs); i++ {
		gaps = append(gaps, it.Legs[i].Departure.Sub(it.Legs[i-1].Arrival))
	}
	return gaps
}

// Stations returns the visited stations in order. For an airport change both
// airports of the transfer are listed.
func (it Itinerary) Stations() []string {
	if len(it.Legs) == 0 {
		return nil
	}
	stations := []string{it.Legs[0].Origin}
	for i, leg := range it.Legs {
		if i > 0 && leg.Origin != stations[len(stations)-1] {
			stations = append(stations, leg.Origin)
		}
		stations = append(stations, leg.Destination)
	}
	return stations
}

// Route renders the station path ("BUD-LTN-MAD").
func (it Itinerary) Route() string {
	return strings.Join(it.Stations(), "-")
}

// Signature identifies an itinerary by its route and departure instant.
// Two searches that found the same trip produce the same signature.
func (it Itinerary) Signature() string {
	return it.Route() + "@" + it.Departure().UTC().Format(time.RFC3339)
}

// Key is the identity key built from the leg identities.
func (it Itinerary) Key() string {
	ids := make([]string, len(it.Legs))
	for i, leg := range it.Legs {
		ids[i] = leg.ID
	}
	return strings.Join(ids, "+")
}

// IsCycleFree reports whether no station repeats along the path.
func (it Itinerary) IsCycleFree() bool {
	seen := make(map[string]bool)
	for _, s := range it.Stations() {
		if seen[s] {
			return false
		}
		seen[s] = true
	}
	return true
}

// Package spatial provides great-circle distance between airports.
package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// EarthRadiusKm is the mean Earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two points
// given in decimal degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// AirportDistanceKm returns the distance between two airports.
// The boolean is false when either airport has no coordinates. The same
// airport is always at distance zero.
func AirportDistanceKm(a, b model.Airport) (float64, bool) {
	if a.Code != "" && a.Code == b.Code {
		return 0, true
	}
	if !a.HasLocation || !b.HasLocation {
		return 0, false
	}
	return HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude), true
}

// WithinRadius reports whether b is reachable from a by ground within radiusKm.
// A pair at the same airport always qualifies.
func WithinRadius(a, b model.Airport, radiusKm float64) (float64, bool) {
	if a.Code == b.Code {
		return 0, true
	}
	d, ok := AirportDistanceKm(a, b)
	if !ok {
		return 0, false
	}
	return d, d <= radiusKm
}

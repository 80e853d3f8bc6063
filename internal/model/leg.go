package model

import (
	"time"
)

// DateLayout is the ISO calendar date layout used for flight dates and cache keys.
const DateLayout = "2006-01-02"

// RawLeg is a single flight as returned by the leg fetcher.
// Times are 12-hour local clock strings ("3:05 PM") and the UTC offsets are
// free-form text ("UTC", "UTC+1", "+02:00").
type RawLeg struct {
	DepartureStation     string  `json:"departureStation"`
	ArrivalStation       string  `json:"arrivalStation"`
	DepartureStationText string  `json:"departureStationText,omitempty"`
	ArrivalStationText   string  `json:"arrivalStationText,omitempty"`
	DepartureDate        string  `json:"departureDate"`
	DepartureTime        string  `json:"departure"`
	ArrivalTime          string  `json:"arrival"`
	DepartureOffset      string  `json:"departureOffsetText,omitempty"`
	ArrivalOffset        string  `json:"arrivalOffsetText,omitempty"`
	FlightCode           string  `json:"flightCode,omitempty"`
	Carrier              string  `json:"carrier,omitempty"`
	Fare                 float64 `json:"fare,omitempty"`
	Currency             string  `json:"currency,omitempty"`
}

// Duration is a flight or itinerary length split for display.
type Duration struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	TotalMinutes int `json:"total_minutes"`
}

// NewDuration splits a whole number of minutes.
func NewDuration(totalMinutes int) Duration {
	return Duration{
		Hours:        totalMinutes / 60,
		Minutes:      totalMinutes % 60,
		TotalMinutes: totalMinutes,
	}
}

// Fare holds the price fields of a leg. Amounts are informational only.
type Fare struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
}

// Leg is a normalized flight segment.
// Departure and Arrival are absolute instants in UTC; LocalDeparture and
// LocalArrival keep the wall clock of each endpoint without a zone.
// Legs are values: itineraries copy them rather than share pointers.
type Leg struct {
	ID              string    `json:"id"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	OriginName      string    `json:"origin_name,omitempty"`
	DestinationName string    `json:"destination_name,omitempty"`
	FlightCode      string    `json:"flight_code,omitempty"`
	Carrier         string    `json:"carrier,omitempty"`
	Departure       time.Time `json:"departure"`
	Arrival         time.Time `json:"arrival"`
	LocalDeparture  time.Time `json:"local_departure"`
	LocalArrival    time.Time `json:"local_arrival"`
	DepartureOffset string    `json:"departure_offset"`
	ArrivalOffset   string    `json:"arrival_offset"`
	Duration        Duration  `json:"duration"`
	Fare            Fare      `json:"fare"`
}

// LocalArrivalDate returns the calendar date of the arrival wall clock,
// as a UTC midnight time.
func (l Leg) LocalArrivalDate() time.Time {
	return Day(l.LocalArrival)
}

// Day truncates t to its calendar date at UTC midnight, keeping the wall date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date ("2025-03-10").
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

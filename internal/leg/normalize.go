package leg

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Normalize converts a raw leg into a model.Leg with absolute instants.
//
// The local calendar date of the raw leg is combined with each clock string
// and the endpoint offset is subtracted to get UTC. When the resulting
// arrival is not strictly after the departure, the local arrival is moved
// one day forward and its UTC instant recomputed.
func Normalize(raw model.RawLeg) (model.Leg, error) {
	dateText := strings.TrimSpace(raw.DepartureDate)
	if len(dateText) > len(model.DateLayout) {
		// "2025-03-10T00:00:00" style values carry the date first.
		dateText = dateText[:len(model.DateLayout)]
	}
	date, err := model.ParseDate(dateText)
	if err != nil {
		return model.Leg{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw.DepartureDate)
	}

	depOffset, err := NormalizeOffset(raw.DepartureOffset)
	if err != nil {
		return model.Leg{}, err
	}
	arrOffset, err := NormalizeOffset(raw.ArrivalOffset)
	if err != nil {
		return model.Leg{}, err
	}

	localDep, err := combine(date, raw.DepartureTime)
	if err != nil {
		return model.Leg{}, err
	}
	localArr, err := combine(date, raw.ArrivalTime)
	if err != nil {
		return model.Leg{}, err
	}

	depShift, _ := ParseOffset(depOffset)
	arrShift, _ := ParseOffset(arrOffset)

	departure := localDep.Add(-depShift)
	arrival := localArr.Add(-arrShift)
	if !arrival.After(departure) {
		localArr = localArr.Add(24 * time.Hour)
		arrival = localArr.Add(-arrShift)
	}

	minutes := int(math.Round(arrival.Sub(departure).Minutes()))

	origin := strings.ToUpper(strings.TrimSpace(raw.DepartureStation))
	destination := strings.ToUpper(strings.TrimSpace(raw.ArrivalStation))

	return model.Leg{
		ID:              Identity(origin, destination, raw.FlightCode, departure),
		Origin:          origin,
		Destination:     destination,
		OriginName:      raw.DepartureStationText,
		DestinationName: raw.ArrivalStationText,
		FlightCode:      raw.FlightCode,
		Carrier:         raw.Carrier,
		Departure:       departure,
		Arrival:         arrival,
		LocalDeparture:  localDep,
		LocalArrival:    localArr,
		DepartureOffset: depOffset,
		ArrivalOffset:   arrOffset,
		Duration:        model.NewDuration(minutes),
		Fare:            model.Fare{Amount: raw.Fare, Currency: raw.Currency},
	}, nil
}

// Identity returns the stable identity key of a leg: the first 16 hex digits
// of the SHA3-256 of its route, flight code and UTC departure.
func Identity(origin, destination, flightCode string, departure time.Time) string {
	sum := sha3.Sum256([]byte(strings.Join([]string{
		origin,
		destination,
		strings.ToUpper(strings.TrimSpace(flightCode)),
		departure.UTC().Format(time.RFC3339),
	}, "|")))
	return hex.EncodeToString(sum[:8])
}

// combine builds the naive local timestamp (kept in the UTC location) of a
// clock string on the given date.
func combine(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC), nil
}

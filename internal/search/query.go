package search

import (
	"fmt"
	"strings"
	"time"
)

// MaxTransfersLimit is the deepest supported search.
const MaxTransfersLimit = 2

// Query describes one directional search.
type Query struct {
	// Origins and Destinations are station codes, group codes or "ANY".
	Origins      []string
	Destinations []string

	// Date is the departure date of the first hop.
	Date time.Time

	// MaxTransfers is 0 for direct flights only, up to MaxTransfersLimit.
	MaxTransfers int

	// RadiusKm enables the airport-change strategy for one-stop itineraries
	// when positive.
	RadiusKm float64

	// AllowOvernight lets a connecting hop depart on a later day than the
	// previous hop arrived.
	AllowOvernight bool

	// MaxDayOffset caps how many days after the reference date a connecting
	// hop may be probed when AllowOvernight is set.
	MaxDayOffset int

	// MinConnection and MaxConnection bound the gap between consecutive legs.
	MinConnection time.Duration
	MaxConnection time.Duration
}

// Validate checks the query for obvious mistakes.
func (q Query) Validate() error {
	if len(q.Origins) == 0 {
		return ErrNoOrigins
	}
	if len(q.Destinations) == 0 {
		return ErrNoDestinations
	}
	if q.Date.IsZero() {
		return ErrNoDate
	}
	if q.MaxTransfers < 0 || q.MaxTransfers > MaxTransfersLimit {
		return fmt.Errorf("%w: %d", ErrInvalidTransfers, q.MaxTransfers)
	}
	if q.MinConnection < 0 || q.MaxConnection < q.MinConnection {
		return fmt.Errorf("%w: [%s, %s]", ErrInvalidConnection, q.MinConnection, q.MaxConnection)
	}
	if q.MaxDayOffset < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDayOffset, q.MaxDayOffset)
	}
	return nil
}

// offsets returns the day offsets probed for a connecting hop.
func (q Query) offsets() []int {
	if !q.AllowOvernight {
		return []int{0}
	}
	out := make([]int, 0, q.MaxDayOffset+1)
	for i := 0; i <= q.MaxDayOffset; i++ {
		out = append(out, i)
	}
	return out
}

// maxOffset is the largest day offset probed for a connecting hop.
func (q Query) maxOffset() int {
	if !q.AllowOvernight {
		return 0
	}
	return q.MaxDayOffset
}

// connects reports whether a gap between two legs is acceptable.
func (q Query) connects(gap time.Duration) bool {
	return gap >= q.MinConnection && gap <= q.MaxConnection
}

func (q Query) hasWildcardOrigin() bool {
	for _, o := range q.Origins {
		if strings.EqualFold(strings.TrimSpace(o), "ANY") {
			return true
		}
	}
	return false
}

// Options holds the engine-wide search settings.
type Options struct {
	// MaxRetries is the number of additional attempts per hop.
	MaxRetries int

	// RetryBaseDelay is the first transport backoff; it doubles per attempt.
	RetryBaseDelay time.Duration

	// ShortCooldown, MediumCooldown and LongCooldown are the forced pauses
	// for each rate-limit tier. ShortCooldown also follows a malformed response.
	ShortCooldown  time.Duration
	MediumCooldown time.Duration
	LongCooldown   time.Duration

	// BookingHorizonDays stops probing dates later than today plus this many
	// days. Zero disables the horizon.
	BookingHorizonDays int

	// Concurrency is the number of candidates resolved at once.
	Concurrency int

	// MinTurnaround is the shortest stay a round trip accepts.
	MinTurnaround time.Duration
}

// DefaultOptions returns the default engine settings.
func DefaultOptions() Options {
	return Options{
		MaxRetries:     2,
		RetryBaseDelay: time.Second,
		ShortCooldown:  30 * time.Second,
		MediumCooldown: 2 * time.Minute,
		LongCooldown:   5 * time.Minute,
		Concurrency:    1,
		MinTurnaround:  360 * time.Minute,
	}
}

package leg

import "errors"

var (
	// ErrInvalidClock is returned when a 12-hour or 24-hour clock string cannot be parsed.
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrInvalidOffset is returned when a UTC offset string cannot be parsed.
	ErrInvalidOffset = errors.New("invalid UTC offset")

	// ErrInvalidDate is returned when the departure date of a raw leg is not an ISO date.
	ErrInvalidDate = errors.New("invalid departure date")
)

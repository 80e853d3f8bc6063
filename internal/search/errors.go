package search

import "errors"

var (
	// ErrNoOrigins is returned when a query has no origin station.
	ErrNoOrigins = errors.New("query has no origin")

	// ErrNoDestinations is returned when a query has no destination station.
	ErrNoDestinations = errors.New("query has no destination")

	// ErrNoDate is returned when a query has no departure date.
	ErrNoDate = errors.New("query has no date")

	// ErrInvalidTransfers is returned when MaxTransfers is outside 0..2.
	ErrInvalidTransfers = errors.New("max transfers must be between 0 and 2")

	// ErrInvalidConnection is returned when the connection window is empty or negative.
	ErrInvalidConnection = errors.New("invalid connection window")

	// ErrInvalidDayOffset is returned when MaxDayOffset is negative.
	ErrInvalidDayOffset = errors.New("max day offset must not be negative")

	// errHopFailed marks a hop that exhausted its retries.
	errHopFailed = errors.New("hop failed")
)

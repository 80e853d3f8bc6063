package route

import "errors"

var (
	// ErrCatalogNotFound is returned when the catalog file does not exist.
	ErrCatalogNotFound = errors.New("route catalog not found")

	// ErrInvalidAirportCode is returned when a catalog entry has a code that is not 3 alphanumeric characters.
	ErrInvalidAirportCode = errors.New("invalid airport code")

	// ErrInvalidDate is returned when a catalog date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid catalog date")

	// ErrUnknownStation is returned when a station, group or wildcard cannot be resolved.
	ErrUnknownStation = errors.New("unknown station")
)

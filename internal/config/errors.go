package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a readable message.
var (
	// ErrNoLegSource is returned when neither an endpoint URL template nor a
	// fixtures directory is configured.
	ErrNoLegSource = errors.New("no leg source: set fetcher.urlTemplate or fetcher.fixturesDir")

	// ErrConflictingLegSources is returned when both an endpoint and a
	// fixtures directory are configured.
	ErrConflictingLegSources = errors.New("conflicting leg sources: use either an endpoint or a fixtures directory")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxConsecutive is returned when the throttle window is not positive.
	ErrInvalidMaxConsecutive = errors.New("invalid max consecutive requests: must be positive")

	// ErrInvalidDelay is returned when a throttle or retry delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidCacheTTL is returned when the cache TTL is not positive.
	ErrInvalidCacheTTL = errors.New("invalid cache TTL: must be positive")

	// ErrInvalidRetries is returned when the retry budget is negative.
	ErrInvalidRetries = errors.New("invalid max retries: must be non-negative")

	// ErrInvalidConnection is returned when the connection window is empty
	// or negative.
	ErrInvalidConnection = errors.New("invalid connection window: need 0 <= min <= max")

	// ErrInvalidRadius is returned when the airport-change radius is negative.
	ErrInvalidRadius = errors.New("invalid airport-change radius: must be non-negative")

	// ErrInvalidTransfers is returned when max transfers is outside 0..2.
	ErrInvalidTransfers = errors.New("invalid max transfers: must be 0, 1 or 2")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidCacheBackend is returned for an unknown cache backend name.
	ErrInvalidCacheBackend = errors.New("invalid cache backend: must be sqlite, badger or memory")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)

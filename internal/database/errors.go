package database

import "errors"

var (
	// ErrDatabaseNotFound is returned when opening a store that must already exist.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrPathRequired is returned when a persistent Badger store has no directory.
	ErrPathRequired = errors.New("path is required for persistent database")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

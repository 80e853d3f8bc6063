// Package cache provides the leg cache of the itinerary search engine.
//
// The cache maps (origin, destination, date) keys to the raw legs returned by
// the leg fetcher. Entries carry their write time and are checked against the
// current TTL on every read, so shortening the TTL immediately expires older
// entries. Storage is delegated to a Store; the database package provides
// durable SQLite and Badger stores and this package provides an in-memory one.
//
// Store failures never reach callers: a failed read is a miss and a failed
// write is logged and dropped.
package cache

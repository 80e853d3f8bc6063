// Package database provides durable stores for the leg cache.
//
// Two backends implement cache.Store:
//   - SQLiteStore (default): a single file legcache.db via modernc.org/sqlite
//   - BadgerStore: a BadgerDB directory, selected with cache.backend: badger
//
// SQLite is CGO-free and keeps the whole cache in one file, which makes
// "cache clear" and backups trivial. WAL mode keeps reads cheap while the
// search writes new entries.
package database

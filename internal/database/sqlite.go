package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/cache"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// SQLiteFileName is the database file created inside the data directory.
const SQLiteFileName = "legcache.db"

// SQLiteStore is a cache.Store backed by SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ cache.Store = (*SQLiteStore)(nil)

// Options configures SQLiteStore behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenSQLite opens or creates the leg cache database in dbDir.
func OpenSQLite(dbDir string, opts Options) (*SQLiteStore, error) {
	dbPath := filepath.Join(dbDir, SQLiteFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createTables() error {
	schema := `
	-- One row per (origin, destination, date) query
	CREATE TABLE IF NOT EXISTS leg_cache (
		cache_key TEXT PRIMARY KEY,
		legs_json TEXT NOT NULL,
		stored_at INTEGER NOT NULL,
		updated DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_leg_cache_stored_at ON leg_cache(stored_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the entry for key, or nil when absent.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*cache.Entry, error) {
	query := `SELECT legs_json, stored_at FROM leg_cache WHERE cache_key = ?`

	var (
		legsJSON string
		storedAt int64
	)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&legsJSON, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var legs []model.RawLeg
	if err := json.Unmarshal([]byte(legsJSON), &legs); err != nil {
		return nil, fmt.Errorf("failed to parse cache entry %s: %w", key, err)
	}

	return &cache.Entry{
		Key:      key,
		Legs:     legs,
		StoredAt: time.Unix(0, storedAt).UTC(),
	}, nil
}

// Put inserts or replaces the entry.
func (s *SQLiteStore) Put(ctx context.Context, entry cache.Entry) error {
	legsJSON, err := json.Marshal(entry.Legs)
	if err != nil {
		return fmt.Errorf("failed to serialize legs: %w", err)
	}

	query := `
	INSERT INTO leg_cache (cache_key, legs_json, stored_at)
	VALUES (?, ?, ?)
	ON CONFLICT(cache_key) DO UPDATE SET
		legs_json = excluded.legs_json,
		stored_at = excluded.stored_at,
		updated = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, entry.Key, string(legsJSON), entry.StoredAt.UnixNano()); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM leg_cache WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// DeleteExpired removes entries stored at or before cutoff.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leg_cache WHERE stored_at <= ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count swept entries: %w", err)
	}
	return int(n), nil
}

// Clear removes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM leg_cache`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leg_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

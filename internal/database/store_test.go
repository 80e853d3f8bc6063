package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/cache"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

type storeFactory struct {
	name string
	open func(t *testing.T) cache.Store
}

func storeFactories() []storeFactory {
	return []storeFactory{
		{"sqlite", func(t *testing.T) cache.Store {
			t.Helper()
			s, err := OpenSQLite(t.TempDir(), DefaultOptions())
			if err != nil {
				t.Fatalf("failed to open sqlite store: %v", err)
			}
			return s
		}},
		{"badger", func(t *testing.T) cache.Store {
			t.Helper()
			s, err := OpenBadger(InMemoryBadgerConfig())
			if err != nil {
				t.Fatalf("failed to open badger store: %v", err)
			}
			return s
		}},
	}
}

var storedLegs = []model.RawLeg{{
	DepartureStation: "BUD",
	ArrivalStation:   "LTN",
	DepartureDate:    "2025-03-10",
	DepartureTime:    "6:00 AM",
	ArrivalTime:      "7:30 AM",
	DepartureOffset:  "UTC+1",
	ArrivalOffset:    "UTC",
	FlightCode:       "W6 2201",
	Fare:             19.99,
	Currency:         "EUR",
}}

// TestStores runs the same contract against every durable backend.
func TestStores(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 123, time.UTC)

	for _, f := range storeFactories() {
		t.Run(f.name, func(t *testing.T) {
			t.Parallel()

			t.Run("missing key returns nil", func(t *testing.T) {
				t.Parallel()

				s := f.open(t)
				defer s.Close()

				e, err := s.Get(ctx, "A-B-2025-03-10")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if e != nil {
					t.Errorf("expected nil entry, got %+v", e)
				}
			})

			t.Run("put then get round trips legs and timestamp", func(t *testing.T) {
				t.Parallel()

				s := f.open(t)
				defer s.Close()

				if err := s.Put(ctx, cache.Entry{Key: "BUD-LTN-2025-03-10", Legs: storedLegs, StoredAt: base}); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				e, err := s.Get(ctx, "BUD-LTN-2025-03-10")
				if err != nil || e == nil {
					t.Fatalf("expected entry, got %v %v", e, err)
				}
				if len(e.Legs) != 1 || e.Legs[0] != storedLegs[0] {
					t.Errorf("got %+v, expected %+v", e.Legs, storedLegs)
				}
				if !e.StoredAt.Equal(base) {
					t.Errorf("got stored_at %v, expected %v", e.StoredAt, base)
				}
			})

			t.Run("put overwrites", func(t *testing.T) {
				t.Parallel()

				s := f.open(t)
				defer s.Close()

				_ = s.Put(ctx, cache.Entry{Key: "k", Legs: storedLegs, StoredAt: base})
				_ = s.Put(ctx, cache.Entry{Key: "k", Legs: []model.RawLeg{}, StoredAt: base.Add(time.Hour)})

				e, _ := s.Get(ctx, "k")
				if e == nil || len(e.Legs) != 0 || !e.StoredAt.Equal(base.Add(time.Hour)) {
					t.Errorf("expected the second write, got %+v", e)
				}
				if n, _ := s.Count(ctx); n != 1 {
					t.Errorf("got %d entries, expected 1", n)
				}
			})

			t.Run("delete expired keeps fresh entries", func(t *testing.T) {
				t.Parallel()

				s := f.open(t)
				defer s.Close()

				_ = s.Put(ctx, cache.Entry{Key: "old", Legs: storedLegs, StoredAt: base})
				_ = s.Put(ctx, cache.Entry{Key: "edge", Legs: storedLegs, StoredAt: base.Add(time.Hour)})
				_ = s.Put(ctx, cache.Entry{Key: "new", Legs: storedLegs, StoredAt: base.Add(2 * time.Hour)})

				removed, err := s.DeleteExpired(ctx, base.Add(time.Hour))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if removed != 2 {
					t.Errorf("got %d removed, expected 2", removed)
				}
				if e, _ := s.Get(ctx, "new"); e == nil {
					t.Error("expected fresh entry to remain")
				}
			})

			t.Run("delete and clear", func(t *testing.T) {
				t.Parallel()

				s := f.open(t)
				defer s.Close()

				_ = s.Put(ctx, cache.Entry{Key: "a", Legs: storedLegs, StoredAt: base})
				_ = s.Put(ctx, cache.Entry{Key: "b", Legs: storedLegs, StoredAt: base})

				if err := s.Delete(ctx, "a"); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if n, _ := s.Count(ctx); n != 1 {
					t.Errorf("got %d entries after delete, expected 1", n)
				}
				if err := s.Clear(ctx); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if n, _ := s.Count(ctx); n != 0 {
					t.Errorf("got %d entries after clear, expected 0", n)
				}
			})
		})
	}
}

// TestOpenSQLite tests database file creation rules.
func TestOpenSQLite(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		s, err := OpenSQLite(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(filepath.Join(dbDir, SQLiteFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := OpenSQLite(filepath.Join(t.TempDir(), "missing"), Options{})
		if !errors.Is(err, ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
	})

	t.Run("entries survive reopening", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s, err := OpenSQLite(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		_ = s.Put(context.Background(), cache.Entry{Key: "k", Legs: storedLegs, StoredAt: time.Now()})
		_ = s.Close()

		reopened, err := OpenSQLite(dir, Options{EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer reopened.Close()

		if e, _ := reopened.Get(context.Background(), "k"); e == nil {
			t.Error("expected entry to persist")
		}
	})
}

// TestOpen tests backend selection.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("memory backend", func(t *testing.T) {
		t.Parallel()

		s, err := Open(BackendMemory, "", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer s.Close()

		if _, ok := s.(*cache.MemoryStore); !ok {
			t.Errorf("got %T, expected *cache.MemoryStore", s)
		}
	})

	t.Run("badger requires a path", func(t *testing.T) {
		t.Parallel()

		if _, err := OpenBadger(BadgerConfig{}); !errors.Is(err, ErrPathRequired) {
			t.Errorf("expected ErrPathRequired, got %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()

		if _, err := Open("redis", t.TempDir(), nil); !errors.Is(err, ErrUnknownBackend) {
			t.Errorf("expected ErrUnknownBackend, got %v", err)
		}
	})
}

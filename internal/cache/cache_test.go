package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// manualClock is a settable time source.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingStore fails every operation.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Get(context.Context, string) (*Entry, error) { return nil, errStoreDown }
func (failingStore) Put(context.Context, Entry) error { return errStoreDown }
func (failingStore) Delete(context.Context, string) error { return errStoreDown }
func (failingStore) DeleteExpired(context.Context, time.Time) (int, error) { return 0, errStoreDown }
func (failingStore) Clear(context.Context) error { return errStoreDown }
func (failingStore) Count(context.Context) (int, error) { return 0, errStoreDown }
func (failingStore) Close() error { return nil }

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestCache(ttl time.Duration) (*LegCache, *manualClock) {
	clock := &manualClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(NewMemoryStore(), ttl, WithClock(clock.Now), WithLogger(quiet)), clock
}

var sampleLegs = []model.RawLeg{
	{DepartureStation: "A", ArrivalStation: "C", DepartureDate: "2025-03-10", DepartureTime: "9:00 AM", ArrivalTime: "11:00 AM"},
	{DepartureStation: "A", ArrivalStation: "C", DepartureDate: "2025-03-10", DepartureTime: "5:00 PM", ArrivalTime: "7:00 PM"},
}

// TestKey tests cache key construction.
func TestKey(t *testing.T) {
	t.Parallel()

	got := Key("a", "C", time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC))
	if got != "A-C-2025-03-10" {
		t.Errorf("got %q, expected A-C-2025-03-10", got)
	}
}

// TestLegCacheGetPut tests reads within and beyond the TTL.
func TestLegCacheGetPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("get after put returns the stored legs", func(t *testing.T) {
		t.Parallel()

		c, clock := newTestCache(4 * time.Hour)
		c.Put(ctx, "A-C-2025-03-10", sampleLegs)
		clock.Advance(4*time.Hour - time.Second)

		got, ok := c.Get(ctx, "A-C-2025-03-10")
		if !ok {
			t.Fatal("expected a hit within TTL")
		}
		if len(got) != len(sampleLegs) || got[1] != sampleLegs[1] {
			t.Errorf("got %+v, expected %+v", got, sampleLegs)
		}
	})

	t.Run("entry at TTL age is absent and removed", func(t *testing.T) {
		t.Parallel()

		c, clock := newTestCache(4 * time.Hour)
		c.Put(ctx, "A-C-2025-03-10", sampleLegs)
		clock.Advance(4 * time.Hour)

		if _, ok := c.Get(ctx, "A-C-2025-03-10"); ok {
			t.Error("expected a miss at TTL age")
		}
		if n, _ := c.Len(ctx); n != 0 {
			t.Errorf("expected expired entry to be deleted, %d left", n)
		}
	})

	t.Run("shortened TTL applies to existing entries", func(t *testing.T) {
		t.Parallel()

		c, clock := newTestCache(24 * time.Hour)
		c.Put(ctx, "A-C-2025-03-10", sampleLegs)
		clock.Advance(2 * time.Hour)
		c.SetTTL(time.Hour)

		if _, ok := c.Get(ctx, "A-C-2025-03-10"); ok {
			t.Error("expected entry to expire under the shortened TTL")
		}
	})

	t.Run("empty result is cached as a hit", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCache(time.Hour)
		c.Put(ctx, "A-B-2025-03-10", nil)

		got, ok := c.Get(ctx, "A-B-2025-03-10")
		if !ok || got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil hit, got %v %v", got, ok)
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestCache(time.Hour)
		c.Put(ctx, "A-C-2025-03-10", sampleLegs)
		c.Put(ctx, "A-C-2025-03-10", sampleLegs[:1])

		got, _ := c.Get(ctx, "A-C-2025-03-10")
		if len(got) != 1 {
			t.Errorf("got %d legs, expected 1", len(got))
		}
	})
}

// TestLegCacheSweep tests bulk expiry.
func TestLegCacheSweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, clock := newTestCache(time.Hour)

	c.Put(ctx, "old", sampleLegs)
	clock.Advance(30 * time.Minute)
	c.Put(ctx, "new", sampleLegs)
	clock.Advance(30 * time.Minute)

	if removed := c.Sweep(ctx, clock.Now()); removed != 1 {
		t.Errorf("got %d removed, expected 1", removed)
	}
	if _, ok := c.Get(ctx, "new"); !ok {
		t.Error("expected fresh entry to survive the sweep")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := c.Len(ctx); n != 0 {
		t.Errorf("expected empty cache after clear, got %d", n)
	}
}

// TestLegCacheStoreFailures tests that store errors never reach the caller.
func TestLegCacheStoreFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := New(failingStore{}, time.Hour, WithLogger(quiet))

	c.Put(ctx, "A-C-2025-03-10", sampleLegs)
	if _, ok := c.Get(ctx, "A-C-2025-03-10"); ok {
		t.Error("expected a read failure to be a miss")
	}
	if removed := c.Sweep(ctx, time.Now()); removed != 0 {
		t.Errorf("got %d removed, expected 0", removed)
	}
}

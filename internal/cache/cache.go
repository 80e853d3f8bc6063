package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// LegCache is the TTL-checked cache in front of the leg fetcher.
// It is safe for concurrent use.
type LegCache struct {
	store  Store
	ttl    atomic.Int64
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a LegCache.
type Option func(*LegCache)

// WithLogger sets the logger used for swallowed store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *LegCache) {
		c.logger = logger
	}
}

// WithClock sets the time source. Tests use it to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(c *LegCache) {
		c.now = now
	}
}

// New creates a LegCache over store with the given TTL.
func New(store Store, ttl time.Duration, opts ...Option) *LegCache {
	c := &LegCache{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	c.ttl.Store(int64(ttl))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the cache key of a hop query, for example "BUD-LTN-2025-03-10".
func Key(origin, destination string, date time.Time) string {
	return strings.ToUpper(origin) + "-" + strings.ToUpper(destination) + "-" + model.FormatDate(date)
}

// TTL returns the current time-to-live.
func (c *LegCache) TTL() time.Duration {
	return time.Duration(c.ttl.Load())
}

// SetTTL changes the time-to-live. It applies to existing entries too.
func (c *LegCache) SetTTL(ttl time.Duration) {
	c.ttl.Store(int64(ttl))
}

// Get returns the cached legs for key. The boolean is false when the key is
// absent, the entry is at least TTL old, or the store failed.
func (c *LegCache) Get(ctx context.Context, key string) ([]model.RawLeg, bool) {
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Debug("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	if entry == nil {
		return nil, false
	}

	if c.expired(entry.StoredAt, c.now()) {
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Debug("cache delete failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, false
	}

	legs := entry.Legs
	if legs == nil {
		legs = []model.RawLeg{}
	}
	return legs, true
}

// Put stores legs under key, stamped with the current time.
func (c *LegCache) Put(ctx context.Context, key string, legs []model.RawLeg) {
	if legs == nil {
		legs = []model.RawLeg{}
	}
	entry := Entry{Key: key, Legs: legs, StoredAt: c.now()}
	if err := c.store.Put(ctx, entry); err != nil {
		c.logger.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Sweep deletes every entry at least TTL old relative to now and returns how
// many were removed.
func (c *LegCache) Sweep(ctx context.Context, now time.Time) int {
	removed, err := c.store.DeleteExpired(ctx, now.Add(-c.TTL()))
	if err != nil {
		c.logger.Warn("cache sweep failed", slog.String("error", err.Error()))
		return 0
	}
	if removed > 0 {
		c.logger.Debug("cache sweep", slog.Int("removed", removed))
	}
	return removed
}

// Clear drops every entry.
func (c *LegCache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Len returns the number of stored entries, expired or not.
func (c *LegCache) Len(ctx context.Context) (int, error) {
	return c.store.Count(ctx)
}

func (c *LegCache) expired(storedAt, now time.Time) bool {
	return now.Sub(storedAt) >= c.TTL()
}

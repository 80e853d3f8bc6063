package cache

import (
	"context"
	"time"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
)

// Entry is one cached fetch result.
type Entry struct {
	Key      string         `json:"key"`
	Legs     []model.RawLeg `json:"legs"`
	StoredAt time.Time      `json:"stored_at"`
}

// Store is a durable keyed store for cache entries.
// Get returns (nil, nil) when the key is absent. Put overwrites any entry
// with the same key.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, key string) error
	// DeleteExpired removes every entry stored at or before cutoff and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Close() error
}

package database

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/cache"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Open opens the cache store for backend inside dataDir.
func Open(backend, dataDir string, logger *slog.Logger) (cache.Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(dataDir, DefaultOptions())
	case BackendBadger:
		cfg := DefaultBadgerConfig(filepath.Join(dataDir, "badger"))
		cfg.Logger = logger
		return OpenBadger(cfg)
	case BackendMemory:
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

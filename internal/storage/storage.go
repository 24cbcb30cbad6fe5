// Package storage opens the configured preference backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/felixgeelhaar/devgenius/internal/config"
	"github.com/felixgeelhaar/devgenius/internal/preference"
	"github.com/felixgeelhaar/devgenius/internal/storage/postgres"
	"github.com/felixgeelhaar/devgenius/internal/storage/redis"
	"github.com/felixgeelhaar/devgenius/internal/storage/sqlite"
)

var ErrUnknownBackend = errors.New("unknown preference backend")

// DatabaseFile is the SQLite file name inside the data directory
const DatabaseFile = "devgenius.db"

// OpenPreferences returns the store named by cfg.Backend. dataDir holds the
// SQLite database.
func OpenPreferences(ctx context.Context, cfg config.PreferenceConfig, dataDir string) (preference.Store, error) {
	var (
		store preference.Store
		err   error
	)

	switch cfg.Backend {
	case "", "sqlite":
		store, err = sqlite.OpenPreferenceStore(ctx, filepath.Join(dataDir, DatabaseFile))
	case "memory":
		store = preference.NewMemoryStore()
	case "redis":
		store, err = redis.Open(ctx, cfg.RedisURL)
	case "postgres":
		store, err = postgres.Open(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s preference store: %w", cfg.Backend, err)
	}

	slog.Debug("preference store opened", "backend", cfg.Backend)
	return store, nil
}

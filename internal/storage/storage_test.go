package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/devgenius/internal/config"
	"github.com/felixgeelhaar/devgenius/internal/preference"
)

func TestOpenPreferences_SQLite(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenPreferences(ctx, config.PreferenceConfig{Backend: "sqlite"}, dir)
	if err != nil {
		t.Fatalf("OpenPreferences() error = %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, preference.KeyMode, "developer"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DatabaseFile)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpenPreferences_Memory(t *testing.T) {
	store, err := OpenPreferences(context.Background(), config.PreferenceConfig{Backend: "memory"}, "")
	if err != nil {
		t.Fatalf("OpenPreferences() error = %v", err)
	}
	if _, ok := store.(*preference.MemoryStore); !ok {
		t.Errorf("store = %T; want *preference.MemoryStore", store)
	}
}

func TestOpenPreferences_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := OpenPreferences(ctx, config.PreferenceConfig{Backend: "etcd"}, ""); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("OpenPreferences(etcd) error = %v; want ErrUnknownBackend", err)
	}
	if _, err := OpenPreferences(ctx, config.PreferenceConfig{Backend: "redis", RedisURL: "::bad"}, ""); err == nil {
		t.Error("OpenPreferences(redis) should fail on a bad URL")
	}
}

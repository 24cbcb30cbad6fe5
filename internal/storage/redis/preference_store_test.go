package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/felixgeelhaar/devgenius/internal/preference"
)

func TestOpen_InvalidURL(t *testing.T) {
	if _, err := Open(context.Background(), "not-a-url"); err == nil {
		t.Error("Open() should reject a non-redis URL")
	}
}

func TestPreferenceStore_GetSet(t *testing.T) {
	url := os.Getenv("DEVGENIUS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DEVGENIUS_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	store, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	key := "test-" + t.Name()
	t.Cleanup(func() { store.client.Del(context.Background(), KeyPrefix+key) })

	if _, err := store.Get(ctx, key); !errors.Is(err, preference.ErrNotFound) {
		t.Fatalf("Get() error = %v; want ErrNotFound", err)
	}
	if err := store.Set(ctx, key, "developer"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := store.Get(ctx, key)
	if err != nil || got != "developer" {
		t.Errorf("Get() = %q, %v; want developer", got, err)
	}
}

package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/felixgeelhaar/devgenius/internal/preference"
)

func TestOpen_InvalidURL(t *testing.T) {
	if _, err := Open(context.Background(), "postgres://%zz"); err == nil {
		t.Error("Open() should reject a malformed URL")
	}
}

func TestPreferenceStore_GetSet(t *testing.T) {
	url := os.Getenv("DEVGENIUS_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("DEVGENIUS_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	store, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	key := "test-" + t.Name()
	t.Cleanup(func() { store.pool.Exec(context.Background(), "DELETE FROM preferences WHERE key = $1", key) })

	if _, err := store.Get(ctx, key); !errors.Is(err, preference.ErrNotFound) {
		t.Fatalf("Get() error = %v; want ErrNotFound", err)
	}
	for _, v := range []string{"developer", "normal"} {
		if err := store.Set(ctx, key, v); err != nil {
			t.Fatalf("Set(%q) error = %v", v, err)
		}
	}
	got, err := store.Get(ctx, key)
	if err != nil || got != "normal" {
		t.Errorf("Get() = %q, %v; want normal", got, err)
	}
}

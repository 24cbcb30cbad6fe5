// Package redis stores preferences in Redis, for setups where several
// devgenius instances share one mode.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/devgenius/internal/preference"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces preference keys
const KeyPrefix = "devgenius:pref:"

// PreferenceStore implements preference.Store backed by Redis
type PreferenceStore struct {
	client *redis.Client
}

var _ preference.Store = (*PreferenceStore)(nil)

// Open parses a redis:// URL, connects and verifies the connection
func Open(ctx context.Context, url string) (*PreferenceStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return NewPreferenceStore(client), nil
}

// NewPreferenceStore wraps an existing client
func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

func (s *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", preference.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, nil
}

func (s *PreferenceStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

func (s *PreferenceStore) Close() error {
	return s.client.Close()
}

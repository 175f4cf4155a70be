package redis

// Package redis provides Redis-based adapters for the odoo school client.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/odoo-school-client/internal/ports"
)

// DefaultPrefix namespaces every key written by KeyValueStore.
const DefaultPrefix = "odoo:"

// KeyValueStore is a Redis-backed ports.KeyValueStore.
// Entries expire after TTL when it is positive.
type KeyValueStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStoreOptions groups configuration for KeyValueStore.
type KeyValueStoreOptions struct {
	Prefix string        // defaults to DefaultPrefix
	TTL    time.Duration // zero keeps entries until deleted
}

// NewKeyValueStore creates a Redis key/value store.
func NewKeyValueStore(client redis.UniversalClient, opts KeyValueStoreOptions) *KeyValueStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KeyValueStore{client: client, prefix: prefix, ttl: opts.TTL}
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to delete
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

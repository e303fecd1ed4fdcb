package services

import (
	"context"
	"time"
)

// KeyValueStore is the storage surface the matching core depends on:
// atomic list primitives for the waiting queues, plain keys with optional
// expiry for ephemeral flags and cached friend sets, and hashes for
// per-session choice/vote maps.
type KeyValueStore interface {
	PushToList(ctx context.Context, key, value string) error
	ListRange(ctx context.Context, key string) ([]string, error)
	RemoveFromList(ctx context.Context, key, value string) error

	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error

	HashSet(ctx context.Context, key, field, value string) error
	HashGetAll(ctx context.Context, key string) (map[string]string, error)
	HashDelete(ctx context.Context, key, field string) error
}

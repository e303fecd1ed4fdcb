package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisService implements KeyValueStore on a Redis client. Queues are
// Redis lists, flags are plain keys with TTL, choices and votes are hashes.
type RedisService struct {
	Client *redis.Client
}

// InitializeRedisClient builds a Redis client from REDIS_URL, falling back
// to localhost when unset.
func InitializeRedisClient() *redis.Client {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("Failed to parse REDIS_URL: %v", err)
	}
	return redis.NewClient(opts)
}

func (rs *RedisService) PushToList(ctx context.Context, key, value string) error {
	if err := rs.Client.RPush(ctx, key, value).Err(); err != nil {
		return fmt.Errorf("failed to push to list '%s': %w", key, err)
	}
	return nil
}

func (rs *RedisService) ListRange(ctx context.Context, key string) ([]string, error) {
	values, err := rs.Client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range list '%s': %w", key, err)
	}
	return values, nil
}

func (rs *RedisService) RemoveFromList(ctx context.Context, key, value string) error {
	if err := rs.Client.LRem(ctx, key, 0, value).Err(); err != nil {
		return fmt.Errorf("failed to remove from list '%s': %w", key, err)
	}
	return nil
}

func (rs *RedisService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := rs.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (rs *RedisService) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := rs.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return value, true, nil
}

func (rs *RedisService) Delete(ctx context.Context, key string) error {
	if err := rs.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

func (rs *RedisService) HashSet(ctx context.Context, key, field, value string) error {
	if err := rs.Client.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("failed to set hash field '%s.%s': %w", key, field, err)
	}
	return nil
}

func (rs *RedisService) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := rs.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hash '%s': %w", key, err)
	}
	return fields, nil
}

func (rs *RedisService) HashDelete(ctx context.Context, key, field string) error {
	if err := rs.Client.HDel(ctx, key, field).Err(); err != nil {
		return fmt.Errorf("failed to delete hash field '%s.%s': %w", key, field, err)
	}
	return nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements pipeline.Store on Redis so that every instance of a
// service shares one cache
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient creates a store over an existing client
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Get returns the value stored under key
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %q: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key for ttl
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %q: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

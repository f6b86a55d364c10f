// Package cache provides the query cache stores
package cache

import (
	"fmt"

	"github.com/erp/ordering/internal/application/pipeline"
	"github.com/erp/ordering/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StoreFactory creates query cache stores based on configuration
type StoreFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the memory store when
// Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateMemoryStore creates an in-process store
func (f *StoreFactory) CreateMemoryStore() *MemoryStore {
	return NewMemoryStore(MemoryConfig{
		Capacity:           f.cacheConfig.Capacity,
		NumShards:          f.cacheConfig.NumShards,
		DefaultTTL:         f.cacheConfig.DefaultTTL,
		EvictionPercentage: f.cacheConfig.EvictionPercentage,
	})
}

// CreateRedisStore creates a Redis-backed store
func (f *StoreFactory) CreateRedisStore() (*RedisStore, error) {
	store, err := NewRedisStore(RedisConfig{
		Addr:      f.redisConfig.Addr(),
		Password:  f.redisConfig.Password,
		DB:        f.redisConfig.DB,
		KeyPrefix: f.cacheConfig.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache store: %w", err)
	}
	return store, nil
}

// CreateStore creates the configured store. When the backend is redis and
// Redis cannot be reached, it falls back to memory if allowed.
func (f *StoreFactory) CreateStore() (pipeline.Store, error) {
	if f.cacheConfig.Backend != config.CacheBackendRedis {
		f.logger.Info("Using in-memory query cache")
		return f.CreateMemoryStore(), nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("Using Redis query cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for query cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory query cache. "+
		"Cached pages are not shared between instances.",
		zap.Error(err),
	)
	return f.CreateMemoryStore(), nil
}

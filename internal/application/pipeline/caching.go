package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/erp/ordering/internal/application/mediator"
	"go.uber.org/zap"
)

// DefaultCacheExpiration applies when a cacheable request declares no TTL
const DefaultCacheExpiration = 5 * time.Minute

// Cacheable is implemented by queries whose result may be served from cache
type Cacheable interface {
	CacheKey() string
	// CacheExpiration returns the entry lifetime; zero means the default
	CacheExpiration() time.Duration
}

// Store is the cache port. Values are opaque bytes; the caching behavior
// owns the encoding.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GetJSON reads and decodes a cached value
func GetJSON[T any](ctx context.Context, store Store, key string) (T, bool, error) {
	var value T
	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return value, false, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("failed to decode cache entry %q: %w", key, err)
	}
	return value, true, nil
}

// SetJSON encodes and stores a value
func SetJSON[T any](ctx context.Context, store Store, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %q: %w", key, err)
	}
	return store.Set(ctx, key, data, ttl)
}

// CachingBehavior serves Cacheable requests from the store. On a hit the
// rest of the chain, handler included, is skipped. On a miss the response is
// stored after the handler succeeds. Cache failures are logged and never fail
// the request. Other requests pass straight through.
type CachingBehavior struct {
	store  Store
	logger *zap.Logger
}

// NewCachingBehavior creates a caching behavior over store
func NewCachingBehavior(store Store, zapLogger *zap.Logger) *CachingBehavior {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &CachingBehavior{store: store, logger: zapLogger.Named("cache")}
}

// Handle implements mediator.Behavior
func (b *CachingBehavior) Handle(ctx context.Context, call *mediator.Call, next mediator.Next) (any, error) {
	cacheable, ok := call.Request.(Cacheable)
	if !ok {
		return next(ctx)
	}
	key := cacheable.CacheKey()

	data, hit, err := b.store.Get(ctx, key)
	if err != nil {
		b.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		resp, err := decode(data, call.ResponseType)
		if err == nil {
			b.logger.Debug("Cache hit", zap.String("key", key))
			return resp, nil
		}
		b.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
	}

	resp, err := next(ctx)
	if err != nil {
		return nil, err
	}

	ttl := cacheable.CacheExpiration()
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	encoded, err := json.Marshal(resp)
	if err != nil {
		b.logger.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return resp, nil
	}
	if err := b.store.Set(ctx, key, encoded, ttl); err != nil {
		b.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return resp, nil
}

// decode rebuilds a response of type t from its JSON encoding
func decode(data []byte, t reflect.Type) (any, error) {
	ptr := reflect.New(t)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

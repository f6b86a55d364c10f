package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ordering/internal/application/pipeline"
	"github.com/erp/ordering/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pipeline.Store = (*MemoryStore)(nil)
var _ pipeline.Store = (*RedisStore)(nil)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	store := NewMemoryStore(DefaultMemoryConfig())
	ctx := context.Background()

	t.Run("missing key is a miss", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("stored value is returned", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k1", []byte(`{"a":1}`), time.Minute))

		value, ok, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"a":1}`, string(value))
	})

	t.Run("stored bytes are copied", func(t *testing.T) {
		buf := []byte("original")
		require.NoError(t, store.Set(ctx, "k2", buf, time.Minute))
		copy(buf, "mutated!")

		value, ok, err := store.Get(ctx, "k2")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "original", string(value))
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k3", []byte("x"), time.Minute))
		require.NoError(t, store.Delete(ctx, "k3"))

		_, ok, err := store.Get(ctx, "k3")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStore_EntryTTL(t *testing.T) {
	store := NewMemoryStore(DefaultMemoryConfig())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "page", []byte("1"), time.Minute))

	now = now.Add(59 * time.Second)
	_, ok, err := store.Get(ctx, "page")
	require.NoError(t, err)
	assert.True(t, ok, "entry should live until its TTL")

	now = now.Add(time.Second)
	_, ok, err = store.Get(ctx, "page")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire at its TTL")
}

func TestNewMemoryStore_AppliesDefaults(t *testing.T) {
	store := NewMemoryStore(MemoryConfig{})
	require.NotNil(t, store)

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), time.Minute))
	assert.Equal(t, 1, store.Len())
}

func TestStoreFactory_CreateStore(t *testing.T) {
	unreachable := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	t.Run("memory backend", func(t *testing.T) {
		f := NewStoreFactory(config.CacheConfig{Backend: config.CacheBackendMemory}, unreachable)
		store, err := f.CreateStore()
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("redis backend falls back to memory", func(t *testing.T) {
		f := NewStoreFactory(config.CacheConfig{Backend: config.CacheBackendRedis}, unreachable)
		store, err := f.CreateStore()
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("redis backend without fallback fails", func(t *testing.T) {
		f := NewStoreFactory(config.CacheConfig{Backend: config.CacheBackendRedis}, unreachable, WithInMemoryFallback(false))
		store, err := f.CreateStore()
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestCachingBehavior_WithMemoryStore(t *testing.T) {
	store := NewMemoryStore(DefaultMemoryConfig())
	ctx := context.Background()

	type page struct {
		Items []string `json:"items"`
	}
	require.NoError(t, pipeline.SetJSON(ctx, store, "products:paged:1:10", page{Items: []string{"P1", "P2"}}, time.Minute))

	got, ok, err := pipeline.GetJSON[page](ctx, store, "products:paged:1:10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"P1", "P2"}, got.Items)
}

package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// entry is a cached value with its own expiry
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore implements pipeline.Store in process memory on top of sturdyc.
// Entries expire after their own TTL or the store's default TTL, whichever
// comes first. State is not shared between processes.
type MemoryStore struct {
	client *sturdyc.Client[entry]
	now    func() time.Time
}

// MemoryConfig sizes a MemoryStore
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	DefaultTTL         time.Duration
	EvictionPercentage int
}

// DefaultMemoryConfig returns settings suitable for a single service
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		DefaultTTL:         5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// NewMemoryStore creates an in-memory store. Non-positive settings fall back
// to DefaultMemoryConfig.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	def := DefaultMemoryConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = def.NumShards
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = def.DefaultTTL
	}
	if cfg.EvictionPercentage <= 0 || cfg.EvictionPercentage > 100 {
		cfg.EvictionPercentage = def.EvictionPercentage
	}

	return &MemoryStore{
		client: sturdyc.New[entry](cfg.Capacity, cfg.NumShards, cfg.DefaultTTL, cfg.EvictionPercentage),
		now:    time.Now,
	}
}

// Get returns the value stored under key
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.client.Delete(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key for ttl
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	copied := make([]byte, len(value))
	copy(copied, value)
	s.client.Set(key, entry{value: copied, expiresAt: s.now().Add(ttl)})
	return nil
}

// Delete removes key
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Len returns the number of entries, expired ones included
func (s *MemoryStore) Len() int {
	return s.client.Size()
}

// Package memory provides an in-process, read-through cache for an inventory source.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/inventory"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is how long a snapshot is served from memory.
const DefaultTTL = 30 * time.Second

// Cache implements inventory.Source by memoizing another Source.
// Safe for concurrent use. Failed fetches are not cached.
type Cache struct {
	inner   inventory.Source
	devices *expirable.LRU[string, domain.DeviceCatalog]
	pairs   *expirable.LRU[string, domain.PairCatalog]
	mu      sync.Mutex
}

// NewCache wraps inner. A ttl of zero uses DefaultTTL.
func NewCache(inner inventory.Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		inner:   inner,
		devices: expirable.NewLRU[string, domain.DeviceCatalog](1, nil, ttl),
		pairs:   expirable.NewLRU[string, domain.PairCatalog](1, nil, ttl),
	}
}

// Devices returns the cached device catalog, fetching it on a miss.
func (c *Cache) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	return load(ctx, &c.mu, c.devices, c.inner.Devices)
}

// Pairs returns the cached pair catalog, fetching it on a miss.
func (c *Cache) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	return load(ctx, &c.mu, c.pairs, c.inner.Pairs)
}

// Purge drops both cached catalogs.
func (c *Cache) Purge() {
	c.devices.Purge()
	c.pairs.Purge()
}

// load serializes misses so concurrent callers trigger a single fetch.
func load[V any](ctx context.Context, mu *sync.Mutex, lru *expirable.LRU[string, V], fetch func(context.Context) (V, error)) (V, error) {
	if v, ok := lru.Get(""); ok {
		return v, nil
	}

	mu.Lock()
	defer mu.Unlock()

	if v, ok := lru.Get(""); ok {
		return v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	lru.Add("", v)
	return v, nil
}

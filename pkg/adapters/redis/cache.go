// Package redis shares inventory snapshots between processes through Redis,
// so parallel CI jobs on one machine do not each pay for a simctl call.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/inventory"
	backend "github.com/redis/go-redis/v9"
)

// Cache implements inventory.Source as a read-through cache in Redis.
// Redis failures are logged and fall back to the inner source.
type Cache struct {
	inner  inventory.Source
	client *backend.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Cache)

// WithTTL sets the expiration of cached snapshots.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a Redis cache with options.
func New(inner inventory.Source, address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(inner, rdb, opts...)
}

// NewFromClient creates a Redis cache from an existing client.
func NewFromClient(inner inventory.Source, client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		inner:  inner,
		client: client,
		prefix: "findsimulator:inventory:",
		ttl:    time.Minute,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key(catalog string) string {
	return c.prefix + catalog
}

// Devices returns the cached device catalog, fetching it on a miss.
func (c *Cache) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	return load(ctx, c, inventory.CatalogDevices, c.inner.Devices)
}

// Pairs returns the cached pair catalog, fetching it on a miss.
func (c *Cache) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	return load(ctx, c, inventory.CatalogPairs, c.inner.Pairs)
}

// Invalidate removes both cached catalogs.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key(inventory.CatalogDevices), c.key(inventory.CatalogPairs)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate redis cache: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

func load[V any](ctx context.Context, c *Cache, catalog string, fetch func(context.Context) (V, error)) (V, error) {
	key := c.key(catalog)

	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v V
		jsonErr := json.Unmarshal(val, &v)
		if jsonErr == nil {
			return v, nil
		}
		c.logger.Warn("Discarding undecodable cache entry", "key", key, "error", jsonErr)
	case !errors.Is(err, backend.Nil):
		c.logger.Warn("Redis read failed, fetching inventory directly", "key", key, "error", err)
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode inventory for cache", "key", key, "error", err)
		return v, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis write failed", "key", key, "error", err)
	}
	return v, nil
}

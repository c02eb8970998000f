package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/aretw0/findsimulator/internal/logging"
	"github.com/aretw0/findsimulator/pkg/adapters/file"
	"github.com/aretw0/findsimulator/pkg/adapters/memory"
	"github.com/aretw0/findsimulator/pkg/adapters/redis"
	"github.com/aretw0/findsimulator/pkg/adapters/simctl"
	"github.com/aretw0/findsimulator/pkg/inventory"
)

// BuildSource assembles the inventory source described by c: a snapshot file
// when Inventory is set, simctl otherwise, optionally behind a cache.
// The returned cleanup releases cache connections and is never nil.
func (c *Config) BuildSource(logger *slog.Logger) (inventory.Source, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = logging.NewNop()
	}

	var source inventory.Source
	if c.Inventory != "" {
		source = file.New(c.Inventory, logger)
	} else {
		if runtime.GOOS != "darwin" {
			return nil, noop, fmt.Errorf("simctl is only available on macOS; use --inventory with a snapshot file on %s", runtime.GOOS)
		}
		source = simctl.New(simctl.WithXcrun(c.Xcrun), simctl.WithLogger(logger))
	}
	source = inventory.WithTimeout(source, time.Duration(c.Timeout))

	ttl := time.Duration(c.Cache.TTL)
	switch c.Cache.Backend {
	case CacheMemory:
		return memory.NewCache(source, ttl), noop, nil
	case CacheRedis:
		cache := redis.New(source, c.Cache.Redis.Addr, c.Cache.Redis.Password, c.Cache.Redis.DB,
			redis.WithTTL(ttl),
			redis.WithPrefix(c.Cache.Redis.Prefix),
			redis.WithLogger(logger),
		)
		return cache, cache.Close, nil
	default:
		return source, noop, nil
	}
}

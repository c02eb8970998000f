package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/findsimulator/internal/testutils"
	"github.com/aretw0/findsimulator/pkg/adapters/redis"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/inventory"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource counts fetches and can be told to fail.
type countingSource struct {
	inventory.Static
	devices int
	pairs   int
	err     error
}

func (s *countingSource) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	s.devices++
	if s.err != nil {
		return domain.DeviceCatalog{}, s.err
	}
	return s.Static.Devices(ctx)
}

func (s *countingSource) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	s.pairs++
	if s.err != nil {
		return domain.PairCatalog{}, s.err
	}
	return s.Static.Pairs(ctx)
}

func newSource() *countingSource {
	return &countingSource{Static: inventory.Static{
		DeviceCatalog: domain.DeviceCatalog{Groups: testutils.Groups()},
		PairCatalog:   domain.PairCatalog{Pairs: testutils.Pairs()},
	}}
}

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestCache_ReadThrough(t *testing.T) {
	mr, client := setup(t)
	src := newSource()
	cache := redis.NewFromClient(src, client, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	ctx := context.Background()

	first, err := cache.Devices(ctx)
	require.NoError(t, err)
	second, err := cache.Devices(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, testutils.Groups(), second.Groups)
	assert.Equal(t, 1, src.devices)
	assert.True(t, mr.Exists("test:devices"))
	assert.Equal(t, time.Minute, mr.TTL("test:devices"))

	pairs, err := cache.Pairs(ctx)
	require.NoError(t, err)
	_, err = cache.Pairs(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutils.Pairs(), pairs.Pairs)
	assert.Equal(t, 1, src.pairs)
}

func TestCache_SharedBetweenInstances(t *testing.T) {
	_, client := setup(t)
	ctx := context.Background()

	warm := newSource()
	_, err := redis.NewFromClient(warm, client).Devices(ctx)
	require.NoError(t, err)

	cold := newSource()
	got, err := redis.NewFromClient(cold, client).Devices(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutils.Groups(), got.Groups)
	assert.Equal(t, 0, cold.devices)
}

func TestCache_Expiry(t *testing.T) {
	mr, client := setup(t)
	src := newSource()
	cache := redis.NewFromClient(src, client, redis.WithTTL(10*time.Second))
	ctx := context.Background()

	_, err := cache.Devices(ctx)
	require.NoError(t, err)
	mr.FastForward(11 * time.Second)
	_, err = cache.Devices(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, src.devices)
}

func TestCache_Invalidate(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(newSource(), client)
	ctx := context.Background()

	_, err := cache.Devices(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists("findsimulator:inventory:devices"))
}

func TestCache_Failures(t *testing.T) {
	t.Run("Inner errors are returned and not cached", func(t *testing.T) {
		mr, client := setup(t)
		src := newSource()
		src.err = errors.New("simctl exploded")

		_, err := redis.NewFromClient(src, client).Devices(context.Background())
		assert.ErrorIs(t, err, src.err)
		assert.False(t, mr.Exists("findsimulator:inventory:devices"))
	})

	t.Run("Redis down falls back to the inner source", func(t *testing.T) {
		mr, client := setup(t)
		mr.Close()

		src := newSource()
		got, err := redis.NewFromClient(src, client).Devices(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testutils.Groups(), got.Groups)
	})

	t.Run("Corrupt entry is refetched", func(t *testing.T) {
		mr, client := setup(t)
		require.NoError(t, mr.Set("findsimulator:inventory:pairs", "{not json"))

		src := newSource()
		got, err := redis.NewFromClient(src, client).Pairs(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testutils.Pairs(), got.Pairs)
		assert.Equal(t, 1, src.pairs)
	})
}

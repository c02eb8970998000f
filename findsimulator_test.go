package findsimulator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/internal/testutils"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/filter"
	"github.com/aretw0/findsimulator/pkg/inventory"
	"github.com/aretw0/findsimulator/pkg/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSource() inventory.Static {
	return inventory.Static{
		DeviceCatalog: domain.DeviceCatalog{Groups: testutils.Groups()},
		PairCatalog:   domain.PairCatalog{Pairs: testutils.Pairs()},
	}
}

type failingSource struct {
	err error
}

func (s failingSource) Devices(context.Context) (domain.DeviceCatalog, error) {
	return domain.DeviceCatalog{}, s.err
}

func (s failingSource) Pairs(context.Context) (domain.PairCatalog, error) {
	return domain.PairCatalog{}, s.err
}

func mustQuery(t *testing.T, opts findsimulator.QueryOptions) findsimulator.Query {
	t.Helper()
	q, err := findsimulator.NewQuery(opts)
	require.NoError(t, err)
	return q
}

func TestFind_LatestResolvesToNewestEnabledRuntime(t *testing.T) {
	finder := findsimulator.New(fixtureSource())

	result, err := finder.Find(context.Background(), mustQuery(t, findsimulator.QueryOptions{
		Major: "latest",
		Minor: "latest",
	}))
	require.NoError(t, err)

	// iOS 18.0 only has an unavailable device, so 17.5 wins.
	assert.Equal(t, selector.Target{Major: 17, Minor: 5}, result.Target)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, testutils.RuntimeIOS175, result.Groups[0].Identifier)

	matches := result.Matches()
	require.Len(t, matches, 2)
	assert.Equal(t, "iPhone 15", matches[0].Device.Name)
	assert.Equal(t, "iPhone 15 Pro", matches[1].Device.Name)

	best, ok := result.First()
	require.True(t, ok)
	assert.Equal(t, testutils.UDID(16), best.Device.ID)
	assert.Equal(t, "17.5", best.Version.OS())
}

func TestFind_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		opts     findsimulator.QueryOptions
		expected []string // runtime identifiers in result order
		matches  int
	}{
		{
			name:     "all versions of one major, newest first",
			opts:     findsimulator.QueryOptions{Major: "17", Minor: "all", NameContains: "iPhone 15"},
			expected: []string{testutils.RuntimeIOS175, testutils.RuntimeIOS174},
			matches:  6,
		},
		{
			name:     "exact version",
			opts:     findsimulator.QueryOptions{Major: "15", Minor: "5"},
			expected: []string{testutils.RuntimeIOS155},
			matches:  2,
		},
		{
			name:     "latest minor of an older major",
			opts:     findsimulator.QueryOptions{Major: "15", Minor: "latest"},
			expected: []string{testutils.RuntimeIOS155},
			matches:  2,
		},
		{
			name:     "regex narrows to exact names",
			opts:     findsimulator.QueryOptions{Major: "all", Minor: "all", Pattern: `^iPhone\s15$`},
			expected: []string{testutils.RuntimeIOS175, testutils.RuntimeIOS174},
			matches:  2,
		},
		{
			name:     "platform is case-insensitive",
			opts:     findsimulator.QueryOptions{Platform: "WATCHOS", Major: "latest", Minor: "latest"},
			expected: []string{testutils.RuntimeWatchOS},
			matches:  1,
		},
		{
			name:     "latest minor without major is a wildcard",
			opts:     findsimulator.QueryOptions{Major: "all", Minor: "latest", NameContains: "iPhone 8"},
			expected: []string{testutils.RuntimeIOS155},
			matches:  1,
		},
	}

	finder := findsimulator.New(fixtureSource())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := finder.Find(context.Background(), mustQuery(t, tt.opts))
			require.NoError(t, err)

			var ids []string
			for _, g := range result.Groups {
				ids = append(ids, g.Identifier)
			}
			assert.Equal(t, tt.expected, ids)
			assert.Len(t, result.Matches(), tt.matches)
		})
	}
}

func TestFind_NoMatch(t *testing.T) {
	finder := findsimulator.New(fixtureSource())

	tests := []struct {
		name string
		opts findsimulator.QueryOptions
	}{
		{"unknown major", findsimulator.QueryOptions{Major: "16", Minor: "all"}},
		{"unknown name", findsimulator.QueryOptions{Major: "all", Minor: "all", NameContains: "Pixel"}},
		{"only unavailable devices", findsimulator.QueryOptions{Platform: "tvos", Major: "all", Minor: "all"}},
		{"name is case-sensitive", findsimulator.QueryOptions{Major: "all", Minor: "all", NameContains: "IPHONE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := finder.Find(context.Background(), mustQuery(t, tt.opts))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.KindNoMatch)
			assert.Equal(t, 1, domain.KindOf(err).ExitCode())
			assert.Empty(t, result.Matches())

			_, ok := result.First()
			assert.False(t, ok)
		})
	}
}

func TestFind_StrictPolicyRejectsLatestMinorWithoutMajor(t *testing.T) {
	finder := findsimulator.New(fixtureSource(), findsimulator.WithSelectorPolicy(selector.PolicyStrict))

	_, err := finder.Find(context.Background(), mustQuery(t, findsimulator.QueryOptions{Major: "all", Minor: "latest"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.KindInvalidSelector)
	assert.Equal(t, 2, domain.KindOf(err).ExitCode())

	// A concrete major still works.
	_, err = finder.Find(context.Background(), mustQuery(t, findsimulator.QueryOptions{Major: "17", Minor: "latest"}))
	assert.NoError(t, err)
}

func TestFind_UnavailableInventory(t *testing.T) {
	cause := errors.New("xcrun: error: unable to find utility \"simctl\"")
	finder := findsimulator.New(failingSource{err: cause})

	_, err := finder.Find(context.Background(), mustQuery(t, findsimulator.QueryOptions{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.KindUnavailableInventory)
	assert.ErrorIs(t, err, cause)

	_, err = finder.FindPairs(context.Background(), filter.None())
	assert.ErrorIs(t, err, domain.KindUnavailableInventory)
}

func TestNewQuery(t *testing.T) {
	t.Run("defaults to ios", func(t *testing.T) {
		q := mustQuery(t, findsimulator.QueryOptions{})
		assert.Equal(t, findsimulator.DefaultPlatform, q.Platform)
		assert.Equal(t, selector.All(), q.Versions.Major)
		assert.True(t, q.Name.IsNone())
		assert.True(t, q.Pattern.IsNone())
	})

	t.Run("invalid pattern fails", func(t *testing.T) {
		_, err := findsimulator.NewQuery(findsimulator.QueryOptions{Pattern: "iPhone ("})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.KindInvalidPattern)
	})

	t.Run("lenient pattern is ignored", func(t *testing.T) {
		q, err := findsimulator.NewQuery(findsimulator.QueryOptions{Pattern: "iPhone (", LenientPattern: true})
		require.NoError(t, err)
		assert.True(t, q.Pattern.IsNone())
	})
}

func TestFindPairs(t *testing.T) {
	finder := findsimulator.New(fixtureSource())

	t.Run("all available pairs sorted by name", func(t *testing.T) {
		phones, err := finder.FindPairs(context.Background(), filter.None())
		require.NoError(t, err)
		require.Len(t, phones, 5)
		assert.Equal(t, "iPhone 14", phones[0].Name)
		assert.Equal(t, "iPhone SE (3rd generation)", phones[4].Name)
	})

	t.Run("name filter", func(t *testing.T) {
		phones, err := finder.FindPairs(context.Background(), filter.Substring("Pro"))
		require.NoError(t, err)
		require.Len(t, phones, 2)
		assert.Equal(t, "iPhone 15 Pro", phones[0].Name)
		assert.Equal(t, testutils.UDID(2001), phones[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := finder.FindPairs(context.Background(), filter.Substring("iPhone 13"))
		assert.ErrorIs(t, err, domain.KindNoMatch)
	})
}

func TestFinder_Hooks(t *testing.T) {
	var inventories, lookups []string
	var lastMatches int

	hooks := domain.LifecycleHooks{
		OnInventory: func(_ context.Context, e *domain.InventoryEvent) {
			inventories = append(inventories, e.Catalog)
		},
		OnLookup: func(_ context.Context, e *domain.LookupEvent) {
			lookups = append(lookups, e.Lookup)
			lastMatches = e.Matches
		},
	}
	finder := findsimulator.New(fixtureSource(), findsimulator.WithLifecycleHooks(hooks))

	_, err := finder.Find(context.Background(), mustQuery(t, findsimulator.QueryOptions{Major: "latest", Minor: "latest"}))
	require.NoError(t, err)
	assert.Equal(t, 2, lastMatches)

	_, err = finder.FindPairs(context.Background(), filter.None())
	require.NoError(t, err)
	assert.Equal(t, 5, lastMatches)

	assert.Equal(t, []string{inventory.CatalogDevices, inventory.CatalogPairs}, inventories)
	assert.Equal(t, []string{"devices", "pairs"}, lookups)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, findsimulator.Version)
	assert.NotContains(t, findsimulator.Version, "\n")
}

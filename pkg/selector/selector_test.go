package selector

import (
	"errors"
	"testing"

	"github.com/aretw0/findsimulator/internal/testutils"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		want Selector
	}{
		{"latest", Latest()},
		{"LATEST", Latest()},
		{" Latest ", Latest()},
		{"all", All()},
		{"", All()},
		{"seventeen", All()},
		{"17.4", All()},
		{"17", Exact(17)},
		{"0", Exact(0)},
		{"-2", Exact(-2)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text))
		})
	}
}

func TestSelector_String(t *testing.T) {
	assert.Equal(t, "latest", Latest().String())
	assert.Equal(t, "all", All().String())
	assert.Equal(t, "12", Exact(12).String())
}

func TestResolve(t *testing.T) {
	groups := domain.EnabledGroups(testutils.Groups())

	tests := []struct {
		name     string
		major    string
		minor    string
		platform string
		want     Target
	}{
		{"Latest major and minor", "latest", "latest", "ios", Target{17, 5}},
		{"Latest major, all minors", "latest", "all", "ios", Target{17, 0}},
		{"Explicit major, latest minor", "17", "latest", "ios", Target{17, 5}},
		{"Older major, latest minor", "15", "latest", "iOS", Target{15, 5}},
		{"Explicit major and minor", "17", "4", "ios", Target{17, 4}},
		{"Non numeric resolves to wildcard", "all", "any", "ios", Target{0, 0}},
		{"Negative is a wildcard", "-1", "-1", "ios", Target{0, 0}},
		{"Platform is case-insensitive", "latest", "latest", "WATCHOS", Target{10, 2}},
		{"Unknown platform yields zero", "latest", "latest", "visionOS", Target{0, 0}},
		{"Disabled groups are ignored", "latest", "latest", "tvos", Target{0, 0}},
		{"Uninstalled explicit major, latest minor", "16", "latest", "ios", Target{16, 0}},
		{"Latest minor without major degrades to wildcard", "all", "latest", "ios", Target{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(ParseRequest(tt.major, tt.minor), tt.platform, groups, PolicyLenient)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_IgnoresDisabledGroups(t *testing.T) {
	// iOS 18.0 is installed but has no available device.
	got, err := Resolve(ParseRequest("latest", "latest"), "ios", testutils.Groups(), PolicyLenient)
	require.NoError(t, err)
	assert.Equal(t, Target{17, 5}, got)
}

func TestResolve_StrictPolicy(t *testing.T) {
	groups := domain.EnabledGroups(testutils.Groups())

	t.Run("Rejects latest minor without major", func(t *testing.T) {
		for _, major := range []string{"all", "", "0"} {
			_, err := Resolve(ParseRequest(major, "latest"), "ios", groups, PolicyStrict)
			require.Error(t, err, major)
			assert.True(t, errors.Is(err, domain.KindInvalidSelector))
			assert.Contains(t, err.Error(), "must provide a major version")
		}
	})

	t.Run("Accepts latest major with latest minor", func(t *testing.T) {
		got, err := Resolve(ParseRequest("latest", "latest"), "ios", groups, PolicyStrict)
		require.NoError(t, err)
		assert.Equal(t, Target{17, 5}, got)
	})

	t.Run("Latest major on an empty inventory is not a selector error", func(t *testing.T) {
		got, err := Resolve(ParseRequest("latest", "latest"), "ios", nil, PolicyStrict)
		require.NoError(t, err)
		assert.Equal(t, Target{}, got)
	})

	t.Run("Accepts explicit major with latest minor", func(t *testing.T) {
		got, err := Resolve(ParseRequest("15", "latest"), "ios", groups, PolicyStrict)
		require.NoError(t, err)
		assert.Equal(t, Target{15, 5}, got)
	})
}

func TestLatestMajor_TieOnMaximum(t *testing.T) {
	groups := []domain.RuntimeGroup{
		{Version: domain.RuntimeVersion{Platform: "iOS", Major: 17, Minor: 4}, Devices: []domain.Device{{Available: true}}},
		{Version: domain.RuntimeVersion{Platform: "ios", Major: 17, Minor: 5}, Devices: []domain.Device{{Available: true}}},
	}
	assert.Equal(t, 17, LatestMajor("IOS", groups))
	assert.Equal(t, 5, LatestMinor("IOS", 17, groups))
	assert.Equal(t, 0, LatestMinor("IOS", 16, groups))
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "17.5", Target{17, 5}.String())
	assert.Equal(t, "17.x", Target{17, 0}.String())
	assert.Equal(t, "any", Target{0, 3}.String())
}

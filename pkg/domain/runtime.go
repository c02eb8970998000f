package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RuntimeVersion is the comparable form of a runtime identifier such as
// "com.apple.CoreSimulator.SimRuntime.iOS-17-4".
type RuntimeVersion struct {
	Platform string `json:"platform" yaml:"platform"`
	Major    int    `json:"major" yaml:"major"`
	Minor    int    `json:"minor" yaml:"minor"`
}

// String renders the version as "iOS 17.4".
func (v RuntimeVersion) String() string {
	return fmt.Sprintf("%s %d.%d", v.Platform, v.Major, v.Minor)
}

// OS renders only the numeric part, "17.4".
func (v RuntimeVersion) OS() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseRuntimeVersion decomposes a runtime identifier.
//
// The last dot-separated segment must hold at least three dash-separated parts:
// platform, major and minor. Empty pieces are ignored. A numeric part that does
// not parse becomes 0, which downstream filters treat as a wildcard.
// The boolean is false when the identifier cannot be decomposed; callers skip
// such entries instead of failing.
func ParseRuntimeVersion(identifier string) (RuntimeVersion, bool) {
	segments := splitNonEmpty(identifier, '.')
	if len(segments) == 0 {
		return RuntimeVersion{}, false
	}

	parts := splitNonEmpty(segments[len(segments)-1], '-')
	if len(parts) < 3 {
		return RuntimeVersion{}, false
	}

	return RuntimeVersion{
		Platform: parts[0],
		Major:    lenientInt(parts[1]),
		Minor:    lenientInt(parts[2]),
	}, true
}

// SamePlatform reports whether two platform names are equal ignoring case.
// All platform comparisons in findsimulator go through this helper.
func SamePlatform(a, b string) bool {
	return NormalizePlatform(a) == NormalizePlatform(b)
}

// NormalizePlatform folds a platform name to its comparison form.
func NormalizePlatform(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func splitNonEmpty(s string, sep rune) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == sep })
}

func lenientInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

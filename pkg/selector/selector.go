// Package selector resolves symbolic OS version selectors ("all", "latest" or a
// number) against the runtimes installed on the machine.
package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/findsimulator/pkg/domain"
)

// Mode is the kind of a Selector.
type Mode int

const (
	// ModeAll matches any version.
	ModeAll Mode = iota
	// ModeLatest picks the highest installed, enabled version.
	ModeLatest
	// ModeExact matches one number. Values below 1 behave like ModeAll.
	ModeExact
)

// Selector is a parsed major or minor version selector.
type Selector struct {
	Mode  Mode
	Value int
}

// All returns the wildcard selector.
func All() Selector { return Selector{Mode: ModeAll} }

// Latest returns the "latest installed" selector.
func Latest() Selector { return Selector{Mode: ModeLatest} }

// Exact returns a selector for a single version number.
func Exact(n int) Selector { return Selector{Mode: ModeExact, Value: n} }

// Parse interprets user text. "latest" is case-insensitive; numbers become
// Exact; "all", empty and anything unparseable become All.
func Parse(text string) Selector {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "latest") {
		return Latest()
	}
	if n, err := strconv.Atoi(text); err == nil {
		return Exact(n)
	}
	return All()
}

func (s Selector) String() string {
	switch s.Mode {
	case ModeLatest:
		return "latest"
	case ModeExact:
		return strconv.Itoa(s.Value)
	default:
		return "all"
	}
}

// Request pairs the major and minor selectors of one lookup.
type Request struct {
	Major Selector
	Minor Selector
}

// ParseRequest parses both selectors.
func ParseRequest(major, minor string) Request {
	return Request{Major: Parse(major), Minor: Parse(minor)}
}

// Policy decides what happens when "latest" is requested for the minor version
// but the major version does not resolve to a concrete number.
type Policy int

const (
	// PolicyLenient looks the minor version up against major 0, which normally
	// yields 0 and so a wildcard.
	PolicyLenient Policy = iota
	// PolicyStrict rejects the combination with a KindInvalidSelector error.
	PolicyStrict
)

// Target is a resolved version. Zero in either field means "any".
type Target struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

func (t Target) String() string {
	switch {
	case t.Major < 1:
		return "any"
	case t.Minor < 1:
		return fmt.Sprintf("%d.x", t.Major)
	default:
		return fmt.Sprintf("%d.%d", t.Major, t.Minor)
	}
}

// Resolve computes the concrete version to filter on for platform.
// Only enabled groups take part in "latest" lookups.
func Resolve(req Request, platform string, groups []domain.RuntimeGroup, policy Policy) (Target, error) {
	var target Target

	switch req.Major.Mode {
	case ModeLatest:
		target.Major = LatestMajor(platform, groups)
	case ModeExact:
		target.Major = clamp(req.Major.Value)
	}

	switch req.Minor.Mode {
	case ModeLatest:
		if policy == PolicyStrict && req.Major.Mode != ModeLatest && target.Major < 1 {
			return Target{}, domain.NewError(domain.KindInvalidSelector,
				"when specifying 'latest' for the minor OS version, you must provide a major version (got %q)", req.Major)
		}
		target.Minor = LatestMinor(platform, target.Major, groups)
	case ModeExact:
		target.Minor = clamp(req.Minor.Value)
	}

	return target, nil
}

// LatestMajor returns the highest major version among enabled groups of the
// platform, or 0 if there are none.
func LatestMajor(platform string, groups []domain.RuntimeGroup) int {
	latest := 0
	for _, g := range groups {
		if !g.Enabled() || !domain.SamePlatform(platform, g.Version.Platform) {
			continue
		}
		if g.Version.Major > latest {
			latest = g.Version.Major
		}
	}
	return latest
}

// LatestMinor returns the highest minor version among enabled groups of the
// platform with the given major version, or 0 if there are none.
func LatestMinor(platform string, major int, groups []domain.RuntimeGroup) int {
	latest := 0
	for _, g := range groups {
		if !g.Enabled() || !domain.SamePlatform(platform, g.Version.Platform) || g.Version.Major != major {
			continue
		}
		if g.Version.Minor > latest {
			latest = g.Version.Minor
		}
	}
	return latest
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

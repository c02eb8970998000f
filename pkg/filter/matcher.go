package filter

import (
	"regexp"
	"strings"

	"github.com/aretw0/findsimulator/pkg/domain"
)

// MatcherKind tags the variant held by a Matcher.
type MatcherKind int

const (
	KindNone MatcherKind = iota
	KindSubstring
	KindRegex
)

// Matcher is a device-name predicate: no filter, a case-sensitive substring,
// or a compiled regular expression searched anywhere in the name.
// The zero value matches everything.
type Matcher struct {
	kind MatcherKind
	text string
	re   *regexp.Regexp
}

// None returns a matcher that accepts every name.
func None() Matcher {
	return Matcher{}
}

// Substring matches names containing s. An empty s yields None.
func Substring(s string) Matcher {
	if s == "" {
		return None()
	}
	return Matcher{kind: KindSubstring, text: s}
}

// Regex compiles pattern once. An empty pattern yields None; a pattern that
// does not compile is a KindInvalidPattern error.
func Regex(pattern string) (Matcher, error) {
	if pattern == "" {
		return None(), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return None(), domain.WrapError(domain.KindInvalidPattern, err, "invalid name pattern %q", pattern)
	}
	return Matcher{kind: KindRegex, text: pattern, re: re}, nil
}

// RegexOrNone is Regex that drops a pattern which does not compile instead of
// failing.
func RegexOrNone(pattern string) Matcher {
	m, err := Regex(pattern)
	if err != nil {
		return None()
	}
	return m
}

// Kind returns the variant of m.
func (m Matcher) Kind() MatcherKind {
	return m.kind
}

// IsNone reports whether m accepts every name.
func (m Matcher) IsNone() bool {
	return m.kind == KindNone
}

// Match reports whether name satisfies m.
func (m Matcher) Match(name string) bool {
	switch m.kind {
	case KindSubstring:
		return strings.Contains(name, m.text)
	case KindRegex:
		return m.re.MatchString(name)
	default:
		return true
	}
}

// String returns the substring or pattern, or "" for None.
func (m Matcher) String() string {
	return m.text
}

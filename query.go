package findsimulator

import (
	"github.com/aretw0/findsimulator/pkg/filter"
	"github.com/aretw0/findsimulator/pkg/selector"
)

// DefaultPlatform is used when a query names no platform.
const DefaultPlatform = "ios"

// QueryOptions is the user-facing, textual form of a device lookup.
type QueryOptions struct {
	Platform     string // ios, watchos, tvos, ... (case-insensitive)
	Major        string // "latest", "all" or a number
	Minor        string // "latest", "all" or a number
	NameContains string // case-sensitive substring of the device name
	Pattern      string // regular expression searched in the device name

	// LenientPattern ignores a Pattern that does not compile instead of failing.
	LenientPattern bool
}

// Query is a parsed lookup: selectors and matchers are built once.
type Query struct {
	Platform string
	Versions selector.Request
	Name     filter.Matcher
	Pattern  filter.Matcher
}

// NewQuery parses opts. It fails with a KindInvalidPattern error when Pattern
// does not compile, unless LenientPattern is set.
func NewQuery(opts QueryOptions) (Query, error) {
	q := Query{
		Platform: opts.Platform,
		Versions: selector.ParseRequest(opts.Major, opts.Minor),
		Name:     filter.Substring(opts.NameContains),
	}
	if q.Platform == "" {
		q.Platform = DefaultPlatform
	}

	if opts.LenientPattern {
		q.Pattern = filter.RegexOrNone(opts.Pattern)
		return q, nil
	}

	pattern, err := filter.Regex(opts.Pattern)
	if err != nil {
		return Query{}, err
	}
	q.Pattern = pattern
	return q, nil
}

// Package presentation turns lookup results into what the CLI prints.
package presentation

import (
	"fmt"
	"strings"

	"github.com/aretw0/findsimulator/pkg/domain"
)

// Format selects how results are printed.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts text, json and markdown (or md), case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or markdown)", s)
	}
}

// PlatformLabel is the xcodebuild destination platform of a simulator runtime,
// e.g. "iOS Simulator".
func PlatformLabel(platform string) string {
	return platform + " Simulator"
}

// Destination renders one result as an xcodebuild destination specifier:
// platform=<label>[,OS=<maj>.<min>],id=<udid>[,name=<name>].
// A nil version omits the OS key, as for paired phones.
func Destination(platform string, version *domain.RuntimeVersion, d domain.Device, withName bool) string {
	var sb strings.Builder
	sb.WriteString("platform=")
	sb.WriteString(PlatformLabel(platform))
	if version != nil {
		sb.WriteString(",OS=")
		sb.WriteString(version.OS())
	}
	sb.WriteString(",id=")
	sb.WriteString(d.ID)
	if withName {
		sb.WriteString(",name=")
		sb.WriteString(d.Name)
	}
	return sb.String()
}

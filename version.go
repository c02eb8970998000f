package findsimulator

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release of findsimulator.
var Version = strings.TrimSpace(rawVersion)

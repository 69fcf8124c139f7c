package riseflow

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the release version of riseflow.
var Version = strings.TrimSpace(version)

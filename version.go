package keypad

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release of the keypad module.
var Version = strings.TrimSpace(rawVersion)

package murmur

import (
	_ "embed"
)

// Version is the release of the library and the murmur CLI.
//
//go:embed VERSION
var Version string

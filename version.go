package scribe

import _ "embed"

// Version is the version of the library, read from the VERSION file.
//
//go:embed VERSION
var Version string

package intercept

import _ "embed"

// Version is the library release, embedded from the VERSION file. It carries
// a trailing newline; display paths trim it.
//
//go:embed VERSION
var Version string

package ports

import "context"

// ConfigSource resolves dot-delimited paths against the server-side base
// configuration tree. Sources are read-only from the protocol's point of
// view; session overrides live in the session overlay, never here.
type ConfigSource interface {
	// Lookup returns the value at path and whether the path exists. A missing
	// path is not an error.
	Lookup(ctx context.Context, path string) (any, bool, error)
}

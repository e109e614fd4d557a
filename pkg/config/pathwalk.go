// Package config resolves dot-delimited hierarchical configuration paths,
// layering session-scoped overrides over a read-only base source.
package config

import "strings"

// Split breaks a dot-delimited path into segments. Empty segments are kept
// verbatim so lookups through them simply miss.
func Split(path string) []string {
	return strings.Split(path, ".")
}

// Walk resolves path against a nested tree. It never materializes
// intermediate nodes; a missing segment just reports absence. Trees may mix
// map[string]any and map[any]any, the two shapes yaml.v3 decodes into.
func Walk(tree any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	cur := tree
	for _, seg := range Split(path) {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case map[any]any:
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set writes value at path, creating intermediate maps as needed. A scalar
// sitting in the middle of the path is replaced by a map; the last writer
// wins.
func Set(tree map[string]any, path string, value any) {
	if path == "" {
		return
	}
	segs := Split(path)
	cur := tree
	for i, seg := range segs {
		if i == len(segs)-1 {
			cur[seg] = value
			return
		}
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
}

package domain

import "strings"

// RecordPrefix is the naming convention that marks a stored document as
// interceptor configuration. Documents without the prefix are ignored by the
// record source.
const RecordPrefix = "pfxInterceptor_"

// InterceptorRecord is one interceptor configuration document: it binds
// record-surface binding names (action name plus optional "Pre" suffix) to
// handler refs registered in the catalog.
type InterceptorRecord struct {
	// Name is the full document name, including RecordPrefix.
	Name string `json:"name" mapstructure:"name"`

	// Enabled gates the whole record. Disabled records are kept but never
	// applied.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Bindings maps binding names to handler refs.
	Bindings map[string]string `json:"bindings" mapstructure:"bindings"`

	Description string `json:"description,omitempty" mapstructure:"description"`
}

// IsRecordName reports whether a document name follows the interceptor
// record convention.
func IsRecordName(name string) bool {
	return strings.HasPrefix(name, RecordPrefix) && len(name) > len(RecordPrefix)
}

// Suffix returns the record name without the convention prefix.
func (r InterceptorRecord) Suffix() string {
	return strings.TrimPrefix(r.Name, RecordPrefix)
}

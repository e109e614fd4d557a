package loam

// RecordMetadata is the frontmatter shape of an interceptor record document.
// It uses "mapstructure" tags to match the YAML keys.
type RecordMetadata struct {
	// Enabled toggles the record. A missing key means enabled; records are
	// disabled explicitly, not by omission.
	Enabled *bool `json:"enabled,omitempty" mapstructure:"enabled"`

	// Bindings maps binding names (action name, optionally with the "Pre"
	// suffix) to handler refs from the catalog.
	Bindings map[string]string `json:"bindings" mapstructure:"bindings"`

	// Description is a one-line summary. When absent the document body
	// serves as the description.
	Description string `json:"description,omitempty" mapstructure:"description"`
}

func (m RecordMetadata) enabled() bool {
	return m.Enabled == nil || *m.Enabled
}

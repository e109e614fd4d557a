package domain

// BusinessObject is the in-flight document an action operates on: a quote,
// contract, rebate agreement or compensation plan as the platform holds it
// mid-operation. Header fields and computed output cells are addressed by
// name; mutations through the accessors are visible to the built-in action,
// which shares the same instance.
type BusinessObject struct {
	// TypedID is the platform identifier carrying the object type suffix
	// (e.g. "1042.Q"). Empty for documents not yet persisted.
	TypedID string `json:"typedId,omitempty" mapstructure:"typedId"`

	// Label is the human-readable name of the document.
	Label string `json:"label,omitempty" mapstructure:"label"`

	Header  map[string]any `json:"header,omitempty" mapstructure:"header"`
	Outputs []OutputCell   `json:"outputs,omitempty" mapstructure:"outputs"`
}

// OutputCell is one computed result cell of a document (the output of a
// server-side calculation, addressed by element name).
type OutputCell struct {
	Name   string `json:"name" mapstructure:"name"`
	Result any    `json:"result,omitempty" mapstructure:"result"`
}

// HeaderValue returns the named header field.
func (o *BusinessObject) HeaderValue(name string) (any, bool) {
	v, ok := o.Header[name]
	return v, ok
}

// SetHeaderValue sets a header field, allocating the map on first write.
func (o *BusinessObject) SetHeaderValue(name string, value any) {
	if o.Header == nil {
		o.Header = make(map[string]any)
	}
	o.Header[name] = value
}

// Output returns the result of the named output cell.
func (o *BusinessObject) Output(name string) (any, bool) {
	for _, c := range o.Outputs {
		if c.Name == name {
			return c.Result, true
		}
	}
	return nil, false
}

// SetOutput upserts an output cell by name.
func (o *BusinessObject) SetOutput(name string, result any) {
	for i, c := range o.Outputs {
		if c.Name == name {
			o.Outputs[i].Result = result
			return
		}
	}
	o.Outputs = append(o.Outputs, OutputCell{Name: name, Result: result})
}

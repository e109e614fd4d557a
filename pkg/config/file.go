package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML document into a MapSource. This is how the demo host
// supplies its base configuration tree.
func LoadFile(path string) (*MapSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return NewMapSource(tree), nil
}

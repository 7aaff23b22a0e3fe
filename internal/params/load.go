package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML file of parameter overrides and merges it over the
// defaults. The file is a flat mapping of parameter name to number; aliases
// are accepted.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("reading params file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML overrides (JSON is valid YAML) and builds a Set.
func Parse(data []byte) (Set, error) {
	var overrides map[string]any
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Set{}, fmt.Errorf("parsing params YAML: %w", err)
	}
	return New(overrides)
}

// Marshal renders the Set as YAML in the same flat form Load accepts.
func (s Set) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
//
//	id: 3
//	name: Reverse
//	capacity: 4
//	tracks:
//	  - [C, B, A]
//	  - []
//	target: [A, B, C]
type YAMLLevel struct {
	ID          int        `yaml:"id"`
	Name        string     `yaml:"name"`
	Tracks      [][]string `yaml:"tracks"`
	Target      []string   `yaml:"target"`
	Capacity    int        `yaml:"capacity,omitempty"`
	Description string     `yaml:"description,omitempty"`
}

// ParseYAML parses a YAML level file. A missing capacity becomes defaultCapacity.
func ParseYAML(data []byte, defaultCapacity int) (core.Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return core.Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	return core.Level{
		ID:             yl.ID,
		Name:           yl.Name,
		Tracks:         yl.Tracks,
		TargetSequence: yl.Target,
		Capacity:       capacityOr(yl.Capacity, defaultCapacity),
		Description:    yl.Description,
	}, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

func capacityOr(capacity, fallback int) int {
	if capacity > 0 {
		return capacity
	}
	if fallback > 0 {
		return fallback
	}
	return core.DefaultCapacity
}

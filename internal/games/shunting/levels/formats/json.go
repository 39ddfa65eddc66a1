package formats

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

// JSONLevel is the browser edition's level file layout (level_NN.json).
type JSONLevel struct {
	ID             int        `json:"id"`
	Name           string     `json:"name,omitempty"`
	Tracks         [][]string `json:"tracks"`
	TargetSequence []string   `json:"targetSequence"`
	Capacity       int        `json:"capacity,omitempty"`
	Description    string     `json:"description,omitempty"`
}

// ParseJSON parses a JSON level file. A missing capacity becomes defaultCapacity.
func ParseJSON(data []byte, defaultCapacity int) (core.Level, error) {
	var jl JSONLevel
	if err := json.Unmarshal(data, &jl); err != nil {
		return core.Level{}, fmt.Errorf("json unmarshal: %w", err)
	}

	return core.Level{
		ID:             jl.ID,
		Name:           jl.Name,
		Tracks:         jl.Tracks,
		TargetSequence: jl.TargetSequence,
		Capacity:       capacityOr(jl.Capacity, defaultCapacity),
		Description:    jl.Description,
	}, nil
}

// Package core implements the shunting puzzle engine: levels, tracks,
// the per-attempt session state machine and win/score evaluation.
// It has no dependencies outside the standard library.
package core

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

// Empty marks an unoccupied slot on a track.
const Empty = ""

// DefaultCapacity is used when a level file does not declare a capacity.
const DefaultCapacity = 8

// Level validation errors.
var (
	ErrInvalidID       = errors.New("level id must be positive")
	ErrNoTracks        = errors.New("level has no tracks")
	ErrNoTarget        = errors.New("level has no target sequence")
	ErrInvalidCapacity = errors.New("level capacity must be positive")
)

// Level is an immutable puzzle definition.
type Level struct {
	ID             int
	Name           string
	Tracks         [][]string
	TargetSequence []string
	Capacity       int
	Description    string
}

// Validate checks the level against the invariants the engine relies on.
func (l Level) Validate() error {
	if l.ID <= 0 {
		return ErrInvalidID
	}
	if len(l.Tracks) == 0 {
		return ErrNoTracks
	}
	if len(l.TargetSequence) == 0 {
		return ErrNoTarget
	}
	if l.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if len(l.TargetSequence) > l.Capacity {
		return fmt.Errorf("target has %d cars but capacity is %d", len(l.TargetSequence), l.Capacity)
	}

	for i, label := range l.TargetSequence {
		if label == Empty {
			return fmt.Errorf("target position %d is empty", i)
		}
		if !validLabel(label) {
			return fmt.Errorf("target position %d: invalid car label %q", i, label)
		}
	}

	for t, track := range l.Tracks {
		cars := 0
		for s, label := range track {
			if label == Empty {
				continue
			}
			if !validLabel(label) {
				return fmt.Errorf("track %d slot %d: invalid car label %q", t, s, label)
			}
			cars++
		}
		if cars > l.Capacity {
			return fmt.Errorf("track %d holds %d cars, capacity is %d", t, cars, l.Capacity)
		}
	}

	return nil
}

// validLabel reports whether label is a single character.
func validLabel(label string) bool {
	return utf8.RuneCountInString(label) == 1
}

// Catalog maps level ids to levels. Levels may be added in any order;
// unknown ids are simply unavailable.
type Catalog struct {
	levels map[int]Level
}

// NewCatalog builds a catalog from the given levels.
// Later duplicates replace earlier ones.
func NewCatalog(levels ...Level) *Catalog {
	c := &Catalog{levels: make(map[int]Level, len(levels))}
	for _, l := range levels {
		c.Add(l)
	}
	return c
}

// Add registers a level under its id.
func (c *Catalog) Add(l Level) {
	if c.levels == nil {
		c.levels = make(map[int]Level)
	}
	c.levels[l.ID] = l
}

// Get returns the level with the given id.
func (c *Catalog) Get(id int) (Level, bool) {
	if c == nil {
		return Level{}, false
	}
	l, ok := c.levels[id]
	return l, ok
}

// Has reports whether a level with the given id is known.
func (c *Catalog) Has(id int) bool {
	_, ok := c.Get(id)
	return ok
}

// Len returns the number of known levels.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.levels)
}

// IDs returns all level ids in ascending order.
func (c *Catalog) IDs() []int {
	if c == nil {
		return nil
	}
	ids := make([]int, 0, len(c.levels))
	for id := range c.levels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Levels returns all levels ordered by id.
func (c *Catalog) Levels() []Level {
	ids := c.IDs()
	out := make([]Level, len(ids))
	for i, id := range ids {
		out[i] = c.levels[id]
	}
	return out
}

// Next returns the smallest known id greater than id.
func (c *Catalog) Next(id int) (int, bool) {
	for _, candidate := range c.IDs() {
		if candidate > id {
			return candidate, true
		}
	}
	return 0, false
}

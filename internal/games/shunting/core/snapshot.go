package core

import (
	"fmt"
	"slices"
	"strings"
)

// Slot addresses one position on one track.
type Slot struct {
	Track int `json:"track"`
	Index int `json:"slot"`
}

// Snapshot is a read-only copy of the session state for presentation layers.
type Snapshot struct {
	Active          bool       `json:"active"`
	LevelID         int        `json:"level"`
	LevelName       string     `json:"name,omitempty"`
	Description     string     `json:"description,omitempty"`
	Tracks          [][]string `json:"tracks"`
	Target          []string   `json:"target"`
	Capacity        int        `json:"capacity"`
	LocomotiveTrack int        `json:"locomotive"`
	Selected        []Slot     `json:"selected"`
	Moves           int        `json:"moves"`
	ElapsedSeconds  int        `json:"elapsed"`
	Won             bool       `json:"won"`
	NewRecord       bool       `json:"new_record"`
	MatchedTrack    int        `json:"matched_track"`
	Message         string     `json:"message,omitempty"`
	Player          string     `json:"player,omitempty"`
	HasNext         bool       `json:"has_next"`
}

// Snapshot copies the current state. The result shares no memory with s.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Active:          s.active,
		LevelID:         s.levelID,
		LevelName:       s.levelName,
		Description:     s.description,
		Tracks:          make([][]string, len(s.tracks)),
		Target:          slices.Clone(s.target),
		Capacity:        s.capacity,
		LocomotiveTrack: s.locomotive,
		Selected:        make([]Slot, 0, s.selected),
		Moves:           s.moves,
		ElapsedSeconds:  s.elapsed,
		Won:             s.won,
		NewRecord:       s.newRecord,
		MatchedTrack:    s.matched,
		Message:         s.message,
		Player:          s.player,
	}

	for i, t := range s.tracks {
		snap.Tracks[i] = slices.Clone([]string(t))
	}
	for i := range s.selected {
		snap.Selected = append(snap.Selected, Slot{Track: s.locomotive, Index: i})
	}
	if s.active {
		_, snap.HasNext = s.catalog.Next(s.levelID)
	}

	return snap
}

// IsSelected reports whether the given slot is part of the selection.
func (s Snapshot) IsSelected(track, slot int) bool {
	return slices.Contains(s.Selected, Slot{Track: track, Index: slot})
}

// CanMoveTo reports whether track is a candidate destination for the
// current selection. Capacity is not checked.
func (s Snapshot) CanMoveTo(track int) bool {
	return !s.Won &&
		s.LocomotiveTrack != NoTrack &&
		len(s.Selected) > 0 &&
		track != s.LocomotiveTrack &&
		track >= 0 && track < len(s.Tracks)
}

// TimeString formats the elapsed time as m:ss.
func (s Snapshot) TimeString() string {
	return FormatSeconds(s.ElapsedSeconds)
}

// TargetString renders the target sequence as "A -> B -> C".
func (s Snapshot) TargetString() string {
	return strings.Join(s.Target, " -> ")
}

// TrackLoad returns the number of cars on the track.
func (s Snapshot) TrackLoad(track int) int {
	if track < 0 || track >= len(s.Tracks) {
		return 0
	}
	return Track(s.Tracks[track]).Count()
}

// TrackFull reports whether the track has no free slot.
func (s Snapshot) TrackFull(track int) bool {
	return s.TrackLoad(track) >= s.Capacity
}

// LoadString renders a track's load as "(n/capacity)".
func (s Snapshot) LoadString(track int) string {
	return fmt.Sprintf("(%d/%d)", s.TrackLoad(track), s.Capacity)
}

// FormatSeconds formats a duration in whole seconds as m:ss.
func FormatSeconds(secs int) string {
	secs = max(0, secs)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

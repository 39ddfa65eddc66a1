package core_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

func validLevel() core.Level {
	return core.Level{
		ID:             1,
		Tracks:         [][]string{{"B", "A"}, {}, {}},
		TargetSequence: []string{"A", "B"},
		Capacity:       4,
	}
}

func TestLevelValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(l *core.Level)
		wantErr error
		ok      bool
	}{
		{"valid", func(l *core.Level) {}, nil, true},
		{"zero id", func(l *core.Level) { l.ID = 0 }, core.ErrInvalidID, false},
		{"no tracks", func(l *core.Level) { l.Tracks = nil }, core.ErrNoTracks, false},
		{"no target", func(l *core.Level) { l.TargetSequence = nil }, core.ErrNoTarget, false},
		{"zero capacity", func(l *core.Level) { l.Capacity = 0 }, core.ErrInvalidCapacity, false},
		{"target too long", func(l *core.Level) { l.Capacity = 1 }, nil, false},
		{"empty target entry", func(l *core.Level) { l.TargetSequence = []string{"A", ""} }, nil, false},
		{"multi-rune label", func(l *core.Level) { l.Tracks[0][0] = "AB" }, nil, false},
		{"overfull track", func(l *core.Level) { l.Tracks[1] = []string{"C", "D", "E", "F", "G"} }, nil, false},
		{"gaps are fine", func(l *core.Level) { l.Tracks[1] = []string{"", "C"} }, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLevel()
			tt.mutate(&l)
			err := l.Validate()

			if tt.ok {
				if err != nil {
					t.Errorf("Validate() = %v, expected nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogOrdering(t *testing.T) {
	mk := func(id int) core.Level {
		l := validLevel()
		l.ID = id
		return l
	}
	c := core.NewCatalog(mk(10), mk(2), mk(5))

	if got, want := c.IDs(), []int{2, 5, 10}; !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, expected %v", got, want)
	}
	if c.Len() != 3 || !c.Has(5) || c.Has(3) {
		t.Error("Len/Has mismatch")
	}

	tests := []struct {
		from int
		next int
		ok   bool
	}{
		{0, 2, true},
		{2, 5, true},
		{3, 5, true},
		{5, 10, true},
		{10, 0, false},
	}
	for _, tt := range tests {
		next, ok := c.Next(tt.from)
		if next != tt.next || ok != tt.ok {
			t.Errorf("Next(%d) = %d, %v, expected %d, %v", tt.from, next, ok, tt.next, tt.ok)
		}
	}

	levels := c.Levels()
	if len(levels) != 3 || levels[0].ID != 2 || levels[2].ID != 10 {
		t.Errorf("Levels() not ordered by id: %v", levels)
	}
}

func TestNilCatalog(t *testing.T) {
	var c *core.Catalog
	if _, ok := c.Get(1); ok {
		t.Error("nil catalog should have no levels")
	}
	if c.Len() != 0 || c.IDs() != nil {
		t.Error("nil catalog should be empty")
	}
}

func TestSnapshotFormatting(t *testing.T) {
	snap := core.Snapshot{
		Tracks:         [][]string{{"A", "B", ""}, {"C", "D", "E"}},
		Target:         []string{"A", "B", "C"},
		Capacity:       3,
		ElapsedSeconds: 125,
	}

	if got := snap.TimeString(); got != "2:05" {
		t.Errorf("TimeString() = %q, expected 2:05", got)
	}
	if got := snap.TargetString(); got != "A -> B -> C" {
		t.Errorf("TargetString() = %q", got)
	}
	if got := snap.LoadString(0); got != "(2/3)" {
		t.Errorf("LoadString(0) = %q, expected (2/3)", got)
	}
	if snap.TrackFull(0) || !snap.TrackFull(1) {
		t.Error("TrackFull mismatch")
	}
	if snap.TrackLoad(5) != 0 {
		t.Error("out of range TrackLoad should be 0")
	}
	if got := core.FormatSeconds(-4); got != "0:00" {
		t.Errorf("FormatSeconds(-4) = %q", got)
	}
}

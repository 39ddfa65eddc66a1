package mcp

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

// RenderText draws a snapshot as plain text for agents.
//
//	Level 2: Swap  |  Moves: 1  |  Time: 0:04
//	Target: A -> B
//	T0 (2/4) LOC  <B> [A]
//	T1 (0/4)
func RenderText(snap core.Snapshot) string {
	if !snap.Active {
		return "No level in progress. Use list_levels and start_level."
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Level %d", snap.LevelID)
	if snap.LevelName != "" {
		fmt.Fprintf(&b, ": %s", snap.LevelName)
	}
	fmt.Fprintf(&b, "  |  Moves: %d  |  Time: %s", snap.Moves, snap.TimeString())
	if snap.Player != "" {
		fmt.Fprintf(&b, "  |  Player: %s", snap.Player)
	}
	b.WriteString("\n")

	if snap.Description != "" {
		b.WriteString(snap.Description)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Target: %s\n", snap.TargetString())

	for i, track := range snap.Tracks {
		fmt.Fprintf(&b, "T%d %s", i, snap.LoadString(i))
		if i == snap.LocomotiveTrack {
			b.WriteString(" LOC")
		}
		for slot, car := range track {
			if car == core.Empty {
				continue
			}
			if snap.IsSelected(i, slot) {
				fmt.Fprintf(&b, " <%s>", car)
			} else {
				fmt.Fprintf(&b, " [%s]", car)
			}
		}
		if snap.TrackFull(i) {
			b.WriteString("  FULL")
		}
		b.WriteString("\n")
	}

	if snap.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", snap.Message)
	}

	if snap.Won {
		fmt.Fprintf(&b, "\nSOLVED on track %d in %d moves (%s).", snap.MatchedTrack, snap.Moves, snap.TimeString())
		if snap.NewRecord {
			b.WriteString(" New record!")
		}
		if snap.HasNext {
			b.WriteString(" Use next_level to continue.")
		} else {
			b.WriteString(" All levels complete!")
		}
		b.WriteString("\n")
	}

	return b.String()
}

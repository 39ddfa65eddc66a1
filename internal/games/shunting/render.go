package shunting

import (
	"fmt"

	platformcore "github.com/vovakirdan/tui-shunting/internal/core"
	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

// Layout constants.
const (
	hudHeight  = 4
	trackTop   = hudHeight + 3
	trackRowH  = 2
	trackLeftX = 12
	carW       = 4
)

var carColors = []platformcore.Color{
	platformcore.ColorRed,
	platformcore.ColorGreen,
	platformcore.ColorBlue,
	platformcore.ColorMagenta,
	platformcore.ColorCyan,
}

// CarColor maps a car label to its display color by character code.
func CarColor(label string) platformcore.Color {
	for _, r := range label {
		return carColors[int(r)%len(carColors)]
	}
	return platformcore.ColorDefault
}

// MinSize returns the screen size needed to draw the snapshot.
func MinSize(snap core.Snapshot) (w, h int) {
	w = trackLeftX + snap.Capacity*carW + 20
	h = trackTop + len(snap.Tracks)*trackRowH + 2
	return w, h
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	snap := g.session.Snapshot()
	g.renderHUD(dst, snap)

	if !snap.Active {
		g.renderOverlay(dst, "No level running", "Pick a level from the menu")
		return
	}

	if w, h := MinSize(snap); dst.Width() < w || dst.Height() < h {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", w, h))
		return
	}

	dst.DrawTextWithColor(1, hudHeight, snap.Description, platformcore.ColorWhite)
	dst.DrawTextWithColor(1, hudHeight+1, "Target: "+snap.TargetString(), platformcore.ColorBrightYellow)

	for i := range snap.Tracks {
		g.renderTrack(dst, snap, i)
	}

	if snap.Message != "" {
		dst.DrawTextCentered(dst.Height()-2, snap.Message, platformcore.ColorBrightRed)
	}

	if snap.Won {
		g.renderWin(dst, snap)
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen, snap core.Snapshot) {
	hud := " Shunting Yard"
	if snap.Active {
		hud = fmt.Sprintf(" Level %d", snap.LevelID)
		if snap.LevelName != "" {
			hud += ": " + snap.LevelName
		}
		hud += fmt.Sprintf(" | Moves: %d | Time: %s", snap.Moves, snap.TimeString())
		if snap.Player != "" {
			hud += " | " + snap.Player
		}
	}
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorCyan)

	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)

	controls := " ↑/↓: Track | ←/→: Car | L: Locomotive | Enter: Select/Move | R: Restart | Esc: Menu"
	dst.DrawTextWithColor(0, 2, controls, platformcore.ColorGray)

	dst.DrawHLine(0, 3, dst.Width(), '─', platformcore.ColorGray)
}

// renderTrack draws one track row and the car cursor row below it.
func (g *Game) renderTrack(dst *platformcore.Screen, snap core.Snapshot, i int) {
	y := trackTop + i*trackRowH

	if i == g.cursorTrack && !snap.Won {
		dst.DrawTextWithColor(0, y, "►", platformcore.ColorBrightGreen)
	}
	if i == snap.LocomotiveTrack {
		dst.DrawTextWithColor(2, y, "[LOC]", platformcore.ColorYellow)
	}

	labelColor := platformcore.ColorWhite
	if snap.Won && i == snap.MatchedTrack {
		labelColor = platformcore.ColorBrightGreen
	}
	dst.DrawTextWithColor(8, y, fmt.Sprintf("T%d", i+1), labelColor)

	for slot, label := range snap.Tracks[i] {
		x := trackLeftX + slot*carW
		if label == core.Empty {
			dst.DrawTextWithColor(x, y, " · ", platformcore.ColorGray)
			continue
		}

		if snap.IsSelected(i, slot) {
			dst.DrawTextWithColor(x, y, "<"+label+">", platformcore.ColorBrightYellow)
		} else {
			dst.DrawTextWithColor(x, y, "["+label+"]", CarColor(label))
		}
	}

	loadX := trackLeftX + len(snap.Tracks[i])*carW + 1
	loadColor := platformcore.ColorGray
	if snap.TrackFull(i) {
		loadColor = platformcore.ColorRed
	}
	dst.DrawTextWithColor(loadX, y, snap.LoadString(i), loadColor)

	if i == g.cursorTrack && snap.CanMoveTo(i) {
		dst.DrawTextWithColor(loadX+8, y, "◄ move here", platformcore.ColorBrightGreen)
	}

	if i == g.cursorTrack && !snap.Won && core.Track(snap.Tracks[i]).RunLength() > 0 {
		dst.DrawTextWithColor(trackLeftX+g.cursorSlot*carW+1, y+1, "^", platformcore.ColorBrightGreen)
	}
}

// renderWin draws the level complete box.
func (g *Game) renderWin(dst *platformcore.Screen, snap core.Snapshot) {
	lines := []string{fmt.Sprintf("Level %d complete!", snap.LevelID)}
	if snap.NewRecord {
		lines = append(lines, "NEW RECORD!")
	}
	lines = append(lines, fmt.Sprintf("Moves: %d  Time: %s", snap.Moves, snap.TimeString()))
	if snap.HasNext {
		lines = append(lines, "N: Next level  R: Replay  Esc: Menu")
	} else {
		lines = append(lines, "All levels complete!", "R: Replay  Esc: Menu")
	}

	g.drawBox(dst, lines, platformcore.ColorBrightGreen)
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	g.drawBox(dst, []string{line1, line2}, platformcore.ColorWhite)
}

func (g *Game) drawBox(dst *platformcore.Screen, lines []string, c platformcore.Color) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len([]rune(l)))
	}

	box := platformcore.CenteredRect(dst.Width()/2, dst.Height()/2, maxLen+4, len(lines)+2)
	dst.FillRect(box, ' ')
	dst.DrawBox(box, c)

	for i, l := range lines {
		dst.DrawTextCentered(box.Y+1+i, l, c)
	}
}

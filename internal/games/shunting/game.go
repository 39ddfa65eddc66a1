// Package shunting adapts the shunting puzzle engine to the platform game
// loop: it turns keyboard actions into engine commands through a track/car
// cursor and renders snapshots into a character screen.
package shunting

import (
	platformcore "github.com/vovakirdan/tui-shunting/internal/core"
	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

// Game drives one engine session from keyboard input.
type Game struct {
	session *core.Session

	// Screen dimensions
	screenW int
	screenH int

	// Cursor
	cursorTrack int
	cursorSlot  int
}

// New creates a game over the given session.
func New(session *core.Session) *Game {
	cfg := platformcore.DefaultConfig()
	return &Game{
		session: session,
		screenW: cfg.ScreenW,
		screenH: cfg.ScreenH,
	}
}

// Session returns the underlying engine session.
func (g *Game) Session() *core.Session {
	return g.session
}

// Reset applies the runtime config and moves the cursor home.
// The puzzle itself is left untouched.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.cursorTrack = 0
	g.cursorSlot = 0
}

// Resize updates the screen dimensions used for layout.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

// Start begins the given level and moves the cursor home.
func (g *Game) Start(levelID int) bool {
	if !g.session.StartLevel(levelID) {
		return false
	}
	g.cursorTrack = 0
	g.cursorSlot = 0
	return true
}

// Cursor returns the track and slot under the cursor.
func (g *Game) Cursor() (track, slot int) {
	return g.cursorTrack, g.cursorSlot
}

// Step advances the timer and applies one frame of input.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.session.Tick()

	if !g.session.Active() {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionRestart) {
		if g.session.Restart() {
			g.cursorTrack, g.cursorSlot = 0, 0
		}
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionNext) && g.session.Won() {
		if g.session.NextLevel() {
			g.cursorTrack, g.cursorSlot = 0, 0
		}
		return platformcore.StepResult{State: g.State()}
	}

	if g.session.Won() {
		return platformcore.StepResult{State: g.State()}
	}

	snap := g.session.Snapshot()
	tracks := len(snap.Tracks)

	if in.Has(platformcore.ActionUp) {
		g.cursorTrack = platformcore.Clamp(g.cursorTrack-1, 0, tracks-1)
		g.cursorSlot = g.clampSlot(snap, g.cursorSlot)
	}
	if in.Has(platformcore.ActionDown) {
		g.cursorTrack = platformcore.Clamp(g.cursorTrack+1, 0, tracks-1)
		g.cursorSlot = g.clampSlot(snap, g.cursorSlot)
	}
	if in.Has(platformcore.ActionLeft) {
		g.cursorSlot = g.clampSlot(snap, g.cursorSlot-1)
	}
	if in.Has(platformcore.ActionRight) {
		g.cursorSlot = g.clampSlot(snap, g.cursorSlot+1)
	}

	if in.Has(platformcore.ActionLocomotive) {
		g.positionHere()
	}

	if in.Has(platformcore.ActionConfirm) {
		switch snap.LocomotiveTrack {
		case core.NoTrack:
			g.positionHere()
		case g.cursorTrack:
			g.session.SelectCar(g.cursorTrack, g.cursorSlot)
		default:
			if g.session.MoveSelected(g.cursorTrack) {
				g.cursorSlot = 0
			}
		}
	}

	return platformcore.StepResult{State: g.State()}
}

// positionHere puts the locomotive on the cursor track and parks the car
// cursor on the last selected car.
func (g *Game) positionHere() {
	if !g.session.PositionLocomotive(g.cursorTrack) {
		return
	}
	g.cursorSlot = max(0, len(g.session.Snapshot().Selected)-1)
}

// clampSlot keeps the car cursor within the cars of the cursor track.
func (g *Game) clampSlot(snap core.Snapshot, slot int) int {
	if g.cursorTrack < 0 || g.cursorTrack >= len(snap.Tracks) {
		return 0
	}
	run := core.Track(snap.Tracks[g.cursorTrack]).RunLength()
	return platformcore.Clamp(slot, 0, run-1)
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		LevelID: g.session.LevelID(),
		Moves:   g.session.Moves(),
		Won:     g.session.Won(),
	}
}

// Package core holds the terminal-independent pieces shared by the game and
// the platform layer: the cell screen, runtime settings and input actions.
// It imports no UI packages so game logic stays testable on its own.
package core

// Rect is a screen rectangle. Right and Bottom are exclusive.
type Rect struct {
	X, Y int
	W, H int
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// CenteredRect places a w x h rectangle around (cx, cy). Odd sizes put the
// extra cell right of and below the center.
func CenteredRect(cx, cy, w, h int) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Clamp limits val to [lo, hi]. An empty range (hi < lo) yields lo, which
// keeps a cursor at 0 on a yard with no tracks.
func Clamp(val, lo, hi int) int {
	return max(lo, min(val, hi))
}

package core

// Action is a player intent on the yard screen, independent of which key
// produced it.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // W, Up arrow - previous track
	ActionDown              // S, Down arrow - next track
	ActionLeft              // A, Left arrow - previous car
	ActionRight             // D, Right arrow - next car
	ActionLocomotive        // L, Space - position the locomotive
	ActionConfirm           // Enter - select cars / move here
	ActionRestart           // R - restart level
	ActionNext              // N - next level after a win
	ActionBack              // B, Escape - back to menu
	ActionQuit              // Q, Ctrl+C - exit
)

var actionNames = [...]string{
	ActionNone:       "None",
	ActionUp:         "Up",
	ActionDown:       "Down",
	ActionLeft:       "Left",
	ActionRight:      "Right",
	ActionLocomotive: "Locomotive",
	ActionConfirm:    "Confirm",
	ActionRestart:    "Restart",
	ActionNext:       "Next",
	ActionBack:       "Back",
	ActionQuit:       "Quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame collects the actions pressed since the last tick.
type InputFrame struct {
	Actions map[Action]bool
}

func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set records a. The zero InputFrame is usable.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether a was pressed.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear empties the frame once a tick has consumed it.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

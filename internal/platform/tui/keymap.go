package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-shunting/internal/core"
)

// Cursor keys are the arrows plus their WASD and vim twins. l places the
// locomotive, so vim right is left unbound.
var yardKeys = map[string]core.Action{
	"w":      core.ActionUp,
	"up":     core.ActionUp,
	"k":      core.ActionUp,
	"s":      core.ActionDown,
	"down":   core.ActionDown,
	"j":      core.ActionDown,
	"a":      core.ActionLeft,
	"left":   core.ActionLeft,
	"h":      core.ActionLeft,
	"d":      core.ActionRight,
	"right":  core.ActionRight,
	"l":      core.ActionLocomotive,
	" ":      core.ActionLocomotive,
	"enter":  core.ActionConfirm,
	"r":      core.ActionRestart,
	"n":      core.ActionNext,
	"b":      core.ActionBack,
	"esc":    core.ActionBack,
	"q":      core.ActionQuit,
	"ctrl+c": core.ActionQuit,
}

// MenuAction is what a key means on the level picker.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionRecords
	MenuActionQuit
)

var menuKeys = map[string]MenuAction{
	"w":      MenuActionUp,
	"up":     MenuActionUp,
	"k":      MenuActionUp,
	"s":      MenuActionDown,
	"down":   MenuActionDown,
	"j":      MenuActionDown,
	"enter":  MenuActionSelect,
	" ":      MenuActionSelect,
	"b":      MenuActionBack,
	"esc":    MenuActionBack,
	"tab":    MenuActionRecords,
	"q":      MenuActionQuit,
	"ctrl+c": MenuActionQuit,
}

// KeyMapper turns Bubble Tea key messages into yard and menu actions.
type KeyMapper struct{}

func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey looks up the yard action for msg. Unbound keys give ActionNone.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action = yardKeys[msg.String()]
	return action, action == core.ActionQuit
}

// MapKeyToFrame records the key's action in frame and reports a quit.
// Quit itself never reaches the frame.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Set(action)
	}
	return isQuit
}

func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return menuKeys[msg.String()]
}

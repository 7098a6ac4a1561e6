package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mathblocks/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// gameKeys are the in-game bindings shared by every game.
var gameKeys = map[string]core.Action{
	"w":     core.ActionUp,
	"up":    core.ActionUp,
	"s":     core.ActionDown,
	"down":  core.ActionDown,
	"a":     core.ActionLeft,
	"left":  core.ActionLeft,
	"d":     core.ActionRight,
	"right": core.ActionRight,
	" ":     core.ActionMove,
	"enter": core.ActionConfirm,
	"esc":   core.ActionBack,
	"b":     core.ActionBack,
	"p":     core.ActionPause,
	"r":     core.ActionRestart,
	"t":     core.ActionToggleTrace,
	"h":     core.ActionToggleHistory,
}

// MapKey translates a key message to an action.
// isQuit is true for ctrl+c and q.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return core.DigitAction(int(key[0] - '0')), false
	}
	if a, ok := gameKeys[key]; ok {
		return a, false
	}
	return core.ActionNone, false
}

// MenuAction is a menu-level action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
	MenuActionHistory
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	case "v":
		return MenuActionHistory
	}
	return MenuActionNone
}

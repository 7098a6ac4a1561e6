package core

// Action is a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone          Action = iota
	ActionUp                   // W, Up arrow
	ActionDown                 // S, Down arrow
	ActionLeft                 // A, Left arrow
	ActionRight                // D, Right arrow
	ActionMove                 // Space - move one block
	ActionConfirm              // Enter
	ActionBack                 // Escape - back to menu
	ActionRestart              // R
	ActionQuit                 // Q, Ctrl+C
	ActionPause                // P
	ActionToggleTrace          // T
	ActionToggleHistory        // H
	ActionDigit0               // 0..9 follow in order
	ActionDigit1
	ActionDigit2
	ActionDigit3
	ActionDigit4
	ActionDigit5
	ActionDigit6
	ActionDigit7
	ActionDigit8
	ActionDigit9
)

var actionNames = map[Action]string{
	ActionNone:          "None",
	ActionUp:            "Up",
	ActionDown:          "Down",
	ActionLeft:          "Left",
	ActionRight:         "Right",
	ActionMove:          "Move",
	ActionConfirm:       "Confirm",
	ActionBack:          "Back",
	ActionRestart:       "Restart",
	ActionQuit:          "Quit",
	ActionPause:         "Pause",
	ActionToggleTrace:   "ToggleTrace",
	ActionToggleHistory: "ToggleHistory",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if d, ok := DigitValue(a); ok {
		return "Digit" + string(rune('0'+d))
	}
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// DigitAction returns the action for digit d (0-9).
func DigitAction(d int) Action {
	if d < 0 || d > 9 {
		return ActionNone
	}
	return ActionDigit0 + Action(d)
}

// DigitValue reports the digit carried by a, if any.
func DigitValue(a Action) (int, bool) {
	if a < ActionDigit0 || a > ActionDigit9 {
		return 0, false
	}
	return int(a - ActionDigit0), true
}

// InputFrame holds all actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Digit returns the lowest digit pressed this frame.
func (f InputFrame) Digit() (int, bool) {
	for d := 0; d <= 9; d++ {
		if f.Has(DigitAction(d)) {
			return d, true
		}
	}
	return 0, false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

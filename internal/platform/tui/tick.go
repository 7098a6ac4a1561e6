// Package tui runs mathblocks games in the terminal with Bubble Tea, locally
// or per SSH session through Wish. It maps keys to actions, drives ticks,
// and renders game screens with lipgloss.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg triggers one simulation step of the game model with ID Loop.
type TickMsg struct {
	At   time.Time
	Loop uint64
}

var loopIDs atomic.Uint64

// nextLoopID returns a fresh tick loop ID so ticks left over from a
// finished game are ignored by the next one.
func nextLoopID() uint64 {
	return loopIDs.Add(1)
}

// tickCmd schedules the next tick at tickRate per second.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Loop: loop}
	})
}

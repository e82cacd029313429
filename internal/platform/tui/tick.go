// Package tui hosts the flappy game loop in a Bubble Tea program and serves
// it over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one iteration of the game loop.
type TickMsg time.Time

// tickCmd schedules the next loop iteration after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

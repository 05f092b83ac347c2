// Package tui provides the terminal front end for the arena: a Bubble
// Tea play model served over SSH, and a standalone leaderboard viewer.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/session"
)

// TickMsg is sent to trigger one auto-move.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// eventMsg wraps a broadcast from the session manager.
type eventMsg struct {
	event session.Event
}

// waitForEvent blocks until the handle delivers an event or closes.
func waitForEvent(h *session.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-h.Events():
			return eventMsg{event: evt}
		case <-h.Done():
			return nil
		}
	}
}

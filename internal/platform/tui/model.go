package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-arena/internal/arena"
	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/session"
)

// PlayModel is one terminal player in the shared arena. It steers through
// the session manager and redraws on every broadcast.
type PlayModel struct {
	manager  *session.Manager
	handle   *session.ChannelSession
	playerID string
	config   core.RuntimeConfig

	snap    arena.Snapshot
	over    *session.GameOver
	heading core.Direction
	pending core.Direction // Applied on the next tick

	screen   *core.Screen
	keys     PlayKeyMap
	help     help.Model
	scores   table.Model
	quitting bool
}

// NewPlayModel creates a play model for a player that has already joined.
// joined is the update returned by Manager.Join.
func NewPlayModel(m *session.Manager, h *session.ChannelSession, joined session.Update, cfg core.RuntimeConfig) PlayModel {
	w, hgt := ScreenSize(joined.Snapshot.Board)
	return PlayModel{
		manager:  m,
		handle:   h,
		playerID: h.ID(),
		config:   cfg,
		snap:     joined.Snapshot,
		heading:  core.DirRight,
		pending:  core.DirRight,
		screen:   core.NewScreen(w, hgt),
		keys:     DefaultPlayKeyMap(),
		help:     help.New(),
	}
}

// Init starts the auto-move ticker and the broadcast listener.
func (m PlayModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEvent(m.handle)}
	if m.config.Tick > 0 {
		cmds = append(cmds, tickCmd(m.config.Tick))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.config.Tick <= 0 {
			return m, nil
		}
		if m.over == nil {
			m.step()
		}
		return m, tickCmd(m.config.Tick)

	case eventMsg:
		if evt, ok := msg.event.(session.StateEvent); ok {
			m.snap = evt.Snapshot
		}
		return m, waitForEvent(m.handle)
	}
	return m, nil
}

func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.over != nil {
		if key.Matches(msg, m.keys.Again) {
			upd := m.manager.Reset(m.playerID)
			m.snap = upd.Snapshot
			m.over = nil
			m.heading, m.pending = core.DirRight, core.DirRight
		}
		return m, nil
	}

	d, ok := m.keys.Direction(msg)
	if !ok {
		return m, nil
	}
	// Turning back onto the neck is never useful; drop it client-side.
	if d == m.heading.Opposite() && len(m.snap.Snakes[m.playerID]) > 1 {
		return m, nil
	}
	m.pending = d
	if m.config.Tick <= 0 {
		m.step()
	}
	return m, nil
}

// step sends the pending heading as one intent.
func (m *PlayModel) step() {
	upd := m.manager.Intent(m.playerID, m.pending.String())
	m.heading = m.pending
	m.snap = upd.Snapshot
	if upd.GameOver != nil {
		m.over = upd.GameOver
		m.scores = newLeaderboardTable(m.config.ScreenW, min(len(upd.GameOver.TopScores), panelMaxRows), false)
		m.scores.SetRows(leaderboardRows(upd.GameOver.TopScores))
	}
}

// View renders the board, or the game-over panel.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	need, needH := ScreenSize(m.snap.Board)
	if m.config.ScreenW > 0 && (m.config.ScreenW < need || m.config.ScreenH < needH+1) {
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", need, needH+1, m.config.ScreenW, m.config.ScreenH)
	}

	if m.over != nil {
		return m.gameOverView()
	}

	DrawArena(m.screen, m.snap, m.playerID)
	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

func (m PlayModel) gameOverView() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	b.WriteString(titleStyle.Render(centerText("GAME OVER", m.config.ScreenW)))
	b.WriteString("\n\n")

	reason := "You hit the wall."
	if m.over.Reason == arena.OutcomeSelfCollision {
		reason = "You ran into yourself."
	}
	b.WriteString(centerText(fmt.Sprintf("%s Final score: %d", reason, m.over.FinalScore), m.config.ScreenW))
	b.WriteString("\n")
	if m.over.IsTopN {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Render(centerText("New high score!", m.config.ScreenW)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.over.TopScores) > 0 {
		tableStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
		b.WriteString(centerText(tableStyle.Render(m.scores.View()), m.config.ScreenW))
		b.WriteString("\n")
	}

	hint := fmt.Sprintf("%s: %s   %s: %s",
		m.keys.Again.Help().Key, m.keys.Again.Help().Desc,
		m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc)
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(centerText(hint, m.config.ScreenW)))
	return b.String()
}

// IsQuitting returns true if the user asked to leave.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// Heading returns the last heading sent to the arena.
func (m PlayModel) Heading() core.Direction {
	return m.heading
}

// GameOver returns the result of the round, or nil while playing.
func (m PlayModel) GameOver() *session.GameOver {
	return m.over
}

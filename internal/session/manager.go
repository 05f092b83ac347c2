// Package session connects transports to the arena and records final
// scores when a round ends.
package session

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/arena"
)

// DefaultLeaderboardSize is how many rows a game-over update carries.
const DefaultLeaderboardSize = 10

// ScoreKeeper persists final scores.
// This allows the manager to record scores without depending on the storage package.
type ScoreKeeper interface {
	// RecordScore stores score for name and reports whether it made the top N.
	RecordScore(name string, score int) (bool, error)
	// Leaderboard returns the best limit scores, highest first.
	Leaderboard(limit int) ([]LeaderboardEntry, error)
}

// ManagerConfig holds configuration for the manager.
type ManagerConfig struct {
	LeaderboardSize int
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{LeaderboardSize: DefaultLeaderboardSize}
}

// Manager translates connection events into arena operations.
// All arena state lives behind the arena's own lock; the manager adds
// score persistence and fan-out to connected handles.
type Manager struct {
	arena    *arena.Arena
	config   ManagerConfig
	sessions *Registry
	scores   ScoreKeeper // Optional, can be nil
	logger   *log.Logger
}

// NewManager creates a manager for a.
func NewManager(a *arena.Arena, cfg ManagerConfig, logger *log.Logger) *Manager {
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = DefaultLeaderboardSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		arena:    a,
		config:   cfg,
		sessions: NewRegistry(),
		logger:   logger,
	}
}

// SetScoreKeeper sets the optional score store.
func (m *Manager) SetScoreKeeper(k ScoreKeeper) {
	m.scores = k
}

// Arena returns the managed arena.
func (m *Manager) Arena() *arena.Arena {
	return m.arena
}

// Sessions returns the handle registry.
func (m *Manager) Sessions() *Registry {
	return m.sessions
}

// Join adds a player with a fresh spawn record and returns the initial state.
// A nil handle joins without receiving broadcasts.
func (m *Manager) Join(id, name string, h Handle) Update {
	m.arena.AddPlayer(id, name)
	if h != nil {
		m.sessions.Register(h)
	}

	snap := m.arena.Snapshot()
	m.logger.Info("player joined", "player", id, "name", snap.Players[id].Name, "players", len(snap.Players))
	m.broadcast(snap, id)

	return Update{Snapshot: snap}
}

// Intent applies one raw direction for id.
// Unknown directions, unknown ids and terminal players produce an ignored
// result and no broadcast.
func (m *Manager) Intent(id, raw string) Update {
	res := m.arena.ApplyMoveString(id, raw)
	snap := m.arena.Snapshot()
	upd := Update{Result: res, Snapshot: snap}

	if res.Outcome == arena.OutcomeIgnored {
		m.logger.Debug("intent ignored", "player", id, "direction", raw)
		return upd
	}
	if res.FoodStuck {
		m.logger.Warn("board full, food left in place", "player", id)
	}
	if res.Outcome.Terminal() {
		upd.GameOver = m.finishRound(id, res, snap)
	}

	m.broadcast(snap, id)
	return upd
}

// finishRound runs once per terminal transition: later intents are ignored
// by the arena, so the score cannot be recorded twice.
func (m *Manager) finishRound(id string, res arena.MoveResult, snap arena.Snapshot) *GameOver {
	over := &GameOver{
		Reason:     res.Outcome,
		FinalScore: res.Score,
	}
	name := snap.Players[id].Name
	m.logger.Info("game over", "player", id, "name", name, "score", res.Score, "reason", res.Outcome)

	if m.scores == nil {
		return over
	}

	isTop, err := m.scores.RecordScore(name, res.Score)
	if err != nil {
		m.logger.Error("failed to record score", "player", id, "err", err)
	}
	over.IsTopN = isTop

	top, err := m.scores.Leaderboard(m.config.LeaderboardSize)
	if err != nil {
		m.logger.Error("failed to load leaderboard", "err", err)
	}
	over.TopScores = top
	return over
}

// Reset respawns id for another round.
func (m *Manager) Reset(id string) Update {
	if !m.arena.Reset(id) {
		return Update{Snapshot: m.arena.Snapshot()}
	}
	snap := m.arena.Snapshot()
	m.logger.Info("player reset", "player", id)
	m.broadcast(snap, id)
	return Update{Snapshot: snap}
}

// Disconnect removes id from the arena and the registry. Safe to call
// more than once.
func (m *Manager) Disconnect(id string) {
	if _, ok := m.arena.Player(id); !ok {
		m.sessions.Unregister(id)
		return
	}
	m.arena.RemovePlayer(id)
	m.sessions.Unregister(id)

	snap := m.arena.Snapshot()
	m.logger.Info("player left", "player", id, "players", len(snap.Players))
	m.broadcast(snap, id)
}

// Leaderboard returns the top scores, or nil when no store is set.
func (m *Manager) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if m.scores == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = m.config.LeaderboardSize
	}
	return m.scores.Leaderboard(limit)
}

// Snapshot returns the current arena state.
func (m *Manager) Snapshot() arena.Snapshot {
	return m.arena.Snapshot()
}

func (m *Manager) broadcast(snap arena.Snapshot, cause string) {
	m.sessions.Broadcast(StateEvent{Snapshot: snap, Cause: cause}, cause)
}

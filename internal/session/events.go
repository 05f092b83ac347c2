package session

import (
	"time"

	"github.com/vovakirdan/snake-arena/internal/arena"
)

// Event is pushed from the manager to connected sessions.
type Event interface {
	sessionEvent()
}

// StateEvent carries a fresh arena snapshot after another player acted.
type StateEvent struct {
	Snapshot arena.Snapshot
	Cause    string // Player id whose action produced the snapshot
}

func (StateEvent) sessionEvent() {}

// LeaderboardEntry is one row of the persistent leaderboard.
type LeaderboardEntry struct {
	PlayerName string
	Score      int
	Date       time.Time
}

// GameOver is attached to the update that ended a player's round.
type GameOver struct {
	Reason     arena.Outcome
	FinalScore int
	IsTopN     bool
	TopScores  []LeaderboardEntry
}

// Update is the reply to a join, intent or reset.
type Update struct {
	Result   arena.MoveResult
	Snapshot arena.Snapshot
	GameOver *GameOver // Set only on the intent that ended the round
}

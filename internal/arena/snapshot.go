package arena

import "github.com/vovakirdan/snake-arena/internal/core"

// PlayerStatus is the public part of a player record.
type PlayerStatus struct {
	Name     string
	Score    int
	Terminal bool
}

// Snapshot is an immutable copy of the arena state.
//
// Snakes holds active players only; terminal players keep their entry in
// Players so clients can render "game over" without a stale snake.
type Snapshot struct {
	Board   core.Board
	Food    core.Position
	Snakes  map[string][]core.Position
	Players map[string]PlayerStatus
}

// Snapshot copies the current state under the arena lock.
func (a *Arena) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Board:   a.board,
		Food:    a.food,
		Snakes:  make(map[string][]core.Position, len(a.players)),
		Players: make(map[string]PlayerStatus, len(a.players)),
	}
	for id, p := range a.players {
		snap.Players[id] = PlayerStatus{
			Name:     p.Name,
			Score:    p.Score,
			Terminal: p.Terminal,
		}
		if !p.Terminal {
			snap.Snakes[id] = p.Snake.Clone()
		}
	}
	return snap
}

// Occupied reports whether any active snake in the snapshot covers p.
func (s Snapshot) Occupied(p core.Position) bool {
	for _, body := range s.Snakes {
		if containsPosition(body, p) {
			return true
		}
	}
	return false
}

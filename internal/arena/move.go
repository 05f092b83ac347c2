package arena

import "github.com/vovakirdan/snake-arena/internal/core"

// Outcome describes what a move intent did.
type Outcome int

const (
	// OutcomeIgnored: unknown player, terminal player or invalid direction.
	OutcomeIgnored Outcome = iota
	OutcomeMoved
	OutcomeWallCollision
	OutcomeSelfCollision
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMoved:
		return "moved"
	case OutcomeWallCollision:
		return "wall_collision"
	case OutcomeSelfCollision:
		return "self_collision"
	default:
		return "unknown"
	}
}

// Terminal reports whether the outcome ended the player's round.
func (o Outcome) Terminal() bool {
	return o == OutcomeWallCollision || o == OutcomeSelfCollision
}

// MoveResult is returned by ApplyMove.
type MoveResult struct {
	Outcome Outcome
	Grew    bool
	Score   int // Player score after the move
	// FoodStuck is set when the snake ate but no free cell was left for
	// new food.
	FoodStuck bool
}

// ApplyMove advances player id one cell in direction d.
//
// Checks run in a fixed order: wall, then self, then food. A move that
// both leaves the board and lands on the body is reported as a wall hit.
func (a *Arena) ApplyMove(id string, d core.Direction) MoveResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[id]
	if !ok || p.Terminal {
		return MoveResult{Outcome: OutcomeIgnored}
	}
	if !d.Valid() {
		return MoveResult{Outcome: OutcomeIgnored, Score: p.Score}
	}

	newHead := core.Step(p.Snake.Head(), d, a.board, a.wrap)

	if a.wrap == core.WrapBounded && !a.board.Contains(newHead) {
		p.Terminal = true
		return MoveResult{Outcome: OutcomeWallCollision, Score: p.Score}
	}

	grew := newHead == a.food

	if containsPosition(p.Snake.CollisionBody(grew), newHead) {
		p.Terminal = true
		return MoveResult{Outcome: OutcomeSelfCollision, Score: p.Score}
	}

	p.Snake = p.Snake.Advance(newHead, grew)
	res := MoveResult{Outcome: OutcomeMoved, Grew: grew}
	if grew {
		p.Score++
		res.FoodStuck = !a.regenerateFoodLocked()
	}
	res.Score = p.Score
	return res
}

// ApplyMoveString parses a wire direction and applies it. Unknown
// direction names are ignored without touching state.
func (a *Arena) ApplyMoveString(id, raw string) MoveResult {
	d, ok := core.ParseDirection(raw)
	if !ok {
		a.mu.Lock()
		defer a.mu.Unlock()
		score := 0
		if p, exists := a.players[id]; exists {
			score = p.Score
		}
		return MoveResult{Outcome: OutcomeIgnored, Score: score}
	}
	return a.ApplyMove(id, d)
}

// Package arena holds the shared game state: the board, the single food
// cell and every connected player's snake. All access goes through one
// mutex; nothing here blocks.
package arena

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/snake-arena/internal/core"
)

// Default board used by the web client (16:9 with a height of 20 cells).
const (
	DefaultWidth  = 36
	DefaultHeight = 20
	DefaultSpawnX = 5
)

// foodRetries bounds random placement before falling back to a scan.
const foodRetries = 64

var (
	ErrInvalidBoard = errors.New("board dimensions must be positive")
	ErrInvalidSpawn = errors.New("spawn cell is outside the board")
)

// Config describes an arena at creation time.
type Config struct {
	Board  core.Board
	Wrap   core.WrapPolicy
	SpawnX int
	Seed   int64 // 0 means seed from the clock
}

// DefaultArenaConfig returns the 36x20 bounded arena.
func DefaultArenaConfig() Config {
	return Config{
		Board:  core.Board{Width: DefaultWidth, Height: DefaultHeight},
		Wrap:   core.WrapBounded,
		SpawnX: DefaultSpawnX,
	}
}

// Player is the per-connection record owned by the arena.
type Player struct {
	ID       string
	Name     string
	Snake    Snake
	Score    int
	Terminal bool
}

// Arena is the single shared mutable game state.
type Arena struct {
	mu      sync.Mutex
	board   core.Board
	wrap    core.WrapPolicy
	spawn   core.Position
	food    core.Position
	players map[string]*Player
	rng     *rand.Rand
}

// New creates an arena. Invalid dimensions are a programming error and
// are reported here, before any player can join.
func New(cfg Config) (*Arena, error) {
	if cfg.Board.Width <= 0 || cfg.Board.Height <= 0 {
		return nil, fmt.Errorf("arena: %dx%d: %w", cfg.Board.Width, cfg.Board.Height, ErrInvalidBoard)
	}
	spawn := core.Position{X: cfg.SpawnX, Y: cfg.Board.Height / 2}
	if !cfg.Board.Contains(spawn) {
		return nil, fmt.Errorf("arena: spawn %v on %dx%d: %w", spawn, cfg.Board.Width, cfg.Board.Height, ErrInvalidSpawn)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &Arena{
		board:   cfg.Board,
		wrap:    cfg.Wrap,
		spawn:   spawn,
		players: make(map[string]*Player),
		rng:     rand.New(rand.NewSource(seed)),
	}
	a.regenerateFoodLocked()
	return a, nil
}

// Board returns the immutable board dimensions.
func (a *Arena) Board() core.Board {
	return a.board
}

// Wrap returns the arena's wrap policy.
func (a *Arena) Wrap() core.WrapPolicy {
	return a.wrap
}

// Spawn returns the cell every new snake starts on.
func (a *Arena) Spawn() core.Position {
	return a.spawn
}

// DefaultName is the display name given to players who send none.
func DefaultName(id string) string {
	return "Player_" + id
}

// AddPlayer creates a fresh record for id, replacing any existing one.
func (a *Arena) AddPlayer(id, name string) {
	if strings.TrimSpace(name) == "" {
		name = DefaultName(id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.players[id] = &Player{
		ID:    id,
		Name:  name,
		Snake: NewSnake(a.spawn),
	}
}

// RemovePlayer deletes the record for id. Unknown ids are ignored.
func (a *Arena) RemovePlayer(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.players, id)
}

// Reset respawns a player for another round: spawn cell, score 0,
// terminal cleared. Returns false if id is unknown.
func (a *Arena) Reset(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[id]
	if !ok {
		return false
	}
	p.Snake = NewSnake(a.spawn)
	p.Score = 0
	p.Terminal = false
	return true
}

// RegenerateFood moves the food to a free cell. It returns false when
// every cell is occupied; the food then stays where it was.
func (a *Arena) RegenerateFood() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.regenerateFoodLocked()
}

func (a *Arena) regenerateFoodLocked() bool {
	occupied := a.occupiedLocked()

	for i := 0; i < foodRetries; i++ {
		p := core.Position{
			X: a.rng.Intn(a.board.Width),
			Y: a.rng.Intn(a.board.Height),
		}
		if !occupied[p] {
			a.food = p
			return true
		}
	}

	// Crowded board: take the first free cell in row-major order.
	for y := 0; y < a.board.Height; y++ {
		for x := 0; x < a.board.Width; x++ {
			p := core.Position{X: x, Y: y}
			if !occupied[p] {
				a.food = p
				return true
			}
		}
	}
	return false
}

// occupiedLocked collects the cells of every active snake. Terminal
// snakes are hidden from clients and cannot be hit, so food may land on them.
func (a *Arena) occupiedLocked() map[core.Position]bool {
	occupied := make(map[core.Position]bool)
	for _, p := range a.players {
		if p.Terminal {
			continue
		}
		for _, seg := range p.Snake {
			occupied[seg] = true
		}
	}
	return occupied
}

// Food returns the current food cell.
func (a *Arena) Food() core.Position {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.food
}

// SetFood places the food at p without any occupancy check.
func (a *Arena) SetFood(p core.Position) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.food = p
}

// PlaceSnake replaces the body of an existing player. Returns false if id
// is unknown or body is empty.
func (a *Arena) PlaceSnake(id string, body []core.Position) bool {
	if len(body) == 0 {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[id]
	if !ok {
		return false
	}
	p.Snake = Snake(body).Clone()
	return true
}

// Player returns a copy of the record for id.
func (a *Arena) Player(id string) (Player, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.players[id]
	if !ok {
		return Player{}, false
	}
	out := *p
	out.Snake = p.Snake.Clone()
	return out, true
}

// Len returns the number of registered players.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.players)
}

// Package core provides the grid primitives shared by the arena and its
// transports. It has no external dependencies so game logic stays pure
// and testable.
package core

import "fmt"

// Position is a cell on the grid.
type Position struct {
	X, Y int
}

// String returns the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Board is the fixed size of the arena grid.
type Board struct {
	Width  int
	Height int
}

// Contains reports whether p lies inside [0,Width) x [0,Height).
func (b Board) Contains(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Cells returns the number of cells on the board.
func (b Board) Cells() int {
	return b.Width * b.Height
}

// Rect represents an axis-aligned box, used for drawing.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// WrapPolicy decides what happens when a step leaves the board.
type WrapPolicy int

const (
	// WrapBounded leaves the coordinate unclamped; leaving the board is a
	// wall collision detected by the caller.
	WrapBounded WrapPolicy = iota
	// WrapToroidal wraps the coordinate around the opposite edge.
	WrapToroidal
)

// String returns the config name of the policy.
func (w WrapPolicy) String() string {
	switch w {
	case WrapBounded:
		return "bounded"
	case WrapToroidal:
		return "toroidal"
	default:
		return "unknown"
	}
}

// ParseWrapPolicy parses "bounded" or "toroidal".
func ParseWrapPolicy(s string) (WrapPolicy, error) {
	switch s {
	case "bounded", "":
		return WrapBounded, nil
	case "toroidal":
		return WrapToroidal, nil
	default:
		return WrapBounded, fmt.Errorf("core: unknown wrap policy %q", s)
	}
}

// Step returns the cell one unit from p in direction d.
// Callers validate d first; an invalid direction returns p unchanged.
func Step(p Position, d Direction, b Board, w WrapPolicy) Position {
	dx, dy := d.Delta()
	next := p.Add(dx, dy)
	if w == WrapToroidal {
		next.X = mod(next.X, b.Width)
		next.Y = mod(next.Y, b.Height)
	}
	return next
}

// mod is a modulo that stays non-negative for negative a.
func mod(a, n int) int {
	if n <= 0 {
		return a
	}
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

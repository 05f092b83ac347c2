package arena

import "github.com/vovakirdan/snake-arena/internal/core"

// Snake is the ordered list of body cells, head at index 0.
// A snake always has at least one segment.
type Snake []core.Position

// NewSnake creates a single-segment snake at p.
func NewSnake(p core.Position) Snake {
	return Snake{p}
}

// Head returns the first segment.
func (s Snake) Head() core.Position {
	return s[0]
}

// Tail returns the last segment.
func (s Snake) Tail() core.Position {
	return s[len(s)-1]
}

// Len returns the number of segments.
func (s Snake) Len() int {
	return len(s)
}

// Advance returns a new snake with newHead prepended. The tail is dropped
// unless grew is set, so length only changes when food is eaten.
func (s Snake) Advance(newHead core.Position, grew bool) Snake {
	keep := len(s)
	if !grew && keep > 0 {
		keep--
	}
	next := make(Snake, 0, keep+1)
	next = append(next, newHead)
	next = append(next, s[:keep]...)
	return next
}

// BodyExcludingTail returns every segment except the last one.
func (s Snake) BodyExcludingTail() []core.Position {
	if len(s) == 0 {
		return nil
	}
	return s[:len(s)-1]
}

// CollisionBody returns the cells a new head must avoid this tick.
// The tail vacates on a normal move but stays put when the snake grows.
func (s Snake) CollisionBody(grew bool) []core.Position {
	if grew {
		return s
	}
	return s.BodyExcludingTail()
}

// Contains reports whether any segment is at p.
func (s Snake) Contains(p core.Position) bool {
	for _, seg := range s {
		if seg == p {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with s.
func (s Snake) Clone() Snake {
	out := make(Snake, len(s))
	copy(out, s)
	return out
}

func containsPosition(cells []core.Position, p core.Position) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}

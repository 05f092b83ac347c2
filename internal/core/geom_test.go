package core

import "testing"

func TestStepBounded(t *testing.T) {
	b := Board{Width: 36, Height: 20}

	tests := []struct {
		name     string
		from     Position
		dir      Direction
		expected Position
	}{
		{name: "up", from: Position{5, 10}, dir: DirUp, expected: Position{5, 9}},
		{name: "down", from: Position{5, 10}, dir: DirDown, expected: Position{5, 11}},
		{name: "left", from: Position{5, 10}, dir: DirLeft, expected: Position{4, 10}},
		{name: "right", from: Position{5, 10}, dir: DirRight, expected: Position{6, 10}},
		{name: "left off the board", from: Position{0, 0}, dir: DirLeft, expected: Position{-1, 0}},
		{name: "down off the board", from: Position{0, 19}, dir: DirDown, expected: Position{0, 20}},
		{name: "invalid stays put", from: Position{3, 3}, dir: DirInvalid, expected: Position{3, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Step(tc.from, tc.dir, b, WrapBounded)
			if got != tc.expected {
				t.Errorf("Step(%v, %v) = %v, expected %v", tc.from, tc.dir, got, tc.expected)
			}
		})
	}
}

func TestStepToroidal(t *testing.T) {
	b := Board{Width: 36, Height: 20}

	tests := []struct {
		name     string
		from     Position
		dir      Direction
		expected Position
	}{
		{name: "wrap left", from: Position{0, 4}, dir: DirLeft, expected: Position{35, 4}},
		{name: "wrap right", from: Position{35, 4}, dir: DirRight, expected: Position{0, 4}},
		{name: "wrap up", from: Position{7, 0}, dir: DirUp, expected: Position{7, 19}},
		{name: "wrap down", from: Position{7, 19}, dir: DirDown, expected: Position{7, 0}},
		{name: "interior", from: Position{7, 7}, dir: DirDown, expected: Position{7, 8}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Step(tc.from, tc.dir, b, WrapToroidal)
			if got != tc.expected {
				t.Errorf("Step(%v, %v) = %v, expected %v", tc.from, tc.dir, got, tc.expected)
			}
			if !b.Contains(got) {
				t.Errorf("toroidal step left the board: %v", got)
			}
		})
	}
}

func TestBoardContains(t *testing.T) {
	b := Board{Width: 4, Height: 3}

	inside := []Position{{0, 0}, {3, 2}, {1, 1}}
	for _, p := range inside {
		if !b.Contains(p) {
			t.Errorf("Contains(%v) = false, expected true", p)
		}
	}

	outside := []Position{{-1, 0}, {0, -1}, {4, 0}, {0, 3}}
	for _, p := range outside {
		if b.Contains(p) {
			t.Errorf("Contains(%v) = true, expected false", p)
		}
	}

	if b.Cells() != 12 {
		t.Errorf("Cells() = %d, expected 12", b.Cells())
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		ok       bool
	}{
		{"up", DirUp, true},
		{"down", DirDown, true},
		{"left", DirLeft, true},
		{"right", DirRight, true},
		{"UP", DirInvalid, false},
		{"", DirInvalid, false},
		{"diagonal", DirInvalid, false},
	}

	for _, tc := range tests {
		got, ok := ParseDirection(tc.input)
		if got != tc.expected || ok != tc.ok {
			t.Errorf("ParseDirection(%q) = (%v, %v), expected (%v, %v)", tc.input, got, ok, tc.expected, tc.ok)
		}
		if ok && got.String() != tc.input {
			t.Errorf("String() = %q, expected %q", got.String(), tc.input)
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v.Opposite().Opposite() = %v", d, d.Opposite().Opposite())
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx+ox != 0 || dy+oy != 0 {
			t.Errorf("%v and its opposite do not cancel", d)
		}
	}
	if DirInvalid.Opposite() != DirInvalid {
		t.Error("DirInvalid.Opposite() should stay invalid")
	}
}

func TestParseWrapPolicy(t *testing.T) {
	if w, err := ParseWrapPolicy("toroidal"); err != nil || w != WrapToroidal {
		t.Errorf("ParseWrapPolicy(toroidal) = (%v, %v)", w, err)
	}
	if w, err := ParseWrapPolicy(""); err != nil || w != WrapBounded {
		t.Errorf("ParseWrapPolicy(\"\") = (%v, %v), expected bounded default", w, err)
	}
	if _, err := ParseWrapPolicy("mobius"); err == nil {
		t.Error("ParseWrapPolicy(mobius) should fail")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-arena/internal/arena"
	"github.com/vovakirdan/snake-arena/internal/core"
)

// Glyphs used on the board.
const (
	glyphHead  = '@'
	glyphBody  = 'o'
	glyphFood  = '*'
	glyphEmpty = '·'
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorBrightGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// boardOrigin is where cell (0,0) lands on the screen: one row of HUD
// plus the frame.
var boardOrigin = core.Position{X: 1, Y: 2}

// ScreenSize returns the screen needed to draw board b.
func ScreenSize(b core.Board) (w, h int) {
	return b.Width + 2, b.Height + 3
}

// DrawArena draws the HUD line, the frame, food and every active snake.
// The snake owned by self is highlighted.
func DrawArena(s *core.Screen, snap arena.Snapshot, self string) {
	s.Clear()

	st := snap.Players[self]
	hud := fmt.Sprintf("%s  score %d  players %d", st.Name, st.Score, len(snap.Players))
	s.DrawText(0, 0, hud, core.ColorYellow)

	frame := core.NewRect(boardOrigin.X-1, boardOrigin.Y-1, snap.Board.Width+2, snap.Board.Height+2)
	s.DrawBox(frame, core.ColorGray)

	for y := 0; y < snap.Board.Height; y++ {
		for x := 0; x < snap.Board.Width; x++ {
			s.SetColored(boardOrigin.X+x, boardOrigin.Y+y, glyphEmpty, core.ColorGray)
		}
	}

	s.SetColored(boardOrigin.X+snap.Food.X, boardOrigin.Y+snap.Food.Y, glyphFood, core.ColorRed)

	// Others first, sorted for a stable palette, so our own snake is drawn on top.
	ids := make([]string, 0, len(snap.Snakes))
	for id := range snap.Snakes {
		if id != self {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for i, id := range ids {
		drawSnake(s, snap.Snakes[id], core.SnakePalette[i%len(core.SnakePalette)])
	}
	if body, ok := snap.Snakes[self]; ok {
		drawSnake(s, body, core.ColorBrightGreen)
	}
}

func drawSnake(s *core.Screen, body []core.Position, c core.Color) {
	for i := len(body) - 1; i >= 0; i-- {
		glyph := glyphBody
		if i == 0 {
			glyph = glyphHead
		}
		s.SetColored(boardOrigin.X+body[i].X, boardOrigin.Y+body[i].Y, glyph, c)
	}
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}

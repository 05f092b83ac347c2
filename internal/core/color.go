package core

// Color represents a foreground color for a screen cell.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorGray
	ColorBrightGreen
)

// SnakePalette is cycled through to tell other players' snakes apart.
var SnakePalette = []Color{ColorCyan, ColorMagenta, ColorYellow, ColorBlue}

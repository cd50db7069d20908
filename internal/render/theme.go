// Package render draws positions as terminal text, SVG diagrams and PNG
// images.
package render

import (
	"fmt"
	"image/color"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare   color.RGBA
	DarkSquare    color.RGBA
	LastMoveLight color.RGBA
	LastMoveDark  color.RGBA
	CheckColor    color.RGBA
	WhitePiece    color.RGBA
	BlackPiece    color.RGBA
	Outline       color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:   color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:    color.RGBA{181, 136, 99, 255},  // Brown
		LastMoveLight: color.RGBA{205, 210, 106, 255},
		LastMoveDark:  color.RGBA{170, 162, 58, 255},
		CheckColor:    color.RGBA{255, 100, 100, 255}, // Red
		WhitePiece:    color.RGBA{255, 255, 255, 255},
		BlackPiece:    color.RGBA{34, 34, 34, 255},
		Outline:       color.RGBA{0, 0, 0, 255},
	}
}

// Options controls how a diagram is drawn.
type Options struct {
	SquareSize        int    // Pixels per square (0 = 64)
	Flip              bool   // Draw with Black at the bottom
	Coordinates       bool   // File and rank labels (SVG only)
	HighlightLastMove bool   // Tint the squares of the last move
	MarkCheck         bool   // Tint the square of a king in check
	Theme             *Theme // nil = DefaultTheme
}

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return 64
	}
	return o.SquareSize
}

func (o Options) theme() *Theme {
	if o.Theme == nil {
		return DefaultTheme()
	}
	return o.Theme
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

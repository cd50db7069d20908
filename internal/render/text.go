package render

import (
	"strings"

	"github.com/hailam/minichess/internal/board"
)

var glyphs = [12]string{
	"♙", "♘", "♗", "♖", "♕", "♔",
	"♟", "♞", "♝", "♜", "♛", "♚",
}

// TextOptions controls the terminal diagram.
type TextOptions struct {
	Flip    bool // Black at the bottom
	Unicode bool // Chess glyphs instead of FEN letters
}

// Text returns a terminal diagram of pos with rank and file labels.
func Text(pos *board.Position, opts TextOptions) string {
	var sb strings.Builder

	files := "  a b c d e f g h\n"
	if opts.Flip {
		files = "  h g f e d c b a\n"
	}

	for row := 0; row < 8; row++ {
		rank := 7 - row
		if opts.Flip {
			rank = row
		}
		sb.WriteByte(byte('1' + rank))
		for col := 0; col < 8; col++ {
			file := col
			if opts.Flip {
				file = 7 - col
			}
			sb.WriteByte(' ')
			piece := pos.PieceAt(board.NewSquare(file, rank))
			switch {
			case piece == board.NoPiece:
				sb.WriteByte('.')
			case opts.Unicode:
				sb.WriteString(glyphs[piece])
			default:
				sb.WriteString(piece.String())
			}
		}
		sb.WriteString(" ")
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte('\n')
	}
	sb.WriteString(files)

	return sb.String()
}

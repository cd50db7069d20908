package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/minichess/internal/board"
)

// unit is the size of one square in SVG user space. Piece outlines below
// are drawn in a unit x unit box.
const unit = 100

type outline struct {
	xs, ys  []int
	circles [][3]int // x, y, r
}

func poly(points ...int) ([]int, []int) {
	xs := make([]int, 0, len(points)/2)
	ys := make([]int, 0, len(points)/2)
	for i := 0; i+1 < len(points); i += 2 {
		xs = append(xs, points[i])
		ys = append(ys, points[i+1])
	}
	return xs, ys
}

func newOutline(circles [][3]int, points ...int) outline {
	xs, ys := poly(points...)
	return outline{xs: xs, ys: ys, circles: circles}
}

// Every silhouette covers the point (50, 70) so that the body color can be
// sampled there.
var outlines = [6]outline{
	board.Pawn: newOutline([][3]int{{50, 38, 13}},
		25, 86, 75, 86, 75, 78, 62, 70, 58, 52, 42, 52, 38, 70, 25, 78),
	board.Knight: newOutline(nil,
		26, 86, 76, 86, 74, 60, 68, 36, 56, 20, 50, 14, 46, 22, 34, 30,
		22, 46, 26, 54, 38, 50, 44, 54, 34, 72, 26, 78),
	board.Bishop: newOutline([][3]int{{50, 18, 6}},
		26, 86, 74, 86, 74, 78, 60, 72, 64, 50, 58, 34, 50, 24, 42, 34,
		36, 50, 40, 72, 26, 78),
	board.Rook: newOutline(nil,
		24, 86, 76, 86, 76, 78, 68, 74, 66, 38, 72, 34, 72, 18, 62, 18,
		62, 24, 55, 24, 55, 18, 45, 18, 45, 24, 38, 24, 38, 18, 28, 18,
		28, 34, 34, 38, 32, 74, 24, 78),
	board.Queen: newOutline([][3]int{{20, 26, 5}, {42, 20, 5}, {58, 20, 5}, {80, 26, 5}},
		24, 86, 76, 86, 76, 78, 66, 72, 80, 28, 64, 54, 58, 22, 50, 52,
		42, 22, 36, 54, 20, 28, 34, 72, 24, 78),
	board.King: newOutline(nil,
		24, 86, 76, 86, 76, 78, 66, 72, 74, 42, 50, 36, 26, 42, 34, 72, 24, 78),
}

var kingCross = newOutline(nil,
	46, 36, 54, 36, 54, 24, 62, 24, 62, 16, 54, 16, 54, 8, 46, 8,
	46, 16, 38, 16, 38, 24, 46, 24)

// squareOrigin returns the top-left corner of sq in user space.
func squareOrigin(sq board.Square, flip bool) (int, int) {
	col, row := sq.File(), 7-sq.Rank()
	if flip {
		col, row = 7-col, 7-row
	}
	return col * unit, row * unit
}

// squareColor picks the fill of sq given the highlight state.
func squareColor(pos *board.Position, sq board.Square, opts Options) string {
	theme := opts.theme()
	light := (sq.File()+sq.Rank())%2 == 1

	if opts.MarkCheck {
		piece := pos.PieceAt(sq)
		if piece.Type() == board.King && pos.IsKingUnderAttack(piece.Color()) {
			return hex(theme.CheckColor)
		}
	}
	if opts.HighlightLastMove && pos.LastMove != board.NoMove &&
		(sq == pos.LastMove.From() || sq == pos.LastMove.To()) {
		if light {
			return hex(theme.LastMoveLight)
		}
		return hex(theme.LastMoveDark)
	}
	if light {
		return hex(theme.LightSquare)
	}
	return hex(theme.DarkSquare)
}

func drawPiece(canvas *svg.SVG, piece board.Piece, x, y int, theme *Theme) {
	fill := theme.WhitePiece
	if piece.Color() == board.Black {
		fill = theme.BlackPiece
	}
	style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:3", hex(fill), hex(theme.Outline))

	shift := func(o outline) ([]int, []int) {
		xs := make([]int, len(o.xs))
		ys := make([]int, len(o.ys))
		for i := range o.xs {
			xs[i] = x + o.xs[i]
			ys[i] = y + o.ys[i]
		}
		return xs, ys
	}

	name := strings.ToLower(fmt.Sprintf(`class="piece %s %s"`, piece.Color(), piece.Type()))
	canvas.Group(name)
	o := outlines[piece.Type()]
	xs, ys := shift(o)
	canvas.Polygon(xs, ys, style)
	for _, c := range o.circles {
		canvas.Circle(x+c[0], y+c[1], c[2], style)
	}
	if piece.Type() == board.King {
		xs, ys := shift(kingCross)
		canvas.Polygon(xs, ys, style)
	}
	canvas.Gend()
}

// WriteSVG writes an SVG diagram of pos to w.
func WriteSVG(w io.Writer, pos *board.Position, opts Options) error {
	_, err := w.Write(SVG(pos, opts))
	return err
}

// SVG returns an SVG diagram of pos.
func SVG(pos *board.Position, opts Options) []byte {
	var buf bytes.Buffer
	size := 8 * opts.squareSize()
	theme := opts.theme()

	canvas := svg.New(&buf)
	canvas.Startview(size, size, 0, 0, 8*unit, 8*unit)
	canvas.Title(pos.ToFEN())

	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := squareOrigin(sq, opts.Flip)
		canvas.Rect(x, y, unit, unit, "fill:"+squareColor(pos, sq, opts))
	}

	if opts.Coordinates {
		label := "font-family:sans-serif;font-size:14px;fill:" + hex(theme.Outline)
		for i := 0; i < 8; i++ {
			file, rank := i, i
			if opts.Flip {
				file, rank = 7-i, 7-i
			}
			canvas.Text(i*unit+unit-12, 8*unit-4, string(rune('a'+file)), label)
			canvas.Text(4, (7-i)*unit+16, string(rune('1'+rank)), label)
		}
	}

	for sq, piece := range pos.Squares() {
		if piece == board.NoPiece {
			continue
		}
		x, y := squareOrigin(sq, opts.Flip)
		drawPiece(canvas, piece, x, y, theme)
	}

	canvas.End()
	return buf.Bytes()
}

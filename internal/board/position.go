package board

import (
	"fmt"
	"iter"
	"strings"
)

// Position is the complete game state: one piece value per square (NoPiece
// for empty), the running White-positive score, the set of squares whose
// occupant has ever moved, and the last committed move.
//
// Position holds no pointers or slices, so plain assignment is a deep copy
// and == compares two positions bit for bit.
type Position struct {
	Cells [64]Piece

	// Moved holds the squares whose occupant has been the source of a move.
	// The flag travels with the piece and is needed for castling and pawn
	// double steps.
	Moved Bitboard

	// Score is the sum of every piece's Contribution. It is maintained
	// incrementally by every mutation.
	Score int

	SideToMove     Color
	LastMove       Move
	HalfMoveClock  int
	FullMoveNumber int

	// King positions (cached for check detection)
	KingSquare [2]Square
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Cells[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Cells[sq] == NoPiece
}

// HasMoved reports whether the piece on sq has ever moved.
func (p *Position) HasMoved(sq Square) bool {
	return p.Moved.Has(sq)
}

// Squares iterates over all 64 squares from A1 to H8 with their occupant.
func (p *Position) Squares() iter.Seq2[Square, Piece] {
	return func(yield func(Square, Piece) bool) {
		for sq := A1; sq <= H8; sq++ {
			if !yield(sq, p.Cells[sq]) {
				return
			}
		}
	}
}

// place puts piece on an empty square and adds its contribution to the score.
func (p *Position) place(piece Piece, sq Square) {
	p.Cells[sq] = piece
	p.Score += piece.Contribution(sq)
	if piece.Type() == King {
		p.KingSquare[piece.Color()] = sq
	}
}

// lift empties sq, subtracts the occupant's contribution and clears its
// moved flag. It returns the piece that stood there.
func (p *Position) lift(sq Square) Piece {
	piece := p.Cells[sq]
	if piece == NoPiece {
		return NoPiece
	}
	p.Score -= piece.Contribution(sq)
	p.Cells[sq] = NoPiece
	p.Moved &^= SquareBB(sq)
	return piece
}

// ComputeScore recomputes the score from scratch by summing every occupied
// square's material and positional contribution.
func (p *Position) ComputeScore() int {
	score := 0
	for sq, piece := range p.Squares() {
		score += piece.Contribution(sq)
	}
	return score
}

// Material returns the material balance (positive favors white), kings excluded.
func (p *Position) Material() int {
	score := 0
	for _, piece := range p.Squares() {
		if piece == NoPiece || piece.Type() == King {
			continue
		}
		score += piece.Color().Sign() * piece.Value()
	}
	return score
}

// Count returns how many pieces of the given kind and color are on the board.
func (p *Position) Count(piece Piece) int {
	n := 0
	for _, occupant := range p.Squares() {
		if occupant == piece {
			n++
		}
	}
	return n
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Cells[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Score: %d\n", p.Score)
	fmt.Fprintf(&sb, "Last move: %s\n", p.LastMove)
	fmt.Fprintf(&sb, "FEN: %s\n", p.ToFEN())
	return sb.String()
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{FullMoveNumber: 1}
	for sq := range p.Cells {
		p.Cells[sq] = NoPiece
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
}

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	for _, c := range [2]Color{White, Black} {
		king := NewPiece(King, c)
		if n := p.Count(king); n != 1 {
			return fmt.Errorf("%s must have exactly one king, found %d", c, n)
		}
		if p.Cells[p.KingSquare[c]] != king {
			return fmt.Errorf("%s king square cache %s is stale", c, p.KingSquare[c])
		}
	}

	for file := 0; file < 8; file++ {
		for _, rank := range [2]int{0, 7} {
			if p.Cells[NewSquare(file, rank)].Type() == Pawn {
				return fmt.Errorf("pawns cannot be on rank 1 or 8")
			}
		}
	}

	if p.Moved&^p.occupied() != 0 {
		return fmt.Errorf("moved flags set on empty squares")
	}

	if score := p.ComputeScore(); score != p.Score {
		return fmt.Errorf("incremental score %d differs from recomputed %d", p.Score, score)
	}

	return nil
}

// occupied returns the set of non-empty squares.
func (p *Position) occupied() Bitboard {
	var bb Bitboard
	for sq, piece := range p.Squares() {
		if piece != NoPiece {
			bb |= SquareBB(sq)
		}
	}
	return bb
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	minors := [2]int{}
	for _, piece := range p.Squares() {
		switch piece.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[piece.Color()]++
		}
	}

	// K vs K, K+minor vs K
	return minors[White]+minors[Black] <= 1
}

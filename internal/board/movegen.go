package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when a requested move is not among the legal
// moves of the side to move.
var ErrIllegalMove = errors.New("illegal move")

// GeneratePseudoLegalMoves generates the candidate moves of color c in
// square order (may leave c's king in check).
func (p *Position) GeneratePseudoLegalMoves(c Color) *MoveList {
	ml := NewMoveList()
	for from := A1; from <= H8; from++ {
		if p.Cells[from].Color() == c {
			p.generatePieceMoves(ml, from, false)
		}
	}
	return ml
}

// GenerateLegalMoves generates all legal moves of color c.
func (p *Position) GenerateLegalMoves(c Color) *MoveList {
	return p.filterLegalMoves(p.GeneratePseudoLegalMoves(c))
}

// filterLegalMoves keeps the moves that do not leave the mover's king attacked.
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()
	for _, m := range ml.Slice() {
		if p.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal returns true if the pseudo-legal move m does not leave the mover's
// own king attacked.
func (p *Position) IsLegal(m Move) bool {
	us := p.Cells[m.From()].Color()
	legal := false
	p.Try(m, func(after *Position) {
		legal = !after.IsKingUnderAttack(us)
	})
	return legal
}

// HasLegalMoves returns true if color c has at least one legal move.
func (p *Position) HasLegalMoves(c Color) bool {
	for _, m := range p.GeneratePseudoLegalMoves(c).Slice() {
		if p.IsLegal(m) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if color c is in check and has no legal move.
func (p *Position) IsCheckmate(c Color) bool {
	return p.IsKingUnderAttack(c) && !p.HasLegalMoves(c)
}

// IsStalemate returns true if color c is not in check and has no legal move.
func (p *Position) IsStalemate(c Color) bool {
	return !p.IsKingUnderAttack(c) && !p.HasLegalMoves(c)
}

// FindMove returns the legal move of the side to move that goes from
// origin to dest. A promotion with promo NoPieceType defaults to a queen; a
// promo piece on any other move is rejected.
func (p *Position) FindMove(from, to Square, promo PieceType) (Move, error) {
	piece := p.Cells[from]
	if piece == NoPiece || piece.Color() != p.SideToMove {
		return NoMove, fmt.Errorf("%w: no %s piece on %s", ErrIllegalMove, p.SideToMove, from)
	}
	want := promo
	if want == NoPieceType {
		want = Queen
	}

	moves := p.GenerateLegalMoves(p.SideToMove)
	for _, m := range moves.Slice() {
		if m.From() != from || m.To() != to {
			continue
		}
		if !m.IsPromotion() {
			if promo != NoPieceType {
				return NoMove, fmt.Errorf("%w: %s%s cannot promote", ErrIllegalMove, from, to)
			}
			return m, nil
		}
		if m.Promotion() == want {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
}

// ApplyUserMove validates a move of the side to move and commits it,
// including the rook relocation of castling and the pawn removal of en
// passant. The position is left untouched when the move is illegal.
func (p *Position) ApplyUserMove(from, to Square, promo PieceType) (Move, error) {
	m, err := p.FindMove(from, to, promo)
	if err != nil {
		return NoMove, err
	}
	p.MakeMove(m)
	return m, nil
}

package board

// IsSquareAttacked returns true iff some piece of color by reaches sq with
// its attack-mode moves.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	var ml MoveList
	for from := A1; from <= H8; from++ {
		if p.Cells[from].Color() != by {
			continue
		}
		ml.Clear()
		p.generatePieceMoves(&ml, from, true)
		for _, m := range ml.Slice() {
			if m.To() == sq {
				return true
			}
		}
	}
	return false
}

// IsKingUnderAttack returns true if the king of color c is attacked by the
// opponent.
func (p *Position) IsKingUnderAttack(c Color) bool {
	ksq := p.KingSquare[c]
	if !ksq.IsValid() || p.Cells[ksq] != NewPiece(King, c) {
		panic("board: " + c.String() + " king missing")
	}
	return p.IsSquareAttacked(ksq, c.Other())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsKingUnderAttack(p.SideToMove)
}

// Attackers returns the squares holding pieces of color by that attack sq.
func (p *Position) Attackers(sq Square, by Color) []Square {
	var attackers []Square
	var ml MoveList
	for from := A1; from <= H8; from++ {
		if p.Cells[from].Color() != by {
			continue
		}
		ml.Clear()
		p.generatePieceMoves(&ml, from, true)
		for _, m := range ml.Slice() {
			if m.To() == sq {
				attackers = append(attackers, from)
				break
			}
		}
	}
	return attackers
}

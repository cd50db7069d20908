package board

// Direction and step offsets as (file delta, rank delta).
var (
	rookDirections   = [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirections = [][2]int{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	queenDirections  = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	knightOffsets    = [][2]int{{-1, 2}, {1, 2}, {-1, -2}, {1, -2}, {-2, 1}, {2, 1}, {-2, -1}, {2, -1}}
)

// generatePieceMoves adds the candidate moves of the piece on from.
//
// In attack mode the generator answers "which squares does this piece
// reach": pawns report both diagonals whatever stands there, kings skip the
// destination safety test and castling. Attack mode never calls back into
// the attack oracle, which keeps check detection from recursing.
func (p *Position) generatePieceMoves(ml *MoveList, from Square, attackMode bool) {
	piece := p.Cells[from]
	us := piece.Color()

	switch piece.Type() {
	case Pawn:
		p.generatePawnMoves(ml, from, us, attackMode)
	case Knight:
		p.generateStepMoves(ml, from, us, knightOffsets)
	case Bishop:
		p.generateSlidingMoves(ml, from, us, bishopDirections)
	case Rook:
		p.generateSlidingMoves(ml, from, us, rookDirections)
	case Queen:
		p.generateSlidingMoves(ml, from, us, queenDirections)
	case King:
		p.generateKingMoves(ml, from, us, attackMode)
	}
}

// generateSlidingMoves walks each direction until blocked: own pieces stop
// the ray before their square, enemy pieces stop it after their square.
func (p *Position) generateSlidingMoves(ml *MoveList, from Square, us Color, dirs [][2]int) {
	for _, d := range dirs {
		to, ok := from.Offset(d[0], d[1])
		for ok {
			target := p.Cells[to]
			if target.Color() == us {
				break
			}
			ml.Add(NewMove(from, to))
			if target != NoPiece {
				break
			}
			to, ok = to.Offset(d[0], d[1])
		}
	}
}

// generateStepMoves adds single-offset moves onto squares not held by us.
func (p *Position) generateStepMoves(ml *MoveList, from Square, us Color, offsets [][2]int) {
	for _, d := range offsets {
		to, ok := from.Offset(d[0], d[1])
		if !ok || p.Cells[to].Color() == us {
			continue
		}
		ml.Add(NewMove(from, to))
	}
}

// generateKingMoves adds castling (outside attack mode) and single steps.
// Outside attack mode, steps onto squares the opponent attacks are dropped.
func (p *Position) generateKingMoves(ml *MoveList, from Square, us Color, attackMode bool) {
	if attackMode {
		p.generateStepMoves(ml, from, us, queenDirections)
		return
	}

	p.generateCastlingMoves(ml, from, us)

	them := us.Other()
	for _, d := range queenDirections {
		to, ok := from.Offset(d[0], d[1])
		if !ok || p.Cells[to].Color() == us {
			continue
		}
		if p.IsSquareAttacked(to, them) {
			continue
		}
		ml.Add(NewMove(from, to))
	}
}

// generateCastlingMoves offers castling toward each corner rook. Both king
// and rook must be unmoved, every square between them empty, and none of
// the king's start, transit and destination squares attacked.
func (p *Position) generateCastlingMoves(ml *MoveList, from Square, us Color) {
	if p.Moved.Has(from) {
		return
	}
	them := us.Other()
	rank := from.Rank()
	rook := NewPiece(Rook, us)

	for _, rookFile := range [2]int{0, 7} {
		rookSq := NewSquare(rookFile, rank)
		if p.Cells[rookSq] != rook || p.Moved.Has(rookSq) {
			continue
		}

		step := 1
		if rookFile < from.File() {
			step = -1
		}
		if f := from.File() + 2*step; f < 0 || f > 7 {
			continue
		}

		clear := true
		for f := from.File() + step; f != rookFile; f += step {
			if !p.IsEmpty(NewSquare(f, rank)) {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}

		safe := true
		for i := 0; i < 3; i++ {
			if p.IsSquareAttacked(NewSquare(from.File()+i*step, rank), them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewCastling(from, NewSquare(from.File()+2*step, rank)))
		}
	}
}

// generatePawnMoves adds captures first, then pushes. A pawn reaching the
// last rank expands into one move per promotion choice.
func (p *Position) generatePawnMoves(ml *MoveList, from Square, us Color, attackMode bool) {
	dir, startRank := 1, 1
	if us == Black {
		dir, startRank = -1, 6
	}
	them := us.Other()

	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		if attackMode {
			ml.Add(NewMove(from, to))
			continue
		}
		target := p.Cells[to]
		switch {
		case target.Color() == them:
			addPawnMove(ml, from, to)
		case target == NoPiece && p.isEnPassantTarget(from, to, us):
			ml.Add(NewEnPassant(from, to))
		}
	}
	if attackMode {
		return
	}

	to, ok := from.Offset(0, dir)
	if !ok || !p.IsEmpty(to) {
		return
	}
	addPawnMove(ml, from, to)

	if from.Rank() == startRank && !p.Moved.Has(from) {
		if to2, ok := to.Offset(0, dir); ok && p.IsEmpty(to2) {
			ml.Add(NewMove(from, to2))
		}
	}
}

// isEnPassantTarget reports whether our pawn on from may capture en passant
// onto the empty square to: the last move must have been an enemy pawn's
// two-square push ending beside us on the destination file.
func (p *Position) isEnPassantTarget(from, to Square, us Color) bool {
	last := p.LastMove
	if last == NoMove {
		return false
	}
	landed := last.To()
	if p.Cells[landed] != NewPiece(Pawn, us.Other()) {
		return false
	}
	if d := landed.Rank() - last.From().Rank(); d != 2 && d != -2 {
		return false
	}
	return landed.Rank() == from.Rank() && landed.File() == to.File()
}

// addPawnMove adds a pawn move, expanding promotions on the last rank.
func addPawnMove(ml *MoveList, from, to Square) {
	if to.Rank() != 0 && to.Rank() != 7 {
		ml.Add(NewMove(from, to))
		return
	}
	for _, pt := range PromotionTypes {
		ml.Add(NewPromotion(from, to, pt))
	}
}

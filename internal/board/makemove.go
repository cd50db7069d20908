package board

import "fmt"

// MakeMove applies a move to the position and returns undo information.
// The move is not checked for legality. Castling relocates the rook and en
// passant removes the passed pawn as part of the same step.
func (p *Position) MakeMove(m Move) UndoInfo {
	from, to := m.From(), m.To()
	mover := p.Cells[from]
	if mover == NoPiece {
		panic(fmt.Sprintf("board: MakeMove %s from empty square", m))
	}

	undo := UndoInfo{
		Moving:         mover,
		Captured:       NoPiece,
		CapturedSquare: NoSquare,
		Moved:          p.Moved,
		Score:          p.Score,
		LastMove:       p.LastMove,
		SideToMove:     p.SideToMove,
		KingSquare:     p.KingSquare,
		HalfMoveClock:  p.HalfMoveClock,
		FullMoveNumber: p.FullMoveNumber,
	}

	us := mover.Color()

	// Remove the captured piece, which for en passant stands beside us.
	capSq := to
	if m.IsEnPassant() {
		capSq = NewSquare(to.File(), from.Rank())
	}
	if captured := p.lift(capSq); captured != NoPiece {
		undo.Captured = captured
		undo.CapturedSquare = capSq
	}

	// Move the piece, or its promoted replacement.
	p.lift(from)
	arriving := mover
	if m.IsPromotion() {
		arriving = NewPiece(m.Promotion(), us)
	}
	p.place(arriving, to)
	p.Moved |= SquareBB(to)

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		rook := p.lift(rookFrom)
		p.place(rook, rookTo)
		p.Moved |= SquareBB(rookTo)
	}

	if mover.Type() == Pawn || undo.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.LastMove = m
	p.SideToMove = us.Other()

	return undo
}

// UnmakeMove undoes a move using the stored undo information. Calls must
// mirror MakeMove in strict LIFO order.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	from, to := m.From(), m.To()

	p.Cells[to] = NoPiece
	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(from, to)
		p.Cells[rookFrom] = p.Cells[rookTo]
		p.Cells[rookTo] = NoPiece
	}
	p.Cells[from] = undo.Moving
	if undo.Captured != NoPiece {
		p.Cells[undo.CapturedSquare] = undo.Captured
	}

	p.Moved = undo.Moved
	p.Score = undo.Score
	p.LastMove = undo.LastMove
	p.SideToMove = undo.SideToMove
	p.KingSquare = undo.KingSquare
	p.HalfMoveClock = undo.HalfMoveClock
	p.FullMoveNumber = undo.FullMoveNumber
}

// Try applies m, hands the resulting position to fn and always restores the
// position afterwards, including when fn panics. fn must not keep p.
func (p *Position) Try(m Move, fn func(*Position)) {
	undo := p.MakeMove(m)
	defer p.UnmakeMove(m, undo)
	fn(p)
}

package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// castlingCorners lists, per FEN castling letter, the king and rook home
// squares it refers to.
var castlingCorners = []struct {
	char byte
	king Square
	rook Square
}{
	{'K', E1, H1},
	{'Q', E1, A1},
	{'k', E8, H8},
	{'q', E8, A8},
}

// ParseFEN parses a FEN string and returns a Position.
//
// The castling field is translated into moved flags: a king or corner rook
// not covered by a castling right counts as moved. The en passant field is
// translated into the last move, the double push that created it.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	pos := &Position{}
	pos.Clear()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		if err := parseEnPassant(pos, parts[3]); err != nil {
			return nil, err
		}
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FEN position: %w", err)
	}
	// The side that just moved cannot be left in check, or the king would
	// be capturable.
	if waiting := pos.SideToMove.Other(); pos.IsKingUnderAttack(waiting) {
		return nil, fmt.Errorf("invalid FEN position: %s king in check with %s to move", waiting, pos.SideToMove)
	}

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("invalid piece character: %c", c)
			}
			sq := NewSquare(file, rank)
			pos.place(piece, sq)

			// Only pawns on their starting rank can still double-step.
			if piece.Type() == Pawn && sq.RelativeRank(piece.Color()) != 1 {
				pos.Moved |= SquareBB(sq)
			}
			// Kings and rooks regain castling eligibility from the castling field.
			if piece.Type() == King || piece.Type() == Rook {
				pos.Moved |= SquareBB(sq)
			}
			file++
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights clears the moved flag of every king and rook named by
// the castling field.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		return nil
	}

	for _, c := range []byte(castling) {
		found := false
		for _, corner := range castlingCorners {
			if corner.char != c {
				continue
			}
			found = true
			color := White
			if c >= 'a' {
				color = Black
			}
			if pos.Cells[corner.king] == NewPiece(King, color) && pos.Cells[corner.rook] == NewPiece(Rook, color) {
				pos.Moved &^= SquareBB(corner.king) | SquareBB(corner.rook)
			}
		}
		if !found {
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// parseEnPassant reconstructs the double push that produced the en passant
// target square.
func parseEnPassant(pos *Position, field string) error {
	sq, err := ParseSquare(field)
	if err != nil {
		return fmt.Errorf("invalid en passant square: %s", field)
	}

	// The pawn that just moved belongs to the side not to move.
	mover := pos.SideToMove.Other()
	dir := 1
	if mover == Black {
		dir = -1
	}
	if sq.RelativeRank(mover) != 2 {
		return fmt.Errorf("invalid en passant square: %s", field)
	}
	from, _ := sq.Offset(0, -dir)
	landed, _ := sq.Offset(0, dir)
	if pos.Cells[landed] != NewPiece(Pawn, mover) {
		return fmt.Errorf("en passant square %s without a pawn on %s", field, landed)
	}
	pos.LastMove = NewMove(from, landed)
	return nil
}

// castlingString derives the FEN castling field from the moved flags.
func (p *Position) castlingString() string {
	var sb strings.Builder
	for _, corner := range castlingCorners {
		color := White
		if corner.char >= 'a' {
			color = Black
		}
		if p.Cells[corner.king] == NewPiece(King, color) && !p.Moved.Has(corner.king) &&
			p.Cells[corner.rook] == NewPiece(Rook, color) && !p.Moved.Has(corner.rook) {
			sb.WriteByte(corner.char)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// EnPassantSquare returns the square behind a pawn that just made a double
// push, or NoSquare.
func (p *Position) EnPassantSquare() Square {
	last := p.LastMove
	if last == NoMove || p.Cells[last.To()].Type() != Pawn {
		return NoSquare
	}
	from, to := last.From(), last.To()
	if d := to.Rank() - from.Rank(); d != 2 && d != -2 {
		return NoSquare
	}
	return NewSquare(from.File(), (from.Rank()+to.Rank())/2)
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Cells[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castlingString())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassantSquare().String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a legal move in pos to Standard Algebraic Notation.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	piece := pos.PieceAt(from)

	if piece == NoPiece {
		return m.String() // Fallback to UCI
	}

	var sb strings.Builder

	if m.IsCastling() {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()

		// Piece letter (not for pawns)
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, piece))
		}

		if m.IsCapture(pos) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	// Check/checkmate marker
	them := piece.Color().Other()
	pos.Try(m, func(after *Position) {
		if after.IsCheckmate(them) {
			sb.WriteByte('#')
		} else if after.IsKingUnderAttack(them) {
			sb.WriteByte('+')
		}
	})

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from another legal move of the same piece kind to the same square.
func disambiguation(pos *Position, m Move, piece Piece) string {
	from := m.From()
	to := m.To()

	var candidates []Square
	for _, other := range pos.GenerateLegalMoves(piece.Color()).Slice() {
		if other.To() != to || other.From() == from {
			continue
		}
		if pos.PieceAt(other.From()) == piece {
			candidates = append(candidates, other.From())
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN parses a SAN string and returns the matching legal move of the
// side to move.
func ParseSAN(s string, pos *Position) (Move, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")
	us := pos.SideToMove

	var castleFile int = -1
	switch s {
	case "O-O", "0-0":
		castleFile = 6
	case "O-O-O", "0-0-0":
		castleFile = 2
	}
	if castleFile >= 0 {
		for _, m := range pos.GenerateLegalMoves(us).Slice() {
			if m.IsCastling() && m.To().File() == castleFile {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}

	// Parse promotion
	promo := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 && idx+1 < len(s) {
		promo = PieceTypeFromChar(s[idx+1])
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = PieceTypeFromChar(s[0])
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %q", s)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		if c >= 'a' && c <= 'h' {
			disambigFile = int(c - 'a')
		} else if c >= '1' && c <= '8' {
			disambigRank = int(c - '1')
		}
	}

	for _, m := range pos.GenerateLegalMoves(us).Slice() {
		if m.To() != dest {
			continue
		}
		from := m.From()
		if pos.PieceAt(from).Type() != pt {
			continue
		}
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		if m.IsPromotion() {
			want := promo
			if want == NoPieceType {
				want = Queen
			}
			if m.Promotion() != want {
				continue
			}
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m)
	}

	return result
}

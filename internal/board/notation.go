package board

import (
	"fmt"
	"strings"
)

// ParseCoordinates parses coordinate notation as typed by a player or sent
// over UCI: "e2e4", "e2-e4", "e7e8q", "e7-e8=Q". promo is NoPieceType when
// no promotion piece was given.
func ParseCoordinates(s string) (from, to Square, promo PieceType, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "=", "")

	promo = NoPieceType
	if len(s) != 4 && len(s) != 5 {
		return NoSquare, NoSquare, promo, fmt.Errorf("invalid move format %q, expected e2-e4", s)
	}
	if from, err = ParseSquare(s[0:2]); err != nil {
		return NoSquare, NoSquare, promo, err
	}
	if to, err = ParseSquare(s[2:4]); err != nil {
		return NoSquare, NoSquare, promo, err
	}
	if len(s) == 5 {
		promo = PieceTypeFromChar(s[4])
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoSquare, NoSquare, NoPieceType, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	return from, to, promo, nil
}

// ParseMove parses a coordinate-notation move and resolves it against the
// legal moves of the side to move.
func ParseMove(s string, pos *Position) (Move, error) {
	from, to, promo, err := ParseCoordinates(s)
	if err != nil {
		return NoMove, err
	}
	return pos.FindMove(from, to, promo)
}

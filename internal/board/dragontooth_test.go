package board

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// referenceMoves returns the legal moves of an independent generator for
// the same FEN, in coordinate notation.
func referenceMoves(b *dragontoothmg.Board) []string {
	var out []string
	for _, m := range b.GenerateLegalMoves() {
		mv := m
		out = append(out, mv.String())
	}
	sort.Strings(out)
	return out
}

func ourMoves(pos *Position) []string {
	var out []string
	for _, m := range pos.GenerateLegalMoves(pos.SideToMove).Slice() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func diffMoves(got, want []string) (missing, extra []string) {
	have := make(map[string]bool, len(got))
	for _, m := range got {
		have[m] = true
	}
	ref := make(map[string]bool, len(want))
	for _, m := range want {
		ref[m] = true
		if !have[m] {
			missing = append(missing, m)
		}
	}
	for _, m := range got {
		if !ref[m] {
			extra = append(extra, m)
		}
	}
	return missing, extra
}

func TestLegalMovesMatchReference(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustFEN(t, fen)
			ref := dragontoothmg.ParseFen(fen)

			for ply := 0; ply < 40; ply++ {
				got, want := ourMoves(pos), referenceMoves(&ref)
				if missing, extra := diffMoves(got, want); len(missing) > 0 || len(extra) > 0 {
					t.Fatalf("ply %d %s: missing %v, extra %v", ply, pos.ToFEN(), missing, extra)
				}
				if len(got) == 0 {
					return
				}

				// Follow a deterministic line so later plies exercise
				// positions neither FEN list covers directly.
				choice := got[(ply*13+5)%len(got)]
				m, err := ParseMove(choice, pos)
				if err != nil {
					t.Fatalf("ply %d: %v", ply, err)
				}
				pos.MakeMove(m)
				for _, rm := range ref.GenerateLegalMoves() {
					mv := rm
					if mv.String() == choice {
						ref.Apply(mv)
						break
					}
				}
			}
		})
	}
}

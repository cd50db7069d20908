package engine

import (
	"github.com/hailam/minichess/internal/board"
)

// Infinity bounds every reachable score. It exceeds the king value so that
// a side with no legal moves always scores worse than any real position.
const Infinity = 1_000_000

// Searcher performs a fixed-depth minimax search with alpha-beta pruning.
// It mutates the position it is given in place and restores it before
// returning, so a Searcher must not be shared between goroutines.
type Searcher struct {
	maxDepth       int
	disablePruning bool
	nodes          uint64
	bestScore      int
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Nodes returns the number of moves applied during the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Score returns the score of the position chosen by the last search.
func (s *Searcher) Score() int {
	return s.bestScore
}

// SetPruning enables or disables alpha-beta cutoffs. Both modes return the
// same result; the unpruned mode visits every node.
func (s *Searcher) SetPruning(enabled bool) {
	s.disablePruning = !enabled
}

// Search finds the best move for color in pos, looking maxDepth plies
// ahead. It returns a copy of the position after that move together with
// the move itself, or (nil, NoMove) when color has no legal move.
//
// pos is identical to its original state when Search returns.
func (s *Searcher) Search(pos *board.Position, color board.Color, maxDepth int) (*board.Position, board.Move) {
	if maxDepth < 1 {
		maxDepth = 1
	}
	s.maxDepth = maxDepth
	s.nodes = 0

	sign := color.Sign()
	best := -sign * Infinity
	bestMove := board.NoMove
	var bestPos board.Position

	moves := pos.GenerateLegalMoves(color)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		s.nodes++

		score := pos.Score
		if maxDepth > 1 {
			score = s.search(pos, color.Other(), 2, best)
		}
		if bestMove == board.NoMove || sign*score > sign*best {
			best = score
			bestMove = m
			bestPos = *pos
		}

		pos.UnmakeMove(m, undo)
	}

	s.bestScore = best
	if bestMove == board.NoMove {
		return nil, board.NoMove
	}
	return &bestPos, bestMove
}

// search returns the minimax value of pos for color at the given depth.
// bound is the best score the parent has secured so far; once this node
// finds a reply that is strictly worse for the parent, the parent will
// never choose it and the remaining siblings are skipped.
func (s *Searcher) search(pos *board.Position, color board.Color, depth, bound int) int {
	sign := color.Sign()
	best := -sign * Infinity

	moves := pos.GenerateLegalMoves(color)
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		s.nodes++

		score := pos.Score
		if depth < s.maxDepth {
			score = s.search(pos, color.Other(), depth+1, best)
		}

		pos.UnmakeMove(m, undo)

		if sign*score > sign*best {
			best = score
		}
		if !s.disablePruning && sign*score > sign*bound {
			break
		}
	}

	return best
}

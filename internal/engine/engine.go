package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/minichess/internal/board"
)

// DefaultDepth is the search depth used when no limit is given.
const DefaultDepth = 4

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth          int  // Plies to search (0 = DefaultDepth)
	DisablePruning bool // Plain minimax, for verification
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2},
	Medium: {Depth: 3},
	Hard:   {Depth: 4},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "unknown"
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI engine.
type Engine struct {
	searcher *Searcher
	limits   SearchLimits

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine searching DefaultDepth plies.
func NewEngine() *Engine {
	return &Engine{
		searcher: NewSearcher(),
		limits:   SearchLimits{Depth: DefaultDepth},
	}
}

// SetDifficulty sets the search depth from a difficulty preset.
func (e *Engine) SetDifficulty(d Difficulty) {
	limits, ok := DifficultySettings[d]
	if !ok {
		return
	}
	e.limits.Depth = limits.Depth
}

// SetDepth sets the search depth in plies.
func (e *Engine) SetDepth(depth int) {
	e.limits.Depth = depth
}

// SetPruning enables or disables alpha-beta pruning.
func (e *Engine) SetPruning(enabled bool) {
	e.limits.DisablePruning = !enabled
}

// Limits returns the current search limits.
func (e *Engine) Limits() SearchLimits {
	return e.limits
}

// Search finds the best move for the side to move in pos using the
// engine's limits. See SearchWithLimits.
func (e *Engine) Search(pos *board.Position) (*board.Position, board.Move) {
	return e.SearchWithLimits(pos, e.limits)
}

// SearchWithLimits finds the best move for the side to move in pos. It
// returns the position after that move and the move, or (nil, NoMove) if
// the side to move has no legal moves. pos is left unchanged.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) (*board.Position, board.Move) {
	depth := limits.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}

	e.searcher.SetPruning(!limits.DisablePruning)

	startTime := time.Now()
	next, move := e.searcher.Search(pos, pos.SideToMove, depth)

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: depth,
			Score: e.searcher.Score(),
			Nodes: e.searcher.Nodes(),
			Time:  time.Since(startTime),
			Move:  move,
		})
	}

	return next, move
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves(pos.SideToMove)
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Divide returns the perft count below each legal root move.
func (e *Engine) Divide(pos *board.Position, depth int) map[board.Move]uint64 {
	result := make(map[board.Move]uint64)
	if depth < 1 {
		return result
	}

	moves := pos.GenerateLegalMoves(pos.SideToMove)
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		pos.Try(move, func(after *board.Position) {
			result[move] = e.Perft(after, depth-1)
		})
	}
	return result
}

// Evaluate returns the static evaluation of a position, White-positive.
func (e *Engine) Evaluate(pos *board.Position) int {
	return pos.Score
}

// IsMateScore reports whether score comes from a side running out of
// legal moves rather than from material.
func IsMateScore(score int) bool {
	return score >= Infinity || score <= -Infinity
}

// ScoreString converts a White-positive score to a human-readable string
// in pawns, e.g. "+1.25" or "-0.40".
func ScoreString(score int) string {
	if score >= Infinity {
		return "+M"
	}
	if score <= -Infinity {
		return "-M"
	}

	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}

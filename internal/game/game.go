// Package game runs an interactive game between a human on a text stream
// and the engine.
package game

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/render"
	"github.com/hailam/minichess/internal/storage"
)

// ErrAborted is returned when the input ends before the game is over.
var ErrAborted = errors.New("game aborted")

// Reason describes how a game ended.
type Reason string

const (
	Checkmate            Reason = "checkmate"
	Stalemate            Reason = "stalemate"
	InsufficientMaterial Reason = "insufficient material"
	Resigned             Reason = "resigned"
)

// Result is the outcome of a finished game.
type Result struct {
	Winner board.Color // NoColor for a draw
	Reason Reason
	Plies  int
}

// Recorder stores finished games.
type Recorder interface {
	RecordGame(record *storage.GameRecord) error
}

// Config holds the collaborators and settings of a game.
type Config struct {
	Engine     *engine.Engine
	HumanColor board.Color // NoColor lets the engine play both sides
	Difficulty storage.Difficulty
	In         io.Reader
	Out        io.Writer
	Recorder   Recorder    // optional
	Logger     *log.Logger // optional
	Unicode    bool
}

// Game owns the position being played. Nothing else may mutate it while
// Run is in progress.
type Game struct {
	ID string

	cfg     Config
	pos     *board.Position
	in      *bufio.Scanner
	plies   int
	started time.Time
}

// New creates a game starting from pos.
func New(pos *board.Position, cfg Config) *Game {
	if cfg.Engine == nil {
		cfg.Engine = engine.NewEngine()
	}
	return &Game{
		ID:  uuid.NewString(),
		cfg: cfg,
		pos: pos,
		in:  bufio.NewScanner(cfg.In),
	}
}

// Position returns the current position.
func (g *Game) Position() *board.Position {
	return g.pos
}

// Status reports whether the side to move has lost or drawn.
func Status(pos *board.Position) (over bool, winner board.Color, reason Reason) {
	us := pos.SideToMove
	switch {
	case pos.IsCheckmate(us):
		return true, us.Other(), Checkmate
	case pos.IsStalemate(us):
		return true, board.NoColor, Stalemate
	case pos.IsInsufficientMaterial():
		return true, board.NoColor, InsufficientMaterial
	}
	return false, board.NoColor, ""
}

// Run plays the game until it ends or the input is exhausted.
func (g *Game) Run() (*Result, error) {
	g.started = time.Now()
	if g.cfg.HumanColor == board.NoColor {
		g.printf("Game %s. The engine plays both sides.\n", g.ID)
	} else {
		g.printf("Game %s. You play %s.\n", g.ID, strings.ToLower(g.cfg.HumanColor.String()))
	}
	g.printBoard()

	for {
		if over, winner, reason := Status(g.pos); over {
			return g.finish(winner, reason)
		}

		if g.pos.SideToMove == g.cfg.HumanColor {
			resigned, err := g.humanTurn()
			if err != nil {
				return nil, err
			}
			if resigned {
				return g.finish(g.cfg.HumanColor.Other(), Resigned)
			}
		} else {
			g.engineTurn()
		}

		g.plies++
		g.printBoard()
	}
}

// humanTurn reads moves until a legal one is entered and plays it.
func (g *Game) humanTurn() (resigned bool, err error) {
	for {
		line, ok := g.prompt("Your move? ")
		if !ok {
			return false, ErrAborted
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "resign", "quit":
			return true, nil
		case "moves":
			g.printf("%s\n", strings.Join(g.legalSAN(), " "))
			continue
		}

		move, err := g.parseMove(line)
		if err != nil {
			if errors.Is(err, board.ErrIllegalMove) {
				g.printf("Invalid move.\n")
			} else {
				g.printf("Invalid move format. Move example: e2-e4\n")
			}
			continue
		}

		san := move.ToSAN(g.pos)
		g.pos.MakeMove(move)
		g.printf("You played %s.\n", san)
		return false, nil
	}
}

// parseMove accepts coordinate notation, asking for the promotion piece
// when it was left out, and falls back to SAN.
func (g *Game) parseMove(line string) (board.Move, error) {
	from, to, promo, err := board.ParseCoordinates(line)
	if err != nil {
		move, sanErr := board.ParseSAN(line, g.pos)
		if sanErr != nil && errors.Is(sanErr, board.ErrIllegalMove) {
			return board.NoMove, sanErr
		}
		if sanErr != nil {
			return board.NoMove, err
		}
		return move, nil
	}

	piece := g.pos.PieceAt(from)
	if promo == board.NoPieceType && piece.Type() == board.Pawn && to.RelativeRank(piece.Color()) == 7 {
		if _, err := g.pos.FindMove(from, to, board.Queen); err == nil {
			promo = g.askPromotion()
		}
	}
	return g.pos.FindMove(from, to, promo)
}

func (g *Game) askPromotion() board.PieceType {
	line, _ := g.prompt("Promote to (Q/R/B/N)? ")
	if len(line) == 1 {
		switch pt := board.PieceTypeFromChar(line[0]); pt {
		case board.Queen, board.Rook, board.Bishop, board.Knight:
			return pt
		}
	}
	return board.Queen
}

func (g *Game) engineTurn() {
	start := time.Now()
	next, move := g.cfg.Engine.Search(g.pos)
	if move == board.NoMove {
		// Status has already ruled out positions without legal moves.
		panic("game: engine found no move in a live position")
	}

	san := move.ToSAN(g.pos)
	g.pos = next
	g.printf("Time to think %.1f secs. Move: %s (%s), score %s\n",
		time.Since(start).Seconds(), san, move, engine.ScoreString(g.pos.Score))
}

func (g *Game) finish(winner board.Color, reason Reason) (*Result, error) {
	result := &Result{Winner: winner, Reason: reason, Plies: g.plies}

	switch {
	case reason == Resigned:
		g.printf("%s resigns. %s wins.\n", winner.Other(), winner)
	case winner == board.NoColor:
		g.printf("%s. Draw.\n", capitalize(string(reason)))
	default:
		g.printf("Checkmate. %s wins.\n", winner)
	}

	if g.cfg.Recorder != nil {
		if err := g.cfg.Recorder.RecordGame(g.record(result)); err != nil {
			return result, fmt.Errorf("record game: %w", err)
		}
	}
	return result, nil
}

func (g *Game) record(result *Result) *storage.GameRecord {
	humanColor := storage.ColorWhite
	switch g.cfg.HumanColor {
	case board.Black:
		humanColor = storage.ColorBlack
	case board.NoColor:
		humanColor = storage.ColorNone
	}
	winner := ""
	if result.Winner != board.NoColor {
		winner = strings.ToLower(result.Winner.String())
	}
	return &storage.GameRecord{
		ID:         g.ID,
		Winner:     winner,
		Reason:     string(result.Reason),
		HumanColor: humanColor,
		Difficulty: g.cfg.Difficulty,
		Depth:      g.cfg.Engine.Limits().Depth,
		Plies:      result.Plies,
		FinalFEN:   g.pos.ToFEN(),
		StartedAt:  g.started,
		Duration:   time.Since(g.started),
	}
}

func (g *Game) legalSAN() []string {
	moves := g.pos.GenerateLegalMoves(g.pos.SideToMove)
	out := make([]string, 0, moves.Len())
	for _, m := range moves.Slice() {
		out = append(out, m.ToSAN(g.pos))
	}
	return out
}

func (g *Game) prompt(text string) (string, bool) {
	g.printf("%s", text)
	if !g.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(g.in.Text()), true
}

func (g *Game) printBoard() {
	g.printf("\n%s\n", render.Text(g.pos, render.TextOptions{
		Flip:    g.cfg.HumanColor == board.Black,
		Unicode: g.cfg.Unicode,
	}))
}

func (g *Game) printf(format string, args ...any) {
	if g.cfg.Out == nil {
		return
	}
	if _, err := fmt.Fprintf(g.cfg.Out, format, args...); err != nil && g.cfg.Logger != nil {
		g.cfg.Logger.Printf("write: %v", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

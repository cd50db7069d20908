// Package uci implements the Universal Chess Interface text protocol on top
// of the search engine.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	out io.Writer
	err io.Writer
}

// New creates a new UCI protocol handler writing replies to out and
// diagnostics to errOut.
func New(eng *engine.Engine, out, errOut io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		out:      out,
		err:      errOut,
	}
}

// Position returns the current position.
func (u *UCI) Position() *board.Position {
	return u.position
}

// Run reads commands from in until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if !u.Handle(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Handle executes one command line. It returns false on "quit".
func (u *UCI) Handle(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		fmt.Fprintln(u.out, "readyok")
	case "ucinewgame":
		u.position = board.NewPosition()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(args)
	case "stop":
		// Searches run to completion before the next command is read.
	case "quit":
		return false
	case "setoption":
		u.handleSetOption(args)
	// Debug commands
	case "d":
		u.handleDisplay()
	case "perft":
		u.handlePerft(args)
	default:
		fmt.Fprintf(u.err, "info string Unknown command: %s\n", cmd)
	}
	return true
}

// handleDisplay prints the board with its static evaluation and the
// squares giving check, if any.
func (u *UCI) handleDisplay() {
	pos := u.position
	fmt.Fprintln(u.out, pos.String())
	fmt.Fprintf(u.out, "Eval: %s\n", engine.ScoreString(u.engine.Evaluate(pos)))
	if pos.InCheck() {
		var checkers []string
		king := pos.KingSquare[pos.SideToMove]
		for _, sq := range pos.Attackers(king, pos.SideToMove.Other()) {
			checkers = append(checkers, sq.String())
		}
		fmt.Fprintf(u.out, "Checkers: %s\n", strings.Join(checkers, " "))
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	limits := u.engine.Limits()
	fmt.Fprintln(u.out, "id name MiniChess")
	fmt.Fprintln(u.out, "id author MiniChess Team")
	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "option name Depth type spin default %d min 1 max 8\n", limits.Depth)
	fmt.Fprintf(u.out, "option name Pruning type check default %t\n", !limits.DisablePruning)
	fmt.Fprintln(u.out, "uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	moveStart := len(args)
	for i, arg := range args {
		if arg == "moves" {
			moveStart = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		fenStr := strings.Join(args[1:moveStart], " ")
		var err error
		pos, err = board.ParseFEN(fenStr)
		if err != nil {
			fmt.Fprintf(u.err, "info string Invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	// Apply moves
	if moveStart < len(args) {
		for _, moveStr := range args[moveStart+1:] {
			move, err := board.ParseMove(moveStr, pos)
			if err != nil {
				fmt.Fprintf(u.err, "info string Invalid move %s: %v\n", moveStr, err)
				return
			}
			pos.MakeMove(move)
		}
	}

	u.position = pos
}

// handleGo runs a fixed-depth search and prints the best move.
func (u *UCI) handleGo(args []string) {
	limits := u.engine.Limits()
	for i := 0; i < len(args); i++ {
		if args[i] == "depth" && i+1 < len(args) {
			if d, err := strconv.Atoi(args[i+1]); err == nil && d > 0 {
				limits.Depth = d
			}
			i++
		}
	}

	prev := u.engine.OnInfo
	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
		if prev != nil {
			prev(info)
		}
	}
	defer func() { u.engine.OnInfo = prev }()

	_, bestMove := u.engine.SearchWithLimits(u.position, limits)
	fmt.Fprintf(u.out, "bestmove %s\n", bestMove.String())
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	// Score, from the side to move's point of view.
	score := info.Score * u.position.SideToMove.Sign()
	if engine.IsMateScore(score) {
		// The search does not track mate distance; report only the side
		// that delivers it.
		mate := 1
		if score < 0 {
			mate = -1
		}
		parts = append(parts, fmt.Sprintf("score mate %d", mate))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.String())
	}

	fmt.Fprintf(u.out, "info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 {
			fmt.Fprintf(u.err, "info string Invalid depth: %s\n", value)
			return
		}
		u.engine.SetDepth(depth)
	case "pruning":
		u.engine.SetPruning(strings.ToLower(value) != "false")
	default:
		fmt.Fprintf(u.err, "info string Unknown option: %s\n", name)
	}
}

// handlePerft runs a perft test, listing the count below each root move.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()
	divide := u.engine.Divide(u.position, depth)
	elapsed := time.Since(start)

	lines := make([]string, 0, len(divide))
	var nodes uint64
	for move, n := range divide {
		lines = append(lines, fmt.Sprintf("%s: %d", move, n))
		nodes += n
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(u.out, line)
	}

	fmt.Fprintf(u.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(u.out, "NPS: %.0f\n", nps)
	}
}

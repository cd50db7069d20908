// MiniChess - play chess against a minimax engine in the terminal
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/game"
	"github.com/hailam/minichess/internal/render"
	"github.com/hailam/minichess/internal/storage"
)

var (
	depthFlag      = flag.Int("depth", 0, "search depth in plies (overrides -difficulty)")
	difficultyFlag = flag.String("difficulty", "", "engine strength: easy, medium or hard")
	colorFlag      = flag.String("color", "", "your color: white, black or none for self play")
	fenFlag        = flag.String("fen", "", "start from this FEN instead of the initial position")
	svgFlag        = flag.String("svg", "", "write an SVG diagram of the final position to this file")
	pngFlag        = flag.String("png", "", "write a PNG diagram of the final position to this file")
	dbFlag         = flag.String("db", "", "database directory (default: platform data dir)")
	noPersist      = flag.Bool("nopersist", false, "do not load or save preferences and results")
	noPruning      = flag.Bool("nopruning", false, "search the full minimax tree")
	unicodeFlag    = flag.Bool("unicode", false, "draw pieces with chess glyphs")
	verbose        = flag.Bool("v", false, "log search statistics")
)

// usageError marks a bad command line.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

func main() {
	flag.Parse()

	if err := run(); err != nil {
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// run plays one game. Everything that can fail on bad input is checked
// before storage is opened, and storage is closed on every return path.
func run() error {
	pos := board.NewPosition()
	if *fenFlag != "" {
		var err error
		if pos, err = board.ParseFEN(*fenFlag); err != nil {
			return usageError{fmt.Errorf("-fen: %w", err)}
		}
	}

	var db *storage.Storage
	prefs := storage.DefaultPreferences()
	if !*noPersist {
		var err error
		db, err = openStorage(*dbFlag)
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		defer db.Close()

		if prefs, err = db.LoadPreferences(); err != nil {
			log.Printf("Warning: could not load preferences: %v", err)
			prefs = storage.DefaultPreferences()
		}
	}

	if err := applyFlags(prefs); err != nil {
		return usageError{err}
	}

	if db != nil {
		if err := db.SavePreferences(prefs); err != nil {
			log.Printf("Warning: could not save preferences: %v", err)
		}
	}

	eng := engine.NewEngine()
	eng.SetDifficulty(engine.Difficulty(prefs.Difficulty))
	if prefs.Depth > 0 {
		eng.SetDepth(prefs.Depth)
	}
	eng.SetPruning(prefs.Pruning)
	if *verbose {
		eng.OnInfo = func(info engine.SearchInfo) {
			log.Printf("depth %d score %s nodes %d time %v move %s",
				info.Depth, engine.ScoreString(info.Score), info.Nodes, info.Time, info.Move)
		}
	}

	human := board.White
	if prefs.PlayerColor == storage.ColorBlack {
		human = board.Black
	}
	if strings.EqualFold(*colorFlag, "none") {
		human = board.NoColor
	}

	cfg := game.Config{
		Engine:     eng,
		HumanColor: human,
		Difficulty: prefs.Difficulty,
		In:         os.Stdin,
		Out:        os.Stdout,
		Logger:     log.Default(),
		Unicode:    *unicodeFlag,
	}
	if db != nil {
		cfg.Recorder = db
	}

	g := game.New(pos, cfg)
	_, runErr := g.Run()
	if runErr != nil {
		log.Print(runErr)
	}

	if err := writeDiagrams(g.Position()); err != nil {
		log.Print(err)
	}

	if db != nil && runErr == nil && human != board.NoColor {
		if stats, err := db.LoadStats(); err == nil {
			fmt.Printf("Games: %d  Wins: %d  Losses: %d  Draws: %d  (%.0f%%)\n",
				stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.GetWinRate())
		}
	}
	return nil
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

// applyFlags overrides stored preferences with the flags given on the
// command line.
func applyFlags(prefs *storage.UserPreferences) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "difficulty":
			var d engine.Difficulty
			if d, err = engine.ParseDifficulty(*difficultyFlag); err == nil {
				prefs.Difficulty = storage.Difficulty(d)
				prefs.Depth = 0
			}
		case "depth":
			if *depthFlag < 1 {
				err = fmt.Errorf("invalid depth %d", *depthFlag)
				return
			}
			prefs.Depth = *depthFlag
		case "color":
			switch strings.ToLower(*colorFlag) {
			case "white":
				prefs.PlayerColor = storage.ColorWhite
			case "black":
				prefs.PlayerColor = storage.ColorBlack
			case "none":
			default:
				err = fmt.Errorf("invalid color %q", *colorFlag)
			}
		case "nopruning":
			prefs.Pruning = !*noPruning
		}
	})
	return err
}

func writeDiagrams(pos *board.Position) error {
	opts := render.Options{
		Coordinates:       true,
		HighlightLastMove: true,
		MarkCheck:         true,
	}

	if *svgFlag != "" {
		if err := os.WriteFile(*svgFlag, render.SVG(pos, opts), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}

	if *pngFlag != "" {
		f, err := os.Create(*pngFlag)
		if err != nil {
			return fmt.Errorf("write png: %w", err)
		}
		defer f.Close()
		if err := render.WritePNG(f, pos, opts); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	}
	return nil
}

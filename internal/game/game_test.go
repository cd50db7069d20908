package game

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/storage"
)

type fakeRecorder struct {
	records []*storage.GameRecord
}

func (f *fakeRecorder) RecordGame(r *storage.GameRecord) error {
	f.records = append(f.records, r)
	return nil
}

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("Error parsing FEN %q: %v", fen, err)
	}
	return pos
}

func newGame(t *testing.T, fen string, human board.Color, input string, depth int) (*Game, *bytes.Buffer, *fakeRecorder) {
	t.Helper()
	eng := engine.NewEngine()
	eng.SetDepth(depth)
	var out bytes.Buffer
	rec := &fakeRecorder{}
	g := New(mustFEN(t, fen), Config{
		Engine:     eng,
		HumanColor: human,
		In:         strings.NewReader(input),
		Out:        &out,
		Recorder:   rec,
	})
	return g, &out, rec
}

const backRank = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"

func TestHumanDeliversMate(t *testing.T) {
	g, out, rec := newGame(t, backRank, board.White, "a1-a8\n", 2)

	result, err := g.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Winner != board.White || result.Reason != Checkmate || result.Plies != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if !strings.Contains(out.String(), "Checkmate. White wins.") {
		t.Errorf("missing announcement:\n%s", out)
	}

	if len(rec.records) != 1 {
		t.Fatalf("recorded %d games, want 1", len(rec.records))
	}
	r := rec.records[0]
	if r.ID != g.ID || r.Winner != "white" || r.Reason != "checkmate" || !r.HumanWon() {
		t.Errorf("unexpected record %+v", r)
	}
	if r.FinalFEN != g.Position().ToFEN() || r.Depth != 2 {
		t.Errorf("record does not describe the final position: %+v", r)
	}
}

func TestEngineDeliversMate(t *testing.T) {
	g, out, rec := newGame(t, backRank, board.Black, "", 2)

	result, err := g.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Winner != board.White || result.Reason != Checkmate {
		t.Errorf("unexpected result %+v", result)
	}
	if !strings.Contains(out.String(), "Move: Ra8# (a1a8)") {
		t.Errorf("engine move not reported:\n%s", out)
	}
	if rec.records[0].HumanWon() {
		t.Error("human should have lost")
	}
}

func TestInvalidInputIsReprompted(t *testing.T) {
	g, out, _ := newGame(t, backRank, board.White, "a1a9\na1b2\n\nmoves\nRa8#\n", 2)

	result, err := g.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Reason != Checkmate {
		t.Errorf("unexpected result %+v", result)
	}

	text := out.String()
	for _, want := range []string{"Invalid move format", "Invalid move.", "Ra8#", "You played Ra8#."} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if n := strings.Count(text, "Your move? "); n != 5 {
		t.Errorf("prompted %d times, want 5", n)
	}
}

func TestDraws(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		reason Reason
		say    string
	}{
		{"stalemate", "k7/2Q5/1K6/8/8/8/8/8 b - - 0 1", Stalemate, "Stalemate. Draw."},
		{"bare kings", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", InsufficientMaterial, "Insufficient material. Draw."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, out, rec := newGame(t, tc.fen, board.White, "", 1)

			result, err := g.Run()
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if result.Winner != board.NoColor || result.Reason != tc.reason || result.Plies != 0 {
				t.Errorf("unexpected result %+v", result)
			}
			if !strings.Contains(out.String(), tc.say) {
				t.Errorf("missing %q:\n%s", tc.say, out)
			}
			if !rec.records[0].Draw() {
				t.Error("record should be a draw")
			}
		})
	}
}

func TestPromotionPrompt(t *testing.T) {
	// Knight promotion leaves king and knight against king.
	g, out, _ := newGame(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1", board.White, "a7a8\nN\n", 1)

	result, err := g.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Reason != InsufficientMaterial {
		t.Errorf("unexpected result %+v", result)
	}
	if g.Position().PieceAt(board.A8) != board.WhiteKnight {
		t.Errorf("a8 holds %v, want white knight", g.Position().PieceAt(board.A8))
	}
	if !strings.Contains(out.String(), "Promote to (Q/R/B/N)? ") {
		t.Error("promotion piece was not asked for")
	}
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	g, _, rec := newGame(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1", board.White, "a7a8\n\n", 1)

	if _, err := g.Run(); !errors.Is(err, ErrAborted) {
		t.Fatalf("got %v, want ErrAborted", err)
	}
	if g.Position().PieceAt(board.A8) != board.WhiteQueen {
		t.Errorf("a8 holds %v, want white queen", g.Position().PieceAt(board.A8))
	}
	if len(rec.records) != 0 {
		t.Error("aborted game should not be recorded")
	}
}

func TestResignRecorded(t *testing.T) {
	db, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var out bytes.Buffer
	g := New(board.NewPosition(), Config{
		HumanColor: board.White,
		Difficulty: storage.DifficultyHard,
		In:         strings.NewReader("resign\n"),
		Out:        &out,
		Recorder:   db,
	})

	result, err := g.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Winner != board.Black || result.Reason != Resigned {
		t.Errorf("unexpected result %+v", result)
	}

	record, err := db.LoadGame(g.ID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if record.Winner != "black" || record.Reason != "resigned" || record.Difficulty != storage.DifficultyHard {
		t.Errorf("unexpected record %+v", record)
	}
	stats, err := db.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Losses != 1 {
		t.Errorf("stats %+v, want one loss", stats)
	}
}

func TestSelfPlayLeavesStatsAlone(t *testing.T) {
	db, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	eng := engine.NewEngine()
	eng.SetDepth(2)
	var out bytes.Buffer
	g := New(mustFEN(t, backRank), Config{
		Engine:     eng,
		HumanColor: board.NoColor,
		In:         strings.NewReader(""),
		Out:        &out,
		Recorder:   db,
	})

	if _, err := g.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	record, err := db.LoadGame(g.ID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if record.HumanColor != storage.ColorNone || !record.SelfPlay() || record.Winner != "white" {
		t.Errorf("unexpected record %+v", record)
	}
	if record.HumanWon() {
		t.Error("self play cannot be a human win")
	}

	stats, err := db.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 0 || stats.Wins != 0 || stats.Losses != 0 || stats.Draws != 0 {
		t.Errorf("self play counted in stats: %+v", stats)
	}
}

func TestEngineSelfPlay(t *testing.T) {
	g, out, _ := newGame(t, backRank, board.NoColor, "", 2)

	result, err := g.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Winner != board.White || result.Plies != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if strings.Contains(out.String(), "Your move? ") {
		t.Error("self play should never prompt")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		fen    string
		over   bool
		winner board.Color
		reason Reason
	}{
		{board.StartFEN, false, board.NoColor, ""},
		{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", true, board.Black, Checkmate},
		{"k7/2Q5/1K6/8/8/8/8/8 b - - 0 1", true, board.NoColor, Stalemate},
		{"4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", true, board.NoColor, InsufficientMaterial},
		{"4k3/8/8/8/8/8/8/2BBK3 w - - 0 1", false, board.NoColor, ""},
	}

	for _, tc := range tests {
		over, winner, reason := Status(mustFEN(t, tc.fen))
		if over != tc.over || winner != tc.winner || reason != tc.reason {
			t.Errorf("%s: got %v %v %q", tc.fen, over, winner, reason)
		}
	}
}

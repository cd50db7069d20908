package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Difficulty != DifficultyMedium {
			t.Errorf("Expected medium difficulty")
		}
		if !prefs.Pruning {
			t.Errorf("Expected pruning enabled by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences on empty db: %v", err)
	}
	if prefs.Difficulty != DifficultyMedium {
		t.Errorf("expected defaults on empty db, got %+v", prefs)
	}

	prefs.Difficulty = DifficultyHard
	prefs.PlayerColor = ColorBlack
	prefs.Depth = 5
	prefs.Pruning = false
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if loaded.Difficulty != DifficultyHard || loaded.PlayerColor != ColorBlack ||
		loaded.Depth != 5 || loaded.Pruning {
		t.Errorf("loaded %+v, want saved values", loaded)
	}
	if loaded.LastPlayed.IsZero() {
		t.Error("LastPlayed not set on save")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	games := []*GameRecord{
		{Winner: "white", Reason: "checkmate", HumanColor: ColorWhite, Difficulty: DifficultyEasy, StartedAt: start, Duration: time.Minute},
		{Winner: "white", Reason: "checkmate", HumanColor: ColorWhite, Difficulty: DifficultyHard, StartedAt: start.Add(time.Hour), Duration: time.Minute},
		{Winner: "", Reason: "stalemate", HumanColor: ColorBlack, StartedAt: start.Add(2 * time.Hour), Duration: time.Minute},
		{Winner: "white", Reason: "checkmate", HumanColor: ColorBlack, StartedAt: start.Add(3 * time.Hour), Duration: time.Minute},
	}
	for _, g := range games {
		if err := s.RecordGame(g); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
		if g.ID == "" {
			t.Fatal("RecordGame did not assign an ID")
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 4 || stats.Wins != 2 || stats.Draws != 1 || stats.Losses != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 0 {
		t.Errorf("streaks: longest %d current %d", stats.LongestWinStrk, stats.CurrentStreak)
	}
	if stats.WinsByDiff["easy"] != 1 || stats.WinsByDiff["hard"] != 1 {
		t.Errorf("wins by difficulty %v", stats.WinsByDiff)
	}
	if stats.TotalPlayTime != 4*time.Minute {
		t.Errorf("total play time %v", stats.TotalPlayTime)
	}

	loaded, err := s.LoadGame(games[2].ID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if loaded.Reason != "stalemate" || !loaded.Draw() {
		t.Errorf("loaded %+v", loaded)
	}

	list, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != len(games) {
		t.Fatalf("ListGames returned %d records, want %d", len(list), len(games))
	}
	for i := range list {
		if list[i].ID != games[i].ID {
			t.Errorf("record %d: got %s, want %s", i, list[i].ID, games[i].ID)
		}
	}
}

func TestLoadGameErrors(t *testing.T) {
	s := openTest(t)

	if _, err := s.LoadGame("not-a-uuid"); err == nil {
		t.Error("expected error for malformed id")
	}
	_, err := s.LoadGame("8c8f6f4e-3b0a-4d4a-9a51-0e1f2d3c4b5a")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSelfPlayRecord(t *testing.T) {
	s := openTest(t)

	record := &GameRecord{Winner: "white", Reason: "checkmate", HumanColor: ColorNone, Duration: time.Minute}
	if err := s.RecordGame(record); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}
	if record.ID == "" {
		t.Fatal("self play record should get an id")
	}

	loaded, err := s.LoadGame(record.ID)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if !loaded.SelfPlay() || loaded.HumanWon() {
		t.Errorf("unexpected record %+v", loaded)
	}
	if got := ColorNone.String(); got != "none" {
		t.Errorf("ColorNone.String() = %q", got)
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 0 || stats.Wins != 0 || stats.TotalPlayTime != 0 {
		t.Errorf("self play counted in stats: %+v", stats)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.RecordGame(&GameRecord{Winner: "black", HumanColor: ColorBlack}); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.Wins != 1 {
		t.Errorf("stats not persisted: %+v", stats)
	}
}

func TestDataPaths(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(DataDirEnv, filepath.Join(tmpDir, "data"))

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != filepath.Join(tmpDir, "data") {
		t.Errorf("GetDataDir ignored %s: %s", DataDirEnv, dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Database directory was not created: %s", dbDir)
	}

	t.Logf("Data directory: %s", dataDir)
}

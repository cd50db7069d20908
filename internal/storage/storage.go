package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Difficulty represents AI difficulty level
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	}
	return "medium"
}

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
	ColorNone // engine plays both sides
)

func (c PlayerColor) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorNone:
		return "none"
	}
	return "white"
}

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string      `json:"username"`
	Difficulty  Difficulty  `json:"difficulty"`
	PlayerColor PlayerColor `json:"player_color"`
	Depth       int         `json:"depth"` // Overrides Difficulty when > 0
	Pruning     bool        `json:"pruning"`
	LastPlayed  time.Time   `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Difficulty:  DifficultyMedium,
		PlayerColor: ColorWhite,
		Pruning:     true,
		LastPlayed:  time.Now(),
	}
}

// GameStats stores game statistics from the human player's point of view.
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByDiff: make(map[string]int),
	}
}

// GameRecord is the outcome of one finished game. Moves are not kept; the
// final position is stored as FEN.
type GameRecord struct {
	ID         string        `json:"id"`
	Winner     string        `json:"winner"` // "white", "black" or "" for a draw
	Reason     string        `json:"reason"` // checkmate, stalemate, insufficient material, resigned
	HumanColor PlayerColor   `json:"human_color"`
	Difficulty Difficulty    `json:"difficulty"`
	Depth      int           `json:"depth"`
	Plies      int           `json:"plies"`
	FinalFEN   string        `json:"final_fen"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Draw reports whether the game ended without a winner.
func (r *GameRecord) Draw() bool {
	return r.Winner == ""
}

// SelfPlay reports whether the engine played both sides.
func (r *GameRecord) SelfPlay() bool {
	return r.HumanColor == ColorNone
}

// HumanWon reports whether the human player won the game.
func (r *GameRecord) HumanWon() bool {
	return r.Winner != "" && r.Winner == r.HumanColor.String()
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyPreferences, prefs)
	})
	if errors.Is(err, ErrNotFound) {
		return prefs, nil // Use defaults
	}

	return prefs, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyStats, stats)
	})
	if errors.Is(err, ErrNotFound) {
		return stats, nil // Use empty stats
	}

	return stats, err
}

// RecordGame stores a finished game and updates statistics in the same
// transaction. A record without an ID is given a new one. Self-play games
// are stored but not counted.
func (s *Storage) RecordGame(record *GameRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Stats follow the human player only.
		if record.SelfPlay() {
			return setJSON(txn, prefixGame+record.ID, record)
		}

		stats := NewGameStats()
		if err := getJSON(txn, keyStats, stats); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		stats.GamesPlayed++
		stats.TotalPlayTime += record.Duration

		switch {
		case record.Draw():
			stats.Draws++
			stats.CurrentStreak = 0
		case record.HumanWon():
			stats.Wins++
			stats.CurrentStreak++
			if stats.CurrentStreak > stats.LongestWinStrk {
				stats.LongestWinStrk = stats.CurrentStreak
			}
			stats.WinsByDiff[record.Difficulty.String()]++
		default:
			stats.Losses++
			stats.CurrentStreak = 0
		}

		if err := setJSON(txn, prefixGame+record.ID, record); err != nil {
			return err
		}
		return setJSON(txn, keyStats, stats)
	})
}

// LoadGame returns the game record with the given ID.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid game id %q: %w", id, err)
	}

	record := &GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, prefixGame+id, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListGames returns all recorded games, oldest first.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var records []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixGame)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			record := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

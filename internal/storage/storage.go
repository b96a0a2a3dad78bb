package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/hailam/satranc/internal/board"
	"github.com/hailam/satranc/internal/engine"
	"github.com/hailam/satranc/internal/game"
)

// Storage keys
const (
	keyPreferences   = "preferences"
	keyStats         = "stats"
	keyCurrentGame   = "game/current"
	keyArchivePrefix = "game/archive/"
)

// ErrNoSavedGame is returned by LoadGame when no game is in progress.
var ErrNoSavedGame = errors.New("no saved game")

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string            `json:"username"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	GameMode    game.Mode         `json:"game_mode"`
	PlayerColor board.Color       `json:"player_color"`
	LastPlayed  time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Difficulty:  engine.Medium,
		GameMode:    game.HumanVsComputer,
		PlayerColor: board.White,
		LastPlayed:  time.Now(),
	}
}

// GameConfig returns the session configuration the preferences describe.
// The computer takes the color the player does not.
func (p *UserPreferences) GameConfig() game.Config {
	return game.Config{
		Mode:       p.GameMode,
		AIColor:    p.PlayerColor.Other(),
		Difficulty: p.Difficulty,
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByMode     map[string]int `json:"wins_by_mode"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByMode: make(map[string]int),
		WinsByDiff: make(map[string]int),
	}
}

// GameResult is a finished game from the local player's point of view.
type GameResult struct {
	Won        bool
	Draw       bool
	Mode       game.Mode
	Difficulty engine.Difficulty
	Duration   time.Duration
}

// SavedGame is an unfinished game kept across restarts.
type SavedGame struct {
	StartFEN   string            `json:"start_fen"`
	Moves      []string          `json:"moves"` // Coordinate notation
	Mode       game.Mode         `json:"mode"`
	Difficulty engine.Difficulty `json:"difficulty"`
	AIColor    board.Color       `json:"ai_color"`
	SavedAt    time.Time         `json:"saved_at"`
}

// NewSavedGame captures the state needed to resume g.
func NewSavedGame(g *game.Game) *SavedGame {
	cfg := g.Config()
	return &SavedGame{
		StartFEN:   g.StartFEN(),
		Moves:      g.UCIMoves(),
		Mode:       cfg.Mode,
		Difficulty: cfg.Difficulty,
		AIColor:    cfg.AIColor,
	}
}

// Config returns the session configuration of the saved game.
func (sg *SavedGame) Config() game.Config {
	return game.Config{Mode: sg.Mode, AIColor: sg.AIColor, Difficulty: sg.Difficulty}
}

// Restore replays the saved moves into a new session.
func (sg *SavedGame) Restore(eng *engine.Engine, opts ...game.Option) (*game.Game, error) {
	if sg.StartFEN != "" && sg.StartFEN != board.StartFEN {
		pos, err := board.ParseFEN(sg.StartFEN)
		if err != nil {
			return nil, fmt.Errorf("saved game: %w", err)
		}
		opts = append(opts, game.WithPosition(pos))
	}
	g, err := game.Replay(sg.Config(), eng, sg.Moves, opts...)
	if err != nil {
		return nil, fmt.Errorf("saved game: %w", err)
	}
	return g, nil
}

// ArchivedGame is a finished game kept for the history list.
type ArchivedGame struct {
	PGN        string            `json:"pgn"`
	Result     string            `json:"result"`
	Mode       game.Mode         `json:"mode"`
	Difficulty engine.Difficulty `json:"difficulty"`
	Plies      int               `json:"plies"`
	PlayedAt   time.Time         `json:"played_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database in dir.
func Open(dir string, logger zerolog.Logger) (*Storage, error) {
	logger.Debug().Str("dir", dir).Msg("Opening database")
	return open(badger.DefaultOptions(dir), logger)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(logger zerolog.Logger) (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger zerolog.Logger) (*Storage, error) {
	opts = opts.WithLogger(badgerLogger{logger.With().Str("component", "badger").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Storage{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// get decodes the JSON value under key into v. It reports false when the
// key does not exist, leaving v untouched.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	return found, nil
}

// put stores v as JSON under key.
func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Storage) delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return DefaultPreferences(), err
	}
	return prefs, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return NewGameStats(), err
	}
	return stats, nil
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	modeKey := result.Mode.String()
	diffKey := result.Difficulty.String()

	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByMode[modeKey]++
		if result.Mode == game.HumanVsComputer {
			stats.WinsByDiff[diffKey]++
		}
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	s.logger.Debug().
		Bool("won", result.Won).
		Bool("draw", result.Draw).
		Str("mode", modeKey).
		Int("games", stats.GamesPlayed).
		Msg("Recording game")

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// SaveGame stores the game in progress, replacing any earlier one.
func (s *Storage) SaveGame(sg *SavedGame) error {
	sg.SavedAt = time.Now()
	return s.put(keyCurrentGame, sg)
}

// LoadGame returns the game in progress or ErrNoSavedGame.
func (s *Storage) LoadGame() (*SavedGame, error) {
	var sg SavedGame
	found, err := s.get(keyCurrentGame, &sg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSavedGame
	}
	return &sg, nil
}

// ClearGame removes the game in progress.
func (s *Storage) ClearGame() error {
	return s.delete(keyCurrentGame)
}

// ArchiveGame stores a finished game. Keys sort by time, so RecentGames
// can walk them newest first.
func (s *Storage) ArchiveGame(a *ArchivedGame) error {
	if a.PlayedAt.IsZero() {
		a.PlayedAt = time.Now()
	}
	key := fmt.Sprintf("%s%020d", keyArchivePrefix, a.PlayedAt.UnixNano())
	return s.put(key, a)
}

// RecentGames returns up to limit archived games, newest first.
// A limit of 0 or less returns all of them.
func (s *Storage) RecentGames(limit int) ([]ArchivedGame, error) {
	var games []ArchivedGame

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(keyArchivePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the last key not greater than the seek key.
		seek := append([]byte(keyArchivePrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			var a ArchivedGame
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			}); err != nil {
				return err
			}
			games = append(games, a)
			if limit > 0 && len(games) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return games, nil
}

// badgerLogger forwards badger's log output to zerolog. Badger is chatty
// at info level, so its info messages are logged as debug.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(trimNewline(format), args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(trimNewline(format), args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msgf(trimNewline(format), args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Trace().Msgf(trimNewline(format), args...)
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}

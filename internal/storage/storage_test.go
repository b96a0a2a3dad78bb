package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"

	"github.com/hailam/satranc/internal/board"
	"github.com/hailam/satranc/internal/engine"
	"github.com/hailam/satranc/internal/game"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory(zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDefaultPreferences(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	want := DefaultPreferences()
	if diff := cmp.Diff(want, prefs, cmpopts.IgnoreFields(UserPreferences{}, "LastPlayed")); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	cfg := prefs.GameConfig()
	if cfg.Mode != game.HumanVsComputer || cfg.AIColor != board.Black || cfg.Difficulty != engine.Medium {
		t.Errorf("GameConfig() = %+v", cfg)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	prefs := &UserPreferences{
		Username:    "Ayse",
		Difficulty:  engine.Hard,
		GameMode:    game.HumanVsHuman,
		PlayerColor: board.Black,
	}
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if prefs.LastPlayed.IsZero() {
		t.Error("SavePreferences should stamp LastPlayed")
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if diff := cmp.Diff(prefs, got, cmpopts.IgnoreFields(UserPreferences{}, "LastPlayed")); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
	if got.GameConfig().AIColor != board.White {
		t.Errorf("AIColor = %v, want white", got.GameConfig().AIColor)
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	results := []GameResult{
		{Won: true, Mode: game.HumanVsComputer, Difficulty: engine.Easy, Duration: time.Minute},
		{Won: true, Mode: game.HumanVsComputer, Difficulty: engine.Hard, Duration: time.Minute},
		{Mode: game.HumanVsComputer, Difficulty: engine.Hard, Duration: time.Minute},
		{Draw: true, Mode: game.HumanVsHuman, Duration: time.Minute},
		{Won: true, Mode: game.HumanVsHuman, Duration: time.Minute},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}

	want := &GameStats{
		GamesPlayed:    5,
		Wins:           3,
		Losses:         1,
		Draws:          1,
		WinsByMode:     map[string]int{"human-vs-computer": 2, "human-vs-human": 1},
		WinsByDiff:     map[string]int{"easy": 1, "hard": 1},
		TotalPlayTime:  5 * time.Minute,
		LongestWinStrk: 2,
		CurrentStreak:  1,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	if rate := stats.GetWinRate(); rate != 60 {
		t.Errorf("GetWinRate() = %v, want 60", rate)
	}
	if rate := NewGameStats().GetWinRate(); rate != 0 {
		t.Errorf("empty GetWinRate() = %v, want 0", rate)
	}
}

func TestSavedGame(t *testing.T) {
	s := openTest(t)

	if _, err := s.LoadGame(); !errors.Is(err, ErrNoSavedGame) {
		t.Fatalf("LoadGame on empty store: got %v, want ErrNoSavedGame", err)
	}

	g := game.New(game.Config{Mode: game.HumanVsHuman}, nil)
	for _, m := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		if err := g.PlayUCI(m); err != nil {
			t.Fatalf("PlayUCI(%s): %v", m, err)
		}
	}

	if err := s.SaveGame(NewSavedGame(g)); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	sg, err := s.LoadGame()
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if diff := cmp.Diff([]string{"e2e4", "e7e5", "g1f3", "b8c6"}, sg.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	if sg.SavedAt.IsZero() {
		t.Error("SavedAt not set")
	}

	restored, err := sg.Restore(nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.FEN() != g.FEN() {
		t.Errorf("restored FEN = %q, want %q", restored.FEN(), g.FEN())
	}
	if restored.Config().Mode != game.HumanVsHuman {
		t.Errorf("restored mode = %v", restored.Config().Mode)
	}

	if err := s.ClearGame(); err != nil {
		t.Fatalf("ClearGame: %v", err)
	}
	if _, err := s.LoadGame(); !errors.Is(err, ErrNoSavedGame) {
		t.Errorf("LoadGame after ClearGame: got %v, want ErrNoSavedGame", err)
	}
}

func TestSavedGameFromPosition(t *testing.T) {
	s := openTest(t)

	const fen = "8/P6k/8/8/8/8/8/K7 w - - 0 1"
	g := game.New(game.Config{Mode: game.HumanVsHuman}, nil, game.WithPosition(board.MustParseFEN(fen)))
	if err := g.PlayUCI("a7a8r"); err != nil {
		t.Fatalf("PlayUCI: %v", err)
	}

	if err := s.SaveGame(NewSavedGame(g)); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	sg, err := s.LoadGame()
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if sg.StartFEN != fen {
		t.Errorf("StartFEN = %q, want %q", sg.StartFEN, fen)
	}

	restored, err := sg.Restore(nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got, want := restored.FEN(), g.FEN(); got != want {
		t.Errorf("restored FEN = %q, want %q", got, want)
	}
}

func TestRestoreRejectsBadMoves(t *testing.T) {
	sg := &SavedGame{Moves: []string{"e2e4", "e2e4"}, Mode: game.HumanVsHuman}
	if _, err := sg.Restore(nil); err == nil {
		t.Error("Restore should fail on an illegal move")
	}

	sg = &SavedGame{StartFEN: "not a fen", Mode: game.HumanVsHuman}
	if _, err := sg.Restore(nil); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("Restore with bad FEN: got %v, want ErrInvalidFEN", err)
	}
}

func TestRecentGames(t *testing.T) {
	s := openTest(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, result := range []string{"1-0", "0-1", "1/2-1/2"} {
		a := &ArchivedGame{
			PGN:      "[Result \"" + result + "\"]\n\n" + result,
			Result:   result,
			Mode:     game.HumanVsComputer,
			Plies:    10 + i,
			PlayedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.ArchiveGame(a); err != nil {
			t.Fatalf("ArchiveGame: %v", err)
		}
	}

	recent, err := s.RecentGames(2)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	var got []string
	for _, a := range recent {
		got = append(got, a.Result)
	}
	if diff := cmp.Diff([]string{"1/2-1/2", "0-1"}, got); diff != "" {
		t.Errorf("recent results mismatch (-want +got):\n%s", diff)
	}

	all, err := s.RecentGames(0)
	if err != nil {
		t.Fatalf("RecentGames(0): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("RecentGames(0) returned %d games, want 3", len(all))
	}

	// The archive must not pick up the game in progress.
	if err := s.SaveGame(&SavedGame{Moves: []string{"e2e4"}}); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	all, err = s.RecentGames(0)
	if err != nil {
		t.Fatalf("RecentGames(0): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("RecentGames(0) after SaveGame returned %d games, want 3", len(all))
	}
}

func TestOpenOnDisk(t *testing.T) {
	dbDir, err := DatabaseDirIn(t.TempDir())
	if err != nil {
		t.Fatalf("DatabaseDirIn: %v", err)
	}

	s, err := Open(dbDir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	prefs := DefaultPreferences()
	prefs.Username = "Kemal"
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dbDir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.Username != "Kemal" {
		t.Errorf("Username = %q, want Kemal", got.Username)
	}
}

func TestDataPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	home, err := platformDataHome("linux")
	if err != nil {
		t.Fatalf("platformDataHome: %v", err)
	}
	if home != tmp {
		t.Errorf("platformDataHome(linux) = %q, want %q", home, tmp)
	}

	t.Setenv("APPDATA", filepath.Join(tmp, "roaming"))
	home, err = platformDataHome("windows")
	if err != nil {
		t.Fatalf("platformDataHome: %v", err)
	}
	if home != filepath.Join(tmp, "roaming") {
		t.Errorf("platformDataHome(windows) = %q", home)
	}

	dbDir, err := DatabaseDirIn(tmp)
	if err != nil {
		t.Fatalf("DatabaseDirIn: %v", err)
	}
	if info, err := os.Stat(dbDir); err != nil || !info.IsDir() {
		t.Errorf("database directory %q not created: %v", dbDir, err)
	}
}

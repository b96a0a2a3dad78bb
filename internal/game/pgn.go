package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notnil/chess"

	"github.com/hailam/satranc/internal/board"
	"github.com/hailam/satranc/internal/engine"
)

// UCIMoves returns the history in coordinate form.
func (g *Game) UCIMoves() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.history))
	for i, rec := range g.history {
		out[i] = rec.UCI()
	}
	return out
}

// SANMoves returns the history in Standard Algebraic Notation.
func (g *Game) SANMoves() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.history))
	for i, rec := range g.history {
		out[i] = rec.SAN
	}
	return out
}

// Replay rebuilds a session by playing moves in coordinate form from the
// starting position (or the one given with WithPosition).
func Replay(cfg Config, eng *engine.Engine, moves []string, opts ...Option) (*Game, error) {
	g := New(cfg, eng, opts...)
	for i, s := range moves {
		if err := g.PlayUCI(s); err != nil {
			return nil, fmt.Errorf("replay move %d (%s): %w", i+1, s, err)
		}
	}
	return g, nil
}

// PGN exports the game as PGN. Extra tags are written in name order after
// the ones the PGN standard lists first; the Result tag is always derived
// from the game.
func (g *Game) PGN(tags map[string]string) (string, error) {
	g.mu.RLock()
	startFEN := g.start.FEN()
	moves := make([]string, len(g.history))
	for i, rec := range g.history {
		moves[i] = rec.UCI()
	}
	result := g.result()
	g.mu.RUnlock()

	var opts []func(*chess.Game)
	custom := startFEN != board.StartFEN
	if custom {
		fenOpt, err := chess.FEN(startFEN)
		if err != nil {
			return "", fmt.Errorf("pgn start position: %w", err)
		}
		opts = append(opts, fenOpt)
	}

	// Moves go in as coordinates; the default notation writes them as SAN.
	cg := chess.NewGame(opts...)
	for i, s := range moves {
		mv, err := chess.UCINotation{}.Decode(cg.Position(), s)
		if err != nil {
			return "", fmt.Errorf("pgn move %d (%s): %w", i+1, s, err)
		}
		if err := cg.Move(mv); err != nil {
			return "", fmt.Errorf("pgn move %d (%s): %w", i+1, s, err)
		}
	}

	for _, k := range tagOrder(tags) {
		if k == "Result" {
			continue
		}
		cg.AddTagPair(k, tags[k])
	}
	if custom {
		cg.AddTagPair("SetUp", "1")
		cg.AddTagPair("FEN", startFEN)
	}
	cg.AddTagPair("Result", result.String())

	return strings.TrimSpace(cg.String()) + "\n", nil
}

// sevenTags is the PGN seven tag roster in its required order.
var sevenTags = []string{"Event", "Site", "Date", "Round", "White", "Black"}

func tagOrder(tags map[string]string) []string {
	var keys, rest []string
	for _, k := range sevenTags {
		if _, ok := tags[k]; ok {
			keys = append(keys, k)
		}
	}
	for k := range tags {
		if !isSevenTag(k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func isSevenTag(k string) bool {
	for _, t := range sevenTags {
		if t == k {
			return true
		}
	}
	return false
}

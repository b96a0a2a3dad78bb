package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/hailam/satranc/internal/board"
)

// SearchInfo describes the outcome of one search.
type SearchInfo struct {
	Move   board.Move
	Score  int // From the searching side's point of view
	Depth  int
	Nodes  uint64
	Time   time.Duration
	Mate   int  // Moves to mate, negative when being mated, 0 if none
	Random bool // Move was picked at random instead of searched
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // Plies searched, including the root move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply, sometimes random
	Medium                   // 2 ply
	Hard                     // 3 ply
)

// ErrUnknownDifficulty is returned by ParseDifficulty for unrecognised names.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 1},
	Medium: {Depth: 2},
	Hard:   {Depth: 3},
}

// EasyRandomMoveChance is the probability that Easy plays a uniformly
// random legal move instead of searching.
const EasyRandomMoveChance = 0.3

// String returns the lowercase difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// Limits returns the search limits for d. Unknown values search like Medium.
func (d Difficulty) Limits() SearchLimits {
	if l, ok := DifficultySettings[d]; ok {
		return l
	}
	return DifficultySettings[Medium]
}

// ParseDifficulty parses a difficulty name, ignoring case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// DifficultyForDepth returns the weakest difficulty searching at least
// depth plies, capped at Hard.
func DifficultyForDepth(depth int) Difficulty {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		if DifficultySettings[d].Depth >= depth {
			return d
		}
	}
	return Hard
}

// Engine is the chess AI. Searches hold no state between calls; the only
// shared state is the random source used by Easy, which is locked, so one
// Engine can serve several goroutines.
type Engine struct {
	maxDepth     int
	randomChance float64
	logger       zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the random source used for Easy's random moves.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand sets the random source used for Easy's random moves.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithLogger sets the logger search results are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRandomMoveChance overrides the probability of a random move on Easy.
// Zero makes Easy fully deterministic.
func WithRandomMoveChance(p float64) Option {
	return func(e *Engine) {
		e.randomChance = p
	}
}

// WithMaxDepth sets the depth mate scores are biased against.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// NewEngine creates a new chess engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxDepth:     MaxDepth,
		randomChance: EasyRandomMoveChance,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return e
}

// BestMove picks the move for aiColor on b. ep is the current en passant
// target or board.NoSquare. The second result is false when aiColor has no
// legal move, which the caller treats as the end of the game.
//
// Promotions found by the search are meant to be played as queens.
// b is only read and is not retained.
func (e *Engine) BestMove(b *board.Board, aiColor board.Color, ep board.Square, d Difficulty) (board.Move, bool) {
	info, ok := e.Analyze(b, aiColor, ep, d)
	return info.Move, ok
}

// Analyze is BestMove with search statistics.
func (e *Engine) Analyze(b *board.Board, aiColor board.Color, ep board.Square, d Difficulty) (SearchInfo, bool) {
	start := time.Now()
	limits := d.Limits()

	moves := b.AllLegalMoves(aiColor, ep)
	if len(moves) == 0 {
		e.logger.Debug().Str("color", aiColor.String()).Msg("No legal moves")
		return SearchInfo{Move: board.NoMove}, false
	}

	if d == Easy {
		if m, ok := e.randomMove(moves); ok {
			info := SearchInfo{Move: m, Depth: limits.Depth, Time: time.Since(start), Random: true}
			e.logResult(d, info)
			return info, true
		}
	}

	s := NewSearcher(max(e.maxDepth, limits.Depth))
	bestMove := board.NoMove
	bestScore := -Infinity

	// Root moves keep enumeration order; the first of equal scores wins.
	for _, m := range moves {
		child := b.ApplyMove(m, board.Queen)
		score := s.Search(child, limits.Depth-1, -Infinity, Infinity, false, aiColor)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
	}

	info := SearchInfo{
		Move:  bestMove,
		Score: bestScore,
		Depth: limits.Depth,
		Nodes: s.Nodes(),
		Time:  time.Since(start),
		Mate:  mateIn(bestScore, limits.Depth, s.MaxDepth()),
	}
	e.logResult(d, info)
	return info, true
}

// randomMove draws Easy's random move with probability e.randomChance.
func (e *Engine) randomMove(moves []board.Move) (board.Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rng.Float64() >= e.randomChance {
		return board.NoMove, false
	}
	return moves[e.rng.Intn(len(moves))], true
}

func (e *Engine) logResult(d Difficulty, info SearchInfo) {
	e.logger.Debug().
		Str("difficulty", d.String()).
		Str("move", info.Move.String()).
		Int("depth", info.Depth).
		Int("score", info.Score).
		Uint64("nodes", info.Nodes).
		Bool("random", info.Random).
		Dur("elapsed", info.Time).
		Msg("Search finished")
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(info SearchInfo) string {
	switch {
	case info.Random:
		return "random"
	case info.Mate > 0:
		return "Mate in " + strconv.Itoa(info.Mate)
	case info.Mate < 0:
		return "Mated in " + strconv.Itoa(-info.Mate)
	}

	// Convert centipawns to pawns
	score := info.Score
	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}

// Package game manages a chess game session: turn order, en passant
// state, move history, captured pieces, the two-step promotion protocol
// and the computer opponent.
package game

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hailam/satranc/internal/board"
	"github.com/hailam/satranc/internal/engine"
)

// Session errors
var (
	ErrGameOver           = errors.New("game is over")
	ErrIllegalMove        = board.ErrIllegalMove
	ErrPromotionRequired  = errors.New("promotion piece required")
	ErrPromotionPending   = errors.New("a promotion is pending")
	ErrNoPendingPromotion = errors.New("no promotion is pending")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrNotYourTurn        = errors.New("it is the computer's turn")
	ErrNoAIMove           = errors.New("computer has no move")
	ErrNotAITurn          = errors.New("it is not the computer's turn")
)

// Mode represents the game mode.
type Mode int

const (
	HumanVsHuman Mode = iota
	HumanVsComputer
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case HumanVsHuman:
		return "human-vs-human"
	case HumanVsComputer:
		return "human-vs-computer"
	default:
		return "unknown"
	}
}

// Config describes how a session is set up.
type Config struct {
	Mode       Mode
	AIColor    board.Color // Only used in HumanVsComputer
	Difficulty engine.Difficulty
}

// DefaultConfig is a game against the computer playing Black on Medium.
func DefaultConfig() Config {
	return Config{Mode: HumanVsComputer, AIColor: board.Black, Difficulty: engine.Medium}
}

// MoveRecord is one played move as stored in the history.
type MoveRecord struct {
	Move      board.Move
	Color     board.Color
	Piece     board.PieceType
	Captured  board.PieceType // NoPieceType if nothing was taken
	Promotion board.PieceType // NoPieceType unless the move promoted
	SAN       string
}

// UCI returns the coordinate form of the move, promotion letter included.
func (r MoveRecord) UCI() string {
	return r.Move.UCI(r.Promotion)
}

// Result is the outcome of a finished game.
type Result int

const (
	InProgress Result = iota
	WhiteWins
	BlackWins
	Draw
)

// String returns the PGN result token.
func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Game is a chess game session. It is safe for concurrent use so the
// computer can search in the background while the caller keeps reading.
type Game struct {
	cfg    Config
	eng    *engine.Engine
	logger zerolog.Logger

	mu      sync.RWMutex
	start   *board.Position
	pos     *board.Position
	status  board.Status
	history []MoveRecord
	pending *board.Move
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithPosition starts the game from pos instead of the initial setup.
func WithPosition(pos *board.Position) Option {
	return func(g *Game) {
		g.start = pos
	}
}

// New creates a session. eng may be nil for HumanVsHuman games.
func New(cfg Config, eng *engine.Engine, opts ...Option) *Game {
	g := &Game{
		cfg:    cfg,
		eng:    eng,
		logger: zerolog.Nop(),
		start:  board.NewPosition(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.eng == nil && cfg.Mode == HumanVsComputer {
		g.eng = engine.NewEngine(engine.WithLogger(g.logger))
	}
	g.reset()
	return g
}

func (g *Game) reset() {
	g.pos = g.start
	g.status = g.pos.Status()
	g.history = nil
	g.pending = nil
}

// Reset restarts the game from its starting position.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	g.logger.Debug().Msg("Game reset")
}

// Config returns the session configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// SetDifficulty changes the computer's strength for the following moves.
func (g *Game) SetDifficulty(d engine.Difficulty) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cfg.Difficulty = d
}

// Board returns a copy of the current board.
func (g *Game) Board() *board.Board {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pos.Board.Copy()
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p := *g.pos
	p.Board = g.pos.Board.Copy()
	return &p
}

// FEN returns the FEN of the current position.
func (g *Game) FEN() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pos.FEN()
}

// StartFEN returns the FEN of the position the game started from.
func (g *Game) StartFEN() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.start.FEN()
}

// Turn returns the color to move.
func (g *Game) Turn() board.Color {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pos.SideToMove
}

// EnPassant returns the current en passant target or board.NoSquare.
func (g *Game) EnPassant() board.Square {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pos.EnPassant
}

// Status returns the status of the side to move.
func (g *Game) Status() board.Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status
}

// IsOver returns true once the game ended in checkmate or stalemate.
func (g *Game) IsOver() bool {
	return g.Status().IsOver()
}

// Winner returns the color that delivered checkmate. The second result
// is false while the game is running and after a stalemate.
func (g *Game) Winner() (board.Color, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.status != board.Checkmate {
		return board.NoColor, false
	}
	return g.pos.SideToMove.Other(), true
}

// Result returns the game result.
func (g *Game) Result() Result {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.result()
}

func (g *Game) result() Result {
	switch g.status {
	case board.Checkmate:
		if g.pos.SideToMove == board.White {
			return BlackWins
		}
		return WhiteWins
	case board.Stalemate:
		return Draw
	}
	return InProgress
}

// IsAITurn reports whether the computer is to move.
func (g *Game) IsAITurn() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isAITurn()
}

func (g *Game) isAITurn() bool {
	return g.cfg.Mode == HumanVsComputer && g.pos.SideToMove == g.cfg.AIColor
}

// History returns the moves played so far.
func (g *Game) History() []MoveRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]MoveRecord, len(g.history))
	copy(out, g.history)
	return out
}

// LastMove returns the most recent move, or false before the first move.
func (g *Game) LastMove() (MoveRecord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.history) == 0 {
		return MoveRecord{}, false
	}
	return g.history[len(g.history)-1], true
}

// capturedOrder is the order captured pieces are listed in.
var capturedOrder = []board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen}

// Captured returns the pieces of color c no longer on the board compared
// with the starting position, weakest first. Counts are compared per piece
// type, so a promoted pawn is listed as missing too.
func (g *Game) Captured(c board.Color) []board.PieceType {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []board.PieceType
	for _, pt := range capturedOrder {
		for n := g.start.Board.Count(pt, c) - g.pos.Board.Count(pt, c); n > 0; n-- {
			out = append(out, pt)
		}
	}
	return out
}

// LegalMovesFrom returns the legal moves of the piece on sq if it belongs
// to the side to move. It returns nil when the game is over or a promotion
// is pending.
func (g *Game) LegalMovesFrom(sq board.Square) []board.Move {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.status.IsOver() || g.pending != nil || !sq.Valid() {
		return nil
	}
	if p := g.pos.Board.At(sq); p.IsEmpty() || p.Color != g.pos.SideToMove {
		return nil
	}
	return g.pos.Board.LegalMoves(sq, g.pos.EnPassant)
}

// PendingPromotion returns the pawn move waiting for a promotion piece.
func (g *Game) PendingPromotion() (board.Move, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.pending == nil {
		return board.NoMove, false
	}
	return *g.pending, true
}

package game

import (
	"fmt"

	"github.com/hailam/satranc/internal/board"
)

// Play makes a human move. Only From and To of m are read; the legal move
// with the same squares is looked up. A pawn move onto the last row is not
// played yet: it is stored as pending and ErrPromotionRequired is returned
// until Promote or CancelPromotion is called.
func (g *Game) Play(m board.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	legal, err := g.checkHumanMove(m)
	if err != nil {
		return err
	}

	if g.pos.Board.IsPromotion(legal) {
		g.pending = &legal
		return ErrPromotionRequired
	}

	g.apply(legal, board.NoPieceType)
	return nil
}

// Promote completes the pending promotion with pt.
func (g *Game) Promote(pt board.PieceType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return ErrNoPendingPromotion
	}
	if !isPromotionPiece(pt) {
		return fmt.Errorf("%w: %v", ErrInvalidPromotion, pt)
	}

	m := *g.pending
	g.pending = nil
	g.apply(m, pt)
	return nil
}

// CancelPromotion drops the pending promotion; the board is unchanged.
func (g *Game) CancelPromotion() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

// PlayPromotion makes a human move and, if it promotes, promotes to pt
// in the same call. NoPieceType promotes to a queen.
func (g *Game) PlayPromotion(m board.Move, pt board.PieceType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	legal, err := g.checkHumanMove(m)
	if err != nil {
		return err
	}
	return g.applyWithPromotion(legal, pt)
}

// PlayUCI makes a move given in coordinate form ("e2e4", "e7e8n") for the
// side to move, ignoring whose turn the computer would have. It is meant
// for replaying recorded games and protocol input.
func (g *Game) PlayUCI(s string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status.IsOver() {
		return ErrGameOver
	}
	if g.pending != nil {
		return ErrPromotionPending
	}

	m, promo, err := board.ParseMove(s, g.pos.Board, g.pos.EnPassant)
	if err != nil {
		return err
	}
	if p := g.pos.Board.At(m.From); p.Color != g.pos.SideToMove {
		return fmt.Errorf("%s moves a %v piece on %v's turn: %w", s, p.Color, g.pos.SideToMove, ErrIllegalMove)
	}
	g.apply(m, promo)
	return nil
}

// checkHumanMove validates a move requested by a human player and returns
// the matching legal move.
func (g *Game) checkHumanMove(m board.Move) (board.Move, error) {
	switch {
	case g.status.IsOver():
		return board.NoMove, ErrGameOver
	case g.pending != nil:
		return board.NoMove, ErrPromotionPending
	case g.isAITurn():
		return board.NoMove, ErrNotYourTurn
	}
	return g.findLegal(m)
}

// findLegal resolves m by its squares against the legal moves of the side
// to move.
func (g *Game) findLegal(m board.Move) (board.Move, error) {
	if !m.From.Valid() || !m.To.Valid() {
		return board.NoMove, fmt.Errorf("%v: %w", m, ErrIllegalMove)
	}
	if p := g.pos.Board.At(m.From); p.IsEmpty() || p.Color != g.pos.SideToMove {
		return board.NoMove, fmt.Errorf("%v: no %v piece on %v: %w", m, g.pos.SideToMove, m.From, ErrIllegalMove)
	}
	for _, legal := range g.pos.Board.LegalMoves(m.From, g.pos.EnPassant) {
		if legal.To == m.To {
			return legal, nil
		}
	}
	return board.NoMove, fmt.Errorf("%v: %w", m, ErrIllegalMove)
}

func (g *Game) applyWithPromotion(m board.Move, pt board.PieceType) error {
	if !g.pos.Board.IsPromotion(m) {
		g.apply(m, board.NoPieceType)
		return nil
	}
	if pt == board.NoPieceType {
		pt = board.Queen
	}
	if !isPromotionPiece(pt) {
		return fmt.Errorf("%w: %v", ErrInvalidPromotion, pt)
	}
	g.apply(m, pt)
	return nil
}

// apply plays a legal move and updates history and status.
func (g *Game) apply(m board.Move, promo board.PieceType) {
	b := g.pos.Board
	mover := b.At(m.From)

	rec := MoveRecord{
		Move:     m,
		Color:    mover.Color,
		Piece:    mover.Type,
		Captured: b.At(m.To).Type,
		SAN:      b.SAN(m, promo),
	}
	if m.EnPassant {
		rec.Captured = board.Pawn
	}
	if b.IsPromotion(m) {
		if promo == board.NoPieceType {
			promo = board.Queen
		}
		rec.Promotion = promo
	}

	g.pos = g.pos.Play(m, promo)
	g.status = g.pos.Status()
	g.history = append(g.history, rec)

	g.logger.Debug().
		Str("move", rec.UCI()).
		Str("san", rec.SAN).
		Str("color", rec.Color.String()).
		Str("status", g.status.String()).
		Msg("Move played")

	if g.status.IsOver() {
		g.logger.Info().Str("result", g.result().String()).Str("status", g.status.String()).Msg("Game over")
	}
}

func isPromotionPiece(pt board.PieceType) bool {
	for _, p := range board.PromotionTypes {
		if p == pt {
			return true
		}
	}
	return false
}

package game

import (
	"context"
	"fmt"

	"github.com/hailam/satranc/internal/board"
	"github.com/hailam/satranc/internal/engine"
)

type aiResult struct {
	info engine.SearchInfo
	ok   bool
}

// AIMove asks the engine for the computer's move without playing it.
// The search runs on a copy of the board in its own goroutine; if ctx ends
// first, ctx.Err() is returned and the search result is discarded when it
// arrives. ErrNoAIMove means the computer has no legal move.
func (g *Game) AIMove(ctx context.Context) (engine.SearchInfo, error) {
	if err := ctx.Err(); err != nil {
		return engine.SearchInfo{}, err
	}

	g.mu.RLock()
	if g.status.IsOver() {
		g.mu.RUnlock()
		return engine.SearchInfo{}, ErrGameOver
	}
	if !g.isAITurn() {
		g.mu.RUnlock()
		return engine.SearchInfo{}, ErrNotAITurn
	}
	b := g.pos.Board.Copy()
	color, ep, d := g.pos.SideToMove, g.pos.EnPassant, g.cfg.Difficulty
	g.mu.RUnlock()

	done := make(chan aiResult, 1)
	go func() {
		info, ok := g.eng.Analyze(b, color, ep, d)
		done <- aiResult{info: info, ok: ok}
	}()

	select {
	case <-ctx.Done():
		g.logger.Debug().Err(ctx.Err()).Msg("Computer move abandoned")
		return engine.SearchInfo{}, ctx.Err()
	case r := <-done:
		if !r.ok {
			return engine.SearchInfo{}, ErrNoAIMove
		}
		return r.info, nil
	}
}

// PlayAIMove plays a move found by AIMove. Promotions become queens.
// The move is checked against the current position, so a result computed
// for an earlier position is rejected.
func (g *Game) PlayAIMove(m board.Move) (MoveRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status.IsOver() {
		return MoveRecord{}, ErrGameOver
	}
	if g.pending != nil {
		return MoveRecord{}, ErrPromotionPending
	}
	if !g.isAITurn() {
		return MoveRecord{}, ErrNotAITurn
	}

	legal, err := g.findLegal(m)
	if err != nil {
		return MoveRecord{}, fmt.Errorf("computer move: %w", err)
	}
	g.apply(legal, board.Queen)
	return g.history[len(g.history)-1], nil
}

// PlayAI searches and plays the computer's move.
func (g *Game) PlayAI(ctx context.Context) (MoveRecord, error) {
	info, err := g.AIMove(ctx)
	if err != nil {
		return MoveRecord{}, err
	}
	return g.PlayAIMove(info.Move)
}

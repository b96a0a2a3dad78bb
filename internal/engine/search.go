package engine

import (
	"github.com/hailam/satranc/internal/board"
)

// Search constants
const (
	Infinity  = 1 << 30
	MateScore = 100000
	// MaxDepth is the deepest search the difficulty table asks for. Mate
	// scores are biased relative to it so shallower mates score higher.
	MaxDepth = 3
)

// Searcher runs the minimax recursion and counts visited nodes.
// A Searcher is not safe for concurrent use; create one per search.
type Searcher struct {
	maxDepth int
	nodes    uint64
}

// NewSearcher creates a searcher whose mate scores are biased for
// searches of at most maxDepth plies. Values below 1 select MaxDepth.
func NewSearcher(maxDepth int) *Searcher {
	if maxDepth < 1 {
		maxDepth = MaxDepth
	}
	return &Searcher{maxDepth: maxDepth}
}

// Nodes returns the number of nodes searched since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Reset clears the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// MaxDepth returns the depth mate scores are biased against.
func (s *Searcher) MaxDepth() int {
	return s.maxDepth
}

// Search is the package-level minimax entry point with the default
// MaxDepth mate bias. See (*Searcher).Search.
func Search(b *board.Board, depth, alpha, beta int, maximizing bool, rootColor board.Color) int {
	return NewSearcher(MaxDepth).Search(b, depth, alpha, beta, maximizing, rootColor)
}

// Search scores b with minimax and alpha-beta pruning. The side to move is
// rootColor when maximizing, its opponent otherwise. Scores are always from
// rootColor's point of view.
//
// Terminal positions are checked before the depth: a mated maximizing side
// scores -(MateScore-(maxDepth-depth)), a mated minimizing side the
// negation, stalemate 0. En passant is not tracked below the root.
func (s *Searcher) Search(b *board.Board, depth, alpha, beta int, maximizing bool, rootColor board.Color) int {
	s.nodes++

	side := rootColor
	if !maximizing {
		side = rootColor.Other()
	}

	moves := b.AllLegalMoves(side, board.NoSquare)
	if len(moves) == 0 {
		if !b.IsInCheck(side) {
			return 0
		}
		if maximizing {
			return -s.mateScore(depth)
		}
		return s.mateScore(depth)
	}

	if depth == 0 {
		return Evaluate(b, rootColor)
	}

	moves = orderCaptures(b, moves)

	if maximizing {
		best := -Infinity
		for _, m := range moves {
			score := s.Search(b.ApplyMove(m, board.Queen), depth-1, alpha, beta, false, rootColor)
			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := Infinity
	for _, m := range moves {
		score := s.Search(b.ApplyMove(m, board.Queen), depth-1, alpha, beta, true, rootColor)
		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}

// mateScore is the magnitude of a mate found with depth plies remaining.
func (s *Searcher) mateScore(depth int) int {
	return MateScore - (s.maxDepth - depth)
}

// orderCaptures moves captures ahead of quiet moves, keeping the relative
// order within each group. A move counts as a capture when its destination
// is occupied; en passant is ordered with the quiet moves.
func orderCaptures(b *board.Board, moves []board.Move) []board.Move {
	ordered := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if !b.IsEmpty(m.To) {
			ordered = append(ordered, m)
		}
	}
	for _, m := range moves {
		if b.IsEmpty(m.To) {
			ordered = append(ordered, m)
		}
	}
	return ordered
}

// IsMateScore reports whether score comes from a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-100 || score < -MateScore+100
}

// mateIn converts a mate score from a search of rootDepth plies into full
// moves: positive when rootColor mates, negative when it is mated, 0 for
// any other score.
func mateIn(score, rootDepth, maxDepth int) int {
	if !IsMateScore(score) {
		return 0
	}
	abs := score
	if abs < 0 {
		abs = -abs
	}
	// Remaining depth at the mated node, then plies from the root.
	remaining := maxDepth - (MateScore - abs)
	plies := rootDepth - remaining
	moves := (plies + 1) / 2
	if score < 0 {
		return -moves
	}
	return moves
}

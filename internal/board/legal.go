package board

// Status is the state of the game for the side to move.
type Status uint8

const (
	Playing Status = iota
	Check
	Checkmate
	Stalemate
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// IsOver returns true for checkmate and stalemate.
func (s Status) IsOver() bool {
	return s == Checkmate || s == Stalemate
}

// LegalMoves returns the moves of the piece on sq that do not leave its own
// king in check. Castling is additionally refused when the king is in check
// now or when the square it passes through is attacked. Landing on an
// attacked square is caught by the post-move check test.
func (b *Board) LegalMoves(sq Square, ep Square) []Move {
	p := b.At(sq)
	if p.IsEmpty() {
		return nil
	}

	pseudo := b.PseudoLegalMoves(sq, ep)
	legal := pseudo[:0]

	// Computed lazily, only castling needs it.
	inCheck, inCheckKnown := false, false

	for _, m := range pseudo {
		if b.ApplyMove(m, NoPieceType).IsInCheck(p.Color) {
			continue
		}

		if m.IsCastling() {
			if !inCheckKnown {
				inCheck = b.IsInCheck(p.Color)
				inCheckKnown = true
			}
			if inCheck {
				continue
			}

			passCol := 3
			if m.Castling == KingSide {
				passCol = 5
			}
			if b.IsSquareAttacked(Square{Row: sq.Row, Col: passCol}, p.Color.Other()) {
				continue
			}
		}

		legal = append(legal, m)
	}

	return legal
}

// AllLegalMoves returns the legal moves of every piece of color c, scanning
// the board in row-major order. The order is stable and is the enumeration
// order the search relies on for tie-breaking.
func (b *Board) AllLegalMoves(c Color, ep Square) []Move {
	var moves []Move
	b.ForEach(func(sq Square, p Piece) {
		if p.Color == c {
			moves = append(moves, b.LegalMoves(sq, ep)...)
		}
	})
	return moves
}

// HasLegalMoves reports whether color c has at least one legal move.
func (b *Board) HasLegalMoves(c Color, ep Square) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.squares[row][col]
			if p.IsEmpty() || p.Color != c {
				continue
			}
			if len(b.LegalMoves(Square{Row: row, Col: col}, ep)) > 0 {
				return true
			}
		}
	}
	return false
}

// Status classifies the position for side, the color to move.
func (b *Board) Status(side Color, ep Square) Status {
	inCheck := b.IsInCheck(side)

	if !b.HasLegalMoves(side, ep) {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}

	if inCheck {
		return Check
	}
	return Playing
}

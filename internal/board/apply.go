package board

// ApplyMove returns a new board with m played. The receiver is never
// modified. The mover lands with HasMoved set; an en passant victim is
// removed; a castling rook is relocated and marked moved; a pawn reaching
// its last row becomes promotion (Queen when promotion is NoPieceType).
//
// m must come from LegalMoves on this board; other input is not checked.
func (b *Board) ApplyMove(m Move, promotion PieceType) *Board {
	nb := b.Copy()

	piece := nb.At(m.From)
	piece.HasMoved = true

	if m.EnPassant {
		// The captured pawn sits beside the mover, one row behind the destination.
		nb.Remove(m.To.Offset(-piece.Color.PawnDirection(), 0))
	}

	switch m.Castling {
	case KingSide:
		nb.relocateRook(m.From.Row, 7, 5)
	case QueenSide:
		nb.relocateRook(m.From.Row, 0, 3)
	}

	if piece.Type == Pawn && (m.To.Row == 0 || m.To.Row == Size-1) {
		if promotion == NoPieceType {
			promotion = Queen
		}
		piece.Type = promotion
	}

	nb.Remove(m.From)
	nb.Put(m.To, piece)

	return nb
}

// relocateRook moves the castling rook along row and marks it moved.
func (b *Board) relocateRook(row, fromCol, toCol int) {
	rook := b.squares[row][fromCol]
	rook.HasMoved = true
	b.squares[row][fromCol] = NoPiece
	b.squares[row][toCol] = rook
}

// IsPromotion reports whether m is a pawn move onto the last row.
// Callers use it to ask for the promotion piece before ApplyMove.
func (b *Board) IsPromotion(m Move) bool {
	if !m.From.Valid() || !m.To.Valid() {
		return false
	}
	p := b.At(m.From)
	return p.Type == Pawn && m.To.Row == p.Color.PromotionRow()
}

// IsCapture reports whether m removes an enemy piece.
func (b *Board) IsCapture(m Move) bool {
	return m.EnPassant || !b.IsEmpty(m.To)
}

// NextEnPassant returns the en passant target created by playing m on b:
// the square skipped by a two-row pawn advance, or NoSquare for any other
// move. It must be called on the board before m is applied.
func (b *Board) NextEnPassant(m Move) Square {
	p := b.At(m.From)
	if p.Type != Pawn {
		return NoSquare
	}
	if d := m.To.Row - m.From.Row; d != 2 && d != -2 {
		return NoSquare
	}
	return Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
}

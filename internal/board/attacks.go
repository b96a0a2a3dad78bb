package board

// IsSquareAttacked reports whether any piece of color by attacks sq.
// Pawns attack diagonally forward whether or not the square is occupied;
// pawn pushes and castling never attack. En passant is ignored since it
// can never capture a king.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	// Pawns: look one row back from sq along the attacker's direction.
	dir := by.PawnDirection()
	for _, dc := range [2]int{-1, 1} {
		from := sq.Offset(-dir, dc)
		if from.Valid() && b.At(from).Is(Pawn, by) {
			return true
		}
	}

	for _, d := range knightOffsets {
		from := sq.Offset(d[0], d[1])
		if from.Valid() && b.At(from).Is(Knight, by) {
			return true
		}
	}

	for _, d := range kingDirections {
		from := sq.Offset(d[0], d[1])
		if from.Valid() && b.At(from).Is(King, by) {
			return true
		}
	}

	if b.rayAttacked(sq, by, rookDirections[:], Rook) {
		return true
	}
	return b.rayAttacked(sq, by, bishopDirections[:], Bishop)
}

// rayAttacked walks each direction from sq to the first occupied square and
// reports whether it holds a slider of color by (the given type or a queen).
func (b *Board) rayAttacked(sq Square, by Color, dirs [][2]int, slider PieceType) bool {
	for _, d := range dirs {
		from := sq.Offset(d[0], d[1])
		for from.Valid() {
			p := b.At(from)
			if !p.IsEmpty() {
				if p.Color == by && (p.Type == slider || p.Type == Queen) {
					return true
				}
				break
			}
			from = from.Offset(d[0], d[1])
		}
	}
	return false
}

// FindKing locates the king of color c.
// The second result is false if the board has no such king.
func (b *Board) FindKing(c Color) (Square, bool) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.squares[row][col].Is(King, c) {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return NoSquare, false
}

// IsInCheck reports whether the king of color c is attacked.
// A board without that king is a caller error and reports false.
func (b *Board) IsInCheck(c Color) bool {
	ksq, ok := b.FindKing(c)
	if !ok {
		return false
	}
	return b.IsSquareAttacked(ksq, c.Other())
}

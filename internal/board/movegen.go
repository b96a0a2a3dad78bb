package board

// Direction sets for the sliding pieces and the fixed-step pieces.
var (
	knightOffsets = [8][2]int{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	bishopDirections = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookDirections   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	kingDirections   = [8][2]int{
		{0, 1}, {0, -1}, {1, 0}, {-1, 0},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
)

// PseudoLegalMoves returns every geometrically valid move of the piece on
// sq, without checking whether it leaves the mover's king in check.
// ep is the en passant target square for this ply, or NoSquare.
func (b *Board) PseudoLegalMoves(sq Square, ep Square) []Move {
	p := b.At(sq)
	if p.IsEmpty() {
		return nil
	}

	moves := make([]Move, 0, 16)

	switch p.Type {
	case Pawn:
		moves = b.genPawnMoves(moves, sq, p.Color, ep)
	case Knight:
		moves = b.genStepMoves(moves, sq, p.Color, knightOffsets[:])
	case Bishop:
		moves = b.genSlidingMoves(moves, sq, p.Color, bishopDirections[:])
	case Rook:
		moves = b.genSlidingMoves(moves, sq, p.Color, rookDirections[:])
	case Queen:
		moves = b.genSlidingMoves(moves, sq, p.Color, rookDirections[:])
		moves = b.genSlidingMoves(moves, sq, p.Color, bishopDirections[:])
	case King:
		moves = b.genStepMoves(moves, sq, p.Color, kingDirections[:])
		moves = b.genCastlingMoves(moves, sq, p)
	}

	return moves
}

// genPawnMoves generates pushes, double pushes, captures and en passant.
func (b *Board) genPawnMoves(moves []Move, from Square, us Color, ep Square) []Move {
	dir := us.PawnDirection()

	// Single push, then double push from the starting row
	one := from.Offset(dir, 0)
	if one.Valid() && b.IsEmpty(one) {
		moves = append(moves, Move{From: from, To: one})

		two := from.Offset(2*dir, 0)
		if from.Row == us.PawnRow() && two.Valid() && b.IsEmpty(two) {
			moves = append(moves, Move{From: from, To: two})
		}
	}

	// Diagonal captures
	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.Valid() {
			continue
		}
		target := b.At(to)
		if !target.IsEmpty() && target.Color != us {
			moves = append(moves, Move{From: from, To: to})
		}
		if to == ep && target.IsEmpty() && b.At(to.Offset(-dir, 0)).Is(Pawn, us.Other()) {
			moves = append(moves, Move{From: from, To: to, EnPassant: true})
		}
	}

	return moves
}

// genStepMoves generates single-step moves (knight and king).
func (b *Board) genStepMoves(moves []Move, from Square, us Color, offsets [][2]int) []Move {
	for _, d := range offsets {
		to := from.Offset(d[0], d[1])
		if !to.Valid() {
			continue
		}
		target := b.At(to)
		if target.IsEmpty() || target.Color != us {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

// genSlidingMoves casts rays until the board edge, an own piece (excluded)
// or an enemy piece (included).
func (b *Board) genSlidingMoves(moves []Move, from Square, us Color, dirs [][2]int) []Move {
	for _, d := range dirs {
		to := from.Offset(d[0], d[1])
		for to.Valid() {
			target := b.At(to)
			if target.IsEmpty() {
				moves = append(moves, Move{From: from, To: to})
			} else {
				if target.Color != us {
					moves = append(moves, Move{From: from, To: to})
				}
				break
			}
			to = to.Offset(d[0], d[1])
		}
	}
	return moves
}

// genCastlingMoves adds castling when the king and the matching corner rook
// are both unmoved and every square strictly between them is empty.
// Attack conditions are left to the legality filter.
func (b *Board) genCastlingMoves(moves []Move, from Square, king Piece) []Move {
	if king.HasMoved || from != (Square{Row: king.Color.HomeRow(), Col: 4}) {
		return moves
	}

	row := from.Row

	// Kingside: rook on column 7, squares between are columns from+1..6
	if rook := b.At(Square{Row: row, Col: 7}); rook.Is(Rook, king.Color) && !rook.HasMoved {
		if b.rowEmpty(row, from.Col+1, 6) {
			moves = append(moves, Move{From: from, To: Square{Row: row, Col: 6}, Castling: KingSide})
		}
	}

	// Queenside: rook on column 0, squares between are columns 1..from-1
	if rook := b.At(Square{Row: row, Col: 0}); rook.Is(Rook, king.Color) && !rook.HasMoved {
		if b.rowEmpty(row, 1, from.Col-1) {
			moves = append(moves, Move{From: from, To: Square{Row: row, Col: 2}, Castling: QueenSide})
		}
	}

	return moves
}

// rowEmpty reports whether columns lo..hi (inclusive) of row are all empty.
func (b *Board) rowEmpty(row, lo, hi int) bool {
	for col := lo; col <= hi; col++ {
		if !b.squares[row][col].IsEmpty() {
			return false
		}
	}
	return true
}

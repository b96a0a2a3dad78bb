package board

import (
	"fmt"
	"strings"
)

// Board is the fixed 8x8 grid of pieces, indexed [row][col].
// Boards are treated as values: every move application produces a new
// Board and never touches the receiver.
type Board struct {
	squares [Size][Size]Piece
}

// backRank is the order of the pieces on both home rows.
var backRank = [Size]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitialBoard creates the standard starting position with no piece moved.
func InitialBoard() *Board {
	b := &Board{}
	for col := 0; col < Size; col++ {
		b.squares[0][col] = NewPiece(backRank[col], Black)
		b.squares[1][col] = NewPiece(Pawn, Black)
		b.squares[6][col] = NewPiece(Pawn, White)
		b.squares[7][col] = NewPiece(backRank[col], White)
	}
	return b
}

// NewEmptyBoard creates a board with no pieces.
func NewEmptyBoard() *Board {
	return &Board{}
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// At returns the piece on sq, or NoPiece if the square is empty.
func (b *Board) At(sq Square) Piece {
	return b.squares[sq.Row][sq.Col]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(sq Square) bool {
	return b.squares[sq.Row][sq.Col].IsEmpty()
}

// Put places p on sq. It is meant for building positions (tests, FEN
// parsing); game play goes through ApplyMove.
func (b *Board) Put(sq Square, p Piece) {
	b.squares[sq.Row][sq.Col] = p
}

// Remove clears sq.
func (b *Board) Remove(sq Square) {
	b.squares[sq.Row][sq.Col] = NoPiece
}

// ForEach calls fn for every occupied square in row-major order.
func (b *Board) ForEach(fn func(sq Square, p Piece)) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; !p.IsEmpty() {
				fn(Square{Row: row, Col: col}, p)
			}
		}
	}
}

// Count returns the number of pieces of the given type and color.
func (b *Board) Count(pt PieceType, c Color) int {
	n := 0
	b.ForEach(func(_ Square, p Piece) {
		if p.Is(pt, c) {
			n++
		}
	})
	return n
}

// String returns a visual representation of the board, White at the bottom.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < Size; row++ {
		fmt.Fprintf(&sb, "%d  ", Size-row)
		for col := 0; col < Size; col++ {
			p := b.squares[row][col]
			if p.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}

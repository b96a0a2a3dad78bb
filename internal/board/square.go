// Package board implements the chess board representation and the rules
// of the game: move generation, legality, move application and game status.
package board

import "fmt"

// Size is the number of rows and columns on the board.
const Size = 8

// Square addresses one cell of the board.
// Row 0 is Black's back rank (rank 8), row 7 is White's (rank 1);
// column 0 is the a-file.
type Square struct {
	Row, Col int
}

// NoSquare marks an absent square, e.g. no en passant target.
var NoSquare = Square{Row: -1, Col: -1}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// InBounds reports whether row and col address a square of the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// Valid returns true if the square is on the board.
func (sq Square) Valid() bool {
	return InBounds(sq.Row, sq.Col)
}

// File returns the file letter of the square ('a'-'h').
func (sq Square) File() byte {
	return byte('a' + sq.Col)
}

// Rank returns the rank digit of the square ('1'-'8').
func (sq Square) Rank() byte {
	return byte('8' - sq.Row)
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{sq.File(), sq.Rank()})
}

// Offset returns the square shifted by dr rows and dc columns.
// The result may be off the board.
func (sq Square) Offset(dr, dc int) Square {
	return Square{Row: sq.Row + dr, Col: sq.Col + dc}
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	col := int(s[0]) - 'a'
	row := '8' - int(s[1])

	if !InBounds(row, col) {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return Square{Row: row, Col: col}, nil
}

// MustSquare parses a square and panics on malformed input.
// Intended for literals in tests and tables.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

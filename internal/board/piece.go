package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PawnDirection returns the row delta of a forward pawn step.
// White advances toward row 0, Black toward row 7.
func (c Color) PawnDirection() int {
	if c == White {
		return -1
	}
	return 1
}

// HomeRow returns the back-rank row of the color.
func (c Color) HomeRow() int {
	if c == White {
		return 7
	}
	return 0
}

// PawnRow returns the row the color's pawns start on.
func (c Color) PawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

// PromotionRow returns the row on which the color's pawns promote.
func (c Color) PromotionRow() int {
	if c == White {
		return 0
	}
	return 7
}

// PieceType represents the type of a chess piece.
// The zero value is NoPieceType so that a zero Piece is an empty square.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}
	if pt > King {
		return ' '
	}
	return chars[pt]
}

// ParsePieceType converts a piece letter (either case) to a PieceType.
func ParsePieceType(c byte) PieceType {
	switch c {
	case 'p', 'P':
		return Pawn
	case 'n', 'N':
		return Knight
	case 'b', 'B':
		return Bishop
	case 'r', 'R':
		return Rook
	case 'q', 'Q':
		return Queen
	case 'k', 'K':
		return King
	default:
		return NoPieceType
	}
}

// PromotionTypes lists the piece types a pawn may promote to, strongest first.
var PromotionTypes = []PieceType{Queen, Rook, Bishop, Knight}

// Piece is the content of one occupied square. HasMoved is only read by
// castling eligibility; it is set whenever the piece is moved, including a
// rook relocated by castling.
type Piece struct {
	Type     PieceType
	Color    Color
	HasMoved bool
}

// NoPiece is the empty square.
var NoPiece = Piece{}

// NewPiece creates an unmoved piece.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece{Type: pt, Color: c}
}

// IsEmpty reports whether the square holding p is empty.
func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Is reports whether p is a piece of the given type and color.
func (p Piece) Is(pt PieceType, c Color) bool {
	return p.Type == pt && p.Color == c
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p.IsEmpty() {
		return " "
	}
	ch := p.Type.Char()
	if p.Color == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// PieceFromChar converts a FEN character to an unmoved Piece.
func PieceFromChar(c byte) Piece {
	pt := ParsePieceType(c)
	if pt == NoPieceType {
		return NoPiece
	}
	if c >= 'A' && c <= 'Z' {
		return NewPiece(pt, White)
	}
	return NewPiece(pt, Black)
}

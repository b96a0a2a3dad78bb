package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is returned for malformed FEN strings and impossible positions.
var ErrInvalidFEN = errors.New("invalid FEN")

// Position bundles a board with the state a FEN string carries next to it.
// The rules engine itself is stateless; Position exists for import/export
// and for collaborators that start games from arbitrary setups.
type Position struct {
	Board          *Board
	SideToMove     Color
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	return &Position{
		Board:          InitialBoard(),
		SideToMove:     White,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
}

// ParseFEN parses a FEN string and returns a Position.
// Castling rights are expressed through HasMoved: a king or corner rook is
// unmoved exactly when some castling right still needs it.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	pos := &Position{
		Board:          NewEmptyBoard(),
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos.Board, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	// Parse castling rights (field 2)
	if err := applyCastlingRights(pos.Board, parts[2]); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil || (sq.Row != 2 && sq.Row != 5) {
			return nil, fmt.Errorf("%w: invalid en passant square: %s", ErrInvalidFEN, parts[3])
		}
		pos.EnPassant = sq
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid half-move clock: %s", ErrInvalidFEN, parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid full-move number: %s", ErrInvalidFEN, parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	if err := pos.Board.Validate(); err != nil {
		return nil, err
	}

	return pos, nil
}

// MustParseFEN is ParseFEN for literals; it panics on error.
func MustParseFEN(fen string) *Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != Size {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	// FEN starts from rank 8, which is row 0.
	for row, rankStr := range ranks {
		col := 0

		for _, c := range rankStr {
			if col > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, Size-row)
			}

			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece.IsEmpty() {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
			}
			// Everything starts as moved; castling rights clear the flag below.
			piece.HasMoved = piece.Type == King || piece.Type == Rook ||
				(piece.Type == Pawn && row != piece.Color.PawnRow())
			b.squares[row][col] = piece
			col++
		}

		if col != Size {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, Size-row, col)
		}
	}

	return nil
}

// applyCastlingRights marks the king and rook unmoved for every right listed.
func applyCastlingRights(b *Board, castling string) error {
	if castling == "-" {
		return nil
	}

	for _, c := range castling {
		var color Color
		var rookCol int
		switch c {
		case 'K':
			color, rookCol = White, 7
		case 'Q':
			color, rookCol = White, 0
		case 'k':
			color, rookCol = Black, 7
		case 'q':
			color, rookCol = Black, 0
		default:
			return fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, c)
		}

		row := color.HomeRow()
		king := &b.squares[row][4]
		rook := &b.squares[row][rookCol]
		if !king.Is(King, color) || !rook.Is(Rook, color) {
			return fmt.Errorf("%w: castling right %c without king and rook in place", ErrInvalidFEN, c)
		}
		king.HasMoved = false
		rook.HasMoved = false
	}

	return nil
}

// Validate checks that each side has exactly one king and that no pawn
// stands on the first or last row.
func (b *Board) Validate() error {
	if n := b.Count(King, White); n != 1 {
		return fmt.Errorf("%w: white must have exactly one king, has %d", ErrInvalidFEN, n)
	}
	if n := b.Count(King, Black); n != 1 {
		return fmt.Errorf("%w: black must have exactly one king, has %d", ErrInvalidFEN, n)
	}
	for col := 0; col < Size; col++ {
		if b.squares[0][col].Type == Pawn || b.squares[Size-1][col].Type == Pawn {
			return fmt.Errorf("%w: pawns cannot be on rank 1 or 8", ErrInvalidFEN)
		}
	}
	return nil
}

// CastlingRights returns the FEN castling field implied by the HasMoved
// flags of kings and corner rooks.
func (b *Board) CastlingRights() string {
	var sb strings.Builder
	for _, c := range []Color{White, Black} {
		row := c.HomeRow()
		king := b.squares[row][4]
		if !king.Is(King, c) || king.HasMoved {
			continue
		}
		for _, side := range []struct {
			col  int
			char byte
		}{{7, 'K'}, {0, 'Q'}} {
			rook := b.squares[row][side.col]
			if rook.Is(Rook, c) && !rook.HasMoved {
				ch := side.char
				if c == Black {
					ch += 'a' - 'A'
				}
				sb.WriteByte(ch)
			}
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// PlacementFEN returns the piece placement field of a FEN string.
func (b *Board) PlacementFEN() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		empty := 0
		for col := 0; col < Size; col++ {
			piece := b.squares[row][col]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < Size-1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	sb.WriteString(p.Board.PlacementFEN())

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Board.CastlingRights())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// Play returns the position after m, advancing side to move, en passant
// target and move counters. The receiver is not modified.
func (p *Position) Play(m Move, promotion PieceType) *Position {
	next := &Position{
		Board:          p.Board.ApplyMove(m, promotion),
		SideToMove:     p.SideToMove.Other(),
		EnPassant:      p.Board.NextEnPassant(m),
		HalfMoveClock:  p.HalfMoveClock + 1,
		FullMoveNumber: p.FullMoveNumber,
	}
	if p.Board.At(m.From).Type == Pawn || p.Board.IsCapture(m) {
		next.HalfMoveClock = 0
	}
	if p.SideToMove == Black {
		next.FullMoveNumber++
	}
	return next
}

// LegalMoves returns every legal move of the side to move.
func (p *Position) LegalMoves() []Move {
	return p.Board.AllLegalMoves(p.SideToMove, p.EnPassant)
}

// Status returns the game status for the side to move.
func (p *Position) Status() Status {
	return p.Board.Status(p.SideToMove, p.EnPassant)
}

package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when a move string does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

// CastleSide identifies which way a castling move goes.
type CastleSide uint8

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

// String returns the castling side name.
func (cs CastleSide) String() string {
	switch cs {
	case KingSide:
		return "kingside"
	case QueenSide:
		return "queenside"
	default:
		return "none"
	}
}

// Move is a piece relocation from From to To. A move carries at most one of
// EnPassant or Castling; both change how ApplyMove touches squares other
// than the source and destination.
type Move struct {
	From      Square
	To        Square
	EnPassant bool
	Castling  CastleSide
}

// NoMove represents the absence of a move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Castling != NoCastle
}

// String returns the coordinate form of the move (e.g., "e2e4").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// UCI returns the coordinate form with the promotion letter appended
// when promotion is set (e.g., "e7e8q").
func (m Move) UCI(promotion PieceType) string {
	s := m.String()
	if promotion != NoPieceType && m != NoMove {
		s += string(promotion.Char())
	}
	return s
}

// ParseMove parses a coordinate move string and resolves it against the
// legal moves of the piece on the source square. It returns the matching
// legal move together with the promotion piece, if any.
func ParseMove(s string, b *Board, ep Square) (Move, PieceType, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, NoPieceType, fmt.Errorf("invalid move string %q: %w", s, ErrIllegalMove)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, NoPieceType, fmt.Errorf("%v: %w", err, ErrIllegalMove)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, NoPieceType, fmt.Errorf("%v: %w", err, ErrIllegalMove)
	}

	promo := NoPieceType
	if len(s) == 5 {
		promo = ParsePieceType(s[4])
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoMove, NoPieceType, fmt.Errorf("invalid promotion piece %c: %w", s[4], ErrIllegalMove)
		}
	}

	for _, m := range b.LegalMoves(from, ep) {
		if m.To != to {
			continue
		}
		if b.IsPromotion(m) {
			if promo == NoPieceType {
				promo = Queen
			}
		} else if promo != NoPieceType {
			return NoMove, NoPieceType, fmt.Errorf("%s is not a promotion: %w", s, ErrIllegalMove)
		}
		return m, promo, nil
	}

	return NoMove, NoPieceType, fmt.Errorf("%s: %w", s, ErrIllegalMove)
}

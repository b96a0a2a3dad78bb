package board

import (
	"strings"
)

// SAN converts a legal move to Standard Algebraic Notation. promotion is the
// piece a promoting pawn becomes (Queen when NoPieceType).
func (b *Board) SAN(m Move, promotion PieceType) string {
	if m == NoMove {
		return "-"
	}

	piece := b.At(m.From)
	if piece.IsEmpty() {
		return m.String()
	}

	var sb strings.Builder

	switch m.Castling {
	case KingSide:
		sb.WriteString("O-O")
	case QueenSide:
		sb.WriteString("O-O-O")
	default:
		pt := piece.Type

		// Piece letter (not for pawns) and disambiguation
		if pt != Pawn {
			sb.WriteByte(pt.Char() - ('a' - 'A'))
			sb.WriteString(b.disambiguation(m, piece))
		}

		if b.IsCapture(m) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte(m.From.File())
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if b.IsPromotion(m) {
			if promotion == NoPieceType {
				promotion = Queen
			}
			sb.WriteByte('=')
			sb.WriteByte(promotion.Char() - ('a' - 'A'))
		}
	}

	// Check/checkmate marker
	them := piece.Color.Other()
	switch b.ApplyMove(m, promotion).Status(them, b.NextEnPassant(m)) {
	case Checkmate:
		sb.WriteByte('#')
	case Check:
		sb.WriteByte('+')
	}

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other legal moves of same-type pieces to the same destination.
func (b *Board) disambiguation(m Move, piece Piece) string {
	var candidates []Square

	b.ForEach(func(sq Square, p Piece) {
		if sq == m.From || p.Type != piece.Type || p.Color != piece.Color {
			return
		}
		for _, other := range b.LegalMoves(sq, NoSquare) {
			if other.To == m.To {
				candidates = append(candidates, sq)
				return
			}
		}
	})

	// No ambiguity
	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.Col == m.From.Col {
			sameFile = true
		}
		if sq.Row == m.From.Row {
			sameRank = true
		}
	}

	if !sameFile {
		return string(m.From.File())
	}
	if !sameRank {
		return string(m.From.Rank())
	}
	return m.From.String()
}

// MovesToSAN converts a move sequence played from pos into SAN.
// promotions may be nil; otherwise it is indexed like moves.
func MovesToSAN(pos *Position, moves []Move, promotions []PieceType) []string {
	result := make([]string, len(moves))
	p := pos

	for i, m := range moves {
		promo := NoPieceType
		if promotions != nil {
			promo = promotions[i]
		}
		result[i] = p.Board.SAN(m, promo)
		p = p.Play(m, promo)
	}

	return result
}

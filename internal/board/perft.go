package board

// Perft counts the leaf nodes of the legal move tree at the given depth.
// Each promotion counts once per promotion piece, as in published tables.
func Perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var nodes uint64
	for _, m := range pos.LegalMoves() {
		if !pos.Board.IsPromotion(m) {
			nodes += Perft(pos.Play(m, NoPieceType), depth-1)
			continue
		}
		for _, promo := range PromotionTypes {
			nodes += Perft(pos.Play(m, promo), depth-1)
		}
	}
	return nodes
}

// Divide returns the perft count below each legal move, keyed by its
// coordinate form with the promotion letter for promotions.
func Divide(pos *Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth < 1 {
		return out
	}
	for _, m := range pos.LegalMoves() {
		if !pos.Board.IsPromotion(m) {
			out[m.String()] = Perft(pos.Play(m, NoPieceType), depth-1)
			continue
		}
		for _, promo := range PromotionTypes {
			out[m.UCI(promo)] = Perft(pos.Play(m, promo), depth-1)
		}
	}
	return out
}

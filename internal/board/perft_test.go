package board

import "testing"

type perftCase struct {
	depth    int
	expected uint64
	slow     bool
}

func runPerft(t *testing.T, fen string, tests []perftCase) {
	t.Helper()

	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	for _, tc := range tests {
		if tc.slow && testing.Short() {
			continue
		}
		if got := Perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	runPerft(t, StartFEN, []perftCase{
		{1, 20, false},
		{2, 400, false},
		{3, 8902, false},
		{4, 197281, true},
	})
}

// TestPerftKiwipete exercises castling, en passant and pins together.
func TestPerftKiwipete(t *testing.T) {
	runPerft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []perftCase{
		{1, 48, false},
		{2, 2039, false},
		{3, 97862, true},
	})
}

// TestPerftPosition3 tests en passant edge cases.
func TestPerftPosition3(t *testing.T) {
	runPerft(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []perftCase{
		{1, 14, false},
		{2, 191, false},
		{3, 2812, false},
		{4, 43238, true},
	})
}

// TestPerftPromotions covers under-promotion and castling-rights loss
// by capture (position 4 of the chessprogramming wiki).
func TestPerftPromotions(t *testing.T) {
	runPerft(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []perftCase{
		{1, 6, false},
		{2, 264, false},
		{3, 9467, true},
	})
}

// TestPerftEnPassantPin checks the horizontal pin across an en passant capture:
// e4xd3 would expose the king on a4 to the rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	pos := MustParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")

	for _, m := range pos.LegalMoves() {
		if m.EnPassant {
			t.Errorf("En passant move %v should be illegal (horizontal pin)", m)
		}
	}

	runPerft(t, "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []perftCase{
		{1, 6, false},
		{2, 94, false},
	})
}

func TestDivideSumsToPerft(t *testing.T) {
	pos := MustParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")

	div := Divide(pos, 2)
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if want := Perft(pos, 2); sum != want {
		t.Errorf("sum of Divide = %d, Perft = %d", sum, want)
	}

	// a7a8 promotes, so it shows up once per promotion piece.
	for _, k := range []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n"} {
		if _, ok := div[k]; !ok {
			t.Errorf("Divide is missing %s", k)
		}
	}
	if len(Divide(pos, 0)) != 0 {
		t.Error("Divide(0) should be empty")
	}
}

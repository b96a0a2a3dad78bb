package board

import (
	"testing"
)

// play applies coordinate moves in order and fails the test on an illegal one.
func play(t *testing.T, pos *Position, moves ...string) *Position {
	t.Helper()
	for _, s := range moves {
		m, promo, err := ParseMove(s, pos.Board, pos.EnPassant)
		if err != nil {
			t.Fatalf("move %s: %v\n%s", s, err, pos.Board)
		}
		pos = pos.Play(m, promo)
	}
	return pos
}

func TestCheckmate(t *testing.T) {
	// Back rank mate: White Ra8, Black Kh8 boxed in by its own pawns.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.Board.IsInCheck(Black) {
		t.Error("Expected black to be in check")
	}
	if got := pos.Status(); got != Checkmate {
		t.Errorf("Status = %v, want checkmate", got)
	}
}

func TestNotCheckmate(t *testing.T) {
	// King can capture the checking rook; g7 is on the rook's file and
	// its own pawn blocks h7, so Kxg8 is the only way out.
	pos, err := ParseFEN("6Rk/7p/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if got := pos.Status(); got != Check {
		t.Errorf("Status = %v, want check", got)
	}

	moves := pos.LegalMoves()
	if len(moves) != 1 || moves[0].From != MustSquare("h8") || moves[0].To != MustSquare("g8") {
		t.Errorf("Expected only Kxg8, got %v", moves)
	}
}

func TestFoolsMate(t *testing.T) {
	pos := play(t, NewPosition(), "f2f3", "e7e5", "g2g4", "d8h4")

	if pos.SideToMove != White {
		t.Fatalf("Expected white to move, got %v", pos.SideToMove)
	}
	if got := pos.Status(); got != Checkmate {
		t.Errorf("Status after fool's mate = %v, want checkmate", got)
	}
	if got := pos.Board.Status(Black, NoSquare); got != Playing {
		t.Errorf("Status for black = %v, want playing", got)
	}
}

func TestStalemate(t *testing.T) {
	// Black Kh8, White Qf7 and Kg6: no legal move, not in check.
	pos := MustParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	if pos.Board.IsInCheck(Black) {
		t.Fatal("Black should not be in check")
	}
	if got := pos.Status(); got != Stalemate {
		t.Errorf("Status = %v, want stalemate", got)
	}
	if !pos.Status().IsOver() {
		t.Error("Stalemate should end the game")
	}
}

func TestStalemateWithBlockedPawn(t *testing.T) {
	// The black pawn on a5 is blocked by the white pawn on a4, so the only
	// other piece cannot move either.
	pos := MustParseFEN("7k/5Q2/6K1/p7/P7/8/8/8 b - - 0 1")

	if got := pos.Status(); got != Stalemate {
		t.Errorf("Status = %v, want stalemate", got)
	}
}

func TestStatusPlayingAndCheck(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want Status
	}{
		{"start", StartFEN, Playing},
		{"rook check", "4k3/8/8/8/8/8/8/K3R3 b - - 0 1", Check},
		{"knight check", "4k3/8/3N4/8/8/8/8/K7 b - - 0 1", Check},
		{"pawn check", "4k3/3P4/8/8/8/8/8/K7 b - - 0 1", Check},
		{"blocked rook", "4k3/4p3/8/8/8/8/8/K3R3 b - - 0 1", Playing},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			if got := pos.Status(); got != tc.want {
				t.Errorf("Status = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsInCheckWithoutKing(t *testing.T) {
	b := NewEmptyBoard()
	b.Put(MustSquare("a1"), NewPiece(Rook, Black))

	if b.IsInCheck(White) {
		t.Error("IsInCheck should report false when the king is missing")
	}
	if _, ok := b.FindKing(White); ok {
		t.Error("FindKing should report no king")
	}
}

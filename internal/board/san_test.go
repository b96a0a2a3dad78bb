package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// parseLine resolves coordinate moves played one after another from pos.
func parseLine(t *testing.T, pos *Position, line ...string) ([]Move, []PieceType) {
	t.Helper()
	moves := make([]Move, 0, len(line))
	promos := make([]PieceType, 0, len(line))
	for _, s := range line {
		m, promo, err := ParseMove(s, pos.Board, pos.EnPassant)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		moves = append(moves, m)
		promos = append(promos, promo)
		pos = pos.Play(m, promo)
	}
	return moves, promos
}

func TestMovesToSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		line []string
		want []string
	}{
		{
			name: "ruy lopez exchange",
			fen:  StartFEN,
			line: []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5c6", "d7c6", "e1g1"},
			want: []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Bxc6", "dxc6", "O-O"},
		},
		{
			name: "fool's mate",
			fen:  StartFEN,
			line: []string{"f2f3", "e7e5", "g2g4", "d8h4"},
			want: []string{"f3", "e5", "g4", "Qh4#"},
		},
		{
			name: "queenside castling with check",
			fen:  "3k4/8/8/8/8/8/8/R3K3 w Q - 0 1",
			line: []string{"e1c1"},
			want: []string{"O-O-O+"},
		},
		{
			name: "en passant",
			fen:  "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
			line: []string{"e5d6"},
			want: []string{"exd6"},
		},
		{
			name: "file disambiguation",
			fen:  "4k3/8/8/8/8/8/8/1N3N1K w - - 0 1",
			line: []string{"b1d2"},
			want: []string{"Nbd2"},
		},
		{
			name: "rank disambiguation",
			fen:  "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1",
			line: []string{"a1a3"},
			want: []string{"R1a3"},
		},
		{
			name: "square disambiguation",
			fen:  "4k3/8/8/8/8/Q7/8/Q1Q1K3 w - - 0 1",
			line: []string{"a1b2"},
			want: []string{"Qa1b2"},
		},
		{
			name: "promotions",
			fen:  "8/P6k/8/8/8/8/p7/4K3 w - - 0 1",
			line: []string{"a7a8n", "a2a1"},
			want: []string{"a8=N", "a1=Q+"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			moves, promos := parseLine(t, pos, tc.line...)
			got := MovesToSAN(pos, moves, promos)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("MovesToSAN mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSANNoMove(t *testing.T) {
	if got := InitialBoard().SAN(NoMove, NoPieceType); got != "-" {
		t.Errorf("SAN(NoMove) = %q, want -", got)
	}
}

func TestParseMoveErrors(t *testing.T) {
	b := InitialBoard()
	promoBoard := MustParseFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1").Board

	tests := []struct {
		name string
		b    *Board
		s    string
	}{
		{"too short", b, "e2"},
		{"too long", b, "e2e4qq"},
		{"bad square", b, "z2e4"},
		{"empty source", b, "e4e5"},
		{"illegal destination", b, "e2e5"},
		{"promotion on non-promotion", b, "e2e4q"},
		{"promotion to king", promoBoard, "a7a8k"},
		{"promotion to pawn", promoBoard, "a7a8p"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseMove(tc.s, tc.b, NoSquare)
			if !errors.Is(err, ErrIllegalMove) {
				t.Errorf("ParseMove(%q) error = %v, want ErrIllegalMove", tc.s, err)
			}
		})
	}
}

func TestMoveUCI(t *testing.T) {
	m := Move{From: MustSquare("e7"), To: MustSquare("e8")}
	if got := m.UCI(Queen); got != "e7e8q" {
		t.Errorf("UCI(Queen) = %s", got)
	}
	if got := m.UCI(NoPieceType); got != "e7e8" {
		t.Errorf("UCI(none) = %s", got)
	}
	if got := NoMove.UCI(Queen); got != "0000" {
		t.Errorf("NoMove.UCI = %s", got)
	}
}

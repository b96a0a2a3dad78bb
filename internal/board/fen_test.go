package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		"4k3/8/8/8/8/8/8/R3K3 b Q - 12 40",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Errorf("ParseFEN(%q): %v", fen, err)
			continue
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestParseFENDefaults(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 b - -")
	if err != nil {
		t.Fatal(err)
	}
	if pos.SideToMove != Black {
		t.Errorf("SideToMove = %v, want black", pos.SideToMove)
	}
	if pos.HalfMoveClock != 0 || pos.FullMoveNumber != 1 {
		t.Errorf("clocks = %d/%d, want 0/1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	if pos.EnPassant != NoSquare {
		t.Errorf("EnPassant = %v, want none", pos.EnPassant)
	}
}

func TestParseFENCastlingRightsSetHasMoved(t *testing.T) {
	pos := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1")

	tests := []struct {
		sq    string
		moved bool
	}{
		{"e1", false},
		{"h1", false},
		{"a1", true},
		{"e8", false},
		{"a8", false},
		{"h8", true},
	}
	for _, tc := range tests {
		if got := pos.Board.At(MustSquare(tc.sq)).HasMoved; got != tc.moved {
			t.Errorf("%s HasMoved = %v, want %v", tc.sq, got, tc.moved)
		}
	}
}

func TestParseFENPawnsOffHomeRowAreMoved(t *testing.T) {
	pos := MustParseFEN("4k3/3p4/8/4p3/4P3/8/3P4/4K3 w - - 0 1")

	tests := []struct {
		sq    string
		moved bool
	}{
		{"d2", false},
		{"e4", true},
		{"d7", false},
		{"e5", true},
	}
	for _, tc := range tests {
		if got := pos.Board.At(MustSquare(tc.sq)).HasMoved; got != tc.moved {
			t.Errorf("%s HasMoved = %v, want %v", tc.sq, got, tc.moved)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few fields", "4k3/8/8/8/8/8/8/4K3 w"},
		{"seven ranks", "4k3/8/8/8/8/8/4K3 w - - 0 1"},
		{"rank too long", "4k4/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"rank too short", "4k2/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad piece", "4k3/8/8/8/8/8/8/4X3 w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling char", "4k3/8/8/8/8/8/8/4K3 w X - 0 1"},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1"},
		{"castling king off home", "r3k2r/8/8/8/8/8/8/R2K3R w Q - 0 1"},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - e4 0 1"},
		{"bad half-move clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
		{"bad full-move number", "4k3/8/8/8/8/8/8/4K3 w - - 0 x"},
		{"missing king", "8/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"two kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1"},
		{"pawn on back rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFEN(tc.fen)
			if !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidFEN", tc.fen, err)
			}
		})
	}
}

func TestPositionPlayUpdatesState(t *testing.T) {
	pos := NewPosition()

	pos = play(t, pos, "e2e4")
	if got, want := pos.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"; got != want {
		t.Errorf("after e4:\n got %s\nwant %s", got, want)
	}

	pos = play(t, pos, "g8f6")
	if got, want := pos.FEN(), "rnbqkb1r/pppppppp/5n2/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 1 2"; got != want {
		t.Errorf("after Nf6:\n got %s\nwant %s", got, want)
	}

	pos = play(t, pos, "e1e2")
	if got := pos.Board.CastlingRights(); got != "kq" {
		t.Errorf("CastlingRights after king move = %s, want kq", got)
	}
}

func TestPieceFromChar(t *testing.T) {
	tests := []struct {
		c    byte
		want Piece
	}{
		{'P', NewPiece(Pawn, White)},
		{'n', NewPiece(Knight, Black)},
		{'Q', NewPiece(Queen, White)},
		{'k', NewPiece(King, Black)},
		{'x', NoPiece},
	}
	for _, tc := range tests {
		if got := PieceFromChar(tc.c); got != tc.want {
			t.Errorf("PieceFromChar(%c) = %+v, want %+v", tc.c, got, tc.want)
		}
		if tc.want != NoPiece && tc.want.String() != string(tc.c) {
			t.Errorf("%+v.String() = %s, want %c", tc.want, tc.want.String(), tc.c)
		}
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want Square
		ok   bool
	}{
		{"a8", Sq(0, 0), true},
		{"h1", Sq(7, 7), true},
		{"e4", Sq(4, 4), true},
		{"i1", NoSquare, false},
		{"a9", NoSquare, false},
		{"a0", NoSquare, false},
		{"e", NoSquare, false},
	}
	for _, tc := range tests {
		got, err := ParseSquare(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("ParseSquare(%q) = %v, %v", tc.in, got, err)
		}
		if tc.ok && got.String() != tc.in {
			t.Errorf("%v.String() = %s, want %s", got, got.String(), tc.in)
		}
	}
}

package base

import "testing"

func TestSquareAlgebraicRoundTrip(t *testing.T) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := SquareOf(f, r)
			back, err := SquareFromAlgebraic(sq.String())
			if err != nil {
				t.Fatalf("square %v: %v", sq, err)
			}
			if back != sq {
				t.Errorf("round trip %v -> %q -> %v", sq, sq.String(), back)
			}
			if sq.File() != f || sq.Rank() != r {
				t.Errorf("SquareOf(%d,%d) file/rank = %d/%d", f, r, sq.File(), sq.Rank())
			}
		}
	}
}

func TestSquareFromAlgebraicInvalid(t *testing.T) {
	for _, bad := range []string{"", "e", "e9", "i1", "a0", "e2e4", "--"} {
		if sq, err := SquareFromAlgebraic(bad); err == nil {
			t.Errorf("SquareFromAlgebraic(%q) = %v, want error", bad, sq)
		}
	}
}

func TestMoveUCI(t *testing.T) {
	tests := []struct {
		uci  string
		from Square
		to   Square
		pr   Promotion
	}{
		{"e2e4", SquareOf(4, 1), SquareOf(4, 3), PromoNone},
		{"g8f6", SquareOf(6, 7), SquareOf(5, 5), PromoNone},
		{"e7e8q", SquareOf(4, 6), SquareOf(4, 7), PromoQueen},
		{"a2a1n", SquareOf(0, 1), SquareOf(0, 0), PromoKnight},
	}
	for _, tt := range tests {
		mv, err := MoveFromUCI(tt.uci)
		if err != nil {
			t.Fatalf("MoveFromUCI(%q): %v", tt.uci, err)
		}
		want := Move{From: tt.from, To: tt.to, Promo: tt.pr}
		if mv != want {
			t.Errorf("MoveFromUCI(%q) = %+v, want %+v", tt.uci, mv, want)
		}
		if mv.UCI() != tt.uci {
			t.Errorf("UCI() = %q, want %q", mv.UCI(), tt.uci)
		}
	}
}

func TestMoveFromUCIInvalid(t *testing.T) {
	for _, bad := range []string{"", "e2", "e2x4", "z2e4", "e2e9"} {
		if _, err := MoveFromUCI(bad); err == nil {
			t.Errorf("MoveFromUCI(%q) want error", bad)
		}
	}
}

func TestPieceColorKind(t *testing.T) {
	tests := []struct {
		p Piece
		c Color
		k Kind
	}{
		{WKing, White, King},
		{WPawn, White, Pawn},
		{BQueen, Black, Queen},
		{BPawn, Black, Pawn},
		{EmptyPiece, NoColor, NoKind},
	}
	for _, tt := range tests {
		if tt.p.Color() != tt.c || tt.p.Kind() != tt.k {
			t.Errorf("%v: color/kind = %v/%v, want %v/%v", tt.p, tt.p.Color(), tt.p.Kind(), tt.c, tt.k)
		}
		if PieceOf(tt.c, tt.k) != tt.p {
			t.Errorf("PieceOf(%v,%v) = %v, want %v", tt.c, tt.k, PieceOf(tt.c, tt.k), tt.p)
		}
	}
}

func TestGameStatusTerminal(t *testing.T) {
	for _, gs := range []GameStatus{Checkmate, Stalemate, DrawGame, Resigned} {
		if !gs.Terminal() {
			t.Errorf("%v should be terminal", gs)
		}
	}
	for _, gs := range []GameStatus{Check, Pass, InvalidGame} {
		if gs.Terminal() {
			t.Errorf("%v should not be terminal", gs)
		}
	}
}

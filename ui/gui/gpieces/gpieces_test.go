package gpieces

import (
	"testing"

	"chessdesk/src/base"
)

var allPieces = []base.Piece{
	base.WKing, base.WQueen, base.WRook, base.WBishop, base.WKnight, base.WPawn,
	base.BKing, base.BQueen, base.BRook, base.BBishop, base.BKnight, base.BPawn,
}

func TestAllAssetsRender(t *testing.T) {
	for _, style := range Styles() {
		for _, pc := range allPieces {
			img, err := renderRGBA(style, pc, 60)
			if err != nil {
				t.Fatalf("render %s/%v: %v", style, pc, err)
			}
			if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 60 {
				t.Errorf("%s/%v: bounds %v", style, pc, img.Bounds())
			}
			// sprite must actually paint something
			opaque := 0
			for i := 3; i < len(img.Pix); i += 4 {
				if img.Pix[i] > 0 {
					opaque++
				}
			}
			if opaque < 60 {
				t.Errorf("%s/%v: nearly empty sprite (%d opaque px)", style, pc, opaque)
			}
		}
	}
}

func TestAssetNames(t *testing.T) {
	cases := []struct {
		piece base.Piece
		want  string
	}{
		{base.WKing, "svg/classic/wk.svg"},
		{base.BQueen, "svg/classic/bq.svg"},
		{base.WKnight, "svg/classic/wn.svg"},
		{base.BPawn, "svg/classic/bp.svg"},
	}
	for _, c := range cases {
		if got := assetName(StyleClassic, c.piece); got != c.want {
			t.Errorf("assetName(%v) = %q, want %q", c.piece, got, c.want)
		}
	}
	if got := assetName(StyleMinimal, base.BRook); got != "svg/minimal/br.svg" {
		t.Errorf("minimal rook name %q", got)
	}
}

func TestProviderStyleFallback(t *testing.T) {
	p := NewProvider("staunton")
	if p.Style() != StyleClassic {
		t.Errorf("unknown style should fall back to classic, got %q", p.Style())
	}
	p.SetStyle("nonsense")
	if p.Style() != StyleClassic {
		t.Errorf("SetStyle must ignore unknown styles, got %q", p.Style())
	}
	p.SetStyle(StyleMinimal)
	if p.Style() != StyleMinimal {
		t.Errorf("SetStyle(minimal) not applied: %q", p.Style())
	}
}

package gboard

import (
	"testing"

	"chessdesk/src/base"
)

func TestSquareAtPixelOfRoundTrip(t *testing.T) {
	g := Geometry{X: 37, Y: 50, Square: 64}
	for _, flipped := range []bool{false, true} {
		for i := 0; i < 64; i++ {
			sq := base.Square(i)
			x, y := g.PixelOf(sq, flipped)
			got, ok := g.SquareAt(x, y, flipped)
			if !ok || got != sq {
				t.Fatalf("flipped=%v: SquareAt(PixelOf(%v)) = %v ok=%v", flipped, sq, got, ok)
			}
			// anywhere inside the square maps back too
			got, ok = g.SquareAt(x+g.Square-1, y+g.Square-1, flipped)
			if !ok || got != sq {
				t.Fatalf("flipped=%v: far corner of %v mapped to %v", flipped, sq, got)
			}
		}
	}
}

func TestSquareAtOrientation(t *testing.T) {
	g := Geometry{X: 0, Y: 0, Square: 10}
	a1 := base.SquareOf(0, 0)
	h8 := base.SquareOf(7, 7)

	// white's seat: a1 is bottom-left
	if sq, _ := g.SquareAt(5, 75, false); sq != a1 {
		t.Errorf("bottom-left unflipped = %v, want a1", sq)
	}
	if sq, _ := g.SquareAt(75, 5, false); sq != h8 {
		t.Errorf("top-right unflipped = %v, want h8", sq)
	}
	// black's seat: mirrored
	if sq, _ := g.SquareAt(5, 75, true); sq != h8 {
		t.Errorf("bottom-left flipped = %v, want h8", sq)
	}
	if sq, _ := g.SquareAt(75, 5, true); sq != a1 {
		t.Errorf("top-right flipped = %v, want a1", sq)
	}
}

func TestSquareAtOutside(t *testing.T) {
	g := Geometry{X: 100, Y: 100, Square: 32}
	for _, p := range [][2]int{{99, 100}, {100, 99}, {356, 100}, {100, 356}, {0, 0}, {-5, 120}} {
		if sq, ok := g.SquareAt(p[0], p[1], false); ok {
			t.Errorf("pixel %v inside? got %v", p, sq)
		}
	}
	if _, ok := g.SquareAt(100, 100, false); !ok {
		t.Error("top-left corner should be on the board")
	}
	if _, ok := g.SquareAt(355, 355, false); !ok {
		t.Error("bottom-right interior pixel should be on the board")
	}
}

func TestGeometryContains(t *testing.T) {
	g := Geometry{X: 10, Y: 20, Square: 8}
	if !g.Contains(10, 20) || !g.Contains(73, 83) {
		t.Error("interior pixels reported outside")
	}
	if g.Contains(74, 20) || g.Contains(10, 84) || g.Contains(9, 20) {
		t.Error("exterior pixels reported inside")
	}
}

// ---- selection machine ----

func ownAll(base.Square) bool  { return true }
func ownNone(base.Square) bool { return false }

func sq(file, rank int) base.Square { return base.SquareOf(file, rank) }

func TestSelectorNonOwnPieceStaysIdle(t *testing.T) {
	s := NewSelector()
	if _, commit := s.Press(sq(4, 6), true, 0, 0, ownNone); commit {
		t.Error("press on foreign piece produced an attempt")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestSelectorDragDrop(t *testing.T) {
	s := NewSelector()
	s.Press(sq(4, 1), true, 40, 60, ownAll)
	if s.State() != StateDragging {
		t.Fatalf("state after press = %v", s.State())
	}
	s.Drag(45, 50)
	if x, y := s.Pointer(); x != 45 || y != 50 {
		t.Errorf("pointer = %d,%d", x, y)
	}
	attempt, commit := s.Release(sq(4, 3), true)
	if !commit {
		t.Fatal("drop on another square should attempt a move")
	}
	want := base.Move{From: sq(4, 1), To: sq(4, 3)}
	if attempt != want {
		t.Errorf("attempt = %+v, want %+v", attempt, want)
	}
	if s.State() != StateIdle {
		t.Errorf("state after attempt = %v", s.State())
	}
}

func TestSelectorClickClick(t *testing.T) {
	s := NewSelector()
	s.Press(sq(4, 1), true, 0, 0, ownAll)
	if _, commit := s.Release(sq(4, 1), true); commit {
		t.Fatal("release on origin attempted a move")
	}
	if s.State() != StateSelected {
		t.Fatalf("state = %v, want selected", s.State())
	}

	attempt, commit := s.Press(sq(4, 3), true, 0, 0, ownNone)
	if !commit {
		t.Fatal("second click on destination should attempt")
	}
	if attempt.From != sq(4, 1) || attempt.To != sq(4, 3) {
		t.Errorf("attempt = %+v", attempt)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v", s.State())
	}
}

func TestSelectorReclickCancels(t *testing.T) {
	s := NewSelector()
	s.Press(sq(4, 1), true, 0, 0, ownAll)
	s.Release(sq(4, 1), true)
	if _, commit := s.Press(sq(4, 1), true, 0, 0, ownAll); commit {
		t.Error("re-click produced an attempt")
	}
	if s.State() != StateIdle {
		t.Errorf("re-click of selected square: state = %v, want idle", s.State())
	}
}

func TestSelectorReselectOwnPiece(t *testing.T) {
	s := NewSelector()
	s.Press(sq(4, 1), true, 0, 0, ownAll)
	s.Release(sq(4, 1), true)
	s.Press(sq(3, 1), true, 0, 0, ownAll)
	if s.State() != StateDragging {
		t.Fatalf("state = %v", s.State())
	}
	if from, _ := s.From(); from != sq(3, 1) {
		t.Errorf("from = %v, want the new piece", from)
	}
}

func TestSelectorOutsideCancels(t *testing.T) {
	s := NewSelector()
	s.Press(sq(4, 1), true, 0, 0, ownAll)
	if _, commit := s.Release(base.NoSquare, false); commit {
		t.Error("outside drop attempted a move")
	}
	if s.State() != StateIdle {
		t.Errorf("state = %v", s.State())
	}

	s.Press(sq(4, 1), true, 0, 0, ownAll)
	s.Release(sq(4, 1), true)
	s.Press(base.NoSquare, false, 0, 0, ownAll)
	if s.State() != StateIdle {
		t.Errorf("outside press: state = %v", s.State())
	}
}

func TestSelectorReleaseWhileIdle(t *testing.T) {
	s := NewSelector()
	if _, commit := s.Release(sq(0, 0), true); commit {
		t.Error("stray release produced an attempt")
	}
}

// ---- annotations ----

func TestArrowToggleXOR(t *testing.T) {
	a := NewArrowSet()
	a.Toggle(sq(0, 0), sq(7, 7))
	if !a.Has(sq(0, 0), sq(7, 7)) || a.Len() != 1 {
		t.Fatal("arrow missing after toggle")
	}
	a.Toggle(sq(0, 0), sq(7, 7))
	if a.Has(sq(0, 0), sq(7, 7)) || a.Len() != 0 {
		t.Error("double toggle is not identity")
	}
}

func TestArrowDirectionDistinct(t *testing.T) {
	a := NewArrowSet()
	a.Toggle(sq(0, 0), sq(7, 7))
	a.Toggle(sq(7, 7), sq(0, 0))
	if a.Len() != 2 {
		t.Errorf("len = %d, want both directions", a.Len())
	}
}

func TestArrowDegenerateIgnored(t *testing.T) {
	a := NewArrowSet()
	a.Toggle(sq(3, 3), sq(3, 3))
	a.Toggle(base.NoSquare, sq(3, 3))
	if a.Len() != 0 {
		t.Errorf("degenerate arrows stored: %d", a.Len())
	}
}

func TestArrowClear(t *testing.T) {
	a := NewArrowSet()
	a.Toggle(sq(0, 0), sq(1, 1))
	a.Toggle(sq(2, 2), sq(3, 3))
	a.Clear()
	if a.Len() != 0 {
		t.Error("clear left arrows behind")
	}
	if got := a.All(); len(got) != 0 {
		t.Errorf("All after clear = %v", got)
	}
}

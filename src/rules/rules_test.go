package rules

import (
	"errors"
	"strings"
	"testing"

	"chessdesk/src/base"
)

func mustMove(t *testing.T, uci string) base.Move {
	t.Helper()
	mv, err := base.MoveFromUCI(uci)
	if err != nil {
		t.Fatalf("bad uci %q: %v", uci, err)
	}
	return mv
}

func push(t *testing.T, s *Session, uci string) {
	t.Helper()
	if err := s.Push(mustMove(t, uci)); err != nil {
		t.Fatalf("push %s: %v", uci, err)
	}
}

func TestNewSessionStartPosition(t *testing.T) {
	s := NewSession()
	if s.FEN() != base.FEN_START_GAME {
		t.Errorf("start FEN = %q", s.FEN())
	}
	if s.SideToMove() != base.White {
		t.Errorf("side to move = %v", s.SideToMove())
	}
	if s.HistoryLen() != 0 {
		t.Errorf("history = %d", s.HistoryLen())
	}
	mb := s.Board()
	if base.GetPieceAt(&mb, base.SquareOf(4, 0)) != base.WKing {
		t.Errorf("e1 is not the white king")
	}
	if base.GetPieceAt(&mb, base.SquareOf(3, 7)) != base.BQueen {
		t.Errorf("d8 is not the black queen")
	}
}

func TestPushLegalAndIllegal(t *testing.T) {
	s := NewSession()

	// e2e4 is black's move only after white moved
	if err := s.Push(mustMove(t, "e7e5")); !errors.Is(err, base.ErrIllegalMove) {
		t.Fatalf("e7e5 as white: err = %v, want ErrIllegalMove", err)
	}
	if s.HistoryLen() != 0 {
		t.Fatalf("history after reject = %d", s.HistoryLen())
	}

	push(t, s, "e2e4")
	if s.HistoryLen() != 1 || s.SideToMove() != base.Black {
		t.Fatalf("after e2e4: history=%d side=%v", s.HistoryLen(), s.SideToMove())
	}

	if err := s.Push(mustMove(t, "e2e4")); !errors.Is(err, base.ErrIllegalMove) {
		t.Fatalf("e2e4 on black's turn: err = %v, want ErrIllegalMove", err)
	}
	if s.HistoryLen() != 1 {
		t.Fatalf("history mutated on reject: %d", s.HistoryLen())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := NewSession()
	push(t, s, "e2e4")
	push(t, s, "c7c5")
	push(t, s, "g1f3")
	fen := s.FEN()

	if !s.Undo() || !s.Undo() {
		t.Fatal("undo failed")
	}
	if s.HistoryLen() != 1 || s.RedoLen() != 2 {
		t.Fatalf("after 2 undo: history=%d redo=%d", s.HistoryLen(), s.RedoLen())
	}
	if !s.Redo() || !s.Redo() {
		t.Fatal("redo failed")
	}
	if s.FEN() != fen {
		t.Errorf("redo does not restore FEN:\n got %s\nwant %s", s.FEN(), fen)
	}
	if s.Redo() {
		t.Error("redo past end should fail")
	}

	// a fresh move clears redo
	s.Undo()
	push(t, s, "b1c3")
	if s.RedoLen() != 0 {
		t.Errorf("redo stack after new move = %d", s.RedoLen())
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	s := NewSession()
	if s.Undo() {
		t.Error("undo on empty history should fail")
	}
}

func TestReplayDeterminism(t *testing.T) {
	s := NewSession()
	line := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5a4", "g8f6"}
	for _, uci := range line {
		push(t, s, uci)
	}
	want := s.FEN()

	r := NewSession()
	for _, uci := range s.MovesUCI() {
		push(t, r, uci)
	}
	if r.FEN() != want {
		t.Errorf("replayed FEN differs:\n got %s\nwant %s", r.FEN(), want)
	}
}

func TestStatusCheckAndMate(t *testing.T) {
	s := NewSession()
	for _, uci := range []string{"e2e4", "e7e5", "d1h5", "b8c6", "f1c4", "g8f6"} {
		push(t, s, uci)
	}
	if st := s.Status(); st != base.Pass {
		t.Fatalf("pre-mate status = %v", st)
	}
	push(t, s, "h5f7") // scholar's mate
	if st := s.Status(); st != base.Checkmate {
		t.Fatalf("status after Qxf7 = %v, want checkmate", st)
	}
	if s.Outcome() != "1-0" {
		t.Errorf("outcome = %q", s.Outcome())
	}
	if !strings.Contains(s.ResultText(), "white") {
		t.Errorf("result text = %q", s.ResultText())
	}
	if err := s.Push(mustMove(t, "e8f7")); err == nil {
		t.Error("move after mate should fail")
	}
}

func TestStatusPlainCheck(t *testing.T) {
	s := NewSession()
	for _, uci := range []string{"d2d4", "e7e6", "c1g5", "f8b4"} {
		push(t, s, uci)
	}
	if st := s.Status(); st != base.Check {
		t.Errorf("status after Bb4+ = %v, want check", st)
	}
	push(t, s, "b1c3") // block
	if st := s.Status(); st != base.Pass {
		t.Errorf("status after block = %v, want pass", st)
	}
}

func TestLegalTargetsAndOwnership(t *testing.T) {
	s := NewSession()
	targets := s.LegalTargets(base.SquareOf(4, 1)) // e2
	if len(targets) != 2 {
		t.Fatalf("e2 targets = %v", targets)
	}
	if got := s.LegalTargets(base.SquareOf(4, 6)); len(got) != 0 {
		t.Errorf("e7 (black pawn, white to move) targets = %v", got)
	}
	if got := s.LegalTargets(base.SquareOf(4, 3)); len(got) != 0 {
		t.Errorf("empty square targets = %v", got)
	}
}

func TestPromotionDetectionAndPush(t *testing.T) {
	s, err := NewSessionFEN("8/P6k/8/8/8/8/7K/8 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	from, to := base.SquareOf(0, 6), base.SquareOf(0, 7)
	if !s.NeedsPromotion(from, to) {
		t.Fatal("a7a8 should need promotion")
	}
	if s.NeedsPromotion(base.SquareOf(7, 1), base.SquareOf(7, 2)) {
		t.Error("h2h3 is not a promotion")
	}
	if err := s.Push(base.Move{From: from, To: to}); err == nil {
		t.Fatal("promotion without promo kind should fail")
	}
	if err := s.Push(base.Move{From: from, To: to, Promo: base.PromoQueen}); err != nil {
		t.Fatalf("a7a8q: %v", err)
	}
	mb := s.Board()
	if base.GetPieceAt(&mb, to) != base.WQueen {
		t.Errorf("a8 = %v, want white queen", base.GetPieceAt(&mb, to))
	}
}

func TestMalformedFEN(t *testing.T) {
	if _, err := NewSessionFEN("not a fen"); !errors.Is(err, base.ErrMalformedFEN) {
		t.Errorf("err = %v, want ErrMalformedFEN", err)
	}
}

func TestPGNRoundTrip(t *testing.T) {
	s := NewSession()
	for _, uci := range []string{"e2e4", "c7c5", "g1f3", "d7d6"} {
		push(t, s, uci)
	}
	s.SetTag("Event", "roundtrip")

	loaded, err := NewSessionPGN(strings.NewReader(s.PGN()))
	if err != nil {
		t.Fatalf("load own pgn: %v", err)
	}
	if loaded.FEN() != s.FEN() {
		t.Errorf("FEN after round trip:\n got %s\nwant %s", loaded.FEN(), s.FEN())
	}
	if got, want := loaded.MovesSAN(), s.MovesSAN(); len(got) != len(want) {
		t.Errorf("san count %d != %d", len(got), len(want))
	}
}

func TestMalformedPGN(t *testing.T) {
	if _, err := NewSessionPGN(strings.NewReader("1. e4 zz9 1-0")); !errors.Is(err, base.ErrMalformedPGN) {
		t.Errorf("err = %v, want ErrMalformedPGN", err)
	}
}

func TestPushSAN(t *testing.T) {
	s := NewSession()
	if err := s.PushSAN("e4"); err != nil {
		t.Fatalf("e4: %v", err)
	}
	if err := s.PushSAN("Nf6"); err != nil {
		t.Fatalf("Nf6: %v", err)
	}
	if s.HistoryLen() != 2 {
		t.Fatalf("history = %d", s.HistoryLen())
	}

	fresh := NewSession()
	if err := fresh.PushSAN("Ke2"); !errors.Is(err, base.ErrIllegalMove) {
		t.Errorf("Ke2 from start: err = %v, want ErrIllegalMove", err)
	}
	if err := fresh.PushSAN("garbage"); !errors.Is(err, base.ErrIllegalMove) {
		t.Errorf("garbage san: err = %v, want ErrIllegalMove", err)
	}
}

func TestOpeningLookup(t *testing.T) {
	s := NewSession()
	if code, title := s.Opening(); code != "" || title != "" {
		t.Errorf("opening on empty game = %q %q", code, title)
	}
	push(t, s, "e2e4")
	push(t, s, "c7c5")
	code, title := s.Opening()
	if code == "" || title == "" {
		t.Fatalf("sicilian not found: %q %q", code, title)
	}
	if !strings.Contains(strings.ToLower(title), "sicilian") {
		t.Errorf("title = %q, want a sicilian line", title)
	}
}

func TestResign(t *testing.T) {
	s := NewSession()
	push(t, s, "e2e4")
	s.Resign(base.Black)
	if s.Outcome() != "1-0" {
		t.Errorf("outcome after black resigns = %q", s.Outcome())
	}
	if s.Status() != base.Resigned {
		t.Errorf("status = %v", s.Status())
	}
}

package cli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"chessdesk/src"
	"chessdesk/src/base"
	"chessdesk/src/logx"

	"go.uber.org/zap/zapcore"
)

func testLogger() logx.Logger {
	lg := logx.NewLogx(zapcore.FatalLevel, false, false)
	lg.InitLogger(io.Discard)
	return lg
}

func newTestCLI(t *testing.T) (*CLIProcessing, *bytes.Buffer) {
	t.Helper()
	gb := src.NewBuilderBoard(testLogger())
	gb.CreateClassic()
	out := &bytes.Buffer{}
	c := NewCLI(gb, PrintMailbox)
	c.out = out
	return c, out
}

func TestDispatchMoveAndHistory(t *testing.T) {
	c, _ := newTestCLI(t)

	if quit := c.dispatch("move e4"); quit {
		t.Fatal("move must not quit")
	}
	if got := c.builder.HistoryLen(); got != 1 {
		t.Fatalf("history after move = %d, want 1", got)
	}
	if c.builder.SideToMove() != base.Black {
		t.Fatal("black should be on move after e4")
	}

	c.dispatch("undo")
	if got := c.builder.HistoryLen(); got != 0 {
		t.Fatalf("history after undo = %d, want 0", got)
	}
	c.dispatch("redo")
	if got := c.builder.HistoryLen(); got != 1 {
		t.Fatalf("history after redo = %d, want 1", got)
	}
}

func TestDispatchBareLineIsAMove(t *testing.T) {
	c, out := newTestCLI(t)

	// SAN without the move keyword
	c.dispatch("Nf3")
	if got := c.builder.HistoryLen(); got != 1 {
		t.Fatalf("bare SAN: history = %d, want 1", got)
	}
	// UCI works too
	c.dispatch("e7e5")
	if got := c.builder.HistoryLen(); got != 2 {
		t.Fatalf("bare UCI: history = %d, want 2", got)
	}

	out.Reset()
	c.dispatch("zzz9")
	if !strings.Contains(out.String(), "Invalid move") {
		t.Fatalf("garbage line should report an invalid move, got %q", out.String())
	}
	if got := c.builder.HistoryLen(); got != 2 {
		t.Fatalf("garbage line mutated history: %d", got)
	}
}

func TestDispatchWrongSideRejected(t *testing.T) {
	c, out := newTestCLI(t)

	out.Reset()
	c.dispatch("e7e5") // black piece, white to move
	if !strings.Contains(out.String(), "Invalid move") {
		t.Fatalf("wrong-side move accepted: %q", out.String())
	}
	if got := c.builder.HistoryLen(); got != 0 {
		t.Fatalf("history = %d, want 0", got)
	}
}

func TestDispatchInfoCommands(t *testing.T) {
	c, out := newTestCLI(t)
	c.dispatch("e4")
	c.dispatch("e5")

	out.Reset()
	c.dispatch("fen")
	if !strings.Contains(out.String(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w") {
		t.Fatalf("fen output wrong: %q", out.String())
	}

	out.Reset()
	c.dispatch("moves")
	if !strings.Contains(out.String(), "1. e4 e5") {
		t.Fatalf("moves output wrong: %q", out.String())
	}

	out.Reset()
	c.dispatch("pgn")
	if !strings.Contains(out.String(), "1. e4 e5") {
		t.Fatalf("pgn output wrong: %q", out.String())
	}

	// no engine configured
	out.Reset()
	c.dispatch("hint")
	if !strings.Contains(out.String(), "Engine is off") {
		t.Fatalf("hint without engine: %q", out.String())
	}
	out.Reset()
	c.dispatch("eval")
	if !strings.Contains(out.String(), "Engine is off") {
		t.Fatalf("eval without engine: %q", out.String())
	}
}

func TestDispatchNewAndQuit(t *testing.T) {
	c, _ := newTestCLI(t)
	c.dispatch("e4")
	c.dispatch("new")
	if got := c.builder.HistoryLen(); got != 0 {
		t.Fatalf("new did not reset history: %d", got)
	}
	for _, q := range []string{"q", "quit", "exit"} {
		c2, _ := newTestCLI(t)
		if !c2.dispatch(q) {
			t.Fatalf("%q should quit", q)
		}
	}
}

func TestSaveWritesPGN(t *testing.T) {
	c, out := newTestCLI(t)
	c.dispatch("e4")

	path := t.TempDir() + "/game.pgn"
	out.Reset()
	c.dispatch("save " + path)
	if !strings.Contains(out.String(), "Saved to") {
		t.Fatalf("save output: %q", out.String())
	}

	// a fresh builder can read it back
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	c2, _ := newTestCLI(t)
	if _, err := c2.builder.CreateFromPGN(bytes.NewReader(data)); err != nil {
		t.Fatalf("reload saved pgn: %v", err)
	}
	if got := c2.builder.HistoryLen(); got != 1 {
		t.Fatalf("reloaded history = %d, want 1", got)
	}
}

func TestMoveCursorClamps(t *testing.T) {
	a1 := base.SquareOf(0, 0)
	if got := moveCursor(a1, 'D'); got != a1 {
		t.Fatalf("left off the board moved to %v", got)
	}
	if got := moveCursor(a1, 'B'); got != a1 {
		t.Fatalf("down off the board moved to %v", got)
	}
	if got := moveCursor(a1, 'A'); got != base.SquareOf(0, 1) {
		t.Fatalf("up from a1 = %v, want a2", got)
	}
	if got := moveCursor(a1, 'C'); got != base.SquareOf(1, 0) {
		t.Fatalf("right from a1 = %v, want b1", got)
	}
}

func TestPrintMailboxShowsInitialArmy(t *testing.T) {
	c, out := newTestCLI(t)
	out.Reset()
	c.printBoard()
	s := out.String()
	for _, g := range []string{"♔", "♚", "♙", "♟"} {
		if !strings.Contains(s, g) {
			t.Fatalf("initial board misses %s:\n%s", g, s)
		}
	}
	if strings.Count(s, "♙") != 8 || strings.Count(s, "♟") != 8 {
		t.Fatal("pawn count off on the initial board")
	}
}

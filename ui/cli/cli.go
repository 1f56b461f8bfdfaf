package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"chessdesk/src"
	"chessdesk/src/base"
	"chessdesk/src/engine"
	"chessdesk/ui/gui/gboard"

	"golang.org/x/term"
)

// quickSavePath is the fixed-name drop file, same one the GUI uses.
const quickSavePath = "chessdesk.pgn"

type DrawFunc func(w io.Writer, mb base.Mailbox)

type CLIProcessing struct {
	builder *src.GameBuilder
	draw    DrawFunc
	in      *os.File
	out     io.Writer

	// one-line feedback under the raw-mode board
	note string
}

func NewCLI(b *src.GameBuilder, draw DrawFunc) *CLIProcessing {
	return &CLIProcessing{builder: b, draw: draw, in: os.Stdin, out: os.Stdout}
}

// raw processing
// - arrow keys move the square cursor
// - enter picks up / drops, same ownership gate as the GUI board
// - esc cancels a pick, u/r undo/redo, h hint, q or Ctrl+C to exit
func (c *CLIProcessing) Run() error {
	fd := int(c.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return c.RunLineMode()
	}
	defer term.Restore(fd, oldState) //nolint:errcheck

	r := bufio.NewReader(c.in)
	sel := gboard.NewSelector()
	cursor := base.SquareOf(4, 1) // e2

	own := func(sq base.Square) bool {
		if c.builder.Status().Terminal() {
			return false
		}
		p := c.builder.PieceAt(sq)
		return p != base.EmptyPiece && p.Color() == c.builder.SideToMove()
	}

	c.redrawCursor(sel, cursor)

	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}

		switch {
		case b == 3: // Ctrl+C
			fmt.Fprint(c.out, "\r\nInterrupted\r\n")
			return nil
		case b == 'q' || b == 'Q':
			fmt.Fprint(c.out, "\r\nQuitting\r\n")
			return nil
		case b == 0x1b:
			// bare escape cancels, CSI moves the cursor
			if r.Buffered() == 0 {
				sel.Reset()
				c.note = ""
				break
			}
			b1, err := r.ReadByte()
			if err != nil || b1 != '[' {
				continue
			}
			b2, err := r.ReadByte()
			if err != nil {
				continue
			}
			cursor = moveCursor(cursor, b2)
		case b == '\r' || b == '\n':
			if attempt, commit := sel.Press(cursor, true, 0, 0, own); commit {
				c.applyRaw(attempt)
			} else if attempt, commit := sel.Release(cursor, true); commit {
				c.applyRaw(attempt)
			}
		case b == 'u' || b == 'U':
			c.builder.Undo()
			sel.Reset()
			c.note = ""
		case b == 'r' || b == 'R':
			c.builder.Redo()
			sel.Reset()
			c.note = ""
		case b == 'h' || b == 'H':
			if mv, ok := c.builder.Hint(); ok {
				c.note = "Hint: " + mv.UCI()
			} else {
				c.note = "Engine is off"
			}
		}

		c.redrawCursor(sel, cursor)
		if c.builder.Status().Terminal() && c.note == "" {
			c.note = c.builder.ResultText()
		}
	}
}

func moveCursor(cursor base.Square, key byte) base.Square {
	f, r := cursor.File(), cursor.Rank()
	switch key {
	case 'A': // up
		r++
	case 'B': // down
		r--
	case 'C': // right
		f++
	case 'D': // left
		f--
	}
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return cursor
	}
	return base.SquareOf(f, r)
}

func (c *CLIProcessing) applyRaw(mv base.Move) {
	if st := c.builder.Move(mv); st == base.InvalidGame {
		c.note = "Illegal: " + mv.UCI()
		return
	}
	c.note = ""
	if c.builder.Status().Terminal() {
		c.note = c.builder.ResultText()
	}
}

func (c *CLIProcessing) redrawCursor(sel *gboard.Selector, cursor base.Square) {
	fmt.Fprint(c.out, ansiClear)
	picked := base.NoSquare
	if from, ok := sel.From(); ok {
		picked = from
	}
	PrintMailboxCursor(c.out, c.builder.CurrentBoard(), cursor, picked)
	fmt.Fprintf(c.out, "%s to move   [%s]\r\n", sideName(c.builder.SideToMove()), statusString(c.builder.Status()))
	if c.note != "" {
		fmt.Fprintf(c.out, "%s\r\n", c.note)
	}
	fmt.Fprint(c.out, "\r\narrows move, enter picks/drops, esc cancels, u/r undo/redo, h hint, q quits\r\n")
}

// RunLineMode reads one command per line; a bare line is tried as a
// move. Works on any terminal, raw capability or not.
func (c *CLIProcessing) RunLineMode() error {
	scanner := bufio.NewScanner(c.in)
	c.printBoard()
	c.printStatus()
	fmt.Fprintln(c.out, "Enter a move or a command, 'help' lists them.")
	for scanner.Scan() {
		if quit := c.dispatch(scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// dispatch runs one line-mode command, true means quit.
func (c *CLIProcessing) dispatch(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "q", "quit", "exit":
		fmt.Fprintln(c.out, "Quitting")
		return true
	case "help", "?":
		c.printHelp()
	case "move":
		if len(fields) < 2 {
			fmt.Fprintln(c.out, "usage: move <san|uci>")
			break
		}
		c.tryMove(fields[1])
	case "undo":
		c.builder.Undo()
		c.printBoard()
		c.printStatus()
	case "redo":
		c.builder.Redo()
		c.printBoard()
		c.printStatus()
	case "moves":
		body := c.builder.PGNBody()
		if body == "" {
			fmt.Fprintln(c.out, "No moves yet.")
		} else {
			fmt.Fprintln(c.out, body)
		}
	case "fen":
		fmt.Fprintln(c.out, c.builder.FEN())
	case "pgn":
		if err := c.builder.PGN(c.out); err != nil {
			fmt.Fprintf(c.out, "error write pgn %v\n", err)
		}
	case "hint":
		if mv, ok := c.builder.Hint(); ok {
			fmt.Fprintf(c.out, "Hint: %s\n", mv.UCI())
		} else {
			fmt.Fprintln(c.out, "Engine is off.")
		}
	case "eval":
		cp, ok := c.builder.Eval()
		switch {
		case !ok:
			fmt.Fprintln(c.out, "Engine is off.")
		case cp >= engine.MateScore:
			fmt.Fprintln(c.out, "White is mating.")
		case cp <= -engine.MateScore:
			fmt.Fprintln(c.out, "Black is mating.")
		default:
			fmt.Fprintf(c.out, "%+.2f\n", float64(cp)/100.0)
		}
	case "opening":
		if code, title := c.builder.Opening(); code != "" {
			fmt.Fprintf(c.out, "%s %s\n", code, title)
		} else {
			fmt.Fprintln(c.out, "No opening matched.")
		}
	case "save":
		path := quickSavePath
		if len(fields) > 1 {
			path = fields[1]
		}
		c.saveTo(path)
	case "new":
		c.builder.CreateClassic()
		c.printBoard()
		c.printStatus()
	default:
		// whole line as a move, SAN first then UCI
		c.tryMove(line)
	}
	return false
}

func (c *CLIProcessing) tryMove(s string) {
	status := c.builder.MoveSAN(s)
	if status == base.InvalidGame {
		if mv, err := base.MoveFromUCI(s); err == nil {
			status = c.builder.Move(mv)
		}
	}
	if status == base.InvalidGame {
		fmt.Fprintf(c.out, "Invalid move: %s\n", s)
		return
	}
	c.printBoard()
	c.printStatus()
	if status.Terminal() {
		fmt.Fprintf(c.out, "Game over: %s\n", c.builder.ResultText())
	}
}

func (c *CLIProcessing) saveTo(path string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		fmt.Fprintf(c.out, "error open %s: %v\n", path, err)
		return
	}
	defer f.Close()
	if err := c.builder.PGN(f); err != nil {
		fmt.Fprintf(c.out, "error write pgn: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Saved to %s\n", path)
}

func (c *CLIProcessing) printBoard() {
	c.draw(c.out, c.builder.CurrentBoard())
}

func (c *CLIProcessing) printStatus() {
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "FEN: %s\n", c.builder.FEN())
	if body := c.builder.PGNBody(); body != "" {
		fmt.Fprintf(c.out, "Moves: %s\n", body)
	}
	fmt.Fprintf(c.out, "Status: %s\n", statusString(c.builder.Status()))
}

func (c *CLIProcessing) printHelp() {
	fmt.Fprint(c.out, `Commands:
  move <san|uci>  play a move (a bare move works too)
  undo / redo     walk the game history
  moves           numbered move list
  fen             current position as FEN
  pgn             full game as PGN
  hint            engine's suggestion
  eval            engine's score, White's view
  opening         ECO name of the current line
  save [path]     write PGN, default `+quickSavePath+`
  new             start over from the initial position
  quit            leave
`)
}

func sideName(c base.Color) string {
	if c == base.White {
		return "White"
	}
	return "Black"
}

func statusString(s base.GameStatus) string {
	switch s {
	case base.Check:
		return "Check"
	case base.Checkmate:
		return "Checkmate"
	case base.Stalemate:
		return "Stalemate"
	case base.DrawGame:
		return "Draw"
	case base.Resigned:
		return "Resigned"
	case base.Pass:
		return "Normal"
	case base.InvalidGame:
		return "Invalid"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

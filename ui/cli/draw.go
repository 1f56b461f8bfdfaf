package cli

import (
	"fmt"
	"io"

	"chessdesk/src/base"
)

// ANSI-code
const (
	ansiReset   = "\033[0m"
	ansiLight   = "\033[47m"
	ansiDark    = "\033[100m"
	ansiCursor  = "\033[46m"
	ansiPicked  = "\033[43m"
	ansiWhiteF  = "\033[97m"
	ansiBlackF  = "\033[30m"
	ansiDimF    = "\033[90m"
	ansiClear   = "\033[H\033[2J"
)

// Piece -> unicode glyph
func pieceGlyph(p base.Piece) string {
	switch p {
	case base.WKing:
		return "♔"
	case base.WQueen:
		return "♕"
	case base.WRook:
		return "♖"
	case base.WBishop:
		return "♗"
	case base.WKnight:
		return "♘"
	case base.WPawn:
		return "♙"
	case base.BKing:
		return "♚"
	case base.BQueen:
		return "♛"
	case base.BRook:
		return "♜"
	case base.BBishop:
		return "♝"
	case base.BKnight:
		return "♞"
	case base.BPawn:
		return "♟"
	case base.EmptyPiece:
		return " "
	default:
		return "?"
	}
}

// PrintMailbox renders the board from White's view, ANSI backgrounds
// and unicode glyphs, "\n" endings for cooked-mode terminals.
func PrintMailbox(w io.Writer, m base.Mailbox) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(w, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sq := base.SquareOf(file, rank)
			fmt.Fprint(w, cell(m[sq], sq, base.NoSquare, base.NoSquare))
		}
		fmt.Fprintf(w, " %d\n", rank+1)
	}
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
	fmt.Fprintln(w)
}

// PrintMailboxCursor is the raw-mode variant: a movable cursor square,
// an optional picked-up square, and "\r\n" endings because raw mode
// turns output post-processing off.
func PrintMailboxCursor(w io.Writer, m base.Mailbox, cursor, picked base.Square) {
	fmt.Fprint(w, "\r\n   a  b  c  d  e  f  g  h\r\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(w, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			sq := base.SquareOf(file, rank)
			fmt.Fprint(w, cell(m[sq], sq, cursor, picked))
		}
		fmt.Fprintf(w, " %d\r\n", rank+1)
	}
	fmt.Fprint(w, "   a  b  c  d  e  f  g  h\r\n\r\n")
}

func cell(p base.Piece, sq, cursor, picked base.Square) string {
	g := pieceGlyph(p)

	lightSquare := (sq.Rank()+sq.File())%2 == 0
	var bg, fg string
	if lightSquare {
		bg = ansiLight
		fg = ansiBlackF
		if p == base.EmptyPiece {
			fg = ansiDimF
		}
	} else {
		bg = ansiDark
		switch p.Color() {
		case base.White:
			fg = ansiWhiteF
		case base.Black:
			fg = ansiBlackF
		default:
			fg = ansiDimF
		}
	}

	// cursor wins over a held selection
	if sq == picked {
		bg = ansiPicked
		fg = ansiBlackF
	}
	if sq == cursor {
		bg = ansiCursor
		fg = ansiBlackF
	}

	return fmt.Sprintf("%s%s %s %s", bg, fg, g, ansiReset)
}

package base

import "fmt"

// Forsyth–Edwards Notation
const FEN_START_GAME string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

type Kind uint8

const (
	King Kind = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
	NoKind
)

type Piece uint8

const (
	WKing Piece = iota
	WQueen
	WRook
	WBishop
	WKnight
	WPawn
	BKing
	BQueen
	BRook
	BBishop
	BKnight
	BPawn
	EmptyPiece
)

func PieceOf(c Color, k Kind) Piece {
	if k == NoKind || c == NoColor {
		return EmptyPiece
	}
	if c == White {
		return Piece(k)
	}
	return Piece(uint8(k) + 6)
}

func (p Piece) Color() Color {
	switch {
	case p <= WPawn:
		return White
	case p <= BPawn:
		return Black
	default:
		return NoColor
	}
}

func (p Piece) Kind() Kind {
	if p >= EmptyPiece {
		return NoKind
	}
	return Kind(uint8(p) % 6)
}

// ---- Squares ----

// Square indexes a1=0 .. h8=63, rank-major like FEN board order reversed.
type Square int

const NoSquare Square = -1

func SquareOf(file, rank int) Square {
	return Square(rank*8 + file)
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) Valid() bool { return s >= 0 && s < 64 }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]rune{rune(s.File() + 'a'), rune(s.Rank() + '1')})
}

func SquareFromAlgebraic(pos string) (Square, error) {
	// 'a' ~ 'h' to 0-7
	// '1' ~ '8' to 0-7
	if len(pos) != 2 || pos[0] < 'a' || pos[0] > 'h' || pos[1] < '1' || pos[1] > '8' {
		return NoSquare, fmt.Errorf("invalid position")
	}
	return Square(int(pos[1]-'1')*8 + int(pos[0]-'a')), nil
}

// ---- Moves ----

type Promotion uint8

const (
	PromoNone Promotion = iota
	PromoQueen
	PromoRook
	PromoBishop
	PromoKnight
)

func (p Promotion) Rune() rune {
	switch p {
	case PromoQueen:
		return 'q'
	case PromoRook:
		return 'r'
	case PromoBishop:
		return 'b'
	case PromoKnight:
		return 'n'
	default:
		return 0
	}
}

func PromotionFromRune(r rune) Promotion {
	switch r {
	case 'q', 'Q':
		return PromoQueen
	case 'r', 'R':
		return PromoRook
	case 'b', 'B':
		return PromoBishop
	case 'n', 'N':
		return PromoKnight
	default:
		return PromoNone
	}
}

// Move is immutable once built: from-square, to-square, optional promotion.
type Move struct {
	From  Square
	To    Square
	Promo Promotion
}

// UCI form: e2e4, e7e8q etc.
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if r := m.Promo.Rune(); r != 0 {
		s += string(r)
	}
	return s
}

func (m Move) String() string { return m.UCI() }

func MoveFromUCI(s string) (Move, error) {
	if len(s) < 4 {
		return Move{}, fmt.Errorf("short uci move: %q", s)
	}
	from, err := SquareFromAlgebraic(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("bad uci move %q: %v", s, err)
	}
	to, err := SquareFromAlgebraic(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("bad uci move %q: %v", s, err)
	}
	mv := Move{From: from, To: to}
	if len(s) >= 5 {
		mv.Promo = PromotionFromRune(rune(s[4]))
	}
	return mv, nil
}

// ---- Game status ----

type GameStatus uint8

const (
	Check       GameStatus = 10
	Checkmate   GameStatus = 11
	Stalemate   GameStatus = 12
	DrawGame    GameStatus = 13
	Resigned    GameStatus = 14
	InvalidGame GameStatus = 88
	Pass        GameStatus = 99
)

func (gs GameStatus) String() string {
	switch gs {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawGame:
		return "draw"
	case Resigned:
		return "resigned"
	case Pass:
		return "pass"
	default:
		return "invalid"
	}
}

func (gs GameStatus) Terminal() bool {
	return gs == Checkmate || gs == Stalemate || gs == DrawGame || gs == Resigned
}

// ---- Mailbox ----

type Mailbox [64]Piece

func GetPieceAt(mb *Mailbox, sq Square) Piece {
	if mb == nil || !sq.Valid() {
		return EmptyPiece
	}
	return mb[sq]
}

func ConvertRuneFromPiece(p Piece) rune {
	switch p {
	case WPawn:
		return 'P'
	case WKnight:
		return 'N'
	case WBishop:
		return 'B'
	case WRook:
		return 'R'
	case WQueen:
		return 'Q'
	case WKing:
		return 'K'
	case BPawn:
		return 'p'
	case BKnight:
		return 'n'
	case BBishop:
		return 'b'
	case BRook:
		return 'r'
	case BQueen:
		return 'q'
	case BKing:
		return 'k'
	default:
		return '.'
	}
}

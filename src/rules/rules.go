// Package rules adapts the external chess rules library to the small
// board types the rest of the program speaks. Nothing here implements
// chess itself: legality, status and notation all come from the library.
package rules

import (
	"fmt"
	"io"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"

	"chessdesk/src/base"
)

var (
	ecoOnce sync.Once
	ecoBook *opening.BookECO
)

func book() *opening.BookECO {
	ecoOnce.Do(func() { ecoBook = opening.NewBookECO() })
	return ecoBook
}

// Session owns one game. History is linear: every applied move is kept
// as UCI text and the position is rebuilt by replaying it, so the
// invariant "replay(start, history) == current" holds by construction.
type Session struct {
	game     *nchess.Game
	startFEN string
	moves    []string // applied, uci
	sans     []string // same moves, SAN
	redo     []string // undone, LIFO
}

func NewSession() *Session {
	s, _ := NewSessionFEN(base.FEN_START_GAME)
	return s
}

func NewSessionFEN(fen string) (*Session, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrMalformedFEN, err)
	}
	g := nchess.NewGame(opt)
	return &Session{game: g, startFEN: g.FEN()}, nil
}

// NewSessionPGN reads one game and flattens its mainline into linear
// history. Variations and comments are dropped.
func NewSessionPGN(r io.Reader) (*Session, error) {
	opt, err := nchess.PGN(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", base.ErrMalformedPGN, err)
	}
	parsed := nchess.NewGame(opt)

	start := parsed.GetTagPair("FEN")
	if start == "" {
		start = base.FEN_START_GAME
	}
	s, err := NewSessionFEN(start)
	if err != nil {
		return nil, fmt.Errorf("%w: bad FEN tag: %v", base.ErrMalformedPGN, err)
	}

	poss := parsed.Positions()
	for i, mv := range parsed.Moves() {
		uci := nchess.UCINotation{}.Encode(poss[i], mv)
		if err := s.pushUCI(uci); err != nil {
			return nil, fmt.Errorf("%w: move %d (%s)", base.ErrMalformedPGN, i+1, uci)
		}
	}

	// mate/stalemate/material draws reappear on replay, resignation does not
	if parsed.Method() == nchess.Resignation {
		switch parsed.Outcome() {
		case nchess.WhiteWon:
			s.game.Resign(nchess.Black)
		case nchess.BlackWon:
			s.game.Resign(nchess.White)
		}
	}
	return s, nil
}

// ---- queries ----

func (s *Session) StartFEN() string { return s.startFEN }
func (s *Session) FEN() string      { return s.game.FEN() }

func (s *Session) HistoryLen() int { return len(s.moves) }
func (s *Session) RedoLen() int    { return len(s.redo) }

func (s *Session) MovesUCI() []string {
	out := make([]string, len(s.moves))
	copy(out, s.moves)
	return out
}

func (s *Session) MovesSAN() []string {
	out := make([]string, len(s.sans))
	copy(out, s.sans)
	return out
}

func (s *Session) LastMove() (base.Move, bool) {
	if len(s.moves) == 0 {
		return base.Move{}, false
	}
	mv, err := base.MoveFromUCI(s.moves[len(s.moves)-1])
	if err != nil {
		return base.Move{}, false
	}
	return mv, true
}

func (s *Session) SideToMove() base.Color {
	if s.game.Position().Turn() == nchess.White {
		return base.White
	}
	return base.Black
}

func (s *Session) Board() base.Mailbox {
	var mb base.Mailbox
	b := s.game.Position().Board()
	for i := 0; i < 64; i++ {
		mb[i] = pieceFromLib(b.Piece(nchess.Square(i)))
	}
	return mb
}

func (s *Session) PieceAt(sq base.Square) base.Piece {
	if !sq.Valid() {
		return base.EmptyPiece
	}
	return pieceFromLib(s.game.Position().Board().Piece(nchess.Square(sq)))
}

// Status reports the state after the last applied move. A position
// loaded from FEN with the mover already in check reads as Pass until
// a move lands; only SAN of an applied move carries the check mark.
func (s *Session) Status() base.GameStatus {
	if s.game.Outcome() != nchess.NoOutcome {
		switch s.game.Method() {
		case nchess.Checkmate:
			return base.Checkmate
		case nchess.Stalemate:
			return base.Stalemate
		case nchess.Resignation:
			return base.Resigned
		default:
			return base.DrawGame
		}
	}
	if n := len(s.sans); n > 0 && strings.HasSuffix(s.sans[n-1], "+") {
		return base.Check
	}
	return base.Pass
}

// Outcome is the PGN result string: *, 1-0, 0-1 or 1/2-1/2.
func (s *Session) Outcome() string { return string(s.game.Outcome()) }

// ResultText is a short human line for the game over modal.
func (s *Session) ResultText() string {
	switch s.game.Method() {
	case nchess.Checkmate:
		winner := "white"
		if s.game.Outcome() == nchess.BlackWon {
			winner = "black"
		}
		return fmt.Sprintf("Checkmate, %s wins", winner)
	case nchess.Stalemate:
		return "Stalemate"
	case nchess.Resignation:
		winner := "white"
		if s.game.Outcome() == nchess.BlackWon {
			winner = "black"
		}
		return fmt.Sprintf("Resignation, %s wins", winner)
	case nchess.InsufficientMaterial:
		return "Draw, insufficient material"
	case nchess.ThreefoldRepetition, nchess.FivefoldRepetition:
		return "Draw by repetition"
	case nchess.FiftyMoveRule, nchess.SeventyFiveMoveRule:
		return "Draw, move rule"
	case nchess.DrawOffer:
		return "Draw agreed"
	default:
		return ""
	}
}

func (s *Session) IsLegal(mv base.Move) bool {
	for _, vm := range s.game.ValidMoves() {
		if matches(&vm, mv) {
			return true
		}
	}
	return false
}

// LegalTargets lists destination squares of every legal move from sq.
// Promotions collapse to one entry per destination.
func (s *Session) LegalTargets(from base.Square) []base.Square {
	var out []base.Square
	seen := [64]bool{}
	for _, vm := range s.game.ValidMoves() {
		if base.Square(vm.S1()) != from {
			continue
		}
		to := base.Square(vm.S2())
		if !seen[to] {
			seen[to] = true
			out = append(out, to)
		}
	}
	return out
}

// NeedsPromotion reports whether from-to is a legal pawn promotion.
func (s *Session) NeedsPromotion(from, to base.Square) bool {
	for _, vm := range s.game.ValidMoves() {
		if base.Square(vm.S1()) == from && base.Square(vm.S2()) == to &&
			vm.Promo() != nchess.NoPieceType {
			return true
		}
	}
	return false
}

// ---- mutations ----

// Push applies mv. On success the redo stack is cleared.
func (s *Session) Push(mv base.Move) error {
	if err := s.pushUCI(mv.UCI()); err != nil {
		return err
	}
	s.redo = s.redo[:0]
	return nil
}

// DecodeSAN resolves algebraic notation against the current position
// without applying it.
func (s *Session) DecodeSAN(san string) (base.Move, error) {
	san = strings.TrimSpace(san)
	mv, err := nchess.AlgebraicNotation{}.Decode(s.game.Position(), san)
	if err != nil {
		return base.Move{}, fmt.Errorf("%w: %s", base.ErrIllegalMove, san)
	}
	return base.Move{
		From:  base.Square(mv.S1()),
		To:    base.Square(mv.S2()),
		Promo: promoFromLib(mv.Promo()),
	}, nil
}

// PushSAN applies a move written in algebraic notation.
func (s *Session) PushSAN(san string) error {
	san = strings.TrimSpace(san)
	if err := s.game.PushNotationMove(san, nchess.AlgebraicNotation{}, nil); err != nil {
		return fmt.Errorf("%w: %s", base.ErrIllegalMove, san)
	}
	s.appendApplied()
	s.redo = s.redo[:0]
	return nil
}

func (s *Session) pushUCI(uci string) error {
	if err := s.game.PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
		return fmt.Errorf("%w: %s", base.ErrIllegalMove, uci)
	}
	s.appendApplied()
	return nil
}

// appendApplied records the move the library just accepted, in both
// notations. Positions()[n-2] is the position the move was played from.
func (s *Session) appendApplied() {
	poss := s.game.Positions()
	mvs := s.game.Moves()
	last := mvs[len(mvs)-1]
	s.sans = append(s.sans, nchess.AlgebraicNotation{}.Encode(poss[len(poss)-2], last))
	s.moves = append(s.moves, nchess.UCINotation{}.Encode(poss[len(poss)-2], last))
}

// Undo takes back the last applied move and parks it for Redo.
func (s *Session) Undo() bool {
	if len(s.moves) == 0 {
		return false
	}
	last := s.moves[len(s.moves)-1]
	s.moves = s.moves[:len(s.moves)-1]
	s.sans = s.sans[:len(s.sans)-1]
	s.rebuild()
	s.redo = append(s.redo, last)
	return true
}

// Redo replays the most recently undone move, keeping the rest of the
// redo stack intact.
func (s *Session) Redo() bool {
	n := len(s.redo)
	if n == 0 {
		return false
	}
	uci := s.redo[n-1]
	if err := s.pushUCI(uci); err != nil {
		return false
	}
	s.redo = s.redo[:n-1]
	return true
}

// rebuild replays the recorded history from the start position. Every
// recorded move was legal when applied, so replay cannot fail on a
// healthy session.
func (s *Session) rebuild() {
	opt, err := nchess.FEN(s.startFEN)
	if err != nil {
		return
	}
	g := nchess.NewGame(opt)
	sans := make([]string, 0, len(s.moves))
	for i, uci := range s.moves {
		poss := g.Positions()
		if err := g.PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
			s.moves = s.moves[:i]
			break
		}
		mvs := g.Moves()
		sans = append(sans, nchess.AlgebraicNotation{}.Encode(poss[len(poss)-1], mvs[len(mvs)-1]))
	}
	s.game = g
	s.sans = sans
}

func (s *Session) Resign(c base.Color) {
	switch c {
	case base.White:
		s.game.Resign(nchess.White)
	case base.Black:
		s.game.Resign(nchess.Black)
	}
}

// ---- PGN ----

// SetTag stores a PGN tag pair on the game.
func (s *Session) SetTag(k, v string) { s.game.AddTagPair(k, v) }

// PGN renders the game, tags included.
func (s *Session) PGN() string { return s.game.String() }

func (s *Session) WritePGN(w io.Writer) error {
	_, err := io.WriteString(w, s.PGN())
	return err
}

// Opening resolves the current mainline against the ECO book. Empty
// strings when the line is not in the book.
func (s *Session) Opening() (code, title string) {
	mvs := s.game.Moves()
	if len(mvs) == 0 {
		return "", ""
	}
	eco := book().Find(mvs)
	if eco == nil {
		return "", ""
	}
	return eco.Code(), eco.Title()
}

// ---- piece conversion ----

func matches(vm *nchess.Move, mv base.Move) bool {
	if base.Square(vm.S1()) != mv.From || base.Square(vm.S2()) != mv.To {
		return false
	}
	return promoFromLib(vm.Promo()) == mv.Promo
}

func promoFromLib(pt nchess.PieceType) base.Promotion {
	switch pt {
	case nchess.Queen:
		return base.PromoQueen
	case nchess.Rook:
		return base.PromoRook
	case nchess.Bishop:
		return base.PromoBishop
	case nchess.Knight:
		return base.PromoKnight
	default:
		return base.PromoNone
	}
}

func pieceFromLib(p nchess.Piece) base.Piece {
	if p == nchess.NoPiece {
		return base.EmptyPiece
	}
	var c base.Color
	if p.Color() == nchess.White {
		c = base.White
	} else {
		c = base.Black
	}
	var k base.Kind
	switch p.Type() {
	case nchess.King:
		k = base.King
	case nchess.Queen:
		k = base.Queen
	case nchess.Rook:
		k = base.Rook
	case nchess.Bishop:
		k = base.Bishop
	case nchess.Knight:
		k = base.Knight
	case nchess.Pawn:
		k = base.Pawn
	default:
		return base.EmptyPiece
	}
	return base.PieceOf(c, k)
}

package src

import (
	"fmt"
	"io"
	"strings"

	"chessdesk/src/base"
	"chessdesk/src/engine"
	"chessdesk/src/logic/accuracy"
	"chessdesk/src/logic/clockx"
	"chessdesk/src/logx"
	"chessdesk/src/rules"
)

// at first use Create* methods
type GameBuilder struct {
	session *rules.Session
	status  base.GameStatus

	ledger *accuracy.Ledger
	scored []bool // per applied move: did it get a ledger entry
	clock  *clockx.Clock
	clockM int
	clockI int

	gateway *engine.Gateway // analysis instance, builder-owned
	evalCP  int             // white view, valid when evalOK
	evalOK  bool

	logger logx.Logger
}

func NewBuilderBoard(logger logx.Logger) *GameBuilder {
	return &GameBuilder{
		session: rules.NewSession(),
		status:  base.Pass,
		ledger:  accuracy.NewLedger(),
		clock:   clockx.New(10, 0),
		clockM:  10,
		logger:  logger,
	}
}

// ---- game creation ----

func (gb *GameBuilder) CreateClassic() {
	gb.logger.Debug("create classic game")
	gb.session = rules.NewSession()
	gb.resetDerived()
}

func (gb *GameBuilder) CreateFromFEN(fen string) (base.GameStatus, error) {
	gb.logger.Debugf("create game by FEN: %v", fen)
	s, err := rules.NewSessionFEN(fen)
	if err != nil {
		return base.InvalidGame, err
	}
	gb.session = s
	gb.resetDerived()
	return gb.status, nil
}

func (gb *GameBuilder) CreateFromPGN(r io.Reader) (base.GameStatus, error) {
	gb.logger.Debug("create game by PGN")
	s, err := rules.NewSessionPGN(r)
	if err != nil {
		return base.InvalidGame, err
	}
	gb.session = s
	gb.resetDerived()
	return gb.status, nil
}

// resetDerived drops everything computed from the old game: ledger,
// cached eval, engine memo, clock.
func (gb *GameBuilder) resetDerived() {
	gb.ledger.Reset()
	gb.scored = gb.scored[:0]
	gb.evalOK = false
	if gb.gateway != nil {
		gb.gateway.ClearCache()
	}
	gb.clock.Reset(gb.clockM, gb.clockI)
	gb.clock.SetActive(gb.session.SideToMove())
	gb.status = gb.session.Status()
}

// ---- queries ----

func (gb *GameBuilder) Status() base.GameStatus    { return gb.status }
func (gb *GameBuilder) CurrentBoard() base.Mailbox { return gb.session.Board() }
func (gb *GameBuilder) SideToMove() base.Color     { return gb.session.SideToMove() }
func (gb *GameBuilder) FEN() string                { return gb.session.FEN() }
func (gb *GameBuilder) HistoryLen() int            { return gb.session.HistoryLen() }
func (gb *GameBuilder) RedoLen() int               { return gb.session.RedoLen() }
func (gb *GameBuilder) MovesSAN() []string         { return gb.session.MovesSAN() }
func (gb *GameBuilder) ResultText() string         { return gb.session.ResultText() }
func (gb *GameBuilder) Outcome() string            { return gb.session.Outcome() }

func (gb *GameBuilder) LastMove() (base.Move, bool) { return gb.session.LastMove() }

func (gb *GameBuilder) LegalTargets(from base.Square) []base.Square {
	return gb.session.LegalTargets(from)
}

func (gb *GameBuilder) PieceAt(sq base.Square) base.Piece { return gb.session.PieceAt(sq) }

func (gb *GameBuilder) Opening() (code, title string) { return gb.session.Opening() }

// Eval is the cached engine evaluation of the current position, white
// point of view, recomputed on every commit/undo/redo while the engine
// is up.
func (gb *GameBuilder) Eval() (int, bool) { return gb.evalCP, gb.evalOK }

func (gb *GameBuilder) Accuracy(c base.Color) (avg float64, moves int) {
	return gb.ledger.Average(c), gb.ledger.Count(c)
}

func (gb *GameBuilder) LastAccuracy(c base.Color) (float64, bool) {
	return gb.ledger.Last(c)
}

func (gb *GameBuilder) Clock() *clockx.Clock { return gb.clock }

// SetClock reconfigures time control. Takes effect on the next game.
func (gb *GameBuilder) SetClock(minutes, incrementSec int) {
	gb.clockM = minutes
	gb.clockI = incrementSec
}

// ---- the commit pipeline ----

// Move runs the full commit pipeline: promotion default, legality,
// accuracy scoring, history append, eval recompute, clock hand-over.
// A rejected move leaves every piece of state untouched.
func (gb *GameBuilder) Move(move base.Move) base.GameStatus {
	if gb.status.Terminal() {
		return base.InvalidGame
	}

	// no underpromotion dialog: unannotated last-rank pawn moves queen
	if move.Promo == base.PromoNone && gb.session.NeedsPromotion(move.From, move.To) {
		move.Promo = base.PromoQueen
	}

	preFEN := gb.session.FEN()
	mover := gb.session.SideToMove()

	var best base.Move
	var bestScore int
	bestOK := false
	if gb.EngineOn() {
		best, bestScore, bestOK = gb.gateway.BestMove(preFEN)
	}

	if err := gb.session.Push(move); err != nil {
		gb.logger.Debugf("reject move %s: %v", move.UCI(), err)
		return base.InvalidGame
	}
	gb.logger.Infof("move %s", move.UCI())
	gb.status = gb.session.Status()

	gb.scored = append(gb.scored, gb.scoreCommitted(move, mover, best, bestScore, bestOK))
	gb.recomputeEval()

	if !gb.clock.Running() {
		gb.clock.Start()
	}
	gb.clock.Switch(gb.session.SideToMove())
	if gb.status.Terminal() {
		gb.clock.Pause()
	}
	return gb.status
}

// scoreCommitted grades the just-applied move and reports whether a
// ledger entry was made. Mate and stalemate the mover forced are
// graded without asking the engine about a finished position.
func (gb *GameBuilder) scoreCommitted(move base.Move, mover base.Color, best base.Move, bestScore int, bestOK bool) bool {
	if !bestOK {
		return false
	}
	var moverScore int
	switch gb.status {
	case base.Checkmate:
		moverScore = engine.MateScore
	case base.Stalemate, base.DrawGame:
		moverScore = 0
	default:
		white, ok := gb.gateway.Evaluate(gb.session.FEN())
		if !ok {
			return false
		}
		moverScore = white
		if mover == base.Black {
			moverScore = -white
		}
	}
	loss := bestScore - moverScore
	pct := accuracy.Score(best, move, loss)
	gb.ledger.Append(mover, pct)
	gb.logger.Debugf("accuracy %s: %.1f (loss %d)", move.UCI(), pct, loss)
	return true
}

func (gb *GameBuilder) MoveSAN(san string) base.GameStatus {
	gb.logger.Infof("move SAN: %v", san)
	mv, err := gb.session.DecodeSAN(san)
	if err != nil {
		gb.logger.Debugf("reject san %q: %v", san, err)
		return base.InvalidGame
	}
	return gb.Move(mv)
}

// Undo pops the last move, its ledger entry if it had one, refreshes
// eval and hands the clock back. Returns the restored status.
func (gb *GameBuilder) Undo() base.GameStatus {
	gb.logger.Debug("call undo")
	if !gb.session.Undo() {
		return gb.status
	}
	n := gb.session.HistoryLen()
	if len(gb.scored) > n {
		if gb.scored[n] {
			gb.ledger.Pop(gb.session.SideToMove())
		}
		gb.scored = gb.scored[:n]
	}
	gb.afterHistoryShift()
	return gb.status
}

// Redo replays the undone move. The replayed move is not re-scored:
// its ledger entry was consumed by Undo and the engine context that
// produced it is gone.
func (gb *GameBuilder) Redo() base.GameStatus {
	gb.logger.Debug("call redo")
	if !gb.session.Redo() {
		return gb.status
	}
	gb.scored = append(gb.scored, false)
	gb.afterHistoryShift()
	return gb.status
}

func (gb *GameBuilder) afterHistoryShift() {
	gb.status = gb.session.Status()
	gb.recomputeEval()
	gb.clock.SetActive(gb.session.SideToMove())
	if gb.status.Terminal() {
		gb.clock.Pause()
	} else if gb.session.HistoryLen() > 0 {
		gb.clock.Start()
	}
}

func (gb *GameBuilder) recomputeEval() {
	if !gb.EngineOn() || gb.status.Terminal() {
		gb.evalOK = false
		return
	}
	gb.evalCP, gb.evalOK = gb.gateway.Evaluate(gb.session.FEN())
}

func (gb *GameBuilder) Resign(c base.Color) base.GameStatus {
	gb.session.Resign(c)
	gb.status = gb.session.Status()
	if gb.status.Terminal() {
		gb.clock.Pause()
	}
	return gb.status
}

// ---- PGN ----

// SetTag stores a PGN header tag for the next save.
func (gb *GameBuilder) SetTag(k, v string) { gb.session.SetTag(k, v) }

// PGN writes the tagged game.
func (gb *GameBuilder) PGN(w io.Writer) error {
	return gb.session.WritePGN(w)
}

// PGNBody is the numbered SAN movetext without headers.
func (gb *GameBuilder) PGNBody() string {
	sans := gb.session.MovesSAN()
	var b strings.Builder
	for i, san := range sans {
		if i%2 == 0 {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d. %s", i/2+1, san)
		} else {
			b.WriteByte(' ')
			b.WriteString(san)
		}
	}
	return b.String()
}

// ---- engine ----

// SetEngineGateway hands the builder its analysis engine. The builder
// owns it from here: Close() tears it down, and replacing it closes
// the old one.
func (gb *GameBuilder) SetEngineGateway(g *engine.Gateway) {
	if gb.gateway != nil && gb.gateway != g {
		gb.gateway.Close()
	}
	gb.gateway = g
}

func (gb *GameBuilder) EngineOn() bool {
	return gb.gateway != nil && gb.gateway.Available()
}

func (gb *GameBuilder) SetEngineLevel(lvl engine.LevelAnalyze) {
	gb.logger.Debugf("set level engine: %v", lvl)
	if gb.gateway != nil {
		gb.gateway.SetLevel(lvl)
	}
}

// Hint is the engine's move for the current position. The gateway
// memoizes per position, so calling this every frame is fine.
func (gb *GameBuilder) Hint() (base.Move, bool) {
	if !gb.EngineOn() || gb.status.Terminal() {
		return base.Move{}, false
	}
	mv, _, ok := gb.gateway.BestMove(gb.session.FEN())
	return mv, ok
}

// EngineMove lets the analysis engine play the side to move, through
// the normal commit pipeline.
func (gb *GameBuilder) EngineMove() base.GameStatus {
	if !gb.EngineOn() || gb.status.Terminal() {
		return base.InvalidGame
	}
	mv, _, ok := gb.gateway.BestMove(gb.session.FEN())
	if !ok {
		return base.InvalidGame
	}
	gb.logger.Infof("best engine move: %v", mv)
	return gb.Move(mv)
}

// Close releases the analysis engine. Safe to call twice.
func (gb *GameBuilder) Close() {
	if gb.gateway != nil {
		gb.gateway.Close()
	}
}

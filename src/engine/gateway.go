package engine

import (
	"strconv"
	"strings"
	"sync"

	"chessdesk/src/base"
	"chessdesk/src/logx"
)

// cacheLimit bounds the per-position result map. The whole map is
// dropped when the limit is crossed.
const cacheLimit = 1024

// DefaultMoveTimeMs is the analysis budget for hints and evaluation.
const DefaultMoveTimeMs = 500

// Factory opens a fresh engine transport. Nil means no engine is
// configured.
type Factory func() Engine

type cachedBest struct {
	mv    base.Move
	score int
	ok    bool
}

// Gateway is a synchronous request/response facade over one UCI
// subprocess. It owns the process: lazy start on the first request,
// Close on shutdown and on mode switch. Any transport failure turns
// into "no result" and flips the gateway into a degraded state, it
// never reaches the caller as an error.
//
// The mutex doubles as the at-most-one-outstanding-request guarantee.
type Gateway struct {
	logx logx.Logger

	mu       sync.Mutex
	spawn    Factory
	exec     Engine
	degraded bool
	params   SearchParams
	elo      int // 0 = unrestricted
	cache    map[string]cachedBest
}

func NewGateway(lg logx.Logger, spawn Factory) *Gateway {
	return &Gateway{
		logx:   lg,
		spawn:  spawn,
		params: SearchParams{MaxTimeMs: DefaultMoveTimeMs},
		cache:  make(map[string]cachedBest),
	}
}

// SetSpawner swaps the engine source. The running process is torn
// down; the degraded flag and the cache start clean.
func (g *Gateway) SetSpawner(spawn Factory) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.teardownLocked()
	g.spawn = spawn
	g.degraded = false
	g.cache = make(map[string]cachedBest)
}

// Available reports whether requests can possibly be served. False
// once the gateway degraded or when no engine is configured.
func (g *Gateway) Available() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.spawn != nil && !g.degraded
}

// SetLevel applies a strength preset: search budget plus the bounded
// rating that goes with it. LevelLast lifts the rating restriction.
func (g *Gateway) SetLevel(lvl LevelAnalyze) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.params = LevelToParams(lvl)
	g.elo = LevelToElo(lvl)
	g.cache = make(map[string]cachedBest)
	if g.exec != nil {
		g.applyStrengthLocked()
	}
}

// SetElo pins UCI_LimitStrength to a rating, clamped to the range
// engines accept. 0 lifts the restriction.
func (g *Gateway) SetElo(elo int) {
	if elo != 0 {
		if elo < EloMin {
			elo = EloMin
		}
		if elo > EloMax {
			elo = EloMax
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.elo = elo
	g.cache = make(map[string]cachedBest)
	if g.exec != nil {
		g.applyStrengthLocked()
	}
}

// SetMoveTime overrides the search budget in milliseconds.
func (g *Gateway) SetMoveTime(ms int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ms > 0 {
		g.params.MaxTimeMs = ms
	}
}

// BestMove asks for the strongest move in fen. The score is centipawns
// from the side to move's point of view, mates saturated to ±MateScore.
// ok is false whenever no engine answer exists: not configured,
// degraded, dead process, timeout, mated position.
func (g *Gateway) BestMove(fen string) (base.Move, int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, hit := g.cache[fen]; hit {
		return c.mv, c.score, c.ok
	}
	mv, score, ok := g.requestLocked(fen)
	if len(g.cache) >= cacheLimit {
		g.cache = make(map[string]cachedBest)
	}
	g.cache[fen] = cachedBest{mv: mv, score: score, ok: ok}
	return mv, score, ok
}

// Evaluate reports the position score in centipawns from White's point
// of view.
func (g *Gateway) Evaluate(fen string) (int, bool) {
	_, score, ok := g.BestMove(fen)
	if !ok {
		return 0, false
	}
	if !whiteToMove(fen) {
		score = -score
	}
	return score, true
}

// Subscribe taps the live analysis stream. A degraded gateway hands
// back a no-op unsubscribe.
func (g *Gateway) Subscribe(ch chan<- AnalysisInfo) (unsubscribe func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensureLocked(); err != nil {
		return func() {}
	}
	return g.exec.Subscribe(ch)
}

// ClearCache drops memoized results. Called on new game.
func (g *Gateway) ClearCache() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache = make(map[string]cachedBest)
}

// Close tears the process down. Safe on an idle or already-dead
// gateway; a later request starts a fresh process.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.teardownLocked()
	g.degraded = false
}

// ---- internals, g.mu held ----

func (g *Gateway) requestLocked(fen string) (base.Move, int, bool) {
	if err := g.ensureLocked(); err != nil {
		return base.Move{}, 0, false
	}
	if err := g.exec.SetPositionFEN(fen); err != nil {
		g.failLocked("set position", err)
		return base.Move{}, 0, false
	}
	if err := g.exec.StartAnalysis(g.params); err != nil {
		g.failLocked("start analysis", err)
		return base.Move{}, 0, false
	}
	g.exec.WaitDone()

	info := g.exec.BestNow()
	mv, ok := info.Best()
	if !ok {
		g.logx.Debugf("engine gave no move for %s", fen)
		return base.Move{}, 0, false
	}
	return mv, info.Score(), true
}

func (g *Gateway) ensureLocked() error {
	if g.exec != nil {
		return nil
	}
	if g.degraded || g.spawn == nil {
		return base.ErrEngineUnavailable
	}
	ex := g.spawn()
	if ex == nil {
		g.degraded = true
		return base.ErrEngineUnavailable
	}
	if err := ex.Init(); err != nil {
		g.logx.Warnf("engine start failed: %v", err)
		g.degraded = true
		return base.ErrEngineUnavailable
	}
	g.exec = ex
	g.applyStrengthLocked()
	return nil
}

func (g *Gateway) applyStrengthLocked() {
	if g.elo > 0 {
		_ = g.exec.SetOption("UCI_LimitStrength", "true")
		_ = g.exec.SetOption("UCI_Elo", strconv.Itoa(g.elo))
	} else {
		_ = g.exec.SetOption("UCI_LimitStrength", "false")
	}
}

func (g *Gateway) failLocked(what string, err error) {
	g.logx.Warnf("engine %s failed: %v", what, err)
	g.teardownLocked()
	g.degraded = true
}

// teardownLocked tolerates a process that already died.
func (g *Gateway) teardownLocked() {
	if g.exec == nil {
		return
	}
	g.exec.Close()
	g.exec = nil
}

func whiteToMove(fen string) bool {
	f := strings.Fields(fen)
	return len(f) < 2 || f[1] != "b"
}

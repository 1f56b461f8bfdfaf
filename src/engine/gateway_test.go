package engine

import (
	"errors"
	"io"
	"testing"

	"go.uber.org/zap/zapcore"

	"chessdesk/src/base"
	"chessdesk/src/logx"
)

func testLogger() logx.Logger {
	lg := logx.NewLogx(zapcore.FatalLevel, false, false)
	lg.InitLogger(io.Discard)
	return lg
}

type fakeEngine struct {
	initErr error
	posErr  error
	info    AnalysisInfo

	inits      int
	positions  int
	closes     int
	lastParams SearchParams
	opts       map[string]string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{opts: make(map[string]string)}
}

func (f *fakeEngine) Init() error { f.inits++; return f.initErr }
func (f *fakeEngine) SetPositionFEN(fen string) error {
	f.positions++
	return f.posErr
}
func (f *fakeEngine) SetOption(name, value string) error {
	f.opts[name] = value
	return nil
}
func (f *fakeEngine) StartAnalysis(p SearchParams) error { f.lastParams = p; return nil }
func (f *fakeEngine) StopAnalysis() error                { return nil }
func (f *fakeEngine) BestNow() AnalysisInfo              { return f.info }
func (f *fakeEngine) WaitDone()                          {}
func (f *fakeEngine) Subscribe(chan<- AnalysisInfo) func() {
	return func() {}
}
func (f *fakeEngine) Close() { f.closes++ }

func spawnOf(f *fakeEngine) Factory {
	return func() Engine { return f }
}

const someFEN = base.FEN_START_GAME

func TestGatewayNoEngineConfigured(t *testing.T) {
	g := NewGateway(testLogger(), nil)
	if g.Available() {
		t.Error("gateway with nil factory should not be available")
	}
	if _, _, ok := g.BestMove(someFEN); ok {
		t.Error("BestMove without engine must report no result")
	}
	if _, ok := g.Evaluate(someFEN); ok {
		t.Error("Evaluate without engine must report no result")
	}
	g.Close() // no panic on idle gateway
}

func TestGatewayInitFailureDegradesOnce(t *testing.T) {
	f := newFakeEngine()
	f.initErr = errors.New("exec format error")
	g := NewGateway(testLogger(), spawnOf(f))

	if _, _, ok := g.BestMove(someFEN); ok {
		t.Fatal("BestMove should fail when the process cannot start")
	}
	if _, _, ok := g.BestMove(someFEN); ok {
		t.Fatal("second call should fail too")
	}
	if f.inits != 1 {
		t.Errorf("degraded gateway retried init %d times", f.inits)
	}
	if g.Available() {
		t.Error("gateway should read degraded")
	}
}

func TestGatewayBestMoveScoreAndCache(t *testing.T) {
	f := newFakeEngine()
	f.info = AnalysisInfo{UCIBestMove: "e2e4", ScoreCP: 42}
	g := NewGateway(testLogger(), spawnOf(f))

	mv, score, ok := g.BestMove(someFEN)
	if !ok {
		t.Fatal("BestMove failed")
	}
	if mv.UCI() != "e2e4" || score != 42 {
		t.Errorf("got %s %d", mv.UCI(), score)
	}

	// same position again: served from cache, no second request
	if _, _, ok := g.BestMove(someFEN); !ok {
		t.Fatal("cached BestMove failed")
	}
	if f.positions != 1 {
		t.Errorf("positions sent = %d, want 1", f.positions)
	}

	other := "8/P6k/8/8/8/8/7K/8 w - - 0 1"
	f.info = AnalysisInfo{UCIBestMove: "a7a8q", ScoreCP: 900}
	mv, _, ok = g.BestMove(other)
	if !ok || mv.UCI() != "a7a8q" {
		t.Fatalf("second position: %v %v", mv, ok)
	}
	if f.positions != 2 {
		t.Errorf("positions sent = %d, want 2", f.positions)
	}

	g.ClearCache()
	g.BestMove(someFEN)
	if f.positions != 3 {
		t.Errorf("positions after ClearCache = %d, want 3", f.positions)
	}
}

func TestGatewayMateSaturation(t *testing.T) {
	f := newFakeEngine()
	f.info = AnalysisInfo{UCIBestMove: "d1h5", MateIn: 2}
	g := NewGateway(testLogger(), spawnOf(f))

	_, score, ok := g.BestMove(someFEN)
	if !ok || score != MateScore {
		t.Errorf("mate score = %d ok=%v, want %d", score, ok, MateScore)
	}

	f.info = AnalysisInfo{UCIBestMove: "e8d8", MateIn: -1}
	g.ClearCache()
	_, score, _ = g.BestMove(someFEN)
	if score != -MateScore {
		t.Errorf("getting-mated score = %d, want %d", score, -MateScore)
	}
}

func TestGatewayNoBestMoveMeansNoResult(t *testing.T) {
	f := newFakeEngine()
	f.info = AnalysisInfo{} // engine answered "bestmove (none)"
	g := NewGateway(testLogger(), spawnOf(f))
	if _, _, ok := g.BestMove(someFEN); ok {
		t.Error("empty bestmove should report no result")
	}
}

func TestGatewayTransportErrorDegrades(t *testing.T) {
	f := newFakeEngine()
	f.posErr = errors.New("broken pipe")
	f.info = AnalysisInfo{UCIBestMove: "e2e4"}
	g := NewGateway(testLogger(), spawnOf(f))

	if _, _, ok := g.BestMove(someFEN); ok {
		t.Fatal("dead pipe should report no result")
	}
	if f.closes != 1 {
		t.Errorf("broken process closes = %d, want 1", f.closes)
	}
	if g.Available() {
		t.Error("gateway should read degraded after transport failure")
	}
}

func TestGatewayEvaluateWhiteView(t *testing.T) {
	f := newFakeEngine()
	f.info = AnalysisInfo{UCIBestMove: "g8f6", ScoreCP: 50}
	g := NewGateway(testLogger(), spawnOf(f))

	blackToMove := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	score, ok := g.Evaluate(blackToMove)
	if !ok || score != -50 {
		t.Errorf("black-to-move +50 stm = %d white-view, want -50", score)
	}

	g.ClearCache()
	f.info = AnalysisInfo{UCIBestMove: "e2e4", ScoreCP: 50}
	score, ok = g.Evaluate(someFEN)
	if !ok || score != 50 {
		t.Errorf("white-to-move +50 stm = %d white-view, want 50", score)
	}
}

func TestGatewayCloseThenRestart(t *testing.T) {
	f := newFakeEngine()
	f.info = AnalysisInfo{UCIBestMove: "e2e4"}
	g := NewGateway(testLogger(), spawnOf(f))

	g.BestMove(someFEN)
	g.Close()
	if f.closes != 1 {
		t.Fatalf("closes = %d", f.closes)
	}
	g.Close() // second close on a dead process is fine

	g.ClearCache()
	if _, _, ok := g.BestMove(someFEN); !ok {
		t.Fatal("request after Close should lazily restart")
	}
	if f.inits != 2 {
		t.Errorf("inits = %d, want restart", f.inits)
	}
}

func TestGatewayStrengthOptions(t *testing.T) {
	f := newFakeEngine()
	f.info = AnalysisInfo{UCIBestMove: "e2e4"}
	g := NewGateway(testLogger(), spawnOf(f))

	g.SetElo(100) // below the floor
	g.BestMove(someFEN)
	if got := f.opts["UCI_Elo"]; got != "1320" {
		t.Errorf("UCI_Elo = %q, want clamped to floor", got)
	}
	if got := f.opts["UCI_LimitStrength"]; got != "true" {
		t.Errorf("UCI_LimitStrength = %q", got)
	}

	g.SetElo(0)
	if got := f.opts["UCI_LimitStrength"]; got != "false" {
		t.Errorf("UCI_LimitStrength after unrestrict = %q", got)
	}
}

func TestGatewaySetLevelBudget(t *testing.T) {
	f := newFakeEngine()
	f.info = AnalysisInfo{UCIBestMove: "e2e4"}
	g := NewGateway(testLogger(), spawnOf(f))

	g.SetLevel(LevelThree)
	g.BestMove(someFEN)
	want := LevelToParams(LevelThree)
	if f.lastParams != want {
		t.Errorf("params = %+v, want %+v", f.lastParams, want)
	}
	if got := f.opts["UCI_Elo"]; got != "1500" {
		t.Errorf("level three elo = %q", got)
	}
}

func TestLevelFromInt(t *testing.T) {
	tests := []struct {
		n    int
		want LevelAnalyze
	}{
		{0, LevelLast},
		{1, LevelOne},
		{5, LevelFive},
		{10, LevelTen},
		{11, LevelInvalid},
		{-1, LevelInvalid},
	}
	for _, tt := range tests {
		if got := LevelFromInt(tt.n); got != tt.want {
			t.Errorf("LevelFromInt(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestLevelToParamsBudgetsGrow(t *testing.T) {
	prev := LevelToParams(LevelOne)
	for lvl := LevelTwo; lvl <= LevelTen; lvl++ {
		p := LevelToParams(lvl)
		if p.MaxDepth <= prev.MaxDepth || p.MaxTimeMs < prev.MaxTimeMs {
			t.Errorf("level %d budget %+v does not grow from %+v", lvl, p, prev)
		}
		prev = p
	}
}

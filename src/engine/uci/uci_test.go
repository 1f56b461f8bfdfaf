package uci

import (
	"testing"

	"chessdesk/src/engine"
)

func TestParseInfoFullLine(t *testing.T) {
	line := "info depth 12 seldepth 16 multipv 1 score cp 35 nodes 113000 nps 2260000 time 50 pv e2e4 e7e5 g1f3"
	got := ParseInfo(line)

	if got.Depth != 12 {
		t.Errorf("depth = %d", got.Depth)
	}
	if got.Nodes != 113000 {
		t.Errorf("nodes = %d", got.Nodes)
	}
	if got.NPS != 2260000 {
		t.Errorf("nps = %d", got.NPS)
	}
	if got.TimeMs != 50 {
		t.Errorf("time = %d", got.TimeMs)
	}
	if got.ScoreCP != 35 || got.MateIn != 0 {
		t.Errorf("score = %d mate = %d", got.ScoreCP, got.MateIn)
	}
	if got.UCIBestMove != "e2e4" {
		t.Errorf("best = %q, want first pv move", got.UCIBestMove)
	}
	if len(got.UCIPV) != 3 || got.UCIPV[2] != "g1f3" {
		t.Errorf("pv = %v", got.UCIPV)
	}
}

func TestParseInfoMateScore(t *testing.T) {
	got := ParseInfo("info depth 5 score mate 3 pv d1h5")
	if got.MateIn != 3 {
		t.Errorf("mate = %d", got.MateIn)
	}
	if got.Score() != engine.MateScore {
		t.Errorf("folded score = %d", got.Score())
	}

	got = ParseInfo("info depth 5 score mate -2 pv e8e7")
	if got.MateIn != -2 {
		t.Errorf("mate = %d", got.MateIn)
	}
	if got.Score() != -engine.MateScore {
		t.Errorf("folded score = %d", got.Score())
	}
}

func TestParseInfoNoPV(t *testing.T) {
	got := ParseInfo("info depth 1 currmove e2e4 currmovenumber 1")
	if got.UCIBestMove != "" || len(got.UCIPV) != 0 {
		t.Errorf("no-pv line produced best %q pv %v", got.UCIBestMove, got.UCIPV)
	}
	if got.Depth != 1 {
		t.Errorf("depth = %d", got.Depth)
	}
}

func TestParseInfoTruncatedTokens(t *testing.T) {
	// dangling keys at end of line must not panic or misparse
	for _, line := range []string{
		"info depth",
		"info score",
		"info score cp",
		"info pv",
		"info nodes x time y",
	} {
		got := ParseInfo(line)
		if got.UCIBestMove != "" {
			t.Errorf("%q: best = %q", line, got.UCIBestMove)
		}
	}
}

func TestAnalysisInfoBest(t *testing.T) {
	info := engine.AnalysisInfo{UCIBestMove: "e7e8q"}
	mv, ok := info.Best()
	if !ok {
		t.Fatal("decode failed")
	}
	if mv.UCI() != "e7e8q" {
		t.Errorf("round trip = %q", mv.UCI())
	}

	for _, bad := range []string{"", "(none)", "0000"} {
		info := engine.AnalysisInfo{UCIBestMove: bad}
		if _, ok := info.Best(); ok {
			t.Errorf("%q should not decode", bad)
		}
	}
}

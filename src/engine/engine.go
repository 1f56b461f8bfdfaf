package engine

import (
	"time"

	"chessdesk/src/base"
)

// MateScore saturates mate announcements into the centipawn scale.
const MateScore = 30000

// UCI_Elo bounds most engines accept when UCI_LimitStrength is on.
const (
	EloMin = 1320
	EloMax = 3190
)

type AnalysisInfo struct {
	Depth       int      // текущая глубина
	TimeMs      int64    // прошедшее время в ms
	Nodes       int64    // число просмотренных узлов
	NPS         int64    // nodes per second
	ScoreCP     int      // оценка в сантипешках, + в пользу стороны на ходу
	MateIn      int      // mate in N (0 if none), negative when getting mated
	UCIPV       []string // principal variation, best first
	UCIBestMove string
}

// Best decodes the engine's move, promotion included.
func (i *AnalysisInfo) Best() (base.Move, bool) {
	mv, err := base.MoveFromUCI(i.UCIBestMove)
	if err != nil {
		return base.Move{}, false
	}
	return mv, true
}

// Score folds a mate announcement into the centipawn value. Side to
// move point of view, like the raw UCI numbers.
func (i *AnalysisInfo) Score() int {
	if i.MateIn > 0 {
		return MateScore
	}
	if i.MateIn < 0 {
		return -MateScore
	}
	return i.ScoreCP
}

type SearchParams struct {
	MaxDepth  int   // 0 = unlimited (but bounded by MaxTimeMs)
	MaxTimeMs int64 // 0 = no time limit
	Infinite  bool  // search until StopAnalysis()
}

type LevelAnalyze int

const (
	LevelOne LevelAnalyze = iota
	LevelTwo
	LevelThree
	LevelFour
	LevelFive
	LevelSix
	LevelSeven
	LevelEight
	LevelNine
	LevelTen
	// ...
	LevelLast
	LevelInvalid
)

// LevelFromInt maps 1..10 to the ladder and 0 to full strength.
func LevelFromInt(n int) LevelAnalyze {
	switch {
	case n == 0:
		return LevelLast
	case n >= 1 && n <= 10:
		return LevelAnalyze(n - 1)
	default:
		return LevelInvalid
	}
}

const (
	UCIHandshakeTimeout = 2 * time.Second  // uci / isready
	UCIBestMoveTimeout  = 30 * time.Second // go ...
	StopAnalyzeTimeout  = 5 * time.Second  // for infinite analysis
)

// Engine — интерфейс исполнителя UCI-процесса
type Engine interface {
	Init() error
	SetPositionFEN(fen string) error
	SetOption(name, value string) error
	StartAnalysis(params SearchParams) error
	StopAnalysis() error
	BestNow() AnalysisInfo
	WaitDone()
	Subscribe(ch chan<- AnalysisInfo) (unsubscribe func())
	Close()
}

func LevelToParams(lvl LevelAnalyze) SearchParams {
	switch lvl {
	case LevelOne:
		return SearchParams{MaxDepth: 1, MaxTimeMs: 500}
	case LevelTwo:
		return SearchParams{MaxDepth: 2, MaxTimeMs: 800}
	case LevelThree:
		return SearchParams{MaxDepth: 3, MaxTimeMs: 1000}
	case LevelFour:
		return SearchParams{MaxDepth: 5, MaxTimeMs: 1500}
	case LevelFive:
		return SearchParams{MaxDepth: 7, MaxTimeMs: 2500}
	case LevelSix:
		return SearchParams{MaxDepth: 9, MaxTimeMs: 4000}
	case LevelSeven:
		return SearchParams{MaxDepth: 11, MaxTimeMs: 6000}
	case LevelEight:
		return SearchParams{MaxDepth: 13, MaxTimeMs: 8000}
	case LevelNine:
		return SearchParams{MaxDepth: 16, MaxTimeMs: 10000}
	case LevelTen:
		return SearchParams{MaxDepth: 18, MaxTimeMs: 15000}
	default:
		// full strength, still time-bounded so a frame caller returns
		return SearchParams{MaxDepth: 0, MaxTimeMs: 20000}
	}
}

// LevelToElo pins a bounded-strength rating to each ladder step.
func LevelToElo(lvl LevelAnalyze) int {
	switch lvl {
	case LevelOne:
		return EloMin
	case LevelTwo:
		return 1400
	case LevelThree:
		return 1500
	case LevelFour:
		return 1650
	case LevelFive:
		return 1800
	case LevelSix:
		return 2000
	case LevelSeven:
		return 2200
	case LevelEight:
		return 2400
	case LevelNine:
		return 2650
	case LevelTen:
		return 2900
	default:
		return 0 // unrestricted
	}
}

// Package accuracy scores played moves against the engine's preferred
// move and keeps one running ledger per side.
package accuracy

import (
	"math"

	"chessdesk/src/base"
)

// Score grades a played move on a 0-100 scale. The engine's own choice
// is a flat 100. Anything else decays with the estimated centipawn
// loss on the Elo expected-score curve: 200 / (1 + 10^(loss/400)),
// which also yields 100 at zero loss and falls toward 0.
func Score(best, played base.Move, lossCp int) float64 {
	if played == best {
		return 100
	}
	if lossCp < 0 {
		lossCp = 0
	}
	pct := 200 / (1 + math.Pow(10, float64(lossCp)/400))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Ledger holds per-side move scores in play order. Entries are pushed
// when a scored move commits and popped when it is undone, so the
// ledger length tracks that side's scored move count.
type Ledger struct {
	white []float64
	black []float64
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) side(c base.Color) *[]float64 {
	if c == base.Black {
		return &l.black
	}
	return &l.white
}

func (l *Ledger) Append(c base.Color, pct float64) {
	s := l.side(c)
	*s = append(*s, pct)
}

// Pop removes the newest entry for c. Undoing a move that was never
// scored (engine off at commit time) must not call Pop.
func (l *Ledger) Pop(c base.Color) {
	s := l.side(c)
	if n := len(*s); n > 0 {
		*s = (*s)[:n-1]
	}
}

func (l *Ledger) Count(c base.Color) int {
	return len(*l.side(c))
}

func (l *Ledger) Last(c base.Color) (float64, bool) {
	s := *l.side(c)
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Average is 0 when the side has no scored moves yet.
func (l *Ledger) Average(c base.Color) float64 {
	s := *l.side(c)
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

func (l *Ledger) Reset() {
	l.white = l.white[:0]
	l.black = l.black[:0]
}

package accuracy

import (
	"math"
	"testing"

	"chessdesk/src/base"
)

func mv(uci string) base.Move {
	m, err := base.MoveFromUCI(uci)
	if err != nil {
		panic(err)
	}
	return m
}

func TestScoreExactMatch(t *testing.T) {
	best := mv("e2e4")
	if got := Score(best, best, 500); got != 100 {
		t.Errorf("engine move score = %v, want 100 regardless of loss", got)
	}
}

func TestScoreMonotoneInLoss(t *testing.T) {
	best, played := mv("e2e4"), mv("d2d4")
	prev := Score(best, played, 0)
	if prev != 100 {
		t.Fatalf("zero loss = %v, want 100", prev)
	}
	for _, loss := range []int{10, 50, 100, 200, 400, 800, 2000} {
		got := Score(best, played, loss)
		if got >= prev {
			t.Errorf("loss %d: score %v not below %v", loss, got, prev)
		}
		if got < 0 || got > 100 {
			t.Errorf("loss %d: score %v out of range", loss, got)
		}
		prev = got
	}
}

func TestScoreNegativeLossClamped(t *testing.T) {
	best, played := mv("e2e4"), mv("d2d4")
	if got := Score(best, played, -50); got != 100 {
		t.Errorf("negative loss score = %v, want 100", got)
	}
}

func TestScoreKnownPoints(t *testing.T) {
	best, played := mv("e2e4"), mv("d2d4")
	// loss 400 is one class of Elo: 200/11
	if got, want := Score(best, played, 400), 200.0/11.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("loss 400 = %v, want %v", got, want)
	}
}

func TestLedgerAppendPopAverage(t *testing.T) {
	l := NewLedger()
	l.Append(base.White, 100)
	l.Append(base.Black, 40)
	l.Append(base.White, 50)

	if got := l.Count(base.White); got != 2 {
		t.Fatalf("white count = %d", got)
	}
	if got := l.Average(base.White); got != 75 {
		t.Errorf("white average = %v", got)
	}
	if got := l.Average(base.Black); got != 40 {
		t.Errorf("black average = %v", got)
	}

	if last, ok := l.Last(base.White); !ok || last != 50 {
		t.Errorf("white last = %v %v", last, ok)
	}

	l.Pop(base.White)
	if got := l.Average(base.White); got != 100 {
		t.Errorf("white average after pop = %v", got)
	}
	l.Pop(base.White)
	l.Pop(base.White) // extra pop on empty side is a no-op
	if got := l.Count(base.White); got != 0 {
		t.Errorf("white count after pops = %d", got)
	}
	if got := l.Average(base.White); got != 0 {
		t.Errorf("empty average = %v", got)
	}
	if _, ok := l.Last(base.White); ok {
		t.Error("Last on empty side should report false")
	}
}

func TestLedgerReset(t *testing.T) {
	l := NewLedger()
	l.Append(base.White, 90)
	l.Append(base.Black, 80)
	l.Reset()
	if l.Count(base.White) != 0 || l.Count(base.Black) != 0 {
		t.Error("reset should empty both sides")
	}
}

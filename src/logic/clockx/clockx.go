// Package clockx keeps the two game clocks. Time is wall time fed in
// as frame deltas; nothing here forfeits a game, a flagged side just
// sits at zero.
package clockx

import (
	"fmt"
	"math"

	"chessdesk/src/base"
)

type Clock struct {
	remaining [2]float64 // seconds, [base.White] and [base.Black]
	increment float64
	active    base.Color
	running   bool
}

func New(minutes, incrementSec int) *Clock {
	c := &Clock{}
	c.Reset(minutes, incrementSec)
	return c
}

func (c *Clock) Reset(minutes, incrementSec int) {
	if minutes < 0 {
		minutes = 0
	}
	if incrementSec < 0 {
		incrementSec = 0
	}
	sec := float64(minutes) * 60
	c.remaining[base.White] = sec
	c.remaining[base.Black] = sec
	c.increment = float64(incrementSec)
	c.active = base.White
	c.running = false
}

func (c *Clock) Start()        { c.running = true }
func (c *Clock) Pause()        { c.running = false }
func (c *Clock) Running() bool { return c.running }

func (c *Clock) Active() base.Color { return c.active }

// Tick burns dt seconds off the active side. Clamped at zero.
func (c *Clock) Tick(dt float64) {
	if !c.running || dt <= 0 {
		return
	}
	r := c.remaining[c.active] - dt
	if r < 0 {
		r = 0
	}
	c.remaining[c.active] = r
}

// Switch hands the clock to the side that moves next. The side that
// just moved collects the increment.
func (c *Clock) Switch(next base.Color) {
	if next != base.White && next != base.Black {
		return
	}
	mover := next.Other()
	if c.remaining[mover] > 0 {
		c.remaining[mover] += c.increment
	}
	c.active = next
}

// SetActive moves attribution without paying an increment. Used when a
// move is taken back: spent time stays spent.
func (c *Clock) SetActive(side base.Color) {
	if side == base.White || side == base.Black {
		c.active = side
	}
}

func (c *Clock) Remaining(side base.Color) float64 {
	if side != base.White && side != base.Black {
		return 0
	}
	return c.remaining[side]
}

func (c *Clock) Flagged(side base.Color) bool {
	return c.Remaining(side) <= 0
}

// Format renders seconds as m:ss, with hours folded into minutes.
func Format(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(math.Ceil(sec))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

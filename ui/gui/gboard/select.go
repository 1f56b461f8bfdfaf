package gboard

import "chessdesk/src/base"

type SelState int

const (
	StateIdle SelState = iota
	StateSelected
	StateDragging
)

// OwnPiece is the ownership gate: true when sq holds a piece the human
// may pick up right now (own color, own turn).
type OwnPiece func(sq base.Square) bool

// Selector is the click-click / drag-drop selection machine. It never
// judges legality: a produced attempt goes to the commit pipeline and
// the machine is already back in Idle whatever the pipeline says.
type Selector struct {
	state  SelState
	from   base.Square
	px, py int
}

func NewSelector() *Selector {
	return &Selector{from: base.NoSquare}
}

func (s *Selector) State() SelState { return s.state }

// From is the selected origin square while not Idle.
func (s *Selector) From() (base.Square, bool) {
	if s.state == StateIdle {
		return base.NoSquare, false
	}
	return s.from, true
}

// Pointer is the live drag position, only meaningful while Dragging.
func (s *Selector) Pointer() (x, y int) { return s.px, s.py }

func (s *Selector) Reset() {
	s.state = StateIdle
	s.from = base.NoSquare
}

// Press feeds a pointer-down. ok=false means the press landed outside
// the board, which always cancels. A press on the already-selected
// square cancels too; a press on another own piece re-selects; a press
// on anything else while selected is the click-click move attempt.
func (s *Selector) Press(sq base.Square, ok bool, px, py int, own OwnPiece) (attempt base.Move, commit bool) {
	if !ok {
		s.Reset()
		return base.Move{}, false
	}
	s.px, s.py = px, py

	switch s.state {
	case StateIdle:
		if own(sq) {
			s.state = StateDragging
			s.from = sq
		}
	case StateSelected:
		switch {
		case sq == s.from:
			s.Reset()
		case own(sq):
			s.state = StateDragging
			s.from = sq
		default:
			attempt = base.Move{From: s.from, To: sq}
			s.Reset()
			return attempt, true
		}
	case StateDragging:
		// a second press without release, treat like a restart
		if own(sq) {
			s.from = sq
		} else {
			s.Reset()
		}
	}
	return base.Move{}, false
}

// Drag updates the live pointer while a piece is held.
func (s *Selector) Drag(px, py int) {
	if s.state == StateDragging {
		s.px, s.py = px, py
	}
}

// Release feeds a pointer-up. Dropping on the origin square keeps the
// selection for a click-click follow-up; dropping elsewhere on the
// board is the drag-drop move attempt; dropping outside cancels.
func (s *Selector) Release(sq base.Square, ok bool) (attempt base.Move, commit bool) {
	if s.state != StateDragging {
		return base.Move{}, false
	}
	if !ok {
		s.Reset()
		return base.Move{}, false
	}
	if sq == s.from {
		s.state = StateSelected
		return base.Move{}, false
	}
	attempt = base.Move{From: s.from, To: sq}
	s.Reset()
	return attempt, true
}

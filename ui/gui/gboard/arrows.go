package gboard

import "chessdesk/src/base"

// Arrow is a user annotation from one square to another. Direction
// matters: a1->h8 and h8->a1 are distinct arrows.
type Arrow struct {
	From, To base.Square
}

// ArrowSet is an XOR toggle set: drawing an arrow that already exists
// removes it. Annotations survive moves and are cleared explicitly.
type ArrowSet struct {
	set map[Arrow]struct{}
}

func NewArrowSet() *ArrowSet {
	return &ArrowSet{set: make(map[Arrow]struct{})}
}

func (a *ArrowSet) Toggle(from, to base.Square) {
	if !from.Valid() || !to.Valid() || from == to {
		return
	}
	k := Arrow{From: from, To: to}
	if _, dup := a.set[k]; dup {
		delete(a.set, k)
		return
	}
	a.set[k] = struct{}{}
}

func (a *ArrowSet) Has(from, to base.Square) bool {
	_, ok := a.set[Arrow{From: from, To: to}]
	return ok
}

func (a *ArrowSet) Len() int { return len(a.set) }

func (a *ArrowSet) All() []Arrow {
	out := make([]Arrow, 0, len(a.set))
	for k := range a.set {
		out = append(out, k)
	}
	return out
}

func (a *ArrowSet) Clear() {
	a.set = make(map[Arrow]struct{})
}

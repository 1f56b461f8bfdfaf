// Package gboard holds the input-side board logic of the GUI: pixel to
// square mapping, the click/drag selection machine and the annotation
// arrow set. Everything here is plain data, drawable and testable
// without an ebiten context.
package gboard

import "chessdesk/src/base"

// Geometry places the board interior on screen: top-left corner and
// one square's side in pixels.
type Geometry struct {
	X, Y   int
	Square int
}

func (g Geometry) Size() int { return g.Square * 8 }

func (g Geometry) Contains(px, py int) bool {
	return px >= g.X && py >= g.Y && px < g.X+g.Size() && py < g.Y+g.Size()
}

// SquareAt maps a pixel to the square under it. flipped draws the
// board from Black's seat: files and ranks both mirror. ok is false
// outside the board interior.
func (g Geometry) SquareAt(px, py int, flipped bool) (base.Square, bool) {
	if g.Square <= 0 {
		return base.NoSquare, false
	}
	dx, dy := px-g.X, py-g.Y
	if dx < 0 || dy < 0 {
		return base.NoSquare, false
	}
	fx, fy := dx/g.Square, dy/g.Square
	if fx > 7 || fy > 7 {
		return base.NoSquare, false
	}
	file, rank := fx, 7-fy
	if flipped {
		file, rank = 7-fx, fy
	}
	return base.SquareOf(file, rank), true
}

// PixelOf is the top-left pixel of sq, the exact inverse of SquareAt
// up to in-square snapping.
func (g Geometry) PixelOf(sq base.Square, flipped bool) (x, y int) {
	f, r := sq.File(), sq.Rank()
	fx, fy := f, 7-r
	if flipped {
		fx, fy = 7-f, r
	}
	return g.X + fx*g.Square, g.Y + fy*g.Square
}

// CenterOf is the center pixel of sq, for sprites and arrow endpoints.
func (g Geometry) CenterOf(sq base.Square, flipped bool) (x, y int) {
	x, y = g.PixelOf(sq, flipped)
	return x + g.Square/2, y + g.Square/2
}

// Package ddraw pre-renders the anti-aliased board layers the play scene
// composes each frame: square texture, move markers, annotation arrows.
// Everything here returns ebiten images built once and cached by the caller.
package ddraw

import (
	"image/color"
	"math"

	"chessdesk/ui/gui/gbase"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
)

// Segment is one arrow in board pixel coordinates.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// RenderBoard draws the 8x8 texture with coordinate labels along the
// bottom row and left column. The checker parity is flip-invariant but
// the labels are not, so callers rebuild on orientation change.
func RenderBoard(sizePx int, flipped bool, theme gbase.Palette, face font.Face) *ebiten.Image {
	cell := float64(sizePx) / 8
	dc := gg.NewContext(sizePx, sizePx)

	for fy := 0; fy < 8; fy++ {
		for fx := 0; fx < 8; fx++ {
			c := theme.SquareDark
			if (fx+fy)%2 == 0 {
				c = theme.SquareLight
			}
			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
			dc.DrawRectangle(float64(fx)*cell, float64(fy)*cell, cell, cell)
			dc.Fill()
		}
	}

	if face != nil {
		dc.SetFontFace(face)
		for fx := 0; fx < 8; fx++ {
			// file letters in the bottom row corner
			fileCh := byte('a' + fx)
			if flipped {
				fileCh = byte('h' - fx)
			}
			c := labelColor(fx, 7, theme)
			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
			dc.DrawString(string(fileCh), float64(fx)*cell+cell-9, float64(sizePx)-4)
		}
		for fy := 0; fy < 8; fy++ {
			rankCh := byte('8' - fy)
			if flipped {
				rankCh = byte('1' + fy)
			}
			c := labelColor(0, fy, theme)
			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
			dc.DrawString(string(rankCh), 3, float64(fy)*cell+12)
		}
	}

	return ebiten.NewImageFromImage(dc.Image())
}

// label sits on a square; use the opposite square color so it stays readable
func labelColor(fx, fy int, theme gbase.Palette) color.RGBA {
	if (fx+fy)%2 == 0 {
		return theme.SquareDark
	}
	return theme.SquareLight
}

// RenderArrows draws the annotation arrows onto one transparent overlay
// sized like the board. Width scales off the cell size.
func RenderArrows(sizePx int, segs []Segment, width float64, fill color.RGBA) *ebiten.Image {
	dc := gg.NewContext(sizePx, sizePx)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))

	for _, s := range segs {
		dx := s.X2 - s.X1
		dy := s.Y2 - s.Y1
		length := math.Hypot(dx, dy)
		if length < 1 {
			continue
		}
		ux, uy := dx/length, dy/length
		headL := width * 2.4
		headW := width * 2.2
		// stop the shaft where the head begins
		ex := s.X2 - ux*headL
		ey := s.Y2 - uy*headL

		dc.SetLineWidth(width)
		dc.SetLineCapRound()
		dc.DrawLine(s.X1, s.Y1, ex, ey)
		dc.Stroke()

		px, py := -uy, ux
		dc.MoveTo(s.X2, s.Y2)
		dc.LineTo(ex+px*headW/2, ey+py*headW/2)
		dc.LineTo(ex-px*headW/2, ey-py*headW/2)
		dc.ClosePath()
		dc.Fill()
	}

	return ebiten.NewImageFromImage(dc.Image())
}

// RenderDot is the legal-quiet-move marker: small centered disc.
func RenderDot(cellPx int, fill color.RGBA) *ebiten.Image {
	dc := gg.NewContext(cellPx, cellPx)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
	dc.DrawCircle(float64(cellPx)/2, float64(cellPx)/2, float64(cellPx)*0.16)
	dc.Fill()
	return ebiten.NewImageFromImage(dc.Image())
}

// RenderRing is the legal-capture marker: thick circle hugging the cell edge.
func RenderRing(cellPx int, fill color.RGBA) *ebiten.Image {
	dc := gg.NewContext(cellPx, cellPx)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
	dc.SetLineWidth(float64(cellPx) * 0.09)
	dc.DrawCircle(float64(cellPx)/2, float64(cellPx)/2, float64(cellPx)*0.42)
	dc.Stroke()
	return ebiten.NewImageFromImage(dc.Image())
}

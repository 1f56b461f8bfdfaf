// Package gpieces rasterizes the embedded SVG piece sets for the board view.
package gpieces

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"chessdesk/src/base"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed svg
var assetFS embed.FS

const (
	StyleClassic = "classic"
	StyleMinimal = "minimal"
)

func Styles() []string { return []string{StyleClassic, StyleMinimal} }

type cacheKey struct {
	piece base.Piece
	size  int
}

// Provider renders piece sprites on demand and caches them per size.
// Rendering happens in the frame goroutine; the lock only guards against
// a style switch racing a late cache read.
type Provider struct {
	mu    sync.RWMutex
	style string
	cache map[cacheKey]*ebiten.Image
}

func NewProvider(style string) *Provider {
	if style != StyleClassic && style != StyleMinimal {
		style = StyleClassic
	}
	return &Provider{style: style, cache: make(map[cacheKey]*ebiten.Image)}
}

func (p *Provider) Style() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.style
}

// SetStyle switches piece sets and drops cached sprites of the old one.
func (p *Provider) SetStyle(style string) {
	if style != StyleClassic && style != StyleMinimal {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if style == p.style {
		return
	}
	p.style = style
	p.cache = make(map[cacheKey]*ebiten.Image)
}

func (p *Provider) Image(piece base.Piece, size int) (*ebiten.Image, error) {
	if piece == base.EmptyPiece || size <= 0 {
		return nil, fmt.Errorf("no sprite for piece=%d size=%d", piece, size)
	}
	key := cacheKey{piece: piece, size: size}

	p.mu.RLock()
	img, ok := p.cache[key]
	style := p.style
	p.mu.RUnlock()
	if ok {
		return img, nil
	}

	rgba, err := renderRGBA(style, piece, size)
	if err != nil {
		return nil, err
	}
	img = ebiten.NewImageFromImage(rgba)

	p.mu.Lock()
	p.cache[key] = img
	p.mu.Unlock()
	return img, nil
}

func renderRGBA(style string, piece base.Piece, size int) (*image.RGBA, error) {
	name := assetName(style, piece)
	data, err := assetFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", name, err)
	}
	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

func assetName(style string, piece base.Piece) string {
	c := 'w'
	if piece.Color() == base.Black {
		c = 'b'
	}
	var k rune
	switch piece.Kind() {
	case base.King:
		k = 'k'
	case base.Queen:
		k = 'q'
	case base.Rook:
		k = 'r'
	case base.Bishop:
		k = 'b'
	case base.Knight:
		k = 'n'
	case base.Pawn:
		k = 'p'
	}
	return fmt.Sprintf("svg/%s/%c%c.svg", style, c, k)
}

package gbase

import (
	"errors"
	"image/color"
)

// ---- Exit Call ----

var ErrExit = errors.New("exit request")

// --- UI constants ---

const (
	WindowW int = 1000
	WindowH int = 700
)

// QuickSaveFile is where the play scene drops one-click PGN exports.
const QuickSaveFile = "chessdesk.pgn"

// ---- Styles (palettes) ----

type Palette struct {
	Bg           color.RGBA
	PanelBg      color.RGBA
	ButtonFill   color.RGBA
	ButtonStroke color.RGBA
	ButtonText   color.RGBA
	MenuText     color.RGBA
	Accent       color.RGBA
	ModalBg      color.RGBA

	// board colors
	SquareLight   color.RGBA
	SquareDark    color.RGBA
	BoardBorder   color.RGBA
	SelectStroke  color.RGBA
	LastMoveTint  color.RGBA
	TargetDot     color.RGBA
	CheckTint     color.RGBA
	ArrowFill     color.RGBA
	HintArrowFill color.RGBA
}

func (p Palette) String() string {
	switch p {
	case LightPalette:
		return "light"
	case DarkPalette:
		return "dark"
	default:
	}
	return ""
}

func PaletteFromString(p string) Palette {
	switch p {
	case "light":
		return LightPalette
	case "dark":
		return DarkPalette
	default:
	}
	return LightPalette
}

var LightPalette = Palette{
	Bg:           color.RGBA{0xf7, 0xf7, 0xf7, 0xff},
	PanelBg:      color.RGBA{0xec, 0xec, 0xec, 0xff},
	ButtonFill:   color.RGBA{0xff, 0xff, 0xff, 0xff},
	ButtonStroke: color.RGBA{0x88, 0x88, 0x88, 0xff},
	ButtonText:   color.RGBA{0x22, 0x22, 0x22, 0xff},
	MenuText:     color.RGBA{0x22, 0x22, 0x22, 0xff},
	Accent:       color.RGBA{0x22, 0x88, 0xcc, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0x88},

	SquareLight:   color.RGBA{0xf0, 0xd9, 0xb5, 0xff},
	SquareDark:    color.RGBA{0xb5, 0x88, 0x63, 0xff},
	BoardBorder:   color.RGBA{0x6b, 0x4f, 0x3a, 0xff},
	SelectStroke:  color.RGBA{0x22, 0x88, 0xcc, 0xff},
	LastMoveTint:  color.RGBA{0xf6, 0xea, 0x71, 0x78},
	TargetDot:     color.RGBA{0x20, 0x20, 0x20, 0x50},
	CheckTint:     color.RGBA{0xd8, 0x30, 0x30, 0x70},
	ArrowFill:     color.RGBA{0xe8, 0x8c, 0x20, 0xb8},
	HintArrowFill: color.RGBA{0x2e, 0xa8, 0x44, 0xb8},
}

var DarkPalette = Palette{
	Bg:           color.RGBA{0x12, 0x12, 0x12, 0xff},
	PanelBg:      color.RGBA{0x1c, 0x1c, 0x1c, 0xff},
	ButtonFill:   color.RGBA{0x20, 0x20, 0x20, 0xff},
	ButtonStroke: color.RGBA{0xdd, 0xdd, 0xdd, 0xff},
	ButtonText:   color.RGBA{0xee, 0xee, 0xee, 0xff},
	MenuText:     color.RGBA{0xee, 0xee, 0xee, 0xff},
	Accent:       color.RGBA{0x2a, 0xa1, 0xd1, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0x99},

	SquareLight:   color.RGBA{0x8c, 0x8c, 0x94, 0xff},
	SquareDark:    color.RGBA{0x4a, 0x4a, 0x52, 0xff},
	BoardBorder:   color.RGBA{0x2c, 0x2c, 0x30, 0xff},
	SelectStroke:  color.RGBA{0x2a, 0xa1, 0xd1, 0xff},
	LastMoveTint:  color.RGBA{0xc8, 0xb4, 0x40, 0x66},
	TargetDot:     color.RGBA{0xe0, 0xe0, 0xe0, 0x50},
	CheckTint:     color.RGBA{0xd8, 0x30, 0x30, 0x70},
	ArrowFill:     color.RGBA{0xe8, 0x8c, 0x20, 0xb8},
	HintArrowFill: color.RGBA{0x36, 0xc0, 0x50, 0xb8},
}

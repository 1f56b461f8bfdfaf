package gctx

import (
	"chessdesk/src"
	"chessdesk/src/base"
	"chessdesk/src/engine"
	"chessdesk/src/logx"
	"chessdesk/ui/gui/gbase"
	"chessdesk/ui/gui/gbase/gconf"
	"chessdesk/ui/gui/ghelper/gfont"
	"chessdesk/ui/gui/gpieces"
)

// ---- Match setup ----

// MatchSetup is written by the menu and read by the play scene.
type MatchSetup struct {
	VsEngine   bool // if false then both seats are human
	HumanColor base.Color
}

// ---- GUI Context ----

type GUIGameContext struct {
	Builder *src.GameBuilder
	Fonts   *gfont.Fonts
	Pieces  *gpieces.Provider
	Config  *gconf.Config
	Theme   gbase.Palette
	Match   MatchSetup

	// Opponent is the computer seat's engine, separate from the
	// builder's analysis gateway so a long think never blocks hints.
	Opponent *engine.Gateway

	Logx logx.Logger
}

func NewGUIGameContext(b *src.GameBuilder, f *gfont.Fonts, p *gpieces.Provider, c *gconf.Config, l logx.Logger) *GUIGameContext {
	return &GUIGameContext{
		Builder: b,
		Fonts:   f,
		Pieces:  p,
		Config:  c,
		Theme:   gbase.PaletteFromString(c.Theme),
		Match:   MatchSetup{HumanColor: base.White},
		Logx:    l,
	}
}

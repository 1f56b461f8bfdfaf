package gui

import (
	"errors"

	"chessdesk/src"
	"chessdesk/src/logx"
	"chessdesk/ui/gui/gbase"
	"chessdesk/ui/gui/gbase/gconf"
	"chessdesk/ui/gui/gctx"
	"chessdesk/ui/gui/gdraw"
	"chessdesk/ui/gui/ghelper/gfont"
	"chessdesk/ui/gui/gpieces"

	"github.com/hajimehoshi/ebiten/v2"
)

// Options tweak one run without touching the saved config.
type Options struct {
	// StartInPlay skips the menu, the builder already holds a game
	StartInPlay bool
	// EnginePath overrides the configured engine binary
	EnginePath string
}

type GUIProcessing struct {
	current gdraw.Scene
	ctx     *gctx.GUIGameContext
}

func NewGUI(b *src.GameBuilder, logger logx.Logger, opts Options) (*GUIProcessing, error) {
	cfg, err := gconf.NewGUIConfig()
	if err != nil {
		return nil, err
	}
	if opts.EnginePath != "" {
		cfg.UCIPath = opts.EnginePath
	}
	fonts, err := gfont.LoadFonts()
	if err != nil {
		return nil, err
	}
	pieces := gpieces.NewProvider(cfg.PieceStyle)

	ctx := gctx.NewGUIGameContext(b, fonts, pieces, cfg, logger)
	gp := &GUIProcessing{ctx: ctx}
	if opts.StartInPlay {
		gp.current = gdraw.NewGUIPlayDrawer(ctx)
	} else {
		gp.current = gdraw.NewGUIMenuDrawer(ctx)
	}
	return gp, nil
}

func (gp *GUIProcessing) Run() error {
	ebiten.SetWindowSize(gbase.WindowW, gbase.WindowH)
	ebiten.SetWindowTitle("ChessDesk")
	err := ebiten.RunGame(gp)
	gp.shutdown()
	if errors.Is(err, gbase.ErrExit) {
		return nil
	}
	return err
}

// shutdown releases every engine subprocess, main window closes included.
func (gp *GUIProcessing) shutdown() {
	if gp.ctx.Opponent != nil {
		gp.ctx.Opponent.Close()
		gp.ctx.Opponent = nil
	}
	if gp.ctx.Builder != nil {
		gp.ctx.Builder.Close()
	}
}

func (gp *GUIProcessing) Update() error {
	next, err := gp.current.Update(gp.ctx)
	if err != nil {
		return err
	}
	if next != gdraw.SceneNotChanged {
		gp.current = next.ToScene(gp.current, gp.ctx)
	}
	return nil
}

func (gp *GUIProcessing) Draw(screen *ebiten.Image) {
	gp.current.Draw(gp.ctx, screen)
}

func (gp *GUIProcessing) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gbase.WindowW, gbase.WindowH
}

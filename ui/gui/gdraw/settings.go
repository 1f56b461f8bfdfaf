package gdraw

import (
	"fmt"
	"path/filepath"
	"time"

	"chessdesk/ui/gui/gbase"
	"chessdesk/ui/gui/gctx"
	"chessdesk/ui/gui/ghelper"
	"chessdesk/ui/gui/ghelper/gdialog"
	"chessdesk/ui/gui/gpieces"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
)

var clockPresets = [][2]int{{1, 0}, {3, 0}, {3, 2}, {5, 0}, {10, 0}, {15, 10}, {30, 0}}

var eloSteps = []int{0, 1320, 1500, 1700, 1900, 2100, 2400, 2700}

type GUISettingsDrawer struct {
	msg     *ghelper.MessageBox
	buttons []*ghelper.Button

	// index of buttons
	btnThemeLightIdx int
	btnThemeDarkIdx  int
	btnPieceClsIdx   int
	btnPieceMinIdx   int
	btnSeatWhiteIdx  int
	btnSeatBlackIdx  int
	btnBrowseIdx     int
	btnClearIdx      int
	btnLevelIdx      int
	btnEloIdx        int
	btnClockIdx      int
	btnDebugIdx      int
	btnApplyIdx      int
	btnBackIdx       int

	// internal ui state
	prevMouseDown bool
	browseActive  bool

	lastTick time.Time
}

func NewGUISettingsDrawer(ctx *gctx.GUIGameContext) *GUISettingsDrawer {
	sd := &GUISettingsDrawer{lastTick: time.Now()}

	textBrowse := "Browse for engine..."
	if ctx.Config.UCIPath != "" {
		if err := IsCorrectEngine(ctx); err != nil {
			ctx.Logx.Error("invalid engine config")
			ctx.Config.UCIPath = ""
		} else {
			textBrowse = filepath.Base(ctx.Config.UCIPath)
		}
	}

	// buttons
	sd.buttons = []*ghelper.Button{}
	btnW := 220
	btnH := 52
	spacingX := 20 // horizontal
	spacingY := 16 // vertical
	startX := 300
	startY := 90

	theme := ctx.Theme
	addPair := func(l1, l2 string, y int) (int, int) {
		var i1, i2 int
		i1, sd.buttons = ghelper.AppendButton(theme, l1, startX, y, btnW, btnH, sd.buttons)
		i2, sd.buttons = ghelper.AppendButton(theme, l2, startX+btnW+spacingX, y, btnW, btnH, sd.buttons)
		return i1, i2
	}

	y := startY
	sd.btnThemeLightIdx, sd.btnThemeDarkIdx = addPair("Light", "Dark", y)
	y += btnH + spacingY
	sd.btnPieceClsIdx, sd.btnPieceMinIdx = addPair("Classic", "Minimal", y)
	y += btnH + spacingY
	sd.btnSeatWhiteIdx, sd.btnSeatBlackIdx = addPair("White", "Black", y)
	y += btnH + spacingY
	wideW := btnW*2 + spacingX
	browseW := wideW - 120 - spacingX
	sd.btnBrowseIdx, sd.buttons = ghelper.AppendButton(theme, textBrowse, startX, y, browseW, btnH, sd.buttons)
	sd.btnClearIdx, sd.buttons = ghelper.AppendButton(theme, "Clear", startX+browseW+spacingX, y, 120, btnH, sd.buttons)
	y += btnH + spacingY
	sd.btnLevelIdx, sd.btnEloIdx = addPair("", "", y)
	y += btnH + spacingY
	sd.btnClockIdx, sd.btnDebugIdx = addPair("", "", y)

	// apply
	applyW, applyH := 160, 56
	applyX := gbase.WindowW - applyW - 60
	applyY := gbase.WindowH - applyH - 60
	sd.btnApplyIdx, sd.buttons = ghelper.AppendButton(theme, "Save", applyX, applyY, applyW, applyH, sd.buttons)
	// back
	backX := gbase.WindowW - applyW - 240
	sd.btnBackIdx, sd.buttons = ghelper.AppendButton(theme, "Back", backX, applyY, applyW, applyH, sd.buttons)

	sd.refreshButtons(ctx)
	sd.msg = &ghelper.MessageBox{}
	return sd
}

func (sd *GUISettingsDrawer) Update(ctx *gctx.GUIGameContext) (SceneType, error) {
	// mouse handling
	mx, my := ebiten.CursorPosition()
	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justClicked := mouseDown && !sd.prevMouseDown
	justReleased := !mouseDown && sd.prevMouseDown
	sd.prevMouseDown = mouseDown

	now := time.Now()
	dt := now.Sub(sd.lastTick).Seconds()
	sd.lastTick = now

	// if message box open -> handle clicks on it
	if sd.msg.Open {
		if justClicked {
			bounds := text.BoundString(ctx.Fonts.Normal, sd.msg.Text)
			sd.msg.CollapseMessageInRect(gbase.WindowW, gbase.WindowH, bounds.Dx(), bounds.Dy())
		}
		sd.msg.AnimateMessage()
		return SceneNotChanged, nil
	}

	// HandleInput + UpdateAnim
	for i, b := range sd.buttons {
		clicked := b.HandleInput(mx, my, justClicked, justReleased)
		b.UpdateAnim(dt)
		if !clicked {
			continue
		}
		switch i {
		case sd.btnThemeLightIdx:
			ctx.Theme = gbase.LightPalette
		case sd.btnThemeDarkIdx:
			ctx.Theme = gbase.DarkPalette
		case sd.btnPieceClsIdx:
			ctx.Config.PieceStyle = gpieces.StyleClassic
		case sd.btnPieceMinIdx:
			ctx.Config.PieceStyle = gpieces.StyleMinimal
		case sd.btnSeatWhiteIdx:
			ctx.Config.PlayAsWhite = true
		case sd.btnSeatBlackIdx:
			ctx.Config.PlayAsWhite = false
		case sd.btnBrowseIdx:
			if !sd.browseActive {
				sd.browseActive = true
				b.Label = "Selecting..."
				go func() {
					res, err := gdialog.OpenFile("Select UCI engine binary", "", "")
					if err != nil {
						if !gdialog.Canceled(err) {
							ctx.Logx.Errorf("error dialog: %v", err)
						}
						sd.browseActive = false
						b.Label = "Browse for engine..."
						return
					}
					ctx.Config.UCIPath = res.Path
					if err = IsCorrectEngine(ctx); err != nil {
						ctx.Config.UCIPath = ""
						ctx.Logx.Error("selected file is not engine")
						b.Label = "Browse for engine..."
						sd.msg.ShowMessage("That binary does not speak UCI.", nil)
					} else {
						b.Label = filepath.Base(ctx.Config.UCIPath)
					}
					sd.browseActive = false
				}()
			}
		case sd.btnClearIdx:
			if sd.browseActive {
				return SceneNotChanged, nil
			}
			ctx.Config.UCIPath = ""
			sd.buttons[sd.btnBrowseIdx].Label = "Browse for engine..."
		case sd.btnLevelIdx:
			// 1..10 then full strength
			ctx.Config.EngineLevel = (ctx.Config.EngineLevel + 1) % 11
		case sd.btnEloIdx:
			ctx.Config.EngineElo = nextEloStep(ctx.Config.EngineElo)
		case sd.btnClockIdx:
			m, inc := nextClockPreset(ctx.Config.ClockMinutes, ctx.Config.ClockIncSec)
			ctx.Config.ClockMinutes = m
			ctx.Config.ClockIncSec = inc
		case sd.btnDebugIdx:
			ctx.Config.Debug = !ctx.Config.Debug
		case sd.btnApplyIdx:
			ctx.Config.Theme = ctx.Theme.String()
			ctx.Pieces.SetStyle(ctx.Config.PieceStyle)
			if err := ctx.Config.Save(); err != nil {
				ctx.Logx.Errorf("save config: %v", err)
				sd.msg.ShowMessage("Saving settings failed.", nil)
			} else {
				sd.msg.ShowMessage("Settings saved.", nil)
			}
		case sd.btnBackIdx:
			if !sd.browseActive {
				return SceneMenu, nil
			}
			sd.msg.ShowMessage("Finish picking an engine first.", nil)
			return SceneNotChanged, nil
		}
		sd.refreshButtons(ctx)
	}

	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		if !sd.browseActive {
			return SceneMenu, nil
		}
		sd.msg.ShowMessage("Finish picking an engine first.", nil)
		return SceneNotChanged, nil
	}

	return SceneNotChanged, nil
}

func (sd *GUISettingsDrawer) Draw(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	// background
	screen.Fill(ctx.Theme.Bg)

	// row titles
	titlesX := 60
	baseY := 90
	rowH := 52 + 16
	text.Draw(screen, "Settings", ctx.Fonts.Bold, titlesX, 56, ctx.Theme.MenuText)
	labels := []string{"Theme", "Pieces", "Your seat", "Engine", "Strength", "Clock / Debug"}
	for i, l := range labels {
		text.Draw(screen, l, ctx.Fonts.Normal, titlesX, baseY+i*rowH+30, ctx.Theme.MenuText)
	}

	for _, b := range sd.buttons {
		b.DrawAnimated(screen, ctx.Fonts.Normal, ctx.Theme)
	}

	// if message box open -> draw overlay and modal
	if sd.msg.Open || sd.msg.Animating {
		DrawModal(ctx, sd.msg.Scale, sd.msg.Text, screen)
	}

	// debug TPS
	if ctx.Config.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f", ebiten.ActualTPS()))
	}
}

// update accent buttons
func (sd *GUISettingsDrawer) refreshButtons(ctx *gctx.GUIGameContext) {
	stroke := ctx.Theme.ButtonStroke
	for i, b := range sd.buttons {
		fill := ctx.Theme.ButtonFill
		switch i {
		case sd.btnThemeLightIdx:
			if ctx.Theme == gbase.LightPalette {
				fill = ctx.Theme.Accent
			}
		case sd.btnThemeDarkIdx:
			if ctx.Theme == gbase.DarkPalette {
				fill = ctx.Theme.Accent
			}
		case sd.btnPieceClsIdx:
			if ctx.Config.PieceStyle == gpieces.StyleClassic {
				fill = ctx.Theme.Accent
			}
		case sd.btnPieceMinIdx:
			if ctx.Config.PieceStyle == gpieces.StyleMinimal {
				fill = ctx.Theme.Accent
			}
		case sd.btnSeatWhiteIdx:
			if ctx.Config.PlayAsWhite {
				fill = ctx.Theme.Accent
			}
		case sd.btnSeatBlackIdx:
			if !ctx.Config.PlayAsWhite {
				fill = ctx.Theme.Accent
			}
		case sd.btnLevelIdx:
			if ctx.Config.EngineLevel == 0 {
				b.Label = "Level: Max"
			} else {
				b.Label = fmt.Sprintf("Level: %d", ctx.Config.EngineLevel)
			}
		case sd.btnEloIdx:
			if ctx.Config.EngineElo == 0 {
				b.Label = "Elo limit: off"
			} else {
				b.Label = fmt.Sprintf("Elo: %d", ctx.Config.EngineElo)
			}
		case sd.btnClockIdx:
			b.Label = fmt.Sprintf("Clock: %d+%d", ctx.Config.ClockMinutes, ctx.Config.ClockIncSec)
		case sd.btnDebugIdx:
			if ctx.Config.Debug {
				b.Label = "Debug: on"
				fill = ctx.Theme.Accent
			} else {
				b.Label = "Debug: off"
			}
		}
		b.Image = ghelper.RenderRoundedRect(b.W, b.H, 12, fill, stroke, 3)
	}
}

func nextEloStep(cur int) int {
	for i, e := range eloSteps {
		if e == cur {
			return eloSteps[(i+1)%len(eloSteps)]
		}
	}
	return eloSteps[0]
}

func nextClockPreset(m, inc int) (int, int) {
	for i, p := range clockPresets {
		if p[0] == m && p[1] == inc {
			n := clockPresets[(i+1)%len(clockPresets)]
			return n[0], n[1]
		}
	}
	p := clockPresets[0]
	return p[0], p[1]
}

package gdraw

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"chessdesk/src/base"
	"chessdesk/ui/gui/gbase"
	"chessdesk/ui/gui/gctx"
	"chessdesk/ui/gui/ghelper"
	"chessdesk/ui/gui/ghelper/gclipboard"
	"chessdesk/ui/gui/ghelper/gdialog"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
)

const aboutText = "ChessDesk: a small desktop chess board.\nRules by corentings/chess, moves by your UCI engine."

type GUIMenuDrawer struct {
	buttons []*ghelper.Button

	idxTwoPlayer int
	idxVsEngine  int
	idxLoadPGN   int
	idxContinue  int
	idxSettings  int
	idxExit      int

	// messagebox
	msg *ghelper.MessageBox

	// paste-FEN selector square bottom-left
	fenBoxX, fenBoxY, fenBoxS int

	// about selector square bottom-left
	aboutBoxX, aboutBoxY, aboutBoxS int

	// click tracking
	prevMouseDown bool

	// file dialog runs off the frame loop
	browseActive bool
	pgnCh        chan []byte

	// mascot
	knightImg      *ebiten.Image
	knightScale    int
	knightElapsed  float64
	knightBaseOffY float64
	shadowImg      *ebiten.Image

	prevTime time.Time
}

func NewGUIMenuDrawer(ctx *gctx.GUIGameContext) *GUIMenuDrawer {
	md := &GUIMenuDrawer{
		msg:      &ghelper.MessageBox{},
		pgnCh:    make(chan []byte, 1),
		prevTime: time.Now(),
	}
	md.makeLayout(ctx)
	img, err := ctx.Pieces.Image(base.WKnight, 60)
	if err != nil {
		ctx.Logx.Errorf("menu mascot: %v", err)
	}
	md.initKnight(img, 2)
	return md
}

func (md *GUIMenuDrawer) Update(ctx *gctx.GUIGameContext) (SceneType, error) {
	mx, my := ebiten.CursorPosition()
	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justClicked := mouseDown && !md.prevMouseDown
	justReleased := !mouseDown && md.prevMouseDown
	md.prevMouseDown = mouseDown

	now := time.Now()
	dt := now.Sub(md.prevTime).Seconds()
	md.prevTime = now
	md.knightElapsed += dt

	// finished PGN dialog lands here
	select {
	case data := <-md.pgnCh:
		md.browseActive = false
		if len(data) > 0 {
			if _, err := ctx.Builder.CreateFromPGN(bytes.NewReader(data)); err != nil {
				ctx.Logx.Errorf("load pgn: %v", err)
				md.msg.ShowMessage("Could not read that PGN file.", nil)
			} else {
				ctx.Match = gctx.MatchSetup{HumanColor: base.White}
				return ScenePlay, nil
			}
		}
	default:
	}

	// if message box open -> handle clicks on it
	if md.msg.Open {
		if justClicked {
			bounds := text.BoundString(ctx.Fonts.Normal, md.msg.Text)
			md.msg.CollapseMessageInRect(gbase.WindowW, gbase.WindowH, bounds.Dx(), bounds.Dy())
		}
		md.msg.AnimateMessage()
		return SceneNotChanged, nil
	}

	// handle clicks on menu buttons
	for i, b := range md.buttons {
		clicked := b.HandleInput(mx, my, justClicked, justReleased)
		b.UpdateAnim(dt)
		if !clicked {
			continue
		}
		ctx.Logx.Infof("%s clicked", b.Label)
		switch i {
		case md.idxTwoPlayer:
			ctx.Builder.CreateClassic()
			ctx.Builder.SetClock(ctx.Config.ClockMinutes, ctx.Config.ClockIncSec)
			ctx.Match = gctx.MatchSetup{HumanColor: base.White}
			return ScenePlay, nil
		case md.idxVsEngine:
			if ctx.Config.UCIPath == "" {
				md.msg.ShowMessage("Pick a UCI engine in Settings first.", nil)
				return SceneNotChanged, nil
			}
			ctx.Builder.CreateClassic()
			ctx.Builder.SetClock(ctx.Config.ClockMinutes, ctx.Config.ClockIncSec)
			human := base.White
			if !ctx.Config.PlayAsWhite {
				human = base.Black
			}
			ctx.Match = gctx.MatchSetup{VsEngine: true, HumanColor: human}
			return ScenePlay, nil
		case md.idxLoadPGN:
			if !md.browseActive {
				md.browseActive = true
				go func() {
					res, err := gdialog.OpenFile("Load PGN", "PGN files", "pgn")
					if err != nil {
						if !gdialog.Canceled(err) {
							ctx.Logx.Errorf("error dialog: %v", err)
						}
						md.pgnCh <- nil
						return
					}
					md.pgnCh <- res.Data
				}()
			}
		case md.idxContinue:
			data, err := os.ReadFile(gbase.QuickSaveFile)
			if err != nil {
				md.msg.ShowMessage("No saved game found.", nil)
				return SceneNotChanged, nil
			}
			if _, err := ctx.Builder.CreateFromPGN(bytes.NewReader(data)); err != nil {
				ctx.Logx.Errorf("quick load: %v", err)
				md.msg.ShowMessage("Could not read the saved game.", nil)
				return SceneNotChanged, nil
			}
			// the match setup is not persisted, resume over the board
			ctx.Match = gctx.MatchSetup{HumanColor: base.White}
			return ScenePlay, nil
		case md.idxSettings:
			return SceneSettings, nil
		case md.idxExit:
			return SceneNotChanged, gbase.ErrExit
		}
	}

	if justClicked {
		// paste a FEN from the clipboard and jump into the game
		if ghelper.PointInRect(mx, my, md.fenBoxX, md.fenBoxY, md.fenBoxS, md.fenBoxS) {
			clip, err := gclipboard.ReadAll()
			if err != nil || strings.TrimSpace(clip) == "" {
				md.msg.ShowMessage("Clipboard is empty.", nil)
				return SceneNotChanged, nil
			}
			if _, err := ctx.Builder.CreateFromFEN(strings.TrimSpace(clip)); err != nil {
				ctx.Logx.Errorf("clipboard fen: %v", err)
				md.msg.ShowMessage("Clipboard does not hold a valid FEN.", nil)
				return SceneNotChanged, nil
			}
			ctx.Builder.SetClock(ctx.Config.ClockMinutes, ctx.Config.ClockIncSec)
			ctx.Match = gctx.MatchSetup{HumanColor: base.White}
			return ScenePlay, nil
		}
		if ghelper.PointInRect(mx, my, md.aboutBoxX, md.aboutBoxY, md.aboutBoxS, md.aboutBoxS) {
			md.msg.ShowMessage(aboutText, nil)
			return SceneNotChanged, nil
		}
	}

	return SceneNotChanged, nil
}

func (md *GUIMenuDrawer) Draw(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	// clear background
	screen.Fill(ctx.Theme.Bg)

	text.Draw(screen, "ChessDesk", ctx.Fonts.Bold, gbase.WindowW/2-44, 96, ctx.Theme.MenuText)

	for _, b := range md.buttons {
		b.DrawAnimated(screen, ctx.Fonts.Normal, ctx.Theme)
	}
	md.drawBoxes(ctx, screen)

	// if message box open -> draw overlay and modal
	if md.msg.Open || md.msg.Animating {
		DrawModal(ctx, md.msg.Scale, md.msg.Text, screen)
	}

	md.drawKnight(screen)

	// debug overlay
	if ctx.Config.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f", ebiten.ActualTPS()))
	}
}

func (md *GUIMenuDrawer) makeLayout(ctx *gctx.GUIGameContext) {
	// center buttons vertically
	btnW, btnH := 320, 56
	gap := 16
	n := 6
	totalH := n*btnH + (n-1)*gap
	startY := (gbase.WindowH-totalH)/2 + 30
	cx := gbase.WindowW / 2

	md.buttons = []*ghelper.Button{}
	x := cx - btnW/2
	y := startY
	add := func(label string) int {
		var idx int
		idx, md.buttons = ghelper.AppendButton(ctx.Theme, label, x, y, btnW, btnH, md.buttons)
		y += btnH + gap
		return idx
	}
	md.idxTwoPlayer = add("Two Player")
	md.idxVsEngine = add("Play vs Engine")
	md.idxLoadPGN = add("Load PGN...")
	md.idxContinue = add("Continue")
	md.idxSettings = add("Settings")
	md.idxExit = add("Exit")

	// paste-FEN box bottom-left
	md.fenBoxS = 56
	md.fenBoxX = 20
	md.fenBoxY = gbase.WindowH - md.fenBoxS - 20

	// about box next to it
	md.aboutBoxS = md.fenBoxS
	md.aboutBoxX = md.fenBoxX + 70
	md.aboutBoxY = gbase.WindowH - md.aboutBoxS - 20
}

func (md *GUIMenuDrawer) initKnight(img *ebiten.Image, scale int) {
	md.knightImg = img
	md.knightScale = scale

	md.knightBaseOffY = -80.0
	md.shadowImg = nil // first render Draw
	md.knightElapsed = 0
}

func (md *GUIMenuDrawer) drawBoxes(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	// paste-FEN box (square)
	fenImg := ghelper.RenderRoundedRect(md.fenBoxS, md.fenBoxS, 8, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 2)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(md.fenBoxX), float64(md.fenBoxY))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(fenImg, op)
	text.Draw(screen, "FEN", ctx.Fonts.Normal, md.fenBoxX+14, md.fenBoxY+md.fenBoxS/2+4, ctx.Theme.ButtonText)

	// about box
	aboutImg := ghelper.RenderRoundedRect(md.aboutBoxS, md.aboutBoxS, 8, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 2)
	op = &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(md.aboutBoxX), float64(md.aboutBoxY))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(aboutImg, op)
	text.Draw(screen, "?", ctx.Fonts.Bold, md.aboutBoxX+24, md.aboutBoxY+md.aboutBoxS/2+6, ctx.Theme.ButtonText)

	// version on bottom-right
	text.Draw(screen, "v0.3.0", ctx.Fonts.Normal, gbase.WindowW-80, gbase.WindowH-24, ctx.Theme.MenuText)
}

func (md *GUIMenuDrawer) drawKnight(screen *ebiten.Image) {
	if md.knightImg == nil || len(md.buttons) == 0 {
		return
	}
	// bob over the first button like a piece waiting to be picked up
	play := md.buttons[0]
	centerX := float64(play.X + play.W/2)
	topY := float64(play.Y)

	freq := 1.0
	amp := 10.0
	slowAmp := 2.0
	rotFreq := 0.8
	rotAmpDeg := 6.0

	dy := math.Sin(2*math.Pi*freq*md.knightElapsed)*amp + math.Sin(2*math.Pi*0.15*md.knightElapsed)*slowAmp
	rot := math.Sin(2*math.Pi*rotFreq*md.knightElapsed) * (rotAmpDeg * math.Pi / 180.0)

	w := md.knightImg.Bounds().Dx()
	h := md.knightImg.Bounds().Dy()
	finalX := centerX
	finalY := topY - (float64(h)*float64(md.knightScale))/2.0 + md.knightBaseOffY + dy

	// soft shadow built once
	if md.shadowImg == nil {
		sw := int(float64(w*md.knightScale) * 1.6)
		sh := int(float64(h*md.knightScale) * 0.5)
		if sw < 4 {
			sw = 4
		}
		if sh < 2 {
			sh = 2
		}
		dc := gg.NewContext(sw, sh)
		for i := 0; i < 8; i++ {
			alpha := 0.18 * (1.0 - float64(i)/8.0)
			dc.SetRGBA(0, 0, 0, alpha)
			pad := float64(i)
			dc.DrawEllipse(float64(sw)/2, float64(sh)/2+pad*0.2, float64(sw)/2-pad, float64(sh)/2-pad*0.6)
			dc.Fill()
		}
		md.shadowImg = ebiten.NewImageFromImage(dc.Image())
	}

	// shadow scale & alpha vary with height
	maxRange := amp + slowAmp
	heightFactor := (dy + maxRange) / (2 * maxRange) // 0..1
	shadowScale := 0.7 + (1.0-heightFactor)*0.25
	sW := float64(md.shadowImg.Bounds().Dx()) * shadowScale
	sH := float64(md.shadowImg.Bounds().Dy()) * shadowScale
	sop := &ebiten.DrawImageOptions{}
	sop.GeoM.Scale(sW/float64(md.shadowImg.Bounds().Dx()), sH/float64(md.shadowImg.Bounds().Dy()))
	shadowY := (topY + float64(play.H)) - (sH * 0.6) - 120
	sop.GeoM.Translate(finalX-sW/2.0, shadowY)
	sop.Filter = ebiten.FilterLinear
	screen.DrawImage(md.shadowImg, sop)

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	// transform: center -> scale -> rotate -> translate(finalX, finalY)
	op.GeoM.Translate(-float64(w)/2.0, -float64(h)/2.0)
	op.GeoM.Scale(float64(md.knightScale), float64(md.knightScale))
	op.GeoM.Rotate(rot)
	op.GeoM.Translate(finalX, finalY)
	screen.DrawImage(md.knightImg, op)
}

package gdraw

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"chessdesk/src"
	"chessdesk/src/base"
	"chessdesk/src/engine"
	"chessdesk/src/logic/clockx"
	"chessdesk/ui/gui/ddraw"
	"chessdesk/ui/gui/gbase"
	"chessdesk/ui/gui/gboard"
	"chessdesk/ui/gui/gctx"
	"chessdesk/ui/gui/ghelper"
	"chessdesk/ui/gui/ghelper/gclipboard"
	"chessdesk/ui/gui/ghelper/gdialog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
)

// GUIPlayDrawer реализует Scene
type GUIPlayDrawer struct {
	// layout
	geom    gboard.Geometry
	flipped bool

	// interaction
	sel    *gboard.Selector
	arrows *gboard.ArrowSet

	// right-drag arrow in progress
	arrowFrom   base.Square
	arrowActive bool

	// cached layers
	boardImg   *ebiten.Image
	boardFlip  bool
	boardTheme string
	arrowImg   *ebiten.Image
	arrowDirty bool
	dotImg     *ebiten.Image
	ringImg    *ebiten.Image

	// hint arrow
	hintMove base.Move
	hintOn   bool

	// engine opponent
	engineThinking bool
	engineMu       sync.Mutex
	moveCh         chan base.Move // zero move = engine failed
	searchCh       chan engine.AnalysisInfo
	unsubscribe    func()
	searchDepth    int

	// game over modal shown once per result
	announced string

	// buttons
	buttons    []*ghelper.Button
	idxNew     int
	idxFlip    int
	idxHint    int
	idxUndo    int
	idxRedo    int
	idxCopyFEN int
	idxCopyPGN int
	idxSave    int
	idxQuick   int
	idxResign  int
	idxBack    int

	saveActive bool

	// message box reuse
	msg *ghelper.MessageBox

	prevMouseDown bool
	prevRightDown bool
	lastTick      time.Time
}

func NewGUIPlayDrawer(ctx *gctx.GUIGameContext) *GUIPlayDrawer {
	pd := &GUIPlayDrawer{
		sel:      gboard.NewSelector(),
		arrows:   gboard.NewArrowSet(),
		moveCh:   make(chan base.Move, 1),
		lastTick: time.Now(),
	}

	if ctx.Builder == nil {
		ctx.Builder = src.NewBuilderBoard(ctx.Logx)
		ctx.Builder.CreateClassic()
		ctx.Builder.SetClock(ctx.Config.ClockMinutes, ctx.Config.ClockIncSec)
	} else if ctx.Builder.Status() == base.InvalidGame {
		ctx.Builder.CreateClassic()
		ctx.Builder.SetClock(ctx.Config.ClockMinutes, ctx.Config.ClockIncSec)
	}

	// analysis engine for hints, eval and grading
	if ctx.Config.UCIPath != "" {
		ctx.Builder.SetEngineGateway(NewEngineGateway(ctx))
	}

	// a previous game's opponent must not outlive its scene
	if ctx.Opponent != nil {
		ctx.Opponent.Close()
		ctx.Opponent = nil
	}

	// separate instance for the computer seat
	if ctx.Match.VsEngine {
		ctx.Opponent = NewEngineGateway(ctx)
		pd.searchCh = make(chan engine.AnalysisInfo, 16)
		pd.unsubscribe = ctx.Opponent.Subscribe(pd.searchCh)
		pd.flipped = ctx.Match.HumanColor == base.Black
	}

	pd.recalcLayout()
	pd.makeLayoutButtons(ctx)
	pd.msg = &ghelper.MessageBox{}
	return pd
}

func (pd *GUIPlayDrawer) recalcLayout() {
	maxSize := gbase.WindowW - 400
	if maxSize > gbase.WindowH-120 {
		maxSize = gbase.WindowH - 120
	}
	if maxSize < 320 {
		maxSize = 320
	}
	sq := maxSize / 8
	pd.geom = gboard.Geometry{
		X:      (gbase.WindowW - sq*8) / 2,
		Y:      (gbase.WindowH-sq*8)/2 - 20,
		Square: sq,
	}
}

func (pd *GUIPlayDrawer) makeLayoutButtons(ctx *gctx.GUIGameContext) {
	pd.buttons = []*ghelper.Button{}

	x := 20
	y := pd.geom.Y
	w, h := 170, 44
	add := func(label string) int {
		var idx int
		idx, pd.buttons = ghelper.AppendButton(ctx.Theme, label, x, y, w, h, pd.buttons)
		y += h + 10
		return idx
	}
	pd.idxNew = add("New Game")
	pd.idxFlip = add("Flip Board")
	pd.idxHint = add("Hint")
	pd.idxUndo = add("Undo")
	pd.idxRedo = add("Redo")
	pd.idxCopyFEN = add("Copy FEN")
	pd.idxCopyPGN = add("Copy PGN")
	pd.idxSave = add("Save PGN...")
	pd.idxQuick = add("Quick Save")
	pd.idxResign = add("Resign")
	pd.idxBack = add("Back")
}

// humanTurn is false while the computer seat owns the move.
func (pd *GUIPlayDrawer) humanTurn(ctx *gctx.GUIGameContext) bool {
	if !ctx.Match.VsEngine {
		return true
	}
	return ctx.Builder.SideToMove() == ctx.Match.HumanColor
}

// Update
func (pd *GUIPlayDrawer) Update(ctx *gctx.GUIGameContext) (SceneType, error) {
	now := time.Now()
	dt := now.Sub(pd.lastTick).Seconds()
	pd.lastTick = now

	clock := ctx.Builder.Clock()
	clock.Tick(dt)
	pd.checkFlag(ctx)

	// engine reply lands here, applied on the frame goroutine
	select {
	case mv := <-pd.moveCh:
		pd.engineThinking = false
		pd.searchDepth = 0
		if mv == (base.Move{}) {
			pd.msg.ShowMessage("The engine failed to move.", nil)
		} else if st := ctx.Builder.Move(mv); st == base.InvalidGame {
			ctx.Logx.Errorf("engine move rejected: %s", mv.UCI())
			pd.msg.ShowMessage("The engine played an illegal move.", nil)
		} else {
			pd.hintOn = false
			pd.arrowDirty = true
		}
	default:
	}

	// live search depth while the opponent thinks
	if pd.searchCh != nil {
	drain:
		for {
			select {
			case info := <-pd.searchCh:
				pd.searchDepth = info.Depth
			default:
				break drain
			}
		}
	}

	mx, my := ebiten.CursorPosition()
	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justPressed := mouseDown && !pd.prevMouseDown
	justReleased := !mouseDown && pd.prevMouseDown
	pd.prevMouseDown = mouseDown

	rightDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	rightPressed := rightDown && !pd.prevRightDown
	rightReleased := !rightDown && pd.prevRightDown
	pd.prevRightDown = rightDown

	// if message box open -> handle clicks on it
	if pd.msg.Open {
		if justPressed {
			bounds := text.BoundString(ctx.Fonts.Normal, pd.msg.Text)
			pd.msg.CollapseMessageInRect(gbase.WindowW, gbase.WindowH, bounds.Dx(), bounds.Dy())
		}
		pd.msg.AnimateMessage()
		return SceneNotChanged, nil
	}

	// Buttons handling
	for i, b := range pd.buttons {
		clicked := b.HandleInput(mx, my, justPressed, justReleased)
		b.UpdateAnim(dt)
		if !clicked {
			continue
		}
		if next, handled, err := pd.onButton(ctx, i); handled {
			return next, err
		}
	}

	// keyboard shortcuts
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		pd.doUndo(ctx)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		pd.doRedo(ctx)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		pd.flipped = !pd.flipped
		pd.arrowDirty = true
	}

	// Board interaction
	pd.handleBoard(ctx, mx, my, mouseDown, justPressed, justReleased)
	pd.handleArrows(ctx, mx, my, rightPressed, rightReleased)

	// the computer seat moves whenever it owns the turn
	if ctx.Match.VsEngine && !pd.humanTurn(ctx) &&
		!pd.engineThinking && !ctx.Builder.Status().Terminal() {
		pd.startEngineMoveAsync(ctx)
	}

	pd.announceOutcome(ctx)

	return SceneNotChanged, nil
}

// onButton runs one button action; handled=true short-circuits Update.
func (pd *GUIPlayDrawer) onButton(ctx *gctx.GUIGameContext, i int) (SceneType, bool, error) {
	switch i {
	case pd.idxNew:
		if pd.engineThinking {
			break
		}
		ctx.Builder.CreateClassic()
		ctx.Builder.SetClock(ctx.Config.ClockMinutes, ctx.Config.ClockIncSec)
		pd.sel.Reset()
		pd.arrows.Clear()
		pd.arrowDirty = true
		pd.hintOn = false
		pd.announced = ""
	case pd.idxFlip:
		pd.flipped = !pd.flipped
		pd.arrowDirty = true
	case pd.idxHint:
		if pd.engineThinking {
			break
		}
		if !ctx.Builder.EngineOn() {
			pd.msg.ShowMessage("Pick a UCI engine in Settings to get hints.", nil)
			break
		}
		if mv, ok := ctx.Builder.Hint(); ok {
			pd.hintMove = mv
			pd.hintOn = true
			pd.arrowDirty = true
		}
	case pd.idxUndo:
		pd.doUndo(ctx)
	case pd.idxRedo:
		pd.doRedo(ctx)
	case pd.idxCopyFEN:
		if err := gclipboard.WriteAll(ctx.Builder.FEN()); err != nil {
			ctx.Logx.Errorf("clipboard: %v", err)
		}
	case pd.idxCopyPGN:
		var sb strings.Builder
		if err := ctx.Builder.PGN(&sb); err == nil {
			if err := gclipboard.WriteAll(sb.String()); err != nil {
				ctx.Logx.Errorf("clipboard: %v", err)
			}
		}
	case pd.idxSave:
		pd.savePGNAsync(ctx)
	case pd.idxQuick:
		var sb strings.Builder
		if err := ctx.Builder.PGN(&sb); err != nil {
			ctx.Logx.Errorf("render pgn: %v", err)
			break
		}
		if err := os.WriteFile(gbase.QuickSaveFile, []byte(sb.String()), 0644); err != nil {
			ctx.Logx.Errorf("quick save: %v", err)
			pd.msg.ShowMessage("Saving failed.", nil)
			break
		}
		pd.msg.ShowMessage("Game saved to "+gbase.QuickSaveFile+".", nil)
	case pd.idxResign:
		if pd.engineThinking {
			break
		}
		side := ctx.Builder.SideToMove()
		if ctx.Match.VsEngine {
			side = ctx.Match.HumanColor
		}
		ctx.Builder.Resign(side)
	case pd.idxBack:
		if pd.engineThinking {
			pd.msg.ShowMessage("The engine is still thinking.", nil)
			return SceneNotChanged, true, nil
		}
		pd.teardown(ctx)
		return SceneMenu, true, nil
	}
	return SceneNotChanged, false, nil
}

func (pd *GUIPlayDrawer) doUndo(ctx *gctx.GUIGameContext) {
	if pd.engineThinking {
		return
	}
	ctx.Builder.Undo()
	// stepping back into the engine's turn would make it replay at
	// once, so take back the full move pair
	if ctx.Match.VsEngine && !pd.humanTurn(ctx) && ctx.Builder.HistoryLen() > 0 {
		ctx.Builder.Undo()
	}
	pd.sel.Reset()
	pd.hintOn = false
	pd.arrowDirty = true
	pd.announced = ""
}

func (pd *GUIPlayDrawer) doRedo(ctx *gctx.GUIGameContext) {
	if pd.engineThinking {
		return
	}
	ctx.Builder.Redo()
	pd.sel.Reset()
	pd.hintOn = false
	pd.arrowDirty = true
}

func (pd *GUIPlayDrawer) handleBoard(ctx *gctx.GUIGameContext, mx, my int, mouseDown, justPressed, justReleased bool) {
	if pd.engineThinking || !pd.humanTurn(ctx) || ctx.Builder.Status().Terminal() {
		if pd.sel.State() != gboard.StateIdle {
			pd.sel.Reset()
		}
		return
	}

	own := func(sq base.Square) bool {
		p := ctx.Builder.PieceAt(sq)
		return p != base.EmptyPiece && p.Color() == ctx.Builder.SideToMove()
	}

	if justPressed {
		// a fresh left press clears annotations, like most board UIs
		if pd.arrows.Len() > 0 {
			pd.arrows.Clear()
			pd.arrowDirty = true
		}
		sq, ok := pd.geom.SquareAt(mx, my, pd.flipped)
		if attempt, commit := pd.sel.Press(sq, ok, mx, my, own); commit {
			pd.tryMove(ctx, attempt)
		}
	}
	if mouseDown && pd.sel.State() == gboard.StateDragging {
		pd.sel.Drag(mx, my)
	}
	if justReleased {
		sq, ok := pd.geom.SquareAt(mx, my, pd.flipped)
		if attempt, commit := pd.sel.Release(sq, ok); commit {
			pd.tryMove(ctx, attempt)
		}
	}
}

func (pd *GUIPlayDrawer) tryMove(ctx *gctx.GUIGameContext, mv base.Move) {
	if st := ctx.Builder.Move(mv); st == base.InvalidGame {
		// snap back silently; not every drop is a move
		ctx.Logx.Debugf("rejected move: %s", mv.UCI())
		return
	}
	pd.hintOn = false
	pd.arrowDirty = true
}

func (pd *GUIPlayDrawer) handleArrows(ctx *gctx.GUIGameContext, mx, my int, rightPressed, rightReleased bool) {
	if rightPressed {
		if sq, ok := pd.geom.SquareAt(mx, my, pd.flipped); ok {
			pd.arrowFrom = sq
			pd.arrowActive = true
		}
	}
	if rightReleased && pd.arrowActive {
		pd.arrowActive = false
		if sq, ok := pd.geom.SquareAt(mx, my, pd.flipped); ok && sq != pd.arrowFrom {
			pd.arrows.Toggle(pd.arrowFrom, sq)
			pd.arrowDirty = true
		}
	}
}

// checkFlag turns a fallen clock into a recorded loss.
func (pd *GUIPlayDrawer) checkFlag(ctx *gctx.GUIGameContext) {
	if !ctx.Builder.Clock().Running() || ctx.Builder.Status().Terminal() {
		return
	}
	for _, side := range []base.Color{base.White, base.Black} {
		if ctx.Builder.Clock().Flagged(side) {
			ctx.Builder.Resign(side)
			pd.msg.ShowMessage(fmt.Sprintf("%s lost on time.", sideName(side)), nil)
			pd.announced = ctx.Builder.ResultText()
			return
		}
	}
}

// announceOutcome pops the game-over modal exactly once per result.
func (pd *GUIPlayDrawer) announceOutcome(ctx *gctx.GUIGameContext) {
	if !ctx.Builder.Status().Terminal() {
		return
	}
	rt := ctx.Builder.ResultText()
	if rt == "" || rt == pd.announced {
		return
	}
	pd.announced = rt
	pd.msg.ShowMessage(rt, nil)
}

// async call the opponent engine; the result is applied in Update
func (pd *GUIPlayDrawer) startEngineMoveAsync(ctx *gctx.GUIGameContext) {
	pd.engineMu.Lock()
	if pd.engineThinking {
		pd.engineMu.Unlock()
		return
	}
	pd.engineThinking = true
	pd.engineMu.Unlock()

	fen := ctx.Builder.FEN()
	opp := ctx.Opponent

	// run engine; only the gateway is touched off the frame goroutine
	go func() {
		if opp == nil {
			pd.moveCh <- base.Move{}
			return
		}
		mv, _, ok := opp.BestMove(fen)
		if !ok {
			pd.moveCh <- base.Move{}
			return
		}
		pd.moveCh <- mv
	}()
}

func (pd *GUIPlayDrawer) savePGNAsync(ctx *gctx.GUIGameContext) {
	if pd.saveActive {
		return
	}
	pd.saveActive = true
	var sb strings.Builder
	if err := ctx.Builder.PGN(&sb); err != nil {
		ctx.Logx.Errorf("render pgn: %v", err)
		pd.saveActive = false
		return
	}
	data := []byte(sb.String())
	go func() {
		path, err := gdialog.SaveFile("Save PGN", "PGN files", "pgn", data)
		if err != nil && !gdialog.Canceled(err) {
			ctx.Logx.Errorf("save pgn: %v", err)
		} else if err == nil {
			ctx.Logx.Infof("saved game to %s", path)
		}
		pd.saveActive = false
	}()
}

func (pd *GUIPlayDrawer) teardown(ctx *gctx.GUIGameContext) {
	if pd.unsubscribe != nil {
		pd.unsubscribe()
		pd.unsubscribe = nil
	}
	if ctx.Opponent != nil {
		ctx.Opponent.Close()
		ctx.Opponent = nil
	}
}

// Draw
func (pd *GUIPlayDrawer) Draw(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	// background
	screen.Fill(ctx.Theme.Bg)

	size := pd.geom.Size()

	// board frame
	borderImg := ghelper.RenderRoundedRect(size+8, size+8, 6, ctx.Theme.BoardBorder, ctx.Theme.ButtonStroke, 2)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(pd.geom.X-4), float64(pd.geom.Y-4))
	screen.DrawImage(borderImg, op)

	pd.drawBoard(ctx, screen)
	pd.drawMarkers(ctx, screen)
	pd.drawPieces(ctx, screen)
	pd.drawArrowLayer(ctx, screen)
	pd.drawDragged(ctx, screen)
	pd.drawEvalBar(ctx, screen)
	pd.drawSidePanel(ctx, screen)
	pd.drawClocks(ctx, screen)

	// buttons
	for _, b := range pd.buttons {
		b.DrawAnimated(screen, ctx.Fonts.Normal, ctx.Theme)
	}

	// draw message box if open
	if pd.msg.Open || pd.msg.Animating {
		DrawModal(ctx, pd.msg.Scale, pd.msg.Text, screen)
	}

	if ctx.Config.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f", ebiten.ActualTPS()))
	}
}

func (pd *GUIPlayDrawer) drawBoard(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	theme := ctx.Theme.String()
	if pd.boardImg == nil || pd.boardFlip != pd.flipped || pd.boardTheme != theme {
		pd.boardImg = ddraw.RenderBoard(pd.geom.Size(), pd.flipped, ctx.Theme, ctx.Fonts.Small)
		pd.boardFlip = pd.flipped
		pd.boardTheme = theme
		pd.dotImg = ddraw.RenderDot(pd.geom.Square, ctx.Theme.TargetDot)
		pd.ringImg = ddraw.RenderRing(pd.geom.Square, ctx.Theme.TargetDot)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(pd.geom.X), float64(pd.geom.Y))
	screen.DrawImage(pd.boardImg, op)
}

func (pd *GUIPlayDrawer) drawMarkers(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	sq := float64(pd.geom.Square)

	// last move tint
	if mv, ok := ctx.Builder.LastMove(); ok {
		for _, s := range []base.Square{mv.From, mv.To} {
			x, y := pd.geom.PixelOf(s, pd.flipped)
			ghelper.DrawRect(screen, float64(x), float64(y), sq, sq, ctx.Theme.LastMoveTint)
		}
	}

	// king in danger tint
	st := ctx.Builder.Status()
	if st == base.Check || st == base.Checkmate {
		if ks, ok := pd.kingSquare(ctx); ok {
			x, y := pd.geom.PixelOf(ks, pd.flipped)
			ghelper.DrawRect(screen, float64(x), float64(y), sq, sq, ctx.Theme.CheckTint)
		}
	}

	// selection stroke + legal targets
	if from, ok := pd.sel.From(); ok {
		x, y := pd.geom.PixelOf(from, pd.flipped)
		ghelper.DrawRectStroke(screen, float64(x)+2, float64(y)+2, sq-4, sq-4, 2.5, ctx.Theme.SelectStroke)

		for _, t := range ctx.Builder.LegalTargets(from) {
			tx, ty := pd.geom.PixelOf(t, pd.flipped)
			marker := pd.dotImg
			if ctx.Builder.PieceAt(t) != base.EmptyPiece {
				marker = pd.ringImg
			}
			if marker != nil {
				mop := &ebiten.DrawImageOptions{}
				mop.GeoM.Translate(float64(tx), float64(ty))
				screen.DrawImage(marker, mop)
			}
		}
	}
}

func (pd *GUIPlayDrawer) drawPieces(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	dragFrom := base.NoSquare
	if pd.sel.State() == gboard.StateDragging {
		dragFrom, _ = pd.sel.From()
	}
	for i := 0; i < 64; i++ {
		s := base.Square(i)
		if s == dragFrom {
			continue
		}
		p := ctx.Builder.PieceAt(s)
		if p == base.EmptyPiece {
			continue
		}
		img, err := ctx.Pieces.Image(p, pd.geom.Square)
		if err != nil {
			continue
		}
		x, y := pd.geom.PixelOf(s, pd.flipped)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(x), float64(y))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
}

func (pd *GUIPlayDrawer) drawDragged(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	if pd.sel.State() != gboard.StateDragging {
		return
	}
	from, ok := pd.sel.From()
	if !ok {
		return
	}
	p := ctx.Builder.PieceAt(from)
	if p == base.EmptyPiece {
		return
	}
	img, err := ctx.Pieces.Image(p, pd.geom.Square)
	if err != nil {
		return
	}
	mx, my := pd.sel.Pointer()
	half := float64(pd.geom.Square) / 2
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(mx)-half, float64(my)-half)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (pd *GUIPlayDrawer) drawArrowLayer(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	if pd.arrowDirty || pd.arrowImg == nil {
		pd.rebuildArrows(ctx)
		pd.arrowDirty = false
	}
	if pd.arrowImg == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(pd.geom.X), float64(pd.geom.Y))
	screen.DrawImage(pd.arrowImg, op)
}

func (pd *GUIPlayDrawer) rebuildArrows(ctx *gctx.GUIGameContext) {
	all := pd.arrows.All()
	if len(all) == 0 && !pd.hintOn {
		pd.arrowImg = nil
		return
	}
	width := float64(pd.geom.Square) * 0.18

	toSeg := func(from, to base.Square) ddraw.Segment {
		x1, y1 := pd.geom.CenterOf(from, pd.flipped)
		x2, y2 := pd.geom.CenterOf(to, pd.flipped)
		return ddraw.Segment{
			X1: float64(x1 - pd.geom.X), Y1: float64(y1 - pd.geom.Y),
			X2: float64(x2 - pd.geom.X), Y2: float64(y2 - pd.geom.Y),
		}
	}

	segs := make([]ddraw.Segment, 0, len(all))
	for _, a := range all {
		segs = append(segs, toSeg(a.From, a.To))
	}
	pd.arrowImg = ddraw.RenderArrows(pd.geom.Size(), segs, width, ctx.Theme.ArrowFill)

	if pd.hintOn {
		hint := ddraw.RenderArrows(pd.geom.Size(),
			[]ddraw.Segment{toSeg(pd.hintMove.From, pd.hintMove.To)},
			width, ctx.Theme.HintArrowFill)
		op := &ebiten.DrawImageOptions{}
		pd.arrowImg.DrawImage(hint, op)
	}
}

func (pd *GUIPlayDrawer) drawEvalBar(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	if !ctx.Builder.EngineOn() {
		return
	}
	x := float64(pd.geom.X - 26)
	y := float64(pd.geom.Y)
	w := 14.0
	h := float64(pd.geom.Size())

	cp, ok := ctx.Builder.Eval()
	frac := 0.5
	if ok {
		frac = 1.0 / (1.0 + math.Pow(10, float64(-cp)/400.0))
	}

	// dark backdrop then the white share, anchored at White's edge
	ghelper.DrawRect(screen, x, y, w, h, ctx.Theme.SquareDark)
	wh := h * frac
	if pd.flipped {
		ghelper.DrawRect(screen, x, y, w, wh, ctx.Theme.SquareLight)
	} else {
		ghelper.DrawRect(screen, x, y+h-wh, w, wh, ctx.Theme.SquareLight)
	}

	if ok {
		label := fmt.Sprintf("%+.1f", float64(cp)/100.0)
		text.Draw(screen, label, ctx.Fonts.Small, int(x)-4, int(y)-8, ctx.Theme.MenuText)
	}
}

func (pd *GUIPlayDrawer) drawSidePanel(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	px := pd.geom.X + pd.geom.Size() + 24
	pw := gbase.WindowW - px - 16
	py := pd.geom.Y + 130
	ph := pd.geom.Size() - 130
	ghelper.DrawRect(screen, float64(px), float64(py), float64(pw), float64(ph), ctx.Theme.PanelBg)

	tx := px + 10
	ty := py + 22

	// opening name
	if code, title := ctx.Builder.Opening(); code != "" {
		line := code + " " + title
		if len(line) > 30 {
			line = line[:30]
		}
		text.Draw(screen, line, ctx.Fonts.Small, tx, ty, ctx.Theme.MenuText)
	}
	ty += 20

	// engine thinking indicator
	if pd.engineThinking {
		ind := "Engine is thinking..."
		if pd.searchDepth > 0 {
			ind = fmt.Sprintf("Engine is thinking... depth %d", pd.searchDepth)
		}
		text.Draw(screen, ind, ctx.Fonts.Small, tx, ty, ctx.Theme.Accent)
	}
	ty += 24

	// move list, last rows that fit
	sans := ctx.Builder.MovesSAN()
	rows := pairRows(sans)
	maxRows := (ph - (ty - py) - 70) / 18
	if maxRows < 0 {
		maxRows = 0
	}
	if len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}
	for _, r := range rows {
		text.Draw(screen, r, ctx.Fonts.Mono, tx, ty, ctx.Theme.ButtonText)
		ty += 18
	}

	// accuracy footer
	fy := py + ph - 34
	for _, side := range []base.Color{base.White, base.Black} {
		if avg, n := ctx.Builder.Accuracy(side); n > 0 {
			line := fmt.Sprintf("%s accuracy %.1f", sideName(side), avg)
			if last, ok := ctx.Builder.LastAccuracy(side); ok {
				line += fmt.Sprintf(" (last %.0f)", last)
			}
			text.Draw(screen, line, ctx.Fonts.Small, tx, fy, ctx.Theme.MenuText)
			fy += 16
		}
	}
}

// pairRows folds SAN plies into "1. e4 e5" rows.
func pairRows(sans []string) []string {
	var rows []string
	for i := 0; i < len(sans); i += 2 {
		row := fmt.Sprintf("%d. %s", i/2+1, sans[i])
		if i+1 < len(sans) {
			row += " " + sans[i+1]
		}
		rows = append(rows, row)
	}
	return rows
}

func (pd *GUIPlayDrawer) drawClocks(ctx *gctx.GUIGameContext, screen *ebiten.Image) {
	clock := ctx.Builder.Clock()

	drawClock := func(x, y int, label, timeStr string, active bool) {
		w, h := 150, 52
		img := ghelper.RenderRoundedRect(w, h, 12, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 3)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(img, op)

		if active {
			ghelper.DrawRectStroke(screen, float64(x)+1, float64(y)+1, float64(w)-2, float64(h)-2, 3, ctx.Theme.Accent)
		}
		text.Draw(screen, label, ctx.Fonts.Small, x+10, y+18, ctx.Theme.MenuText)
		text.Draw(screen, timeStr, ctx.Fonts.Bold, x+10, y+42, ctx.Theme.ButtonText)
	}

	seatLabel := func(side base.Color) string {
		l := sideName(side)
		if ctx.Match.VsEngine {
			if side == ctx.Match.HumanColor {
				l += " (you)"
			} else {
				l += " (engine)"
			}
		}
		return l
	}

	// top box belongs to the seat drawn at the top of the board
	top, bottom := base.Black, base.White
	if pd.flipped {
		top, bottom = base.White, base.Black
	}
	x := pd.geom.X + pd.geom.Size() + 24
	running := clock.Running()
	drawClock(x, pd.geom.Y, seatLabel(top), clockx.Format(clock.Remaining(top)),
		running && clock.Active() == top)
	drawClock(x, pd.geom.Y+62, seatLabel(bottom), clockx.Format(clock.Remaining(bottom)),
		running && clock.Active() == bottom)
}

func sideName(c base.Color) string {
	if c == base.White {
		return "White"
	}
	return "Black"
}

func (pd *GUIPlayDrawer) kingSquare(ctx *gctx.GUIGameContext) (base.Square, bool) {
	want := base.PieceOf(ctx.Builder.SideToMove(), base.King)
	for i := 0; i < 64; i++ {
		if ctx.Builder.PieceAt(base.Square(i)) == want {
			return base.Square(i), true
		}
	}
	return base.NoSquare, false
}

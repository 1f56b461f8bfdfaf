package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"chessdesk/src/engine"
	"chessdesk/src/logx"
)

type UCIExecutor struct {
	// init
	path string
	args []string

	// process
	cmd *exec.Cmd
	in  io.WriteCloser
	out io.ReadCloser

	// read stdout
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// subscribers
	submu sync.Mutex
	subs  map[int]chan<- engine.AnalysisInfo
	subid int

	// runtime
	mu         sync.RWMutex
	running    bool
	info       engine.AnalysisInfo
	timeout    time.Duration
	lines      chan string
	bestMoveCh chan struct{}
	logx       logx.Logger
}

// to open a process, need to call Init()
func NewUCIExec(logx logx.Logger, enginePath string, engineArgs ...string) *UCIExecutor {
	return &UCIExecutor{
		path: enginePath, args: engineArgs, logx: logx,
		subs: make(map[int]chan<- engine.AnalysisInfo), subid: 0,
		bestMoveCh: make(chan struct{}, 1), // buffered: send won't block if nobody WaitDone yet
	}
}

// open process and handshake
func (e *UCIExecutor) Init() error {
	if e.path == "" {
		return errors.New("empty engine path")
	}

	cmd := exec.Command(e.path, e.args...)
	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("error connect to stdin of engine process: %v", err)
	}

	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error connect to stdout of engine process: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error open %s engine: %v", e.path, err)
	}

	// process
	e.cmd = cmd
	e.in = in
	e.out = out
	e.lines = make(chan string, 256)

	// concurrency
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.wg.Add(1)
	go e.stdoutLoop(e.ctx)

	title, err := e.waitLine(engine.UCIHandshakeTimeout)
	if err != nil {
		return err
	}
	e.logx.Infof("open engine: %s", title)

	if !e.checkUCI() {
		go e.Close()
		return errors.New("error read uciok")
	}
	if !e.checkReady() {
		go e.Close()
		return errors.New("error read readyok")
	}
	return nil
}

// command executable
func (e *UCIExecutor) Exec(cmd string) error {
	if e.in == nil {
		return errors.New("stdin not available")
	}
	_, err := io.WriteString(e.in, cmd+"\n")
	return err
}

func (e *UCIExecutor) SetOption(name, value string) error {
	if err := e.Exec(fmt.Sprintf("setoption name %s value %s", name, value)); err != nil {
		return err
	}
	if !e.checkReady() {
		return fmt.Errorf("error read readyok after setoption %s", name)
	}
	return nil
}

func (e *UCIExecutor) SetPositionFEN(fen string) error {
	e.logx.Debugf("init position FEN: %s", fen)
	if err := e.Exec("ucinewgame"); err != nil {
		return err
	}
	if err := e.Exec(fmt.Sprintf("position fen %s", fen)); err != nil {
		return err
	}
	if !e.checkReady() {
		return fmt.Errorf("error read readyok")
	}
	return nil
}

// actual info
func (e *UCIExecutor) BestNow() engine.AnalysisInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.info
}

func (e *UCIExecutor) StartAnalysis(prm engine.SearchParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil {
		return errors.New("no running uci-process")
	}
	if e.running {
		return errors.New("already running")
	}

	var b strings.Builder
	b.WriteString("go")
	if prm.Infinite {
		b.WriteString(" infinite")
		e.timeout = 0
	} else {
		if prm.MaxDepth > 0 {
			b.WriteString(fmt.Sprintf(" depth %d", prm.MaxDepth))
		}
		if prm.MaxTimeMs > 0 {
			e.timeout = time.Duration(prm.MaxTimeMs) * time.Millisecond
			b.WriteString(fmt.Sprintf(" movetime %d", prm.MaxTimeMs))
		} else {
			e.timeout = 0
		}
	}
	e.info = engine.AnalysisInfo{}
	e.running = true

	// stale signal from an earlier search must not satisfy this one
	select {
	case <-e.bestMoveCh:
	default:
	}

	cmd := b.String()
	e.logx.Infof("start analyze: %s", cmd)
	if err := e.Exec(cmd); err != nil {
		e.running = false
		return err
	}

	return nil
}

// calling if analysis is infinite
func (e *UCIExecutor) StopAnalysis() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil {
		return errors.New("no running uci-process")
	}
	if !e.running {
		return nil
	}

	e.logx.Info("stop analyze")
	return e.Exec("stop")
}

// called if analysis is time-limited; returns once bestmove arrived or
// the movetime budget (plus grace) ran out
func (e *UCIExecutor) WaitDone() {
	e.mu.RLock()
	running := e.running
	timeout := e.timeout
	ctx := e.ctx
	e.mu.RUnlock()

	if !running {
		return
	}
	if timeout <= 0 {
		timeout = engine.UCIBestMoveTimeout
	} else {
		timeout += 500 * time.Millisecond
	}
	e.logx.Debugf("wait engine up to %v", timeout)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-e.bestMoveCh:
		return
	case <-timer.C:
		return
	case <-ctx.Done():
		return
	}
}

func (e *UCIExecutor) Subscribe(ch chan<- engine.AnalysisInfo) (unsubscribe func()) {
	e.submu.Lock()
	defer e.submu.Unlock()

	id := e.subid
	e.subs[id] = ch
	e.subid++

	return func() {
		e.submu.Lock()
		defer e.submu.Unlock()
		delete(e.subs, id)
	}
}

// Terminate process
func (e *UCIExecutor) Close() {
	if e.cmd == nil {
		return
	}
	e.mu.Lock()
	_ = e.Exec("quit")
	e.cancel()
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// ok
	case <-time.After(2 * time.Second):
		if e.cmd.Process != nil {
			_ = e.cmd.Process.Kill()
		}
		e.wg.Wait()
	}

	_ = e.cmd.Wait()
	e.cmd = nil
	e.logx.Info("uci-process terminated")
}

func (e *UCIExecutor) checkUCI() bool {
	if err := e.Exec("uci"); err != nil {
		return false
	}
	if err := e.waitCompare("uciok", engine.UCIHandshakeTimeout); err != nil {
		e.logx.Error(err.Error())
		return false
	}
	return true
}

func (e *UCIExecutor) checkReady() bool {
	if err := e.Exec("isready"); err != nil {
		return false
	}
	if err := e.waitCompare("readyok", engine.UCIHandshakeTimeout); err != nil {
		e.logx.Error(err.Error())
		return false
	}
	return true
}

func (e *UCIExecutor) waitLine(timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case line := <-e.lines:
			return line, nil
		case <-timer.C:
			return "", errors.New("timeout waiting")
		case <-e.ctx.Done():
			return "", errors.New("stopped")
		}
	}
}

func (e *UCIExecutor) waitCompare(str string, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case line := <-e.lines:
			if strings.HasPrefix(line, str) {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timeout waiting for %s", str)
		case <-e.ctx.Done():
			return errors.New("stopped")
		}
	}
}

func (e *UCIExecutor) stdoutLoop(ctx context.Context) {
	defer e.wg.Done()
	scr := bufio.NewScanner(e.out)
	for scr.Scan() {
		line := strings.TrimSpace(scr.Text())

		e.logx.Debugf("ENGINE: %s", line)
		select {
		case e.lines <- line:
		default:
			e.logx.Debugf("drop engine line (buffer full)")
		}
		if line != "" {
			if strings.HasPrefix(line, "info ") {
				e.saveInfo(line)
			} else if strings.HasPrefix(line, "bestmove") {
				e.saveBest(line)
			}
		}
		// проверка горутины
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// ParseInfo reads one UCI "info ..." line. Unknown tokens are skipped;
// the pv tag is always last on the line.
func ParseInfo(info string) engine.AnalysisInfo {
	preinfo := engine.AnalysisInfo{}
	fld := strings.Fields(info)
	n := len(fld)
	for i := 0; i < n; i++ {
		switch fld[i] {
		case "depth":
			if i+1 < n {
				preinfo.Depth, _ = strconv.Atoi(fld[i+1])
				i++
			}
		case "nodes":
			if i+1 < n {
				preinfo.Nodes, _ = strconv.ParseInt(fld[i+1], 10, 64)
				i++
			}
		case "nps":
			if i+1 < n {
				preinfo.NPS, _ = strconv.ParseInt(fld[i+1], 10, 64)
				i++
			}
		case "time":
			if i+1 < n {
				if v, err := strconv.ParseInt(fld[i+1], 10, 64); err == nil {
					preinfo.TimeMs = v
				}
				i++
			}
		case "score":
			if i+2 < n {
				typ := fld[i+1]
				val := fld[i+2]
				if typ == "cp" {
					if v, err := strconv.Atoi(val); err == nil {
						preinfo.ScoreCP = v
						preinfo.MateIn = 0
					}
				} else if typ == "mate" {
					if v, err := strconv.Atoi(val); err == nil {
						preinfo.MateIn = v
					}
				}
				i += 2
			}
		case "pv":
			if i+1 < n {
				pv := make([]string, 0, n-i-1)
				for j := i + 1; j < n; j++ {
					pv = append(pv, fld[j])
				}
				preinfo.UCIPV = pv
				preinfo.UCIBestMove = pv[0]
				i = n
			}
		default:
			// skip like "seldepth", "currmove" etc
		}
	}
	return preinfo
}

func (e *UCIExecutor) saveInfo(info string) {
	preinfo := ParseInfo(info)

	e.mu.Lock()
	if preinfo.UCIBestMove == "" {
		// depth-only lines keep the move found so far
		preinfo.UCIBestMove = e.info.UCIBestMove
		preinfo.UCIPV = e.info.UCIPV
	}
	e.info = preinfo
	e.mu.Unlock()

	e.publish(preinfo)
}

func (e *UCIExecutor) saveBest(best string) {
	e.logx.Debugf("save best move: %s", best)
	f := strings.Fields(best)
	if len(f) >= 2 {
		bm := f[1]
		e.mu.Lock()
		e.running = false

		// "bestmove (none)" on mated positions
		if bm == "(none)" {
			e.info.UCIBestMove = ""
		} else {
			e.info.UCIBestMove = bm
			if len(e.info.UCIPV) == 0 {
				e.info.UCIPV = []string{bm}
			}
		}

		select {
		// signal to WaitDone()
		case e.bestMoveCh <- struct{}{}:
		default:
		}

		e.mu.Unlock()
	}
}

func (e *UCIExecutor) publish(info engine.AnalysisInfo) {
	e.submu.Lock()
	defer e.submu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- info:
		default:
		}
	}
}

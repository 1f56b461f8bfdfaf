package ui

import (
	"context"
	"fmt"
	"os"

	"chessdesk/src"
	"chessdesk/src/engine"
	"chessdesk/src/engine/uci"
	"chessdesk/src/logx"
	clic "chessdesk/ui/cli"
	"chessdesk/ui/gui"
	"chessdesk/ui/gui/gbase/gconf"

	"github.com/urfave/cli/v3"
)

const logfile string = "chessdesk.log"

func GetLogger(file *os.File, c *cli.Command) *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString(c.String("level")),
		c.Bool("debug"),
		c.Bool("console"),
	)
	l.InitLogger(file)
	return l
}

// newBuilder loads --fen/--pgn into a fresh builder. loaded tells the
// GUI to skip the menu.
func newBuilder(c *cli.Command, lg logx.Logger) (gb *src.GameBuilder, loaded bool, err error) {
	gb = src.NewBuilderBoard(lg)
	if pgn := c.String("pgn"); pgn != "" {
		f, err := os.Open(pgn)
		if err != nil {
			return nil, false, fmt.Errorf("open pgn: %w", err)
		}
		defer f.Close()
		if _, err := gb.CreateFromPGN(f); err != nil {
			return nil, false, fmt.Errorf("read pgn: %w", err)
		}
		return gb, true, nil
	}
	if fen := c.String("fen"); fen != "" {
		if _, err := gb.CreateFromFEN(fen); err != nil {
			return nil, false, fmt.Errorf("read fen: %w", err)
		}
		return gb, true, nil
	}
	gb.CreateClassic()
	return gb, false, nil
}

// enginePath resolves --engine, falling back to the saved config.
func enginePath(c *cli.Command) string {
	if p := c.String("engine"); p != "" {
		return p
	}
	if cfg, err := gconf.NewGUIConfig(); err == nil {
		return cfg.UCIPath
	}
	return ""
}

func runGUI(c *cli.Command) error {
	file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Printf("error open logfile: %v", err)
		return nil
	}
	defer file.Close()
	lg := GetLogger(file, c)
	gb, loaded, err := newBuilder(c, lg)
	if err != nil {
		return err
	}
	g, err := gui.NewGUI(gb, lg, gui.Options{
		StartInPlay: loaded,
		EnginePath:  c.String("engine"),
	})
	if err != nil {
		return err
	}
	return g.Run()
}

func runCLI(c *cli.Command) error {
	file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Printf("error open logfile: %v", err)
		return nil
	}
	defer file.Close()
	lg := GetLogger(file, c)
	gb, _, err := newBuilder(c, lg)
	if err != nil {
		return err
	}
	defer gb.Close()

	if path := enginePath(c); path != "" {
		gw := engine.NewGateway(lg, func() engine.Engine {
			return uci.NewUCIExec(lg, path)
		})
		gb.SetEngineGateway(gw)
	}

	clic.EnableANSI()
	cl := clic.NewCLI(gb, clic.PrintMailbox)
	if c.Bool("line") {
		return cl.RunLineMode()
	}
	return cl.Run()
}

func RunChessDesk() error {
	ff := &cli.StringFlag{
		Name:  "fen",
		Usage: "start from a FEN position",
	}
	pf := &cli.StringFlag{
		Name:  "pgn",
		Usage: "path to a PGN file to load",
	}
	ef := &cli.StringFlag{
		Name:    "engine",
		Aliases: []string{"e"},
		Usage:   "path to a UCI engine binary",
	}
	df := &cli.BoolFlag{
		Name:    "debug",
		Aliases: []string{"d"},
		Usage:   "enable debug mode",
	}
	lf := &cli.StringFlag{
		Name:    "level",
		Aliases: []string{"l"},
		Usage:   "logger level",
		Value:   "info",
	}
	cf := &cli.BoolFlag{
		Name:    "console",
		Aliases: []string{"c"},
		Usage:   "console logger encoding",
	}
	linef := &cli.BoolFlag{
		Name:  "line",
		Usage: "plain line mode, no raw terminal",
	}
	cliff := []cli.Flag{ff, pf, ef, df, lf, cf, linef}
	guiff := []cli.Flag{ff, pf, ef, df, lf, cf}

	return (&cli.Command{
		Name:  "chessdesk",
		Usage: "desktop chess board",
		Flags: guiff,
		Commands: []*cli.Command{
			{
				Name:  "cli",
				Usage: "play in the terminal",
				Flags: cliff,
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := runCLI(c); err != nil {
						fmt.Printf("error chessdesk: %v\n", err)
					}
					return nil
				},
			},
			{
				Name:  "gui",
				Usage: "open the board window",
				Flags: guiff,
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := runGUI(c); err != nil {
						fmt.Printf("error GUI: %v\n", err)
					}
					return nil
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := runGUI(c); err != nil {
				fmt.Printf("error GUI: %v\n", err)
			}
			return nil
		},
	}).Run(context.Background(), os.Args)
}

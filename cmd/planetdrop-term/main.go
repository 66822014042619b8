// Command planetdrop-term plays planetdrop in a terminal.
//
// Keys: left/right or h/l move, space drops, s toggles shake, r restarts,
// + grants score, q or Esc quits. The mouse moves and drops too.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/planetdrop/internal/cli"
	"github.com/plus3/planetdrop/session"
)

func main() {
	common := cli.Register(flag.CommandLine)
	mute := flag.Bool("mute", false, "Disable sound effects.")
	logPath := flag.String("log-file", "", "Write logs to this file instead of discarding them.")
	flag.Parse()

	// The terminal owns stdout and stderr while the game runs.
	logOut, err := openLog(*logPath)
	if err != nil {
		log.Fatal("open log", "err", err)
	}
	defer logOut.Close()

	logger, err := common.Logger(logOut, "term")
	if err != nil {
		log.Fatal("bad flags", "err", err)
	}
	cfg, err := common.Config()
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	var sfx *chimes
	if !*mute {
		if sfx, err = newChimes(); err != nil {
			logger.Warn("audio unavailable", "err", err)
			sfx = nil
		}
	}

	opts := append(common.SessionOptions(logger), session.WithHooks(session.Hooks{
		OnDrop:     func(session.PieceSnapshot) { sfx.drop() },
		OnMerge:    func(e session.MergeEvent) { sfx.merge(e.From.Index) },
		OnGameOver: func(int) { sfx.gameOver() },
	}))
	sess, err := session.New(cfg, opts...)
	if err != nil {
		log.Fatal("start session", "err", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal("terminal", "err", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal("terminal", "err", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	t := newTerminal(screen, sess, cfg, logger)
	t.run()
}

type discard struct{ io.Writer }

func (discard) Close() error { return nil }

func openLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return discard{io.Discard}, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

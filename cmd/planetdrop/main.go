// Command planetdrop is the desktop host: it renders a session with Ebiten,
// maps mouse and keyboard to player actions and plays synthesized effects.
package main

import (
	"flag"
	"math"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/planetdrop/internal/cli"
	"github.com/plus3/planetdrop/session"
)

func main() {
	common := cli.Register(flag.CommandLine)
	debug := flag.Bool("debug", false, "Show the ImGui debug panels.")
	mute := flag.Bool("mute", false, "Disable sound effects.")
	flag.Parse()

	logger, err := common.Logger(os.Stderr, "planetdrop")
	if err != nil {
		log.Fatal("bad flags", "err", err)
	}
	cfg, err := common.Config()
	if err != nil {
		logger.Fatal("load config", "err", err)
	}

	table, err := cfg.RankTable()
	if err != nil {
		logger.Fatal("rank table", "err", err)
	}

	var sfx *soundboard
	if !*mute {
		sfx = newSoundboard(table.Len(), logger)
	}

	game := &Game{
		cfg:     cfg,
		sprites: loadSprites(table, logger),
		sfx:     sfx,
		logger:  logger,
	}

	opts := append(common.SessionOptions(logger), session.WithHooks(session.Hooks{
		OnSpawn: func(session.PieceSnapshot) any {
			return &wobble{phase: rand.Float64() * 2 * math.Pi}
		},
		OnDrop:     func(session.PieceSnapshot) { sfx.playDrop() },
		OnMerge:    func(e session.MergeEvent) { sfx.playMerge(e.From.Index) },
		OnGameOver: func(score int) { sfx.playGameOver() },
	}))
	game.session, err = session.New(cfg, opts...)
	if err != nil {
		logger.Fatal("start session", "err", err)
	}

	width, height := int(cfg.Screen.Width), int(cfg.Screen.Height)
	if *debug {
		game.overlay = newDebugOverlay(game.session, width, height)
	} else {
		ebiten.SetWindowSize(width, height)
		ebiten.SetWindowTitle("planetdrop")
	}

	logger.Info("starting", "preset", common.Preset, "debug", *debug)
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run", "err", err)
	}
}

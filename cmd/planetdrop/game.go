package main

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/session"
)

// Game implements ebiten.Game around one session.
type Game struct {
	session *session.Session
	cfg     config.Config
	sprites []*ebiten.Image
	sfx     *soundboard
	overlay *debugOverlay
	logger  *log.Logger
	frames  uint64
}

func (g *Game) Update() error {
	g.frames++

	if g.overlay != nil {
		g.overlay.begin()
		defer g.overlay.end()
	}

	if g.overlay == nil || !g.overlay.wantsMouse() {
		x, _ := ebiten.CursorPosition()
		g.session.MovePointer(float64(x))

		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			if ebiten.IsKeyPressed(ebiten.KeyControl) {
				g.session.AddScore(session.ScoreGrant)
			} else {
				g.drop()
			}
		}
	}

	if g.overlay == nil || !g.overlay.wantsKeyboard() {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) && g.session.StartShake() {
			g.sfx.playShake()
		}
		if inpututil.IsKeyJustReleased(ebiten.KeySpace) {
			g.session.StopShake()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			g.session.Reset()
		}
	}

	g.session.Tick()
	return nil
}

func (g *Game) drop() {
	_, err := g.session.Drop()
	switch {
	case err == nil, errors.Is(err, session.ErrCooldown), errors.Is(err, session.ErrGameOver):
	default:
		g.logger.Error("drop failed", "err", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g.drawBoundary(screen)
	g.drawDangerLine(screen)
	for _, piece := range g.session.Pieces() {
		g.drawPiece(screen, piece)
	}
	g.drawPending(screen)
	g.drawHUD(screen)

	if g.overlay != nil {
		g.overlay.draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.layout(outsideWidth, outsideHeight)
	}
	return int(g.cfg.Screen.Width), int(g.cfg.Screen.Height)
}

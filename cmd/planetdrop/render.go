package main

import (
	"fmt"
	"image/color"
	_ "image/png"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/planetdrop/ranks"
	"github.com/plus3/planetdrop/session"
)

var (
	backgroundColor = color.RGBA{12, 14, 32, 255}
	wallColor       = color.RGBA{60, 64, 96, 255}
	dangerColor     = color.RGBA{230, 60, 60, 255}
	ghostAlpha      = uint8(110)

	palette = []color.RGBA{
		{150, 140, 130, 255}, // asteroid
		{220, 220, 210, 255},
		{170, 160, 150, 255},
		{200, 90, 60, 255},
		{230, 200, 130, 255},
		{70, 130, 220, 255},
		{60, 90, 200, 255},
		{140, 210, 220, 255},
		{220, 190, 120, 255},
		{200, 150, 100, 255},
		{255, 210, 60, 255}, // sun
	}
)

// wobble is the rendering handle attached to every piece.
type wobble struct {
	phase float64
}

// scale returns the breathing factor for a piece at frame n.
func (w *wobble) scale(frame uint64) float64 {
	if w == nil {
		return 1
	}
	return 1 + 0.03*math.Sin(float64(frame)*0.08+w.phase)
}

func rankColor(index int) color.RGBA {
	return palette[index%len(palette)]
}

// dangerVisible blinks the danger line at roughly 4Hz while any piece is
// endangered.
func dangerVisible(inDanger bool, frame uint64) bool {
	return inDanger && (frame/8)%2 == 0
}

// loadSprites reads each rank's image if present. Missing images fall back to
// flat circles.
func loadSprites(table *ranks.Table, logger *log.Logger) []*ebiten.Image {
	sprites := make([]*ebiten.Image, table.Len())
	for _, rank := range table.All() {
		if rank.Image == "" {
			continue
		}
		img, _, err := ebitenutil.NewImageFromFile(rank.Image)
		if err != nil {
			logger.Debug("no sprite", "rank", rank.Name, "err", err)
			continue
		}
		sprites[rank.Index] = img
	}
	return sprites
}

func (g *Game) drawBoundary(screen *ebiten.Image) {
	for _, wall := range g.session.Boundary() {
		vector.DrawFilledRect(screen,
			float32(wall.X-wall.Width/2), float32(wall.Y-wall.Height/2),
			float32(wall.Width), float32(wall.Height),
			wallColor, false)
	}
}

func (g *Game) drawDangerLine(screen *ebiten.Image) {
	if !dangerVisible(g.session.InDanger(), g.frames) {
		return
	}
	y := float32(g.cfg.Rules.DangerLine)
	vector.StrokeLine(screen, 0, y, float32(g.cfg.Screen.Width), y, 2, dangerColor, true)
}

func (g *Game) drawPiece(screen *ebiten.Image, piece session.PieceSnapshot) {
	w, _ := piece.Handle.(*wobble)
	g.drawRank(screen, piece.Rank, piece.X, piece.Y, piece.Angle, w.scale(g.frames), 255)
}

func (g *Game) drawPending(screen *ebiten.Image) {
	pending, ok := g.session.Pending()
	if !ok || g.session.GameOver() {
		return
	}
	alpha := uint8(255)
	if g.session.Cooldown() > 0 {
		alpha = ghostAlpha
	}
	g.drawRank(screen, pending.Rank, pending.X, pending.Y, pending.Rotation, 1, alpha)
}

func (g *Game) drawRank(screen *ebiten.Image, rank ranks.Rank, x, y, angle, scale float64, alpha uint8) {
	if sprite := g.sprites[rank.Index]; sprite != nil {
		bounds := sprite.Bounds()
		size := rank.DisplaySize * scale
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(bounds.Dx())/2, -float64(bounds.Dy())/2)
		op.GeoM.Scale(size/float64(bounds.Dx()), size/float64(bounds.Dy()))
		op.GeoM.Rotate(angle)
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleAlpha(float32(alpha) / 255)
		screen.DrawImage(sprite, op)
		return
	}

	c := rankColor(rank.Index)
	c.A = alpha
	r := float32(rank.CollisionRadius * scale)
	vector.DrawFilledCircle(screen, float32(x), float32(y), r, c, true)
	// A spoke so rotation is visible.
	sx := float32(x + math.Cos(angle)*rank.CollisionRadius*0.8)
	sy := float32(y + math.Sin(angle)*rank.CollisionRadius*0.8)
	vector.StrokeLine(screen, float32(x), float32(y), sx, sy, 2, backgroundColor, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.session
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score %d  Best %d", s.Score(), s.Best()), 10, 10)

	next := s.Upcoming()
	ebitenutil.DebugPrintAt(screen, "Next: "+next.Name, int(g.cfg.Screen.Width)-130, 10)
	c := rankColor(next.Index)
	vector.DrawFilledCircle(screen, float32(g.cfg.Screen.Width)-20, 40, 10, c, true)

	switch {
	case s.GameOver():
		ebitenutil.DebugPrintAt(screen, "GAME OVER - press R", int(g.cfg.Screen.Width)/2-60, int(g.cfg.Screen.Height)/2)
	case s.Shaking():
		ebitenutil.DebugPrintAt(screen, "SHAKING", 10, 26)
	case s.ShakeEnabled():
		ebitenutil.DebugPrintAt(screen, "hold SPACE to shake", 10, 26)
	}
}

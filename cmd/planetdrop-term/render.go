package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/planetdrop/ranks"
)

const hudRows = 2

var rankColors = []tcell.Color{
	tcell.ColorGray,
	tcell.ColorWhite,
	tcell.ColorSilver,
	tcell.ColorRed,
	tcell.ColorYellow,
	tcell.ColorBlue,
	tcell.ColorNavy,
	tcell.ColorAqua,
	tcell.ColorOlive,
	tcell.ColorMaroon,
	tcell.ColorGold,
}

// viewport maps world pixels onto terminal cells.
type viewport struct {
	cols, rows    int
	width, height float64
}

func newViewport(cols, rows int, width, height float64) viewport {
	return viewport{cols: max(cols, 1), rows: max(rows, 1), width: width, height: height}
}

func (v viewport) cellW() float64 { return v.width / float64(v.cols) }
func (v viewport) cellH() float64 { return v.height / float64(v.rows) }

// cell returns the terminal cell holding world point (x, y).
func (v viewport) cell(x, y float64) (int, int) {
	return int(x / v.cellW()), int(y / v.cellH())
}

// worldX returns the world x at the centre of column col.
func (v viewport) worldX(col int) float64 {
	return (float64(col) + 0.5) * v.cellW()
}

// disc calls fn for every cell whose centre lies within radius of (x, y).
func (v viewport) disc(x, y, radius float64, fn func(col, row int)) {
	c0, r0 := v.cell(x-radius, y-radius)
	c1, r1 := v.cell(x+radius, y+radius)
	for row := max(r0, 0); row <= min(r1, v.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, v.cols-1); col++ {
			cx := (float64(col) + 0.5) * v.cellW()
			cy := (float64(row) + 0.5) * v.cellH()
			if (cx-x)*(cx-x)+(cy-y)*(cy-y) <= radius*radius {
				fn(col, row)
			}
		}
	}
}

func rankStyle(index int) tcell.Style {
	return tcell.StyleDefault.Foreground(rankColors[index%len(rankColors)])
}

// glyph is the character a rank is drawn with.
func glyph(rank ranks.Rank) rune {
	if rank.Name == "" {
		return '?'
	}
	return rune(rank.Name[0])
}

func (t *terminal) draw() {
	t.screen.Clear()
	s := t.session

	if s.InDanger() && (t.frame/8)%2 == 0 {
		_, row := t.view.cell(0, t.cfg.Rules.DangerLine)
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		for col := 0; col < t.view.cols; col++ {
			t.screen.SetContent(col, row+hudRows, '-', nil, style)
		}
	}

	for _, p := range s.Pieces() {
		t.drawDisc(p.X, p.Y, p.Radius, p.Rank, '█')
	}
	if pending, ok := s.Pending(); ok && !s.GameOver() {
		ch := glyph(pending.Rank)
		if s.Cooldown() > 0 {
			ch = '·'
		}
		t.drawDisc(pending.X, pending.Y, pending.Rank.CollisionRadius, pending.Rank, ch)
	}

	status := fmt.Sprintf("Score %d  Best %d  Next %s", s.Score(), s.Best(), s.Upcoming().Name)
	switch {
	case s.GameOver():
		status += "  GAME OVER (r)"
	case s.Shaking():
		status += "  SHAKING"
	case s.ShakeEnabled():
		status += "  s: shake"
	}
	t.text(0, 0, status, tcell.StyleDefault.Bold(true))
	t.text(0, 1, "←/→ move  space drop  r reset  q quit", tcell.StyleDefault.Dim(true))

	t.screen.Show()
}

func (t *terminal) drawDisc(x, y, radius float64, rank ranks.Rank, ch rune) {
	style := rankStyle(rank.Index)
	t.view.disc(x, y, radius, func(col, row int) {
		t.screen.SetContent(col, row+hudRows, ch, nil, style)
	})
}

func (t *terminal) text(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

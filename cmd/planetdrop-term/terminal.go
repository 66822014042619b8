package main

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/physics"
	"github.com/plus3/planetdrop/session"
)

// pointerStep is how far one arrow key press moves the pointer.
const pointerStep = 15.0

type terminal struct {
	screen  tcell.Screen
	session *session.Session
	cfg     config.Config
	logger  *log.Logger
	view    viewport
	pointer float64
	frame   uint64
	button  pressTracker
}

// pressTracker turns held-button mouse reports into single presses.
type pressTracker struct {
	down bool
}

// press records the button state and reports whether it just went down.
func (p *pressTracker) press(down bool) bool {
	fresh := down && !p.down
	p.down = down
	return fresh
}

func newTerminal(screen tcell.Screen, sess *session.Session, cfg config.Config, logger *log.Logger) *terminal {
	t := &terminal{
		screen:  screen,
		session: sess,
		cfg:     cfg,
		logger:  logger,
		pointer: cfg.Screen.Width / 2,
	}
	t.resize()
	sess.MovePointer(t.pointer)
	return t
}

func (t *terminal) resize() {
	cols, rows := t.screen.Size()
	t.view = newViewport(cols, rows-hudRows, t.cfg.Screen.Width, t.cfg.Screen.Height)
}

func (t *terminal) run() {
	var stepMillis float64 = physics.StepMillis
	ticker := time.NewTicker(time.Duration(stepMillis * float64(time.Millisecond)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !t.handle(ev) {
				return
			}
		case <-ticker.C:
			t.session.Tick()
			t.frame++
			t.draw()
		}
	}
}

// handle applies one input event. It returns false when the player quits.
func (t *terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			t.movePointer(t.pointer - pointerStep)
		case tcell.KeyRight:
			t.movePointer(t.pointer + pointerStep)
		case tcell.KeyEnter:
			t.drop()
		case tcell.KeyRune:
			return t.handleRune(ev.Rune())
		}

	case *tcell.EventMouse:
		x, _ := ev.Position()
		t.movePointer(t.view.worldX(x))
		if t.button.press(ev.Buttons()&tcell.Button1 != 0) {
			t.drop()
		}

	case *tcell.EventResize:
		t.resize()
		t.screen.Sync()
	}
	return true
}

func (t *terminal) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'h':
		t.movePointer(t.pointer - pointerStep)
	case 'l':
		t.movePointer(t.pointer + pointerStep)
	case ' ':
		t.drop()
	case 's':
		if t.session.Shaking() {
			t.session.StopShake()
		} else {
			t.session.StartShake()
		}
	case 'r':
		t.session.Reset()
	case '+':
		t.session.AddScore(session.ScoreGrant)
	}
	return true
}

func (t *terminal) movePointer(x float64) {
	t.pointer = min(max(x, 0), t.cfg.Screen.Width)
	t.session.MovePointer(t.pointer)
}

func (t *terminal) drop() {
	if _, err := t.session.Drop(); err != nil &&
		!errors.Is(err, session.ErrCooldown) && !errors.Is(err, session.ErrGameOver) {
		t.logger.Error("drop failed", "err", err)
	}
}

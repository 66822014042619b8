// Package spawn manages the armed piece waiting above the board and the
// preview of the one after it.
package spawn

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/ranks"
)

var (
	ErrNoPendingPiece = errors.New("no pending piece")
	ErrCooldown       = errors.New("drop cooldown active")
)

// Piece is an armed piece. It has no physics body until it is dropped.
type Piece struct {
	Rank     ranks.Rank
	X, Y     float64
	Rotation float64
}

type Settings struct {
	Width     float64
	SpawnY    float64
	Spawnable int
	Cooldown  time.Duration
}

// SettingsFrom extracts the spawn settings from a session config.
func SettingsFrom(cfg config.Config) Settings {
	return Settings{
		Width:     cfg.Screen.Width,
		SpawnY:    cfg.Rules.SpawnY,
		Spawnable: cfg.Rules.SpawnableRanks,
		Cooldown:  cfg.Rules.DropCooldown,
	}
}

// Controller owns the pending piece slot. It only ever replaces the slot,
// never edits the piece in it.
type Controller struct {
	settings Settings
	table    *ranks.Table
	rng      *rand.Rand

	pending  Piece
	armed    bool
	upcoming int

	pointerX   float64
	hasPointer bool

	lastDrop time.Time
}

// New creates a controller with a random upcoming rank and nothing armed.
func New(settings Settings, table *ranks.Table, rng *rand.Rand) *Controller {
	if settings.Spawnable <= 0 || settings.Spawnable > table.Len() {
		settings.Spawnable = min(3, table.Len())
	}
	c := &Controller{
		settings: settings,
		table:    table,
		rng:      rng,
	}
	c.upcoming = c.draw()
	return c
}

func (c *Controller) draw() int {
	return c.rng.IntN(c.settings.Spawnable)
}

// Pending returns the armed piece.
func (c *Controller) Pending() (Piece, bool) {
	return c.pending, c.armed
}

// Upcoming returns the rank the next armed piece will have.
func (c *Controller) Upcoming() ranks.Rank {
	return c.table.At(c.upcoming)
}

// SetUpcoming overrides the next rank. Any rank of the table is accepted.
func (c *Controller) SetUpcoming(index int) error {
	if !c.table.Valid(index) {
		return fmt.Errorf("set upcoming: %w: %d", ranks.ErrInvalidRank, index)
	}
	c.upcoming = index
	return nil
}

// Arm replaces the pending piece with one of the upcoming rank and draws a
// new upcoming rank.
func (c *Controller) Arm() Piece {
	rank := c.table.At(c.upcoming)
	c.upcoming = c.draw()

	x := c.settings.Width / 2
	if c.hasPointer {
		x = c.pointerX
	}
	c.pending = Piece{
		Rank:     rank,
		X:        c.clamp(x, rank),
		Y:        c.settings.SpawnY,
		Rotation: c.rng.Float64() * 2 * math.Pi,
	}
	c.armed = true
	return c.pending
}

// Disarm empties the pending slot.
func (c *Controller) Disarm() {
	c.pending = Piece{}
	c.armed = false
}

// MovePointer records the pointer and moves the pending piece under it.
func (c *Controller) MovePointer(x float64) {
	c.pointerX = x
	c.hasPointer = true
	if !c.armed {
		return
	}
	moved := c.pending
	moved.X = c.clamp(x, moved.Rank)
	c.pending = moved
}

// CanDrop reports whether a drop would be accepted at now.
func (c *Controller) CanDrop(now time.Time) error {
	if !c.armed {
		return ErrNoPendingPiece
	}
	if !c.lastDrop.IsZero() && now.Sub(c.lastDrop) < c.settings.Cooldown {
		return ErrCooldown
	}
	return nil
}

// Drop releases the pending piece and arms the next one. The returned piece
// is the one to materialize.
func (c *Controller) Drop(now time.Time) (Piece, error) {
	if err := c.CanDrop(now); err != nil {
		return Piece{}, err
	}
	dropped := c.pending
	c.lastDrop = now
	c.Arm()
	return dropped, nil
}

// Cooldown returns how long until the next drop is accepted.
func (c *Controller) Cooldown(now time.Time) time.Duration {
	if c.lastDrop.IsZero() {
		return 0
	}
	return max(0, c.settings.Cooldown-now.Sub(c.lastDrop))
}

// Reset clears the pending piece and the drop cooldown and draws a fresh
// upcoming rank. The pointer position is kept.
func (c *Controller) Reset() {
	c.Disarm()
	c.lastDrop = time.Time{}
	c.upcoming = c.draw()
}

func (c *Controller) clamp(x float64, rank ranks.Rank) float64 {
	r := rank.CollisionRadius
	lo, hi := r, c.settings.Width-r
	if lo > hi {
		return c.settings.Width / 2
	}
	return math.Min(math.Max(x, lo), hi)
}

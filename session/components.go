package session

import (
	"time"

	"github.com/plus3/planetdrop/ecs"
	"github.com/plus3/planetdrop/physics"
)

// Piece links an entity to its physics body.
type Piece struct {
	Body physics.BodyID
	Rank int
}

// Danger is the per-piece game-over timer. Open is false while the piece is
// not settled above the danger line.
type Danger struct {
	Since time.Time
	Open  bool
}

// Visual carries the rendering handle returned by Hooks.OnSpawn.
type Visual struct {
	Handle any
}

// TickInfo is stamped by the first system of every tick.
type TickInfo struct {
	Now   time.Time
	Ticks uint64
}

type Scoreboard struct {
	Score  int
	Merges int
	Drops  int
	Best   int
}

type Status struct {
	GameOver bool
	EndedAt  time.Time
	InDanger bool
}

type ShakeState struct {
	Active     bool
	LastDeduct time.Time
	OffsetX    int
	OffsetY    int
}

func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Piece](registry)
	ecs.RegisterComponent[Danger](registry)
	ecs.RegisterComponent[Visual](registry)
	return registry
}

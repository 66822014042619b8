package session

import (
	"github.com/plus3/planetdrop/physics"
	"github.com/plus3/planetdrop/ranks"
)

// PieceSnapshot is the read-only view of a live piece handed to renderers.
type PieceSnapshot struct {
	ID     physics.BodyID
	Rank   ranks.Rank
	X, Y   float64
	Angle  float64
	Radius float64
	Handle any
}

// MergeEvent describes one applied merge.
type MergeEvent struct {
	Consumed [2]physics.BodyID
	X, Y     float64
	From     ranks.Rank
	// Result is nil for terminal merges.
	Result *PieceSnapshot
	Score  int
	Total  int
}

// Hooks lets a host attach rendering handles and sound effects to session
// events. Every field is optional.
type Hooks struct {
	// OnSpawn is called for every new piece body. The returned value is kept
	// as the piece's rendering handle.
	OnSpawn    func(PieceSnapshot) any
	OnDestroy  func(PieceSnapshot)
	OnDrop     func(PieceSnapshot)
	OnMerge    func(MergeEvent)
	OnGameOver func(score int)
	OnReset    func()
}

func (h *Hooks) spawn(p PieceSnapshot) any {
	if h.OnSpawn == nil {
		return nil
	}
	return h.OnSpawn(p)
}

func (h *Hooks) destroy(p PieceSnapshot) {
	if h.OnDestroy != nil {
		h.OnDestroy(p)
	}
}

func (h *Hooks) drop(p PieceSnapshot) {
	if h.OnDrop != nil {
		h.OnDrop(p)
	}
}

func (h *Hooks) merge(e MergeEvent) {
	if h.OnMerge != nil {
		h.OnMerge(e)
	}
}

func (h *Hooks) gameOver(score int) {
	if h.OnGameOver != nil {
		h.OnGameOver(score)
	}
}

func (h *Hooks) reset() {
	if h.OnReset != nil {
		h.OnReset()
	}
}

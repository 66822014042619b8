// Package physics wraps a Chipmunk2D space holding the play-area walls and
// the piece bodies. Coordinates are screen pixels with y growing downward.
package physics

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"
	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/ranks"
)

// StepMillis is the fixed simulation step. The world always advances by this
// amount regardless of the host frame rate.
const (
	StepMillis  = 1000.0 / 60
	StepSeconds = StepMillis / 1000
)

const (
	pieceCollision cp.CollisionType = iota + 1
	boundaryCollision
)

// cp numbers bodies from an unguarded package counter, so body and space
// construction is serialized across every World.
var bodyMu sync.Mutex

func newSpace() *cp.Space {
	bodyMu.Lock()
	defer bodyMu.Unlock()
	return cp.NewSpace()
}

func newStaticBody() *cp.Body {
	bodyMu.Lock()
	defer bodyMu.Unlock()
	return cp.NewStaticBody()
}

func newBody(mass, moment float64) *cp.Body {
	bodyMu.Lock()
	defer bodyMu.Unlock()
	return cp.NewBody(mass, moment)
}

// BoundaryLabel tags the three wall bodies.
const BoundaryLabel = "wall"

// BodyID identifies a body for its whole lifetime. Ids are never reused
// within a World.
type BodyID uint64

type Kind uint8

const (
	KindPiece Kind = iota
	KindBoundary
)

func (k Kind) String() string {
	switch k {
	case KindPiece:
		return "piece"
	case KindBoundary:
		return "boundary"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Settings configures a World.
type Settings struct {
	Width         float64
	Height        float64
	WallThickness float64
	Gravity       float64
	Friction      float64
	Restitution   float64
	Damping       float64
	Mass          float64
}

// SettingsFrom extracts the physics settings from a session config.
func SettingsFrom(cfg config.Config) Settings {
	return Settings{
		Width:         cfg.Screen.Width,
		Height:        cfg.Screen.Height,
		WallThickness: cfg.Screen.WallThickness,
		Gravity:       cfg.Physics.Gravity,
		Friction:      cfg.Physics.Friction,
		Restitution:   cfg.Physics.Restitution,
		Damping:       cfg.Physics.Damping,
		Mass:          cfg.Physics.Mass,
	}
}

// BodyState is a read-only snapshot of one body.
type BodyState struct {
	ID     BodyID
	Kind   Kind
	Rank   int
	Label  string
	X, Y   float64
	VX, VY float64
	Angle  float64
	Radius float64
	// Width and Height are set for boundary boxes only.
	Width, Height float64
}

// Speed returns the magnitude of the body's velocity in px/s.
func (b BodyState) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Contact is a pair of piece bodies that started touching during the last
// step.
type Contact struct {
	A, B           BodyID
	LabelA, LabelB string
}

type piece struct {
	id    BodyID
	rank  ranks.Rank
	body  *cp.Body
	shape *cp.Shape
}

type wall struct {
	label         string
	restX, restY  float64
	width, height float64
	body          *cp.Body
	shape         *cp.Shape
}

// World owns the simulation space. It is not safe for concurrent use.
type World struct {
	settings Settings
	table    *ranks.Table
	space    *cp.Space

	pieces *intmap.Map[BodyID, *piece]
	ids    []BodyID
	walls  []*wall
	lastID BodyID

	contacts []Contact
	steps    uint64
}

// NewWorld creates an empty space with downward gravity of settings.Gravity.
func NewWorld(settings Settings, table *ranks.Table) *World {
	w := &World{
		settings: settings,
		table:    table,
		pieces:   intmap.New[BodyID, *piece](64),
	}
	w.initialize()
	return w
}

func (w *World) initialize() {
	w.space = newSpace()
	w.space.SetGravity(cp.Vector{X: 0, Y: w.settings.Gravity})
	if w.settings.Damping > 0 {
		w.space.SetDamping(w.settings.Damping)
	}

	handler := w.space.NewCollisionHandler(pieceCollision, pieceCollision)
	handler.BeginFunc = w.beginContact
}

func (w *World) beginContact(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arb.Bodies()
	pa, okA := a.UserData.(*piece)
	pb, okB := b.UserData.(*piece)
	if okA && okB {
		w.contacts = append(w.contacts, Contact{
			A:      pa.id,
			B:      pb.id,
			LabelA: pa.rank.Name,
			LabelB: pb.rank.Name,
		})
	}
	return true
}

// Settings returns the settings the world was created with.
func (w *World) Settings() Settings {
	return w.settings
}

// CreateBoundary installs the floor and the two side walls. The floor sits
// just below the visible area; the side walls extend a full screen height
// above it. Calling it again is a no-op.
func (w *World) CreateBoundary() {
	if len(w.walls) > 0 {
		return
	}

	W, H, T := w.settings.Width, w.settings.Height, w.settings.WallThickness
	w.addWall("floor", W/2, H+T/2, W, T)
	w.addWall("left", -T/2, H/2, T, 2*H)
	w.addWall("right", W+T/2, H/2, T, 2*H)
}

func (w *World) addWall(name string, x, y, width, height float64) {
	body := newStaticBody()
	body.SetPosition(cp.Vector{X: x, Y: y})
	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(w.settings.Friction)
	shape.SetElasticity(w.settings.Restitution)
	shape.SetCollisionType(boundaryCollision)

	wl := &wall{
		label:  name,
		restX:  x,
		restY:  y,
		width:  width,
		height: height,
		body:   body,
		shape:  shape,
	}
	body.UserData = wl

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.walls = append(w.walls, wl)
}

// CreateBody adds a dynamic circle for the given rank. Every piece gets the
// same mass whatever its radius.
func (w *World) CreateBody(x, y float64, rankIndex int, angle float64) (BodyID, error) {
	rank, err := w.table.Get(rankIndex)
	if err != nil {
		return 0, fmt.Errorf("create body: %w", err)
	}

	mass := w.settings.Mass
	radius := rank.CollisionRadius
	body := newBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.SetAngle(angle)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(w.settings.Friction)
	shape.SetElasticity(w.settings.Restitution)
	shape.SetCollisionType(pieceCollision)

	w.lastID++
	p := &piece{id: w.lastID, rank: rank, body: body, shape: shape}
	body.UserData = p

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.pieces.Put(p.id, p)
	w.ids = append(w.ids, p.id)
	return p.id, nil
}

// RemoveBody detaches a piece from the simulation. Returns false if the id is
// not present.
func (w *World) RemoveBody(id BodyID) bool {
	p, ok := w.pieces.Get(id)
	if !ok {
		return false
	}

	w.space.RemoveShape(p.shape)
	w.space.RemoveBody(p.body)
	p.body.UserData = nil
	w.pieces.Del(id)
	if i, found := slices.BinarySearch(w.ids, id); found {
		w.ids = slices.Delete(w.ids, i, i+1)
	}
	return true
}

// RemoveBodies removes every listed piece, skipping absent ids.
func (w *World) RemoveBodies(ids ...BodyID) int {
	n := 0
	for _, id := range ids {
		if w.RemoveBody(id) {
			n++
		}
	}
	return n
}

// Clear removes every piece. Walls stay in place.
func (w *World) Clear() {
	for _, id := range slices.Clone(w.ids) {
		w.RemoveBody(id)
	}
	w.contacts = w.contacts[:0]
}

// Step advances the simulation by StepSeconds. Contacts from the previous
// step are discarded first.
func (w *World) Step() {
	w.contacts = w.contacts[:0]
	w.space.Step(StepSeconds)
	w.steps++
}

// Steps returns how many steps the world has taken.
func (w *World) Steps() uint64 {
	return w.steps
}

// Contacts returns the piece pairs that began touching during the last step,
// in the order the engine reported them.
func (w *World) Contacts() []Contact {
	return slices.Clone(w.contacts)
}

// ShakeBoundary moves every wall to its rest position plus (dx, dy). Static
// shapes are only re-indexed when added, so each wall shape is taken out of
// the space while its body moves.
func (w *World) ShakeBoundary(dx, dy float64) {
	for _, wl := range w.walls {
		w.space.RemoveShape(wl.shape)
		wl.body.SetPosition(cp.Vector{X: wl.restX + dx, Y: wl.restY + dy})
		w.space.AddShape(wl.shape)
	}
}

// ResetBoundary puts every wall back at rest.
func (w *World) ResetBoundary() {
	w.ShakeBoundary(0, 0)
}

// SetVelocity overrides a piece's velocity.
func (w *World) SetVelocity(id BodyID, vx, vy float64) bool {
	p, ok := w.pieces.Get(id)
	if !ok {
		return false
	}
	p.body.SetVelocity(vx, vy)
	return true
}

// SetPosition teleports a piece.
func (w *World) SetPosition(id BodyID, x, y float64) bool {
	p, ok := w.pieces.Get(id)
	if !ok {
		return false
	}
	p.body.SetPosition(cp.Vector{X: x, Y: y})
	return true
}

// Body returns a snapshot of a piece.
func (w *World) Body(id BodyID) (BodyState, bool) {
	p, ok := w.pieces.Get(id)
	if !ok {
		return BodyState{}, false
	}
	return p.state(), true
}

// Bodies returns snapshots of every piece in creation order.
func (w *World) Bodies() []BodyState {
	out := make([]BodyState, 0, len(w.ids))
	for _, id := range w.ids {
		p, _ := w.pieces.Get(id)
		out = append(out, p.state())
	}
	return out
}

// Boundary returns snapshots of the walls at their current position.
func (w *World) Boundary() []BodyState {
	out := make([]BodyState, 0, len(w.walls))
	for _, wl := range w.walls {
		pos := wl.body.Position()
		out = append(out, BodyState{
			Kind:   KindBoundary,
			Label:  BoundaryLabel,
			X:      pos.X,
			Y:      pos.Y,
			Width:  wl.width,
			Height: wl.height,
		})
	}
	return out
}

// Len returns the number of live pieces.
func (w *World) Len() int {
	return w.pieces.Len()
}

func (p *piece) state() BodyState {
	pos := p.body.Position()
	vel := p.body.Velocity()
	return BodyState{
		ID:     p.id,
		Kind:   KindPiece,
		Rank:   p.rank.Index,
		Label:  p.rank.Name,
		X:      pos.X,
		Y:      pos.Y,
		VX:     vel.X,
		VY:     vel.Y,
		Angle:  p.body.Angle(),
		Radius: p.rank.CollisionRadius,
	}
}

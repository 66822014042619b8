// Package session runs one game: it drives the physics world through a fixed
// tick, applies merges, tracks the score and decides when the game is over.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kamstrup/intmap"
	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/ecs"
	"github.com/plus3/planetdrop/physics"
	"github.com/plus3/planetdrop/ranks"
	"github.com/plus3/planetdrop/spawn"
)

// ScoreGrant is the amount the hosts' debug score shortcut adds.
const ScoreGrant = 100

var (
	ErrGameOver       = errors.New("game over")
	ErrCooldown       = spawn.ErrCooldown
	ErrNoPendingPiece = spawn.ErrNoPendingPiece
)

type Option func(*Session)

// WithClock replaces the wall clock used for every timer.
func WithClock(clock Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithSeed makes spawn ranks, rotations and shake offsets reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithHooks(hooks Hooks) Option {
	return func(s *Session) { s.hooks = hooks }
}

// Stats is a snapshot of session counters plus the ECS internals.
type Stats struct {
	Ticks     uint64
	Steps     uint64
	Pieces    int
	Score     int
	Best      int
	Merges    int
	Drops     int
	Scheduler *ecs.SchedulerStats
	Storage   *ecs.StorageStats
}

// Session is one game. It is not safe for concurrent use; hosts call it from
// their frame loop.
type Session struct {
	cfg     config.Config
	table   *ranks.Table
	world   *physics.World
	spawner *spawn.Controller

	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	entities  *intmap.Map[physics.BodyID, ecs.EntityId]

	tick   *ecs.Singleton[TickInfo]
	score  *ecs.Singleton[Scoreboard]
	status *ecs.Singleton[Status]
	shake  *ecs.Singleton[ShakeState]
	visual *ecs.Query[struct {
		*Piece
		*Visual
	}]

	clock  Clock
	rng    *rand.Rand
	logger *log.Logger
	hooks  Hooks
}

// New validates cfg and starts a session with one armed piece.
func New(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	table, err := cfg.RankTable()
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg.Clone(),
		table:    table,
		entities: intmap.New[physics.BodyID, ecs.EntityId](64),
		clock:    systemClock{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s.world = physics.NewWorld(physics.SettingsFrom(cfg), table)
	s.world.CreateBoundary()
	s.spawner = spawn.New(spawn.SettingsFrom(cfg), table, s.rng)

	s.storage = ecs.NewStorage(newRegistry())
	s.tick = ecs.NewSingleton(s.storage, TickInfo{Now: s.clock.Now()})
	s.score = ecs.NewSingleton[Scoreboard](s.storage)
	s.status = ecs.NewSingleton[Status](s.storage)
	s.shake = ecs.NewSingleton[ShakeState](s.storage)
	s.visual = ecs.NewQuery[struct {
		*Piece
		*Visual
	}](s.storage)

	s.scheduler = ecs.NewScheduler(s.storage)
	s.scheduler.Register(&clockSystem{session: s})
	s.scheduler.Register(&stepSystem{session: s})
	s.scheduler.Register(&mergeSystem{session: s})
	s.scheduler.Register(&dangerSystem{session: s})
	s.scheduler.Register(&shakeSystem{session: s})

	s.spawner.Arm()
	return s, nil
}

// Tick advances the game by one fixed physics step. It does nothing once the
// game is over.
func (s *Session) Tick() {
	if s.status.Get().GameOver {
		return
	}
	s.scheduler.Once(physics.StepSeconds)
}

// Drop releases the pending piece into the world and arms the next one.
func (s *Session) Drop() (PieceSnapshot, error) {
	if s.status.Get().GameOver {
		return PieceSnapshot{}, ErrGameOver
	}

	piece, err := s.spawner.Drop(s.clock.Now())
	if err != nil {
		return PieceSnapshot{}, err
	}

	snap, err := s.createPiece(piece.X, piece.Y, piece.Rank.Index, piece.Rotation, s.spawnNow)
	if err != nil {
		return PieceSnapshot{}, err
	}
	s.score.Get().Drops++
	s.logger.Debug("drop", "rank", piece.Rank.Name, "body", snap.ID, "x", piece.X)
	s.hooks.drop(snap)
	return snap, nil
}

// MovePointer records the horizontal pointer position and moves the pending
// piece under it.
func (s *Session) MovePointer(x float64) {
	s.spawner.MovePointer(x)
}

// StartShake engages the shake. It reports false when the score is too low or
// the game is over.
func (s *Session) StartShake() bool {
	if !s.ShakeEnabled() {
		return false
	}
	shake := s.shake.Get()
	if shake.Active {
		return true
	}
	shake.Active = true
	shake.LastDeduct = s.clock.Now()
	s.logger.Debug("shake start", "score", s.Score())
	return true
}

// StopShake disengages the shake and puts the walls back at rest.
func (s *Session) StopShake() {
	s.stopShake()
}

func (s *Session) stopShake() {
	shake := s.shake.Get()
	if !shake.Active {
		return
	}
	*shake = ShakeState{}
	s.world.ResetBoundary()
}

// Reset destroys every piece and starts a fresh game with one armed piece.
func (s *Session) Reset() {
	final := s.Score()

	for _, body := range s.world.Bodies() {
		s.destroyPiece(body.ID, nil)
	}
	s.world.Clear()
	s.storage.Clear()
	s.entities = intmap.New[physics.BodyID, ecs.EntityId](64)

	*s.shake.Get() = ShakeState{}
	s.world.ResetBoundary()

	board := s.score.Get()
	*board = Scoreboard{Best: max(board.Best, final)}
	*s.status.Get() = Status{}

	s.spawner.Reset()
	s.spawner.Arm()

	s.logger.Info("reset", "previous_score", final, "best", board.Best)
	s.hooks.reset()
}

func (s *Session) endGame(now time.Time) {
	status := s.status.Get()
	status.GameOver = true
	status.EndedAt = now

	s.stopShake()
	s.spawner.Disarm()

	board := s.score.Get()
	board.Best = max(board.Best, board.Score)
	s.logger.Info("game over", "score", board.Score, "ticks", s.tick.Get().Ticks)
	s.hooks.gameOver(board.Score)
}

// spawnFunc matches ecs.Commands.SpawnThen so pieces can be created either
// immediately or from inside a system.
type spawnFunc func(then func(ecs.EntityId), components ...any)

func (s *Session) spawnNow(then func(ecs.EntityId), components ...any) {
	then(s.storage.Spawn(components...))
}

func (s *Session) createPiece(x, y float64, rank int, angle float64, spawnEntity spawnFunc) (PieceSnapshot, error) {
	id, err := s.world.CreateBody(x, y, rank, angle)
	if err != nil {
		return PieceSnapshot{}, err
	}
	body, _ := s.world.Body(id)
	snap := s.snapshot(body, nil)
	snap.Handle = s.hooks.spawn(snap)

	spawnEntity(func(entity ecs.EntityId) {
		s.entities.Put(id, entity)
	}, Piece{Body: id, Rank: rank}, Danger{}, Visual{Handle: snap.Handle})
	return snap, nil
}

// destroyPiece removes a body and its entity. With nil commands the entity
// is deleted immediately.
func (s *Session) destroyPiece(id physics.BodyID, commands *ecs.Commands) {
	body, ok := s.world.Body(id)
	if !ok {
		return
	}

	var handle any
	if entity, ok := s.entities.Get(id); ok {
		if v := ecs.ReadComponent[Visual](s.storage, entity); v != nil {
			handle = v.Handle
		}
		if commands != nil {
			commands.Delete(entity)
		} else {
			s.storage.Delete(entity)
		}
		s.entities.Del(id)
	}

	s.world.RemoveBody(id)
	s.hooks.destroy(s.snapshot(body, handle))
}

func (s *Session) snapshot(body physics.BodyState, handle any) PieceSnapshot {
	return PieceSnapshot{
		ID:     body.ID,
		Rank:   s.table.At(body.Rank),
		X:      body.X,
		Y:      body.Y,
		Angle:  body.Angle,
		Radius: body.Radius,
		Handle: handle,
	}
}

func (s *Session) Score() int {
	return s.score.Get().Score
}

// Best returns the highest score reached since the session was created.
func (s *Session) Best() int {
	board := s.score.Get()
	return max(board.Best, board.Score)
}

func (s *Session) GameOver() bool {
	return s.status.Get().GameOver
}

// ShakeEnabled reports whether StartShake would succeed.
func (s *Session) ShakeEnabled() bool {
	return s.Score() > s.cfg.Rules.ShakeMinScore && !s.GameOver()
}

func (s *Session) Shaking() bool {
	return s.shake.Get().Active
}

// InDanger reports whether any piece had an open danger timer after the last
// tick.
func (s *Session) InDanger() bool {
	return s.status.Get().InDanger
}

// Pieces returns a snapshot of every live piece in creation order.
func (s *Session) Pieces() []PieceSnapshot {
	bodies := s.world.Bodies()
	out := make([]PieceSnapshot, 0, len(bodies))
	for _, body := range bodies {
		var handle any
		if entity, ok := s.entities.Get(body.ID); ok {
			if v, ok := s.visual.Get(entity); ok {
				handle = v.Visual.Handle
			}
		}
		out = append(out, s.snapshot(body, handle))
	}
	return out
}

// Pending returns the armed piece, if any.
func (s *Session) Pending() (spawn.Piece, bool) {
	return s.spawner.Pending()
}

// Upcoming returns the rank of the piece armed after the pending one.
func (s *Session) Upcoming() ranks.Rank {
	return s.spawner.Upcoming()
}

// Cooldown returns how long until a drop is accepted.
func (s *Session) Cooldown() time.Duration {
	return s.spawner.Cooldown(s.clock.Now())
}

func (s *Session) Ranks() *ranks.Table {
	return s.table
}

func (s *Session) Config() config.Config {
	return s.cfg.Clone()
}

// Boundary returns the current wall positions.
func (s *Session) Boundary() []physics.BodyState {
	return s.world.Boundary()
}

func (s *Session) Stats() Stats {
	board := s.score.Get()
	return Stats{
		Ticks:     s.tick.Get().Ticks,
		Steps:     s.world.Steps(),
		Pieces:    s.world.Len(),
		Score:     board.Score,
		Best:      max(board.Best, board.Score),
		Merges:    board.Merges,
		Drops:     board.Drops,
		Scheduler: s.scheduler.GetStats(),
		Storage:   s.storage.CollectStats(),
	}
}

// AddScore grants (or with a negative n, removes) score. The result is
// clamped at zero.
func (s *Session) AddScore(n int) int {
	board := s.score.Get()
	board.Score = max(0, board.Score+n)
	s.logger.Debug("score adjusted", "delta", n, "score", board.Score)
	return board.Score
}

// SetUpcoming forces the rank of the next armed piece.
func (s *Session) SetUpcoming(index int) error {
	return s.spawner.SetUpcoming(index)
}

// Place puts a piece straight into the world, bypassing the pending slot and
// the drop cooldown.
func (s *Session) Place(x, y float64, rank int) (PieceSnapshot, error) {
	if s.GameOver() {
		return PieceSnapshot{}, ErrGameOver
	}
	return s.createPiece(x, y, rank, 0, s.spawnNow)
}

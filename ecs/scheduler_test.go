package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/planetdrop/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gravitySystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *gravitySystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Movers.Values() {
		item.Velocity.DY += 10 * frame.DeltaTime
		item.Position.Y += item.Velocity.DY * frame.DeltaTime
	}
}

type groundSystem struct {
	Falling ecs.Query[struct {
		ecs.EntityId
		*Position
	}]
	Floor float64
}

func (s *groundSystem) Execute(frame *ecs.UpdateFrame) {
	for id, item := range s.Falling.Iter() {
		if item.Position.Y >= s.Floor {
			frame.Commands.RemoveComponent(id, reflect.TypeFor[Velocity]())
			frame.Commands.AddComponent(id, Grounded{})
		}
	}
}

type recordingSystem struct {
	name  string
	order *[]string
	stop  bool
}

func (s *recordingSystem) Execute(frame *ecs.UpdateFrame) {
	*s.order = append(*s.order, s.name)
	if s.stop {
		frame.Stop()
	}
}

type scoreSystem struct {
	Score ecs.Singleton[Score]
	Ranks ecs.Query[struct{ *Rank }]
}

func (s *scoreSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Ranks.Values() {
		*s.Score.Get() += Score(item.Rank.Index)
	}
}

func TestSchedulerBindsFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Score](storage)
	storage.Spawn(Rank{Index: 2})
	storage.Spawn(Rank{Index: 3})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&scoreSystem{})

	scheduler.Once(1.0 / 60)
	scheduler.Once(1.0 / 60)

	var score *Score
	require.True(t, storage.ReadSingleton(&score))
	assert.Equal(t, Score(10), *score)
}

func TestSchedulerOrderAndFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{Y: 0}, Velocity{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&gravitySystem{})
	scheduler.Register(&groundSystem{Floor: 1})

	for i := 0; i < 120 && storage.HasComponent(id, reflect.TypeFor[Velocity]()); i++ {
		scheduler.Once(1.0 / 60)
	}

	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Grounded]()))
	y := ecs.ReadComponent[Position](storage, id).Y
	assert.GreaterOrEqual(t, y, 1.0)

	// Without velocity the gravity system no longer matches.
	scheduler.Once(1.0 / 60)
	assert.Equal(t, y, ecs.ReadComponent[Position](storage, id).Y)
}

func TestSchedulerFlushesBetweenSystems(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var spawned ecs.EntityId
	var seenByLater bool

	scheduler.Register(systemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.SpawnThen(func(id ecs.EntityId) { spawned = id }, Label("fresh"))
	}))
	scheduler.Register(systemFunc(func(frame *ecs.UpdateFrame) {
		seenByLater = frame.Storage.Alive(spawned)
	}))

	scheduler.Once(0)
	assert.True(t, spawned.Valid())
	assert.True(t, seenByLater)
}

func TestSchedulerStop(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var order []string
	first := &recordingSystem{name: "first", order: &order}
	second := &recordingSystem{name: "second", order: &order}
	third := &recordingSystem{name: "third", order: &order}
	scheduler.Register(first)
	scheduler.Register(second)
	scheduler.Register(third)

	scheduler.Once(0)
	assert.Equal(t, []string{"first", "second", "third"}, order)

	order = nil
	second.stop = true
	scheduler.Once(0)
	assert.Equal(t, []string{"first", "second"}, order)

	stats := scheduler.GetStats()
	assert.Equal(t, int64(2), stats.Frames)
	assert.Equal(t, int64(1), stats.StoppedFrames)
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var order []string
	scheduler.Register(&recordingSystem{name: "a", order: &order})
	scheduler.Register(&gravitySystem{})

	t.Run("before any frame", func(t *testing.T) {
		stats := scheduler.GetStats()
		assert.Equal(t, 2, stats.SystemCount)
		assert.Equal(t, int64(0), stats.TotalExecutions)
		require.Len(t, stats.Systems, 2)
		assert.Equal(t, "recordingSystem", stats.Systems[0].Name)
		assert.Equal(t, "gravitySystem", stats.Systems[1].Name)
	})

	for i := 0; i < 5; i++ {
		scheduler.Once(1.0 / 60)
	}

	t.Run("after frames", func(t *testing.T) {
		stats := scheduler.GetStats()
		assert.Equal(t, int64(10), stats.TotalExecutions)
		assert.Equal(t, int64(5), stats.Frames)
		for _, sys := range stats.Systems {
			assert.Equal(t, int64(5), sys.ExecutionCount)
			assert.LessOrEqual(t, sys.MinDuration, sys.MaxDuration)
			assert.LessOrEqual(t, sys.AvgDuration, sys.MaxDuration)
		}
	})
}

func TestCommandsFlushOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	doomed := storage.Spawn(Position{X: 1})
	kept := storage.Spawn(Position{X: 2})

	scheduler := ecs.NewScheduler(storage)

	var pending int
	var steps []string
	scheduler.Register(systemFunc(func(frame *ecs.UpdateFrame) {
		cmd := frame.Commands
		cmd.Defer(func() { steps = append(steps, "defer") })
		cmd.SpawnThen(func(ecs.EntityId) { steps = append(steps, "spawn") }, Rank{Index: 1})
		cmd.AddComponent(doomed, Label("ignored"))
		cmd.AddComponent(kept, Label("kept"))
		cmd.Delete(doomed)
		pending = cmd.Pending()
	}))

	scheduler.Once(0)

	assert.Equal(t, 5, pending)
	assert.Equal(t, []string{"spawn", "defer"}, steps)
	assert.False(t, storage.Alive(doomed))
	assert.Equal(t, Label("kept"), *ecs.ReadComponent[Label](storage, kept))
	assert.Equal(t, 1, ecs.NewQuery[struct{ *Rank }](storage).Count())
}

type systemFunc func(frame *ecs.UpdateFrame)

func (f systemFunc) Execute(frame *ecs.UpdateFrame) {
	f(frame)
}

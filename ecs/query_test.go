package ecs_test

import (
	"testing"

	"github.com/plus3/planetdrop/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRequiredComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2})
	storage.Spawn(Velocity{DX: 3})
	storage.Spawn(Position{X: 4}, Velocity{DX: 4}, Rank{Index: 1})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	assert.Equal(t, 2, query.Count())

	sum := 0.0
	for item := range query.Values() {
		sum += item.Position.X + item.Velocity.DX
	}
	assert.Equal(t, 10.0, sum)
}

func TestQueryEntityIdField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Rank{Index: 0})
	b := storage.Spawn(Rank{Index: 1})

	query := ecs.NewQuery[struct {
		ecs.EntityId
		*Rank
	}](storage)

	found := map[ecs.EntityId]int{}
	for id, item := range query.Iter() {
		assert.Equal(t, id, item.EntityId)
		found[id] = item.Rank.Index
	}
	assert.Equal(t, map[ecs.EntityId]int{a: 0, b: 1}, found)
}

func TestQueryOptionalComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	named := storage.Spawn(Position{X: 1}, Label("moon"))
	plain := storage.Spawn(Position{X: 2})

	query := ecs.NewQuery[struct {
		*Position
		Label *Label `ecs:"optional"`
	}](storage)

	assert.Equal(t, 2, query.Count())

	item, ok := query.Get(named)
	require.True(t, ok)
	require.NotNil(t, item.Label)
	assert.Equal(t, Label("moon"), *item.Label)

	item, ok = query.Get(plain)
	require.True(t, ok)
	assert.Nil(t, item.Label)
}

func TestQueryOnlyOptionalMatchesNothing(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Label("mars"))

	query := ecs.NewQuery[struct {
		Label *Label `ecs:"optional"`
	}](storage)
	assert.Equal(t, 0, query.Count())
}

func TestQueryUnknownComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{})

	query := ecs.NewQuery[struct {
		*Position
		*Grounded
	}](storage)
	assert.Equal(t, 0, query.Count())
}

func TestQueryGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 9})

	query := ecs.NewQuery[struct{ *Position }](storage)

	item, ok := query.Get(id)
	require.True(t, ok)
	item.Position.X = 10
	assert.Equal(t, 10.0, ecs.ReadComponent[Position](storage, id).X, "query hands out live pointers")

	storage.Delete(id)
	_, ok = query.Get(id)
	assert.False(t, ok)
}

func TestQueryDeleteDuringIteration(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, 0, 6)
	for i := 0; i < 6; i++ {
		ids = append(ids, storage.Spawn(Rank{Index: i}))
	}

	query := ecs.NewQuery[struct{ *Rank }](storage)

	var visited []int
	for _, item := range query.Iter() {
		visited = append(visited, item.Rank.Index)
		// Pairs merge: the odd partner disappears before it is reached.
		if item.Rank.Index%2 == 0 {
			storage.Delete(ids[item.Rank.Index+1])
		}
		storage.Spawn(Rank{Index: 100})
	}

	assert.Equal(t, []int{0, 2, 4}, visited)
	assert.Equal(t, 6, storage.Len())
}

func TestQueryBreak(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 5; i++ {
		storage.Spawn(Position{X: float64(i)})
	}

	query := ecs.NewQuery[struct{ *Position }](storage)
	n := 0
	for range query.Iter() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestQueryInvalidLayout(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewQuery[int](storage) })
	assert.Panics(t, func() {
		ecs.NewQuery[struct{ Position Position }](storage)
	})
	assert.Panics(t, func() {
		ecs.NewQuery[struct {
			Label *Label `ecs:"sometimes"`
		}](storage)
	})
}

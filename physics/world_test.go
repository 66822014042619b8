package physics_test

import (
	"sync"
	"testing"

	"github.com/plus3/planetdrop/physics"
	"github.com/plus3/planetdrop/ranks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *ranks.Table {
	t.Helper()
	table, err := ranks.NewTable([]ranks.Def{
		{Name: "a", DisplaySize: 40, Score: 1},
		{Name: "b", DisplaySize: 60, Score: 3},
		{Name: "c", DisplaySize: 80, Score: 6},
	}, 0.5)
	require.NoError(t, err)
	return table
}

func testSettings(gravity float64) physics.Settings {
	return physics.Settings{
		Width:         400,
		Height:        600,
		WallThickness: 100,
		Gravity:       gravity,
		Friction:      0.5,
		Restitution:   0.2,
		Damping:       0.95,
		Mass:          1,
	}
}

func newWorld(t *testing.T, gravity float64) *physics.World {
	world := physics.NewWorld(testSettings(gravity), testTable(t))
	world.CreateBoundary()
	return world
}

func TestCreateBody(t *testing.T) {
	world := newWorld(t, 0)

	id, err := world.CreateBody(100, 200, 1, 0.5)
	require.NoError(t, err)

	body, ok := world.Body(id)
	require.True(t, ok)
	assert.Equal(t, physics.KindPiece, body.Kind)
	assert.Equal(t, 1, body.Rank)
	assert.Equal(t, "b", body.Label)
	assert.InDelta(t, 100, body.X, 1e-9)
	assert.InDelta(t, 200, body.Y, 1e-9)
	assert.InDelta(t, 0.5, body.Angle, 1e-9)
	assert.Equal(t, 15.0, body.Radius)
	assert.Equal(t, 1, world.Len())
}

func TestCreateBodyInvalidRank(t *testing.T) {
	world := newWorld(t, 0)

	_, err := world.CreateBody(100, 100, 3, 0)
	assert.ErrorIs(t, err, ranks.ErrInvalidRank)
	_, err = world.CreateBody(100, 100, -1, 0)
	assert.ErrorIs(t, err, ranks.ErrInvalidRank)
	assert.Equal(t, 0, world.Len())
}

func TestBodyIdsAreNeverReused(t *testing.T) {
	world := newWorld(t, 0)

	a, err := world.CreateBody(50, 50, 0, 0)
	require.NoError(t, err)
	assert.True(t, world.RemoveBody(a))

	b, err := world.CreateBody(50, 50, 0, 0)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Greater(t, b, a)
}

func TestRemoveBodyIsIdempotent(t *testing.T) {
	world := newWorld(t, 0)

	a, _ := world.CreateBody(50, 50, 0, 0)
	b, _ := world.CreateBody(150, 50, 0, 0)
	c, _ := world.CreateBody(250, 50, 0, 0)

	assert.True(t, world.RemoveBody(b))
	assert.False(t, world.RemoveBody(b))
	assert.Equal(t, 1, world.RemoveBodies(a, b, 99))

	bodies := world.Bodies()
	require.Len(t, bodies, 1)
	assert.Equal(t, c, bodies[0].ID)

	world.Step()
	assert.Equal(t, 1, world.Len())
}

func TestGravityAndFloor(t *testing.T) {
	world := newWorld(t, 1500)

	id, err := world.CreateBody(200, 100, 2, 0)
	require.NoError(t, err)

	world.Step()
	body, _ := world.Body(id)
	assert.Greater(t, body.Y, 100.0, "gravity pulls toward larger y")
	assert.Greater(t, body.VY, 0.0)

	for i := 0; i < 600; i++ {
		world.Step()
	}
	body, _ = world.Body(id)
	assert.InDelta(t, 600-body.Radius, body.Y, 2, "piece rests on the floor")
	assert.Less(t, body.Speed(), 30.0)
	assert.Equal(t, uint64(601), world.Steps())
}

func TestWallsContainPieces(t *testing.T) {
	world := newWorld(t, 1500)

	id, _ := world.CreateBody(30, 300, 0, 0)
	require.True(t, world.SetVelocity(id, -2000, 0))
	for i := 0; i < 120; i++ {
		world.Step()
	}
	body, _ := world.Body(id)
	assert.GreaterOrEqual(t, body.X, body.Radius-2)
}

func TestContactsReportPiecePairs(t *testing.T) {
	world := newWorld(t, 0)

	a, _ := world.CreateBody(100, 300, 0, 0)
	b, _ := world.CreateBody(110, 300, 0, 0)
	lone, _ := world.CreateBody(300, 300, 0, 0)

	world.Step()
	contacts := world.Contacts()
	require.Len(t, contacts, 1)

	got := []physics.BodyID{contacts[0].A, contacts[0].B}
	assert.ElementsMatch(t, []physics.BodyID{a, b}, got)
	assert.Equal(t, "a", contacts[0].LabelA)
	assert.Equal(t, "a", contacts[0].LabelB)
	assert.NotContains(t, got, lone)

	// Contacts only cover the step in which they began.
	world.Step()
	assert.Empty(t, world.Contacts())
}

func TestContactsExcludeBoundary(t *testing.T) {
	world := newWorld(t, 1500)

	world.CreateBody(200, 570, 0, 0)
	for i := 0; i < 60; i++ {
		world.Step()
		assert.Empty(t, world.Contacts())
	}
}

func TestBoundary(t *testing.T) {
	world := newWorld(t, 0)
	world.CreateBoundary()

	walls := world.Boundary()
	require.Len(t, walls, 3)
	for _, w := range walls {
		assert.Equal(t, physics.KindBoundary, w.Kind)
		assert.Equal(t, physics.BoundaryLabel, w.Label)
	}

	floor := walls[0]
	assert.Equal(t, 200.0, floor.X)
	assert.Equal(t, 650.0, floor.Y)
	assert.Equal(t, 400.0, floor.Width)
	assert.Equal(t, 100.0, floor.Height)

	left, right := walls[1], walls[2]
	assert.Equal(t, -50.0, left.X)
	assert.Equal(t, 450.0, right.X)
	assert.Equal(t, 1200.0, right.Height)
}

func TestShakeBoundaryIsRelativeToRest(t *testing.T) {
	world := newWorld(t, 0)
	rest := world.Boundary()

	world.ShakeBoundary(5, 5)
	for i, w := range world.Boundary() {
		assert.Equal(t, rest[i].X+5, w.X)
		assert.Equal(t, rest[i].Y+5, w.Y)
	}

	world.ShakeBoundary(5, 5)
	for i, w := range world.Boundary() {
		assert.Equal(t, rest[i].X+5, w.X, "offsets do not accumulate")
	}

	world.ShakeBoundary(-5, -5)
	for i, w := range world.Boundary() {
		assert.Equal(t, rest[i].X-5, w.X)
		assert.Equal(t, rest[i].Y-5, w.Y)
	}

	world.ResetBoundary()
	assert.Equal(t, rest, world.Boundary())
}

func TestShakeBoundaryMovesCollision(t *testing.T) {
	world := newWorld(t, 1500)

	id, err := world.CreateBody(200, 500, 0, 0)
	require.NoError(t, err)
	for i := 0; i < 240; i++ {
		world.Step()
	}
	body, _ := world.Body(id)
	require.InDelta(t, 600-body.Radius, body.Y, 2)

	world.ShakeBoundary(0, -50)
	for i := 0; i < 240; i++ {
		world.Step()
	}
	body, _ = world.Body(id)
	assert.InDelta(t, 550-body.Radius, body.Y, 2, "piece rides the raised floor")

	world.ResetBoundary()
	for i := 0; i < 240; i++ {
		world.Step()
	}
	body, _ = world.Body(id)
	assert.InDelta(t, 600-body.Radius, body.Y, 2, "piece falls back to the resting floor")
}

func TestShakeBoundaryMovesSideWalls(t *testing.T) {
	world := newWorld(t, 0)

	id, err := world.CreateBody(30, 300, 0, 0)
	require.NoError(t, err)
	world.ShakeBoundary(40, 0)
	for i := 0; i < 120; i++ {
		world.Step()
	}
	body, _ := world.Body(id)
	assert.GreaterOrEqual(t, body.X, 40+body.Radius-2, "shifted left wall pushes the piece")
}

func TestWorldsInParallel(t *testing.T) {
	table := testTable(t)

	var wg sync.WaitGroup
	counts := make([]int, 4)
	for i := range counts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			world := physics.NewWorld(testSettings(1500), table)
			world.CreateBoundary()
			for j := 0; j < 50; j++ {
				if _, err := world.CreateBody(float64(50+j*6), 100, j%3, 0); err == nil {
					counts[i]++
				}
				world.Step()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{50, 50, 50, 50}, counts)
}

func TestClear(t *testing.T) {
	world := newWorld(t, 0)
	for i := 0; i < 5; i++ {
		_, err := world.CreateBody(float64(40+60*i), 300, 0, 0)
		require.NoError(t, err)
	}

	world.Clear()
	assert.Equal(t, 0, world.Len())
	assert.Empty(t, world.Bodies())
	assert.Len(t, world.Boundary(), 3)
}

func TestMassIsShared(t *testing.T) {
	world := newWorld(t, 1500)

	small, _ := world.CreateBody(100, 100, 0, 0)
	large, _ := world.CreateBody(300, 100, 2, 0)
	for i := 0; i < 10; i++ {
		world.Step()
	}

	s, _ := world.Body(small)
	l, _ := world.Body(large)
	assert.InDelta(t, s.VY, l.VY, 1e-6)
	assert.InDelta(t, s.Y, l.Y, 1e-6)
}

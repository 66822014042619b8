package debugui

import (
	"reflect"
	"testing"
	"time"

	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/ecs"
	"github.com/plus3/planetdrop/physics"
	"github.com/plus3/planetdrop/ranks"
	"github.com/plus3/planetdrop/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	score    int
	upcoming int
	resets   int
	table    *ranks.Table
	pieces   []session.PieceSnapshot
}

func newFakeGame(t *testing.T) *fakeGame {
	table, err := config.Classic().RankTable()
	require.NoError(t, err)
	return &fakeGame{table: table}
}

func (g *fakeGame) Score() int                      { return g.score }
func (g *fakeGame) Best() int                       { return g.score }
func (g *fakeGame) GameOver() bool                  { return false }
func (g *fakeGame) Shaking() bool                   { return false }
func (g *fakeGame) ShakeEnabled() bool              { return g.score > 50 }
func (g *fakeGame) InDanger() bool                  { return false }
func (g *fakeGame) Upcoming() ranks.Rank            { return g.table.At(g.upcoming) }
func (g *fakeGame) Ranks() *ranks.Table             { return g.table }
func (g *fakeGame) Pieces() []session.PieceSnapshot { return append([]session.PieceSnapshot(nil), g.pieces...) }
func (g *fakeGame) Stats() session.Stats            { return session.Stats{Score: g.score} }
func (g *fakeGame) Config() config.Config           { return config.Classic() }
func (g *fakeGame) AddScore(n int) int              { g.score += n; return g.score }
func (g *fakeGame) Reset()                          { g.resets++ }

func (g *fakeGame) SetUpcoming(index int) error {
	if _, err := g.table.Get(index); err != nil {
		return err
	}
	g.upcoming = index
	return nil
}

var _ Game = (*session.Session)(nil)

func snapshots(table *ranks.Table) []session.PieceSnapshot {
	return []session.PieceSnapshot{
		{ID: 3, Rank: table.At(2), X: 50, Y: 700},
		{ID: 1, Rank: table.At(0), X: 300, Y: 800},
		{ID: 12, Rank: table.At(1), X: 120, Y: 650},
	}
}

func ids(pieces []session.PieceSnapshot) []physics.BodyID {
	out := make([]physics.BodyID, len(pieces))
	for i, p := range pieces {
		out[i] = p.ID
	}
	return out
}

func TestFilterPieces(t *testing.T) {
	table, err := config.Classic().RankTable()
	require.NoError(t, err)
	pieces := snapshots(table)

	assert.Len(t, filterPieces(pieces, ""), 3)
	assert.Equal(t, []physics.BodyID{1, 12}, ids(filterPieces(pieces, "1")))
	assert.Equal(t, []physics.BodyID{12}, ids(filterPieces(pieces, "MOON")))
	assert.Empty(t, filterPieces(pieces, "pluto"))
}

func TestSortPieces(t *testing.T) {
	table, err := config.Classic().RankTable()
	require.NoError(t, err)

	tests := []struct {
		column    int
		ascending bool
		want      []physics.BodyID
	}{
		{sortByID, true, []physics.BodyID{1, 3, 12}},
		{sortByID, false, []physics.BodyID{12, 3, 1}},
		{sortByRank, true, []physics.BodyID{1, 12, 3}},
		{sortByX, true, []physics.BodyID{3, 12, 1}},
		{sortByY, false, []physics.BodyID{1, 3, 12}},
	}
	for _, tt := range tests {
		pieces := snapshots(table)
		sortPieces(pieces, tt.column, tt.ascending)
		assert.Equal(t, tt.want, ids(pieces))
	}
}

func TestPageBounds(t *testing.T) {
	start, end := pageBounds(120, 0, 50)
	assert.Equal(t, [2]int{0, 50}, [2]int{start, end})
	start, end = pageBounds(120, 2, 50)
	assert.Equal(t, [2]int{100, 120}, [2]int{start, end})
	start, end = pageBounds(10, 5, 50)
	assert.Equal(t, [2]int{10, 10}, [2]int{start, end})
}

func TestPerformanceStatsRecord(t *testing.T) {
	ps := NewPerformanceStats(newFakeGame(t), 4)

	assert.InDelta(t, 4.0, ps.record(0.016), 1e-3)
	ps.record(0.016)
	ps.record(0.016)
	assert.InDelta(t, 16.0, ps.record(0.016), 1e-3)
	assert.InDelta(t, 16.0, ps.record(0.016), 1e-3, "ring buffer wraps")
	assert.Equal(t, 1, ps.frameIndex)
}

func TestFormatField(t *testing.T) {
	assert.Equal(t, "GracePeriod: 3s", formatField("GracePeriod", reflect.ValueOf(3*time.Second)))
	assert.Equal(t, "Gravity: 1500", formatField("Gravity", reflect.ValueOf(1500.0)))
	assert.Equal(t, `Name: "moon"`, formatField("Name", reflect.ValueOf("moon")))
	assert.Equal(t, "ShakeCost: 50", formatField("ShakeCost", reflect.ValueOf(50)))
	assert.Equal(t, "Handle: nil", formatField("Handle", reflect.ValueOf((*int)(nil))))
}

func TestConfigInspectorFields(t *testing.T) {
	ci := NewConfigInspector(newFakeGame(t))
	cfgType := reflect.TypeFor[config.Config]()

	var names []string
	for _, i := range ci.exportedFields(cfgType) {
		names = append(names, cfgType.Field(i).Name)
	}
	assert.Equal(t, []string{"Screen", "Physics", "Rules", "Ranks"}, names)
	assert.Len(t, ci.fields, 1, "field lists are memoized per type")
	assert.Equal(t, ci.exportedFields(cfgType), ci.exportedFields(cfgType))
	assert.Empty(t, ci.exportedFields(reflect.TypeFor[int]()))

	type mixed struct {
		Shown  int
		hidden int
	}
	assert.Equal(t, []int{0}, ci.exportedFields(reflect.TypeFor[mixed]()))
}

func TestSessionPanelSetUpcoming(t *testing.T) {
	game := newFakeGame(t)
	panel := NewSessionPanel(game)

	panel.setUpcoming(99)
	assert.NotEmpty(t, panel.lastErr)
	panel.setUpcoming(4)
	assert.Empty(t, panel.lastErr)
	assert.Equal(t, "venus", game.Upcoming().Name)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "GAME OVER", stateLabel(true, true))
	assert.Equal(t, "danger", stateLabel(false, true))
	assert.Equal(t, "playing", stateLabel(false, false))
	assert.Equal(t, "shaking", shakeLabel(true, false))
	assert.Equal(t, "ready", shakeLabel(false, true))
	assert.Equal(t, "disabled", shakeLabel(false, false))
}

func TestSpawnDebugUI(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)

	game := newFakeGame(t)
	SpawnDebugUI(storage, game)
	assert.Equal(t, 4, storage.Len())

	items := ecs.NewQuery[struct{ *ImguiItem }](storage)
	renders := orderedRenders(items.Values())
	assert.Len(t, renders, 4)

	var orders []int
	for item := range items.Values() {
		orders = append(orders, item.ImguiItem.Order)
	}
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, orders)

	// Panels are bound to the stored component, not a copy.
	panels := ecs.NewQuery[struct{ *SessionPanel }](storage)
	for p := range panels.Values() {
		p.SessionPanel.setUpcoming(5)
		assert.Equal(t, "earth", game.Upcoming().Name)
	}
}

func TestOrderedRenders(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)

	var calls []string
	storage.Spawn(ImguiItem{Order: 2, Render: func() { calls = append(calls, "c") }})
	storage.Spawn(ImguiItem{Order: 0, Render: func() { calls = append(calls, "a") }})
	storage.Spawn(ImguiItem{Order: 1})
	storage.Spawn(ImguiItem{Order: 1, Render: func() { calls = append(calls, "b") }})

	for _, render := range orderedRenders(ecs.NewQuery[struct{ *ImguiItem }](storage).Values()) {
		render()
	}
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

package debugui

import (
	"iter"
	"slices"

	"github.com/plus3/planetdrop/ecs"
)

// RegisterDebugUIComponents registers the component types SpawnDebugUI uses.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[SessionPanel](registry)
	ecs.RegisterComponent[PerformanceStats](registry)
	ecs.RegisterComponent[PieceBrowser](registry)
	ecs.RegisterComponent[ConfigInspector](registry)
}

// SpawnDebugUI adds one window entity per panel. Each entity carries the
// panel state and an ImguiItem bound to the stored copy of it.
func SpawnDebugUI(storage *ecs.Storage, game Game) {
	timer := NewFrameTimer()

	panel := spawnPanel(storage, NewSessionPanel(game))
	storage.AddComponent(panel.id, ImguiItem{Order: 0, Render: panel.ptr.Render})

	stats := spawnPanel(storage, NewPerformanceStats(game, 120))
	storage.AddComponent(stats.id, ImguiItem{Order: 1, Render: func() {
		stats.ptr.Render(timer.DeltaTime())
	}})

	browser := spawnPanel(storage, NewPieceBrowser(game, 50))
	storage.AddComponent(browser.id, ImguiItem{Order: 2, Render: browser.ptr.Render})

	inspector := spawnPanel(storage, NewConfigInspector(game))
	storage.AddComponent(inspector.id, ImguiItem{Order: 3, Render: inspector.ptr.Render})
}

type spawned[T any] struct {
	id  ecs.EntityId
	ptr *T
}

func spawnPanel[T any](storage *ecs.Storage, component T) spawned[T] {
	id := storage.Spawn(component)
	return spawned[T]{id: id, ptr: ecs.ReadComponent[T](storage, id)}
}

func orderedRenders(items iter.Seq[struct{ *ImguiItem }]) []func() {
	var sorted []*ImguiItem
	for item := range items {
		if item.ImguiItem.Render != nil {
			sorted = append(sorted, item.ImguiItem)
		}
	}
	slices.SortStableFunc(sorted, func(a, b *ImguiItem) int {
		return a.Order - b.Order
	})

	out := make([]func(), len(sorted))
	for i, item := range sorted {
		out[i] = item.Render
	}
	return out
}

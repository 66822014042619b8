package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/planetdrop/debugui"
	debugui_ebiten "github.com/plus3/planetdrop/debugui/ebiten"
	"github.com/plus3/planetdrop/ecs"
	"github.com/plus3/planetdrop/session"
)

// debugOverlay owns the panel storage and the ImGui backend.
type debugOverlay struct {
	backend   debugui_ebiten.ImguiBackend
	scheduler *ecs.Scheduler
	input     *ecs.Singleton[debugui.ImguiInputState]
}

func newDebugOverlay(game *session.Session, width, height int) *debugOverlay {
	backend := debugui_ebiten.NewImguiBackend("planetdrop (debug)", width, height)

	registry := ecs.NewComponentRegistry()
	debugui.RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)
	input := ecs.NewSingleton[debugui.ImguiInputState](storage)
	debugui.SpawnDebugUI(storage, game)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&debugui.ImguiSystem{})

	return &debugOverlay{backend: backend, scheduler: scheduler, input: input}
}

func (o *debugOverlay) begin() {
	o.backend.BeginFrame()
	o.scheduler.Once(1.0 / 60.0)
}

func (o *debugOverlay) end() {
	o.backend.EndFrame()
}

func (o *debugOverlay) wantsMouse() bool {
	return o.input.Get().WantCaptureMouse
}

func (o *debugOverlay) wantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}

func (o *debugOverlay) draw(screen *ebiten.Image) {
	o.backend.Overlay(screen)
}

func (o *debugOverlay) layout(width, height int) {
	o.backend.Layout(width, height)
}

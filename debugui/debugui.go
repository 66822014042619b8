// Package debugui draws Dear ImGui debug panels for a running game session.
// Panels live as ImguiItem entities in a host-side ECS storage, so the host
// can add or drop windows without touching the game.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/ecs"
	"github.com/plus3/planetdrop/ranks"
	"github.com/plus3/planetdrop/session"
)

// Game is the part of a session the panels read and poke.
type Game interface {
	Score() int
	Best() int
	GameOver() bool
	Shaking() bool
	ShakeEnabled() bool
	InDanger() bool
	Upcoming() ranks.Rank
	Ranks() *ranks.Table
	Pieces() []session.PieceSnapshot
	Stats() session.Stats
	Config() config.Config

	AddScore(n int) int
	SetUpcoming(index int) error
	Reset()
}

// ImguiItem holds a render function run once per frame.
type ImguiItem struct {
	Order  int
	Render func()
}

// ImguiInputState mirrors whether ImGui wants the mouse or keyboard this
// frame. Hosts check it before forwarding clicks to the game.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem refreshes ImguiInputState and defers every ImguiItem render in
// Order so they run after the frame's commands are applied.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	if state := i.InputState.Get(); state != nil {
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for _, render := range orderedRenders(i.Items.Values()) {
		frame.Commands.Defer(render)
	}
}

// Package ebiten hosts the debug panels on top of an Ebiten game loop.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// ImguiBackend wraps the Ebiten Dear ImGui backend. Call BeginFrame before
// the UI systems run, EndFrame after, and Draw last in the host's Draw.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window without an ini file.
func NewImguiBackend(title string, width, height int) ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ImguiBackend{EbitenBackend: backend}
}

// Overlay draws the ImGui frame on top of screen.
func (b ImguiBackend) Overlay(screen *ebiten.Image) {
	b.Draw(screen)
}

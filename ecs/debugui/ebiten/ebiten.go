// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"

	"github.com/plus3/hotreg/ecs"
	"github.com/plus3/hotreg/ecs/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Frame runs one world tick inside an ImGui frame, so that debug windows
// and ImguiItem render functions draw into it.
func (b *ImguiBackend) Frame(w *ecs.World, dt float64) {
	b.BeginFrame()
	debugui.UpdateInputState(w)
	w.Tick(dt)
	b.EndFrame()
}

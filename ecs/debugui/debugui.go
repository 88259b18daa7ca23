// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Windows are ordinary components whose think callback renders them, so they
// show up in the registry they inspect and survive a reload like any other
// component. Call Tick between the backend's BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/hotreg/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func() `json:"-"`
}

// Think queues the render function to run once the think pass is over.
func (i *ImguiItem) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	if i.Render != nil {
		frame.Commands.Defer(i.Render)
	}
	return nil
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Selection is the entity picked in the entity browser, shared with the
// component inspector.
type Selection struct {
	Entity ecs.Entity
}

// UpdateInputState copies ImGui's capture flags into the world's
// ImguiInputState singleton.
func UpdateInputState(w *ecs.World) {
	state := ecs.NewSingleton[ImguiInputState](w).Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()
}

func selection(w *ecs.World) *Selection {
	return ecs.NewSingleton[Selection](w, Selection{Entity: ecs.Null}).Get()
}

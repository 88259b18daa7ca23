package ecs

// UpdateFrame is handed to every think callback of one frame.
type UpdateFrame struct {
	DeltaTime float64
	Frame     uint64
	Commands  *Commands
	World     *World
}

func newUpdateFrame(dt float64, w *World) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     w.frame,
		Commands:  w.commands,
		World:     w,
	}
}

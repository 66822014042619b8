package ecs

// System represents a behavior that operates on entities with specific components.
// Systems may declare Query and Singleton fields, which the Scheduler binds to
// its storage on registration, as well as their own state that persists
// between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system during one Scheduler.Once call.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage

	stopped bool
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// Stop skips every system after the current one for the rest of this frame.
// Commands already queued are still flushed.
func (f *UpdateFrame) Stop() {
	f.stopped = true
}

// Stopped reports whether Stop has been called this frame.
func (f *UpdateFrame) Stopped() bool {
	return f.stopped
}

package hostshell

// HotkeySource is the global-hotkey bridge: an external collaborator that
// would register an OS-level hotkey and call Pressed's callback when the
// user triggers the launcher. Platform hotkey registration is out of scope
// (spec §1 Non-goals); this interface exists so the host shell has one seam
// to plug a real implementation into later, the same interface-at-the-
// boundary pattern the teacher uses for mud.Network/ui.UI (ui/interface.go).
type HotkeySource interface {
	// Register starts listening and calls onTrigger whenever the configured
	// hotkey fires. Returns a stop function.
	Register(onTrigger func()) (stop func(), err error)
}

// NoopHotkeySource never fires; used when no platform hotkey backend is
// wired (the default, and always in headless/doctor mode).
type NoopHotkeySource struct{}

func (NoopHotkeySource) Register(onTrigger func()) (func(), error) {
	return func() {}, nil
}

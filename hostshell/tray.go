package hostshell

// TrayBridge is the system tray icon/menu collaborator: clicking the icon
// or a menu entry should map onto the same show/hide/run operations a
// control-verb stdin line does (§4.10). Platform tray integration is out of
// scope (spec §1 Non-goals); this interface is the seam for a real
// implementation.
type TrayBridge interface {
	// Start shows the tray icon and wires menu actions to the shell's own
	// HandleControl via onCommand. Returns a stop function.
	Start(onCommand func(Command)) (stop func(), err error)
}

// NoopTrayBridge never shows anything; used when no platform tray backend
// is wired (the default, and always in headless/doctor mode).
type NoopTrayBridge struct{}

func (NoopTrayBridge) Start(onCommand func(Command)) (func(), error) {
	return func() {}, nil
}

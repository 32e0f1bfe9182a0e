// Package prompt implements the prompt state machine (C7): one instance per
// active script invocation, rendering prompt messages and emitting exactly
// one submit per prompt id.
//
// The Host/render-surface split is grounded on the teacher's lua.Host
// interface and lua.UIService/TimerService segregated interfaces
// (lua/host.go, lua/services.go): there the Lua engine is decoupled from a
// concrete channel/UI implementation so it can be driven headlessly in
// tests; here the state machine is decoupled from the concrete TUI so it
// can be driven the same way.
package prompt

import (
	"time"

	"github.com/drake/scriptkit/protocol"
)

// RenderSurface is the narrow facade the state machine drives; the bubbletea
// UI model implements it for real rendering, and tests implement a fake.
type RenderSurface interface {
	// Render displays msg as the active prompt, replacing whatever was
	// previously shown.
	Render(msg protocol.PromptMessage)
	// Clear tears down the current render (used on supersede and on exit).
	Clear()
}

// Clock abstracts the passage of time for the auto-submit test hook so
// tests don't sleep on a wall clock.
type Clock interface {
	AfterFunc(delayMS int, fn func()) (cancel func())
}

// systemClock is the production Clock, backed by time.AfterFunc.
type systemClock struct{}

func (systemClock) AfterFunc(delayMS int, fn func()) func() {
	t := time.AfterFunc(time.Duration(delayMS)*time.Millisecond, fn)
	return func() { t.Stop() }
}

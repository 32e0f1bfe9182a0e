package prompt

import (
	"sync"

	"github.com/drake/scriptkit/protocol"
)

// State is the three-state lifecycle of §4.7: Idle, Rendering, Submitting.
type State int

const (
	Idle State = iota
	Rendering
	Submitting
)

// SubmitFunc delivers a completed SubmitMessage to the owning invocation's
// stdin writer (C8). It is called at most once per prompt id from Idle-
// Rendering-Submitting-Idle transition.
type SubmitFunc func(protocol.SubmitMessage)

// Machine is one instance per active script invocation (§4.7). Its state
// and current prompt are guarded by an internal mutex; the surface and
// submit callbacks are invoked outside that mutex, so callers that need a
// consistent view across several calls serialize them themselves, matching
// the teacher's single-UI-thread-owns-mutation model (§5).
type Machine struct {
	mu      sync.Mutex
	state   State
	current *protocol.PromptMessage

	surface RenderSurface
	submit  SubmitFunc
	auto    *AutoSubmit
}

// New creates a Machine in the Idle state.
func New(surface RenderSurface, submit SubmitFunc, auto *AutoSubmit) *Machine {
	return &Machine{state: Idle, surface: surface, submit: submit, auto: auto}
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Receive handles a new prompt message arriving from the child (§4.7): if
// already Rendering, the previous render is torn down without an implicit
// submit — abandoning a prompt is the child's own responsibility, never the
// host's.
func (m *Machine) Receive(msg protocol.PromptMessage) {
	m.mu.Lock()
	if m.state == Rendering {
		m.surface.Clear()
	}
	m.current = &msg
	m.state = Rendering
	m.mu.Unlock()

	m.surface.Render(msg)

	if m.auto != nil && m.auto.Enabled() {
		m.auto.Schedule(msg, m.Submit)
	}
}

// Submit transitions Rendering -> Submitting -> Idle, emitting exactly one
// submit carrying value for the current prompt id. Calling Submit when not
// Rendering is a no-op (protects against a stray late auto-submit timer
// firing after the prompt was already superseded or the child exited).
func (m *Machine) Submit(value *string) {
	m.mu.Lock()
	if m.state != Rendering || m.current == nil {
		m.mu.Unlock()
		return
	}
	id := m.current.ID
	m.state = Submitting
	m.mu.Unlock()

	out := protocol.SubmitMessage{Type: protocol.TypeSubmit, ID: id, Value: value}
	m.submit(out)

	m.mu.Lock()
	m.state = Idle
	m.current = nil
	m.mu.Unlock()
	m.surface.Clear()
}

// Cancel is the Escape-triggered submit-null path (§4.7 "user cancels").
func (m *Machine) Cancel() {
	m.Submit(nil)
}

// ExitObserved is called by C8 when the child process exits while a prompt
// is active: discard any partial input and return to Idle without emitting
// a submit (§4.7 "child exit observed by C8").
func (m *Machine) ExitObserved() {
	m.mu.Lock()
	wasRendering := m.state == Rendering
	m.state = Idle
	m.current = nil
	m.mu.Unlock()

	if wasRendering {
		m.surface.Clear()
	}
}

// Current returns the prompt message currently being rendered, if any.
func (m *Machine) Current() (protocol.PromptMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return protocol.PromptMessage{}, false
	}
	return *m.current, true
}

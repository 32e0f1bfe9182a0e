package sysops

import (
	"encoding/json"

	"github.com/drake/scriptkit/protocol"
)

// WindowHandler answers getWindowBounds/windowList/windowAction. Real
// window enumeration and control is a platform accessibility API, named as
// an external collaborator in §1 Non-goals; Bounds is supplied by whatever
// concrete UI toolkit owns the window (wired in by the host shell), so this
// handler only needs to know the host's own window bounds, not the whole
// desktop's.
type WindowHandler struct {
	// BoundsFunc returns the host window's current bounds. Nil means
	// unsupported.
	BoundsFunc func() (x, y, width, height int)
}

func (h *Handlers) dispatchWindowBounds(env protocol.Envelope, respond func(any) error) {
	if h.Window == nil || h.Window.BoundsFunc == nil {
		respond(failure(protocol.TypeWindowBounds, requestID(env), "unsupported: window bounds query not available"))
		return
	}
	x, y, w, height := h.Window.BoundsFunc()
	respond(map[string]any{
		"type": protocol.TypeWindowBounds, "requestId": requestID(env),
		"x": x, "y": y, "width": w, "height": height,
	})
}

func (h *Handlers) dispatchWindowList(env protocol.Envelope, respond func(any) error) {
	// Enumerating OTHER applications' windows requires platform-specific
	// accessibility APIs (§1 Non-goals); the host only ever knows about its
	// own window, and the list returned here is always empty.
	respond(map[string]any{"type": protocol.TypeWindowListResult, "requestId": requestID(env), "windows": []any{}})
}

type windowActionRequest struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
}

func (h *Handlers) dispatchWindowAction(env protocol.Envelope, respond func(any) error) {
	var req windowActionRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		respond(failure(protocol.TypeWindowActionResult, requestID(env), "malformed windowAction request"))
		return
	}
	switch req.Action {
	case "focus", "close", "minimize", "maximize", "resize", "move":
		respond(failure(protocol.TypeWindowActionResult, req.RequestID, "unsupported: cross-application window control requires platform accessibility APIs out of scope here"))
	default:
		respond(failure(protocol.TypeWindowActionResult, req.RequestID, "unknown windowAction"))
	}
}

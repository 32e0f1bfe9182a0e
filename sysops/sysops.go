// Package sysops implements the system-operation handlers (C9): every
// operation is request/response-correlated via requestId, or fire-and-forget
// for notify/beep/say/setStatus/show/hide/browse (§4.9, §6.1).
//
// Handler shape is grounded on the teacher's CallbackManager
// (session/callbacks.go): a request comes in tagged with an id, gets routed
// to a handler, and a correlated response goes back out — generalized here
// from "one-shot Lua callback" to "one system operation of a fixed,
// pre-declared set".
package sysops

import (
	"context"
	"encoding/json"
	"time"

	"github.com/drake/scriptkit/protocol"
)

// Responder sends a correlated response back to the child that asked
// (typically an *executor.Invocation's SendResponse, adapted to this
// narrower interface). Dispatch takes a Responder rather than a bare func so
// callers can pass a concrete type without an allocation-per-call closure
// when they already have one (e.g. the invocation itself).
type Responder interface {
	Respond(v any) error
}

// ResponderFunc adapts a plain func to a Responder.
type ResponderFunc func(v any) error

func (f ResponderFunc) Respond(v any) error { return f(v) }

// DefaultTimeout is the request-timeout bound of §7 ("Request timeout...
// error=\"timeout\""). Dispatch does not apply it: handlers run
// synchronously to completion and no timeout response is synthesized.
const DefaultTimeout = 5 * time.Second

// Handlers is the full set of system-operation implementations. Each field
// may be nil: a request op whose handler is nil is answered with
// success=false, and a fire-and-forget op (notify, beep, say) whose handler
// is nil does nothing.
type Handlers struct {
	Clipboard  *ClipboardHandler
	Notify     NotifyFunc
	Beep       func()
	Say        SayFunc
	Window     *WindowHandler
	FileSearch *FileSearchHandler
}

// NotifyFunc implements the fire-and-forget `notify` op.
type NotifyFunc func(title, body string) error

// SayFunc implements the fire-and-forget `say` (text-to-speech) op. Out of
// scope platform-wise for this spec (§1 Non-goals list platform
// accessibility/TTS-adjacent APIs as external collaborators); a no-op
// default still satisfies the contract ("never silently drops a request"
// — there simply is no response expected for a fire-and-forget op).
type SayFunc func(text string) error

// Dispatch routes a decoded request envelope to its handler and calls
// respond with the correlated response. Unsupported request ops and handler
// errors both produce a success=false response rather than a dropped
// request (§4.9 "Failure policy"). Fire-and-forget ops, and any type not
// handled here, get no response.
func (h *Handlers) Dispatch(ctx context.Context, env protocol.Envelope, resp Responder) {
	respond := resp.Respond
	switch env.Type {
	case protocol.TypeGetSelectedText:
		respond(failure(protocol.TypeSelectedText, requestID(env), "unsupported: global text selection requires platform accessibility APIs out of scope here"))
	case protocol.TypeSetSelectedText:
		respond(failure(protocol.TypeTextSet, requestID(env), "unsupported: global text selection requires platform accessibility APIs out of scope here"))
	case protocol.TypeCheckAccessibility, protocol.TypeRequestAccessibility:
		respond(map[string]any{"type": protocol.TypeAccessibilityStatus, "requestId": requestID(env), "granted": false})
	case protocol.TypeGetWindowBounds:
		h.dispatchWindowBounds(env, respond)
	case protocol.TypeWindowList:
		h.dispatchWindowList(env, respond)
	case protocol.TypeWindowAction:
		h.dispatchWindowAction(env, respond)
	case protocol.TypeClipboard:
		h.dispatchClipboard(env, respond)
	case protocol.TypeFileSearch:
		h.dispatchFileSearch(ctx, env, respond)
	case protocol.TypeCaptureScreenshot:
		respond(failure(protocol.TypeScreenshotResult, requestID(env), "unsupported: screen capture requires platform APIs out of scope here"))
	case protocol.TypeClipboardHistory:
		h.dispatchClipboardHistory(env, respond)
	case protocol.TypeNotify:
		if h.Notify != nil {
			var req struct {
				Title string `json:"title"`
				Body  string `json:"body"`
			}
			_ = json.Unmarshal(env.Raw, &req)
			_ = h.Notify(req.Title, req.Body)
		}
	case protocol.TypeBeep:
		if h.Beep != nil {
			h.Beep()
		}
	case protocol.TypeSay:
		if h.Say != nil {
			var req struct {
				Text string `json:"text"`
			}
			_ = json.Unmarshal(env.Raw, &req)
			_ = h.Say(req.Text)
		}
	default:
		// Keyboard/mouse/setStatus/menu/show/hide/browse/exec/setPanel/
		// setPreview/setPrompt/setError: fire-and-forget ops that are either
		// routed directly by the host shell (show/hide/setFilter-adjacent) or
		// not implemented at this layer. Never responded to.
	}
}

func requestID(env protocol.Envelope) string {
	req, err := env.DecodeRequest()
	if err != nil {
		return ""
	}
	return req.RequestID
}

func failure(t protocol.Type, requestID, errMsg string) protocol.ResponseMessage {
	ok := false
	return protocol.ResponseMessage{Type: t, RequestID: requestID, Success: &ok, Error: errMsg}
}

func success(t protocol.Type, requestID string) protocol.ResponseMessage {
	ok := true
	return protocol.ResponseMessage{Type: t, RequestID: requestID, Success: &ok}
}

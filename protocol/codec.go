package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DefaultMaxLineBytes bounds a single wire line to 10 MiB (§4.1).
const DefaultMaxLineBytes = 10 * 1024 * 1024

// MalformedJSON reports a line that failed to decode as JSON, or that
// exceeded the configured line-length ceiling. The decoder resynchronizes
// at the next newline and keeps reading.
type MalformedJSON struct {
	Line   int
	Column int
	Detail string
}

func (e *MalformedJSON) Error() string {
	return fmt.Sprintf("protocol: malformed json at line %d, column %d: %s", e.Line, e.Column, e.Detail)
}

// UnknownType is returned for well-formed JSON carrying a "type" the codec
// does not recognize. The raw type string is preserved for logging; decoding
// continues with the next line (§4.1).
type UnknownType struct {
	Raw string
}

func (e *UnknownType) Error() string {
	return fmt.Sprintf("protocol: unknown message type %q", e.Raw)
}

// Envelope is the minimal shape every message shares: a discriminator plus
// the raw remainder, so the router can decide what to fully unmarshal into.
type Envelope struct {
	Type Type            `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// Decoder reads newline-delimited JSON messages from a child's stdout (or
// any line-oriented source), classifying each line as known-type,
// unknown-type, or malformed. It never panics and never aborts the stream
// on a single bad line — the wire contract in §4.1 requires tolerance.
//
// bufio.Scanner cannot honor that contract: once Scan reports ErrTooLong it
// is permanently done, so every later Next would just replay the same
// error. Decoder instead drives a bufio.Reader directly and discards the
// remainder of an over-long line itself, so the line after it still parses.
type Decoder struct {
	reader     *bufio.Reader
	lineNum    int
	maxLineLen int
}

// NewDecoder wraps r with the default 10 MiB line ceiling.
func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderSize(r, DefaultMaxLineBytes)
}

// NewDecoderSize wraps r with an explicit maximum line length in bytes.
func NewDecoderSize(r io.Reader, maxLineBytes int) *Decoder {
	return &Decoder{reader: bufio.NewReaderSize(r, 64*1024), maxLineLen: maxLineBytes}
}

// readLine returns the next newline-delimited line with the terminator
// stripped. tooLong is set when the line ran past maxLineLen; the excess
// bytes up to (and including) the next newline are discarded so the
// following call starts clean at the next line. err is only non-nil for a
// genuine read failure (including io.EOF once the stream is exhausted).
func (d *Decoder) readLine() (line []byte, tooLong bool, err error) {
	var buf []byte
	for {
		frag, rerr := d.reader.ReadSlice('\n')
		if !tooLong && len(buf)+len(frag) > d.maxLineLen {
			tooLong = true
			buf = nil
		}
		if !tooLong {
			buf = append(buf, frag...)
		}

		switch rerr {
		case nil:
			// frag ends in '\n': the line is complete.
			if tooLong {
				return nil, true, nil
			}
			line = bytes.TrimSuffix(buf, []byte("\n"))
			line = bytes.TrimSuffix(line, []byte("\r"))
			return line, false, nil
		case bufio.ErrBufferFull:
			// No newline within the internal buffer yet; keep reading
			// (and, once over the cap, discarding) until one appears.
			continue
		case io.EOF:
			if len(buf) > 0 || tooLong {
				return buf, tooLong, nil
			}
			return nil, false, io.EOF
		default:
			return nil, false, rerr
		}
	}
}

// Next reads the next line and classifies it. ok is false only when the
// underlying stream is exhausted (io.EOF) or a read error occurred; err then
// carries the read error if any. A malformed or unknown line is reported via
// the returned Envelope/error pair with ok still true, so callers keep
// looping.
func (d *Decoder) Next() (env Envelope, ok bool, err error) {
	line, tooLong, rerr := d.readLine()
	if rerr != nil {
		if rerr == io.EOF {
			return Envelope{}, false, nil
		}
		return Envelope{}, false, rerr
	}

	d.lineNum++
	if tooLong {
		// Resynchronized at the next newline already; the following Next
		// call parses the next line normally (§4.1).
		return Envelope{}, true, &MalformedJSON{Line: d.lineNum, Detail: "line exceeds maximum length"}
	}
	if len(line) == 0 {
		// Blank line: re-enter the loop without emitting anything.
		return d.Next()
	}

	var disc struct {
		Type Type `json:"type"`
	}
	if jerr := json.Unmarshal(line, &disc); jerr != nil {
		if syn, isSyn := jerr.(*json.SyntaxError); isSyn {
			return Envelope{}, true, &MalformedJSON{Line: d.lineNum, Column: int(syn.Offset), Detail: syn.Error()}
		}
		return Envelope{}, true, &MalformedJSON{Line: d.lineNum, Detail: jerr.Error()}
	}
	if disc.Type == "" {
		return Envelope{}, true, &MalformedJSON{Line: d.lineNum, Detail: "missing \"type\" field"}
	}

	env = Envelope{Type: disc.Type, Raw: append(json.RawMessage(nil), line...)}
	if !knownType(disc.Type) {
		return env, true, &UnknownType{Raw: string(disc.Type)}
	}
	return env, true, nil
}

// DecodePrompt fully decodes a known prompt-variant envelope.
func (env Envelope) DecodePrompt() (PromptMessage, error) {
	var m PromptMessage
	if err := json.Unmarshal(env.Raw, &m); err != nil {
		return PromptMessage{}, err
	}
	return m, nil
}

// DecodeRequest fully decodes a known request-op envelope's common fields.
func (env Envelope) DecodeRequest() (RequestMessage, error) {
	var m RequestMessage
	if err := json.Unmarshal(env.Raw, &m); err != nil {
		return RequestMessage{}, err
	}
	return m, nil
}

// Encoder writes newline-delimited JSON messages to a child's stdin (or any
// line-oriented sink). Unlike Decoder it has nothing to tolerate: the host
// only ever emits well-formed messages it constructed itself.
type Encoder struct {
	w io.Writer
}

// NewEncoder wraps w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode marshals v to JSON and writes it followed by a single newline.
func (e *Encoder) Encode(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("protocol: encode: %w", err)
	}
	b = append(b, '\n')
	_, err = e.w.Write(b)
	return err
}

var knownTypeSet = buildKnownTypeSet()

func buildKnownTypeSet() map[Type]bool {
	m := map[Type]bool{TypeSubmit: true}
	for t := range promptTypes {
		m[t] = true
	}
	for _, t := range []Type{
		TypeNotify, TypeBeep, TypeSay, TypeSetStatus, TypeMenu, TypeShow, TypeHide,
		TypeBrowse, TypeExec, TypeSetPanel, TypeSetPreview, TypeSetPrompt, TypeSetError,
		TypeClipboard, TypeKeyboard, TypeMouse,
		TypeGetSelectedText, TypeSetSelectedText, TypeCheckAccessibility, TypeRequestAccessibility,
		TypeGetWindowBounds, TypeClipboardHistory, TypeWindowList, TypeWindowAction,
		TypeFileSearch, TypeCaptureScreenshot,
		TypeSelectedText, TypeTextSet, TypeAccessibilityStatus, TypeWindowBounds,
		TypeClipboardHistoryList, TypeClipboardHistoryResult, TypeWindowListResult,
		TypeWindowActionResult, TypeFileSearchResult, TypeScreenshotResult,
	} {
		m[t] = true
	}
	return m
}

func knownType(t Type) bool { return knownTypeSet[t] }

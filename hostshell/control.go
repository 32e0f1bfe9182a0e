package hostshell

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/drake/scriptkit/ui"
)

// Command is one decoded control line read off the host's own stdin (§4.10,
// §6.2): exactly four verbs, never the same messages as the script-executor
// channel.
type Command struct {
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
	Text string `json:"text,omitempty"`
}

const (
	ControlRun       = "run"
	ControlShow      = "show"
	ControlHide      = "hide"
	ControlSetFilter = "setFilter"
)

// ControlReader decodes line-delimited JSON control commands off r,
// tolerating unknown types the same way protocol.Decoder tolerates unknown
// wire messages (§6.2 "Unknown types logged and ignored").
type ControlReader struct {
	scanner *bufio.Scanner
}

// NewControlReader wraps r (typically the host process's own os.Stdin).
func NewControlReader(r io.Reader) *ControlReader {
	return &ControlReader{scanner: bufio.NewScanner(r)}
}

// Next returns the next decoded command, or ok=false once r is exhausted.
func (c *ControlReader) Next() (cmd Command, ok bool) {
	for c.scanner.Scan() {
		line := c.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var decoded Command
		if err := json.Unmarshal(line, &decoded); err != nil {
			continue // malformed line: logged by the caller, ignored here
		}
		switch decoded.Type {
		case ControlRun, ControlShow, ControlHide, ControlSetFilter:
			return decoded, true
		default:
			continue // unknown verb: ignored per §6.2
		}
	}
	return Command{}, false
}

// ServeControl reads commands from r until it is exhausted or ctx-like
// cancellation happens via the reader returning, dispatching each to the
// shell. Used by RunHeadless (`scriptkit run --headless`) and by tests.
func (s *Shell) ServeControl(r io.Reader) {
	cr := NewControlReader(r)
	for {
		cmd, ok := cr.Next()
		if !ok {
			return
		}
		s.HandleControl(cmd)
	}
}

// HandleControl maps one external control verb onto an operation on the
// list view (focus), the search filter (refilter), or the executor
// (spawn) — the host shell's entire responsibility per §4.10.
func (s *Shell) HandleControl(cmd Command) {
	switch cmd.Type {
	case ControlRun:
		if err := s.launch(cmd.Path); err != nil && s.log != nil {
			s.log.Warnf("hostshell: control run %s failed: %v", cmd.Path, err)
		}
	case ControlShow:
		if s.program != nil {
			s.program.Send(ui.ShowMsg{})
		}
	case ControlHide:
		if s.program != nil {
			s.program.Send(ui.HideMsg{})
		}
	case ControlSetFilter:
		if s.program != nil {
			s.program.Send(ui.SetFilterMsg{Text: cmd.Text})
		}
	}
}

package executor

import (
	"strconv"
	"strings"
	"time"

	"github.com/drake/scriptkit/protocol"
)

// SynthesizeError builds the structured error record §7/§6.1 S5 calls for
// when an invocation exits non-zero: it incorporates the captured stderr
// tail and a best-effort stack trace extracted from it.
func SynthesizeError(result ExitResult) protocol.SetErrorMessage {
	stderr := strings.Join(result.StderrTail, "\n")
	code := result.ExitCode

	msg := protocol.SetErrorMessage{
		Type:         protocol.TypeSetError,
		ScriptPath:   result.ScriptPath,
		StderrOutput: stderr,
		ExitCode:     &code,
		StackTrace:   extractStackTrace(result.StderrTail),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	switch {
	case result.Err != nil:
		msg.ErrorMessage = result.Err.Error()
	case code != 0:
		msg.ErrorMessage = "script exited with code " + strconv.Itoa(code)
	}
	return msg
}

// extractStackTrace takes a best-effort guess at the stack-trace portion of
// a stderr tail: the run of trailing lines that look like "at ..." frames
// (the shape node/deno/python tracebacks all converge on), working
// backwards from the end.
func extractStackTrace(lines []string) string {
	start := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if looksLikeFrame(trimmed) {
			start = i
			continue
		}
		break
	}
	if start == len(lines) {
		return ""
	}
	return strings.Join(lines[start:], "\n")
}

func looksLikeFrame(line string) bool {
	return strings.HasPrefix(line, "at ") ||
		strings.HasPrefix(line, "File \"") ||
		strings.HasPrefix(line, "  File \"")
}

// Package text strips terminal escape sequences from a running script's
// stderr before it reaches the structured log (§4.8, §4.11): scripts are
// free to color their own diagnostic output, but the log file is
// JSON-per-line and a raw ANSI sequence embedded in a log message just
// shows up as garbage in anything that tails it.
package text

import "strings"

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

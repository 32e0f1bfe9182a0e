package corpus

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultHeadBytes is how much of a candidate file is read for metadata
// parsing (§4.2 step 1).
const DefaultHeadBytes = 16 * 1024

// parsedMetadata holds whatever fields discovery could extract from a
// leading comment block or a top-level `metadata = {...}` object literal.
type parsedMetadata struct {
	Name        string
	Description string
	Shortcut    string
	Schedule    string
	Tags        []string
}

// parseMetadata prefers a `metadata { ... }` assignment over a leading
// `// Key: value` comment block (§4.2 step 2). Neither is fatal to miss:
// callers derive Name from the file stem when both are absent.
func parseMetadata(head string) (parsedMetadata, error) {
	if m, ok := parseMetadataObject(head); ok {
		return m, nil
	}
	if m, ok := parseMetadataComment(head); ok {
		return m, nil
	}
	return parsedMetadata{}, nil
}

// parseMetadataComment scans a leading run of `// Key: value` lines. This is
// a hand-rolled scanner rather than a full JS/TS parser: no library in the
// reference pack (or reasonably adopted from the ecosystem) parses arbitrary
// script-header comment metadata, so this one piece is justified as a
// necessarily stdlib-only component (see DESIGN.md).
func parseMetadataComment(head string) (parsedMetadata, bool) {
	sc := bufio.NewScanner(strings.NewReader(head))
	var m parsedMetadata
	found := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			if found {
				break
			}
			continue
		}
		if !strings.HasPrefix(line, "//") {
			break
		}
		body := strings.TrimSpace(strings.TrimPrefix(line, "//"))
		key, val, ok := strings.Cut(body, ":")
		if !ok {
			break
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		switch key {
		case "name":
			m.Name = val
		case "description":
			m.Description = val
		case "shortcut":
			m.Shortcut = val
		case "schedule":
			m.Schedule = val
		case "tags", "tag":
			m.Tags = splitTags(val)
		default:
			continue
		}
		found = true
	}
	return m, found
}

// parseMetadataObject looks for a top-level `metadata = { ... }` (or
// `export const metadata = {...}` / `const metadata = {...}`) object literal
// and extracts simple `key: "value"` / `key: ['a','b']` pairs. It is
// deliberately tolerant: it does not evaluate expressions, only literal
// strings and string arrays, which is all script metadata needs.
func parseMetadataObject(head string) (parsedMetadata, bool) {
	idx := strings.Index(head, "metadata")
	if idx < 0 {
		return parsedMetadata{}, false
	}
	open := strings.IndexByte(head[idx:], '{')
	if open < 0 {
		return parsedMetadata{}, false
	}
	start := idx + open
	depth := 0
	end := -1
	for i := start; i < len(head); i++ {
		switch head[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		return parsedMetadata{}, false
	}
	body := head[start+1 : end]

	var m parsedMetadata
	found := false
	for _, field := range splitTopLevelFields(body) {
		key, val, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"'`)
		val = strings.TrimSpace(val)
		switch strings.ToLower(key) {
		case "name":
			m.Name = unquote(val)
		case "description":
			m.Description = unquote(val)
		case "shortcut":
			m.Shortcut = unquote(val)
		case "schedule", "cron":
			m.Schedule = unquote(val)
		case "tags", "tag":
			m.Tags = unquoteList(val)
		default:
			continue
		}
		found = true
	}
	return m, found
}

func splitTopLevelFields(body string) []string {
	var fields []string
	depth := 0
	last := 0
	for i, r := range body {
		switch r {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case ',':
			if depth == 0 {
				fields = append(fields, body[last:i])
				last = i + 1
			}
		}
	}
	if last < len(body) {
		fields = append(fields, body[last:])
	}
	return fields
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ",")
	return strings.Trim(s, `"'`)
}

func unquoteList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ",")
	s = strings.Trim(s, "[]")
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = unquote(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitTags(val string) []string {
	var out []string
	for _, t := range strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ' ' }) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// nameFromPath derives a display name from the file stem when no metadata
// source is present (§4.2 step 2 fallback).
func nameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}

// metadataParseError wraps a metadata-derived failure with file context,
// matching the rest of the codebase's wrap-at-each-hop error style.
func metadataParseError(path string, err error) error {
	return fmt.Errorf("corpus: parsing metadata for %s: %w", path, err)
}

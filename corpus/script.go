// Package corpus discovers script files, parses their metadata, and
// maintains an indexed, snapshot-able collection keyed by path (C2).
package corpus

import "time"

// Variant distinguishes a plain script file from a scriptlet extracted out
// of a markdown bundle (§4.2).
type Variant string

const (
	VariantScript    Variant = "script"
	VariantScriptlet Variant = "scriptlet"
)

// Section is the display grouping a Script falls into (§4.2 step 3).
type Section string

const (
	SectionMain   Section = "MAIN"
	SectionRecent Section = "RECENT"
)

// Script is one runnable entry in the corpus. Path is the unique key.
type Script struct {
	Path        string
	Name        string
	Description string
	Shortcut    string
	Schedule    string
	Tags        []string
	Section     Section
	Variant     Variant

	// Scriptlet-only fields: the bundle this entry was extracted from and
	// the fenced block's body/interpreter tag.
	BundlePath  string
	Interpreter string
	Body        string

	ModTime time.Time
	Size    int64

	// MetadataError is set (non-nil) when metadata parsing failed and the
	// Script was recorded with filename-derived defaults instead (§4.2 step 4).
	MetadataError error
}

// DisplaySection computes the grouping used by the alphabetic sections of
// an empty-query search (§4.4): the first ASCII letter of Name (of either
// case), folded to upper-case, or SectionMain if Name has no ASCII letter.
func (s Script) DisplaySection() Section {
	for _, r := range s.Name {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if r >= 'A' && r <= 'Z' {
			return Section(string(r))
		}
	}
	return SectionMain
}

// SearchText is the text C4 fuzzy-matches against: name, description, tags.
func (s Script) SearchText() string {
	text := s.Name
	if s.Description != "" {
		text += " " + s.Description
	}
	for _, tag := range s.Tags {
		text += " " + tag
	}
	return text
}

// Package style centralizes the lipgloss styles the TUI renders with,
// trimmed from the teacher's full terminal-client style sheet
// (ui/style/styles.go) down to what the launcher's list/prompt surfaces
// actually need.
package style

import "github.com/charmbracelet/lipgloss"

// Styles holds every lipgloss.Style the UI package renders with.
type Styles struct {
	App lipgloss.Style

	ListBorder    lipgloss.Style
	ListHeader    lipgloss.Style
	ListSelected  lipgloss.Style
	ListNormal    lipgloss.Style
	ListMatch     lipgloss.Style
	ListMatchSel  lipgloss.Style
	ListSection   lipgloss.Style

	InputPrompt lipgloss.Style
	InputText   lipgloss.Style

	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// Overrides is the decoded shape of the user's theme.toml (§4.5 "theme
// file watched by C5"): a flat table of color names keyed by the style they
// recolor. Fields left at "" keep the built-in default.
type Overrides struct {
	ListBorderColor   string `toml:"list_border_color"`
	ListSelectedBG    string `toml:"list_selected_bg"`
	ListSelectedFG    string `toml:"list_selected_fg"`
	ListMatchColor    string `toml:"list_match_color"`
	InputPromptColor  string `toml:"input_prompt_color"`
	ErrorColor        string `toml:"error_color"`
	WarningColor      string `toml:"warning_color"`
}

// Apply layers non-empty fields of o onto base and returns the result,
// leaving base untouched.
func (o Overrides) Apply(base Styles) Styles {
	s := base
	if o.ListBorderColor != "" {
		s.ListBorder = s.ListBorder.BorderForeground(lipgloss.Color(o.ListBorderColor))
	}
	if o.ListSelectedBG != "" {
		s.ListSelected = s.ListSelected.Background(lipgloss.Color(o.ListSelectedBG))
	}
	if o.ListSelectedFG != "" {
		s.ListSelected = s.ListSelected.Foreground(lipgloss.Color(o.ListSelectedFG))
	}
	if o.ListMatchColor != "" {
		s.ListMatch = s.ListMatch.Foreground(lipgloss.Color(o.ListMatchColor))
		s.ListMatchSel = s.ListMatchSel.Foreground(lipgloss.Color(o.ListMatchColor))
	}
	if o.InputPromptColor != "" {
		s.InputPrompt = s.InputPrompt.Foreground(lipgloss.Color(o.InputPromptColor))
	}
	if o.ErrorColor != "" {
		s.Error = s.Error.Foreground(lipgloss.Color(o.ErrorColor))
	}
	if o.WarningColor != "" {
		s.Warning = s.Warning.Foreground(lipgloss.Color(o.WarningColor))
	}
	return s
}

// Default returns the launcher's built-in style set.
func Default() Styles {
	return Styles{
		App: lipgloss.NewStyle(),

		ListBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		ListHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		ListSelected: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")),
		ListNormal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		ListMatch: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		ListMatchSel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("62")).
			Bold(true),
		ListSection: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Bold(true),

		InputPrompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		InputText: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
	}
}

// Package ui implements the terminal front end: the main launcher overlay
// (corpus search + list) and the active-prompt renderer the executor's
// scripts drive via the wire protocol. The bubbletea Model/Update/View
// shape, window-size handling, and key-batching style are adapted from the
// teacher's ui/model.go, generalized from "MUD client scrollback + input
// line" to "script launcher list + one active prompt at a time" (§4.6,
// §4.7).
package ui

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/drake/scriptkit/corpus"
	"github.com/drake/scriptkit/frecency"
	"github.com/drake/scriptkit/obs"
	"github.com/drake/scriptkit/prompt"
	"github.com/drake/scriptkit/protocol"
	"github.com/drake/scriptkit/search"
	"github.com/drake/scriptkit/ui/list"
	"github.com/drake/scriptkit/ui/style"
)

// LaunchFunc spawns a script invocation for the given path. The UI layer
// never touches exec.Cmd directly; it only asks the host shell to launch
// one (mirrors prompt.SubmitFunc's separation of "decide" from "do").
type LaunchFunc func(scriptPath string) error

// Model is the bubbletea model for the launcher overlay.
type Model struct {
	styles style.Styles

	input  textinput.Model
	editor textarea.Model // buffer for the editor/template variants
	list   *list.List

	scorer   *frecency.Store
	cache    *search.Cache
	snapshot *corpus.Snapshot
	launch   LaunchFunc
	log      obs.Logger

	machine *prompt.Machine
	active  *protocol.PromptMessage

	multiSelected map[int]bool // select: indices toggled on

	fieldValues []string // fields: one value per msg.Fields entry
	fieldFocus  int

	formNames   []string // form: field names scraped from msg.HTML
	formValues  []string
	formFocus   int

	width, height int
	quitting      bool
	hidden        bool
}

// NewModel builds the launcher overlay model. machine is wired with this
// Model as its RenderSurface by the caller immediately after construction
// (see Bind).
func NewModel(scorer *frecency.Store, launch LaunchFunc, log obs.Logger) *Model {
	styles := style.Default()
	ti := textinput.New()
	ti.Placeholder = "Search scripts..."
	ti.Focus()

	ta := textarea.New()

	return &Model{
		styles: styles,
		input:  ti,
		editor: ta,
		list:   list.New(10, styles),
		scorer: scorer,
		cache:  search.NewCache(search.DefaultCacheSize),
		launch: launch,
		log:    log,
	}
}

// Bind attaches the prompt state machine this model renders for. Kept out
// of NewModel because the machine needs this Model as its RenderSurface,
// and Go has no way to hand a not-yet-constructed value to its own
// constructor's arguments.
func (m *Model) Bind(machine *prompt.Machine) { m.machine = machine }

// SetStyles swaps the active style set, e.g. after a theme file reload
// (§4.5).
func (m *Model) SetStyles(styles style.Styles) {
	m.styles = styles
	m.list.SetStyles(styles)
}

// SetSnapshot installs a new corpus snapshot and re-runs the current query
// against it (called whenever watch.Watcher reports a change, §4.3).
func (m *Model) SetSnapshot(snap *corpus.Snapshot) {
	m.snapshot = snap
	m.refreshList()
}

// Render implements prompt.RenderSurface: displays msg as the active
// prompt, seeding whatever per-variant editing state §4.7 requires (the
// editor/template buffer, the fields/form value slots, the select toggle
// set, startPath/secret handling for path/env).
func (m *Model) Render(msg protocol.PromptMessage) {
	cp := msg
	m.active = &cp
	m.input.SetValue("")
	m.input.EchoMode = textinput.EchoNormal
	m.input.Placeholder = msg.Placeholder
	m.multiSelected = nil
	m.fieldValues = nil
	m.fieldFocus = 0
	m.formNames = nil
	m.formValues = nil
	m.formFocus = 0

	switch msg.Type {
	case protocol.TypeSelect:
		m.multiSelected = make(map[int]bool, len(msg.Choices))
		m.refreshSelectRows()
		return

	case protocol.TypeEditor:
		m.editor.SetValue(msg.Content)
		m.editor.Focus()

	case protocol.TypeTemplate:
		m.editor.SetValue(msg.Template)
		m.editor.Focus()

	case protocol.TypeFields:
		m.fieldValues = make([]string, len(msg.Fields))
		for i, f := range msg.Fields {
			m.fieldValues[i] = f.Value
		}
		if len(msg.Fields) > 0 {
			m.input.SetValue(m.fieldValues[0])
			m.input.Placeholder = fieldPlaceholder(msg.Fields[0])
		}

	case protocol.TypeForm:
		m.formNames = parseFormFieldNames(msg.HTML)
		m.formValues = make([]string, len(m.formNames))
		if len(m.formNames) > 0 {
			m.input.Placeholder = m.formNames[0]
		}

	case protocol.TypePath:
		m.input.SetValue(msg.StartPath)
		m.input.Placeholder = msg.Hint

	case protocol.TypeEnv:
		m.input.Placeholder = msg.Key
		if msg.Secret {
			m.input.EchoMode = textinput.EchoPassword
		}
	}

	if len(msg.Choices) > 0 {
		rows := make([]list.Row, len(msg.Choices))
		for i, c := range msg.Choices {
			rows[i] = list.Row{Key: c.Value, Text: c.Name, Description: c.Description}
		}
		m.list.SetRows(rows)
	} else {
		m.list.SetRows(nil)
	}
}

// Clear implements prompt.RenderSurface: tears down the active prompt and
// returns to the launcher's own search view.
func (m *Model) Clear() {
	m.active = nil
	m.input.SetValue("")
	m.input.Placeholder = "Search scripts..."
	m.input.EchoMode = textinput.EchoNormal
	m.editor.Blur()
	m.refreshList()
}

func (m *Model) refreshList() {
	if m.active != nil || m.snapshot == nil {
		return
	}
	result := m.cache.Search(m.input.Value(), m.snapshot, m.scorer)
	m.list.SetRows(rowsFromResult(result, m.snapshot))
}

// refreshSelectRows rebuilds the list rows for an active `select` prompt,
// marking each row's current toggle state (§4.7 "Space toggles selection").
func (m *Model) refreshSelectRows() {
	rows := make([]list.Row, len(m.active.Choices))
	for i, c := range m.active.Choices {
		mark := "[ ] "
		if m.multiSelected[i] {
			mark = "[x] "
		}
		rows[i] = list.Row{Key: c.Value, Text: mark + c.Name, Description: c.Description}
	}
	m.list.SetRows(rows)
}

func (m *Model) toggleSelected() {
	row, ok := m.list.Selected()
	if !ok {
		return
	}
	idx := -1
	for i, c := range m.active.Choices {
		if c.Value == row.Key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if m.multiSelected[idx] {
		delete(m.multiSelected, idx)
	} else {
		m.multiSelected[idx] = true
	}
	m.refreshSelectRows()
}

// cycleFieldFocus saves the current input into the fields slot it belongs
// to and moves focus by delta, wrapping (§4.7 "Tab/Shift-Tab move focus").
func (m *Model) cycleFieldFocus(delta int) {
	if len(m.fieldValues) == 0 {
		return
	}
	m.fieldValues[m.fieldFocus] = m.input.Value()
	n := len(m.fieldValues)
	m.fieldFocus = ((m.fieldFocus+delta)%n + n) % n
	m.input.SetValue(m.fieldValues[m.fieldFocus])
	if m.active != nil && m.fieldFocus < len(m.active.Fields) {
		m.input.Placeholder = fieldPlaceholder(m.active.Fields[m.fieldFocus])
	}
}

func (m *Model) cycleFormFocus(delta int) {
	if len(m.formValues) == 0 {
		return
	}
	m.formValues[m.formFocus] = m.input.Value()
	n := len(m.formValues)
	m.formFocus = ((m.formFocus+delta)%n + n) % n
	m.input.SetValue(m.formValues[m.formFocus])
	m.input.Placeholder = m.formNames[m.formFocus]
}

func fieldPlaceholder(f protocol.FormField) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

var formFieldNamePattern = regexp.MustCompile(`name=["']([^"']+)["']`)

// parseFormFieldNames extracts field names from a caller-supplied HTML form
// body (§4.7 "form"): the value of every name="..." or name='...'
// attribute, on any element, in order of first occurrence. A single regular
// expression does the scan, since no HTML parser lives in the pack or is
// reasonably importable here.
func parseFormFieldNames(html string) []string {
	matches := formFieldNamePattern.FindAllStringSubmatch(html, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, mt := range matches {
		name := mt[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// filesFromInput builds the §4.7 "drop" file descriptor list from a
// comma-separated list of paths typed into the filter input: a terminal
// session has no native drag-and-drop surface, so the path list stands in
// for a dropped file set.
func filesFromInput(raw string) []protocol.FileDescriptor {
	var files []protocol.FileDescriptor
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		fd := protocol.FileDescriptor{Path: p, Name: filepath.Base(p)}
		if info, err := os.Stat(p); err == nil {
			fd.Size = info.Size()
		}
		files = append(files, fd)
	}
	return files
}

// hotkeyValueFromKey builds the §4.7 "hotkey" submit payload from the next
// key chord pressed while a hotkey prompt is active. Terminals never report
// a Command modifier distinctly from Control, and Option arrives as Alt, so
// Command is always false here.
func hotkeyValueFromKey(msg tea.KeyMsg) protocol.HotkeyValue {
	s := msg.String()
	return protocol.HotkeyValue{
		Key:      lastKeyToken(s),
		Shift:    strings.Contains(s, "shift+"),
		Option:   msg.Alt,
		Control:  strings.Contains(s, "ctrl+"),
		Shortcut: s,
	}
}

func lastKeyToken(s string) string {
	if i := strings.LastIndex(s, "+"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func rowsFromResult(result search.SearchResult, snap *corpus.Snapshot) []list.Row {
	var rows []list.Row
	for _, g := range result.Groups {
		for i, item := range g.Items {
			if item.Index < 0 || item.Index >= len(snap.Scripts) {
				continue
			}
			sc := snap.Scripts[item.Index]
			section := ""
			if i == 0 {
				section = g.Label
			}
			rows = append(rows, list.Row{
				Key:         sc.Path,
				Text:        sc.Name,
				Description: sc.Description,
				Positions:   item.Positions,
				Section:     section,
			})
		}
	}
	return rows
}

// ShowMsg/HideMsg/SetFilterMsg are sent by hostshell in response to the
// three non-spawn external control verbs (§4.10, §6.2): `show`, `hide`, and
// `setFilter`. They are deliberately distinct tea.Msg types rather than
// reusing tea.KeyMsg, since they arrive off the host's own stdin, not the
// terminal's keyboard.
type ShowMsg struct{}
type HideMsg struct{}
type SetFilterMsg struct{ Text string }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, textinput.Blink)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetWidth(msg.Width)
		m.editor.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if m.hidden {
			return m, nil
		}
		return m.handleKey(msg)

	case ShowMsg:
		m.hidden = false
		return m, nil

	case HideMsg:
		m.hidden = true
		return m, nil

	case SetFilterMsg:
		m.input.SetValue(msg.Text)
		if m.active == nil {
			m.refreshList()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// hotkey captures the very next chord verbatim (§4.7 "capture the next
	// key-chord the user presses"), including what would otherwise be a
	// cancel or navigation key.
	if m.active != nil && m.active.Type == protocol.TypeHotkey {
		v := prompt.EncodeHotkeyValue(hotkeyValueFromKey(msg))
		if m.machine != nil {
			m.machine.Submit(&v)
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m.handleCancel()

	case tea.KeyUp:
		m.list.Move(list.Up)
		return m, nil
	case tea.KeyDown:
		m.list.Move(list.Down)
		return m, nil
	case tea.KeyPgUp:
		m.list.Flush()
		m.list.PageUp()
		return m, nil
	case tea.KeyPgDown:
		m.list.Flush()
		m.list.PageDown()
		return m, nil
	case tea.KeyHome:
		m.list.Flush()
		m.list.Home()
		return m, nil
	case tea.KeyEnd:
		m.list.Flush()
		m.list.End()
		return m, nil

	case tea.KeySpace:
		if m.active != nil && prompt.IsMultiSelect(m.active.Type) {
			m.toggleSelected()
			return m, nil
		}

	case tea.KeyTab:
		if m.active != nil {
			switch m.active.Type {
			case protocol.TypeFields:
				m.cycleFieldFocus(1)
				return m, nil
			case protocol.TypeForm:
				m.cycleFormFocus(1)
				return m, nil
			}
		}
	case tea.KeyShiftTab:
		if m.active != nil {
			switch m.active.Type {
			case protocol.TypeFields:
				m.cycleFieldFocus(-1)
				return m, nil
			case protocol.TypeForm:
				m.cycleFormFocus(-1)
				return m, nil
			}
		}

	case tea.KeyCtrlS:
		if m.active != nil && (m.active.Type == protocol.TypeEditor || m.active.Type == protocol.TypeTemplate) {
			return m.submit()
		}

	case tea.KeyEnter:
		m.list.Flush()
		return m.submit()
	}

	m.list.Flush()

	if m.active != nil {
		switch m.active.Type {
		case protocol.TypeEditor, protocol.TypeTemplate:
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		case protocol.TypeDiv:
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	switch {
	case m.active == nil:
		m.refreshList()
	case m.active.Type == protocol.TypeFields && len(m.fieldValues) > 0:
		m.fieldValues[m.fieldFocus] = m.input.Value()
	case m.active.Type == protocol.TypeForm && len(m.formValues) > 0:
		m.formValues[m.formFocus] = m.input.Value()
	}
	return m, cmd
}

// handleCancel is the Escape/Ctrl-C path. For the arg/mini/micro family a
// non-empty filter is cleared first rather than cancelling outright (§4.7).
func (m *Model) handleCancel() (tea.Model, tea.Cmd) {
	if m.active == nil {
		m.quitting = true
		return m, tea.Quit
	}
	if m.machine == nil {
		return m, nil
	}
	if prompt.CancelClearsFilterFirst(m.active.Type, m.input.Value()) {
		m.input.SetValue("")
		m.refreshList()
		return m, nil
	}
	m.machine.Cancel()
	return m, nil
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if m.active == nil {
		row, ok := m.list.Selected()
		if !ok {
			return m, nil
		}
		if m.launch != nil {
			if err := m.launch(row.Key); err != nil && m.log != nil {
				m.log.Errorf("launch failed path=%s err=%v", row.Key, err)
			}
		}
		return m, nil
	}

	if m.machine == nil {
		return m, nil
	}

	switch {
	case prompt.AcknowledgeOnly(m.active.Type):
		m.machine.Submit(nil)

	case prompt.IsMultiSelect(m.active.Type):
		selected := make([]int, 0, len(m.multiSelected))
		for i := range m.multiSelected {
			selected = append(selected, i)
		}
		sort.Ints(selected)
		v := prompt.EncodeSelectValue(m.active.Choices, selected)
		m.machine.Submit(&v)

	case m.active.Type == protocol.TypeEditor || m.active.Type == protocol.TypeTemplate:
		v := m.editor.Value()
		m.machine.Submit(&v)

	case m.active.Type == protocol.TypeFields:
		if len(m.fieldValues) > 0 {
			m.fieldValues[m.fieldFocus] = m.input.Value()
		}
		v := prompt.EncodeFieldsValue(m.fieldValues)
		m.machine.Submit(&v)

	case m.active.Type == protocol.TypeForm:
		if len(m.formValues) > 0 {
			m.formValues[m.formFocus] = m.input.Value()
		}
		values := make(map[string]string, len(m.formNames))
		for i, name := range m.formNames {
			values[name] = m.formValues[i]
		}
		v := prompt.EncodeFormValue(values)
		m.machine.Submit(&v)

	case m.active.Type == protocol.TypeDrop:
		v := prompt.EncodeDropValue(filesFromInput(m.input.Value()))
		m.machine.Submit(&v)

	case prompt.ArgValueOnEmptyChoices(m.active.Type, m.active.Choices):
		v := m.input.Value()
		m.machine.Submit(&v)

	case len(m.active.Choices) > 0:
		row, ok := m.list.Selected()
		if !ok {
			m.machine.Submit(nil)
			return m, nil
		}
		v := row.Key
		m.machine.Submit(&v)

	case m.active.Type == protocol.TypePath || m.active.Type == protocol.TypeEnv:
		v := m.input.Value()
		m.machine.Submit(&v)

	case prompt.IsShapeOnly(m.active.Type):
		m.machine.Submit(nil)

	default:
		v := m.input.Value()
		m.machine.Submit(&v)
	}

	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.hidden {
		return ""
	}

	if m.active != nil {
		switch m.active.Type {
		case protocol.TypeDiv:
			return m.styles.ListNormal.Render(m.active.HTML)
		case protocol.TypeEditor, protocol.TypeTemplate:
			return m.editor.View()
		}
	}

	var b strings.Builder
	b.WriteString(m.styles.InputPrompt.Render("> "))
	b.WriteString(m.styles.InputText.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.list.View())
	return b.String()
}

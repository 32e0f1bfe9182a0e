package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/drake/scriptkit/corpus"
	"github.com/drake/scriptkit/frecency"
	"github.com/drake/scriptkit/prompt"
	"github.com/drake/scriptkit/protocol"
	"github.com/drake/scriptkit/ui/list"
)

func testScorer(t *testing.T) *frecency.Store {
	t.Helper()
	return frecency.Load(filepath.Join(t.TempDir(), "frecency.json"), func(string, ...any) {})
}

func snapshotWith(names ...string) *corpus.Snapshot {
	scripts := make([]corpus.Script, len(names))
	for i, n := range names {
		scripts[i] = corpus.Script{Path: "/scripts/" + n, Name: n}
	}
	return &corpus.Snapshot{Version: 1, Scripts: scripts}
}

func TestModelRefreshListPopulatesRowsFromSnapshot(t *testing.T) {
	m := NewModel(testScorer(t), nil, nil)
	m.SetSnapshot(snapshotWith("deploy.js", "backup.sh"))

	_, ok := m.list.Selected()
	require.True(t, ok)
}

func TestModelLaunchesSelectedScriptOnEnter(t *testing.T) {
	var launched string
	m := NewModel(testScorer(t), func(path string) error {
		launched = path
		return nil
	}, nil)
	m.SetSnapshot(snapshotWith("deploy.js"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, "/scripts/deploy.js", launched)
}

func TestModelRendersActivePromptAndSubmitsChoice(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{
		Type: protocol.TypeArg,
		ID:   "p1",
		Choices: []protocol.Choice{
			{Name: "one", Value: "1"},
			{Name: "two", Value: "2"},
		},
	})

	require.NotNil(t, m.active)
	row, ok := m.list.Selected()
	require.True(t, ok)
	require.Equal(t, "one", row.Text)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, submitted)
	require.NotNil(t, submitted.Value)
	require.Equal(t, "1", *submitted.Value)
	require.Nil(t, m.active)
}

func TestModelIgnoresKeysWhileHidden(t *testing.T) {
	var launched string
	m := NewModel(testScorer(t), func(path string) error {
		launched = path
		return nil
	}, nil)
	m.SetSnapshot(snapshotWith("deploy.js"))

	_, _ = m.Update(HideMsg{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Nil(t, cmd)
	require.Empty(t, launched)
	require.Equal(t, "", m.View())
}

func TestModelEscapeClearsFilterBeforeCancelling(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{Type: protocol.TypeMini, ID: "p1", Placeholder: "name?"})
	for _, r := range "abc" {
		_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Equal(t, "abc", m.input.Value())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Nil(t, submitted, "first Escape should clear the filter, not cancel")
	require.Equal(t, "", m.input.Value())
	require.NotNil(t, m.active)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, submitted, "second Escape with an empty filter should cancel")
	require.Nil(t, submitted.Value)
	require.Nil(t, m.active)
}

func TestModelDivAcknowledgesOnEnterAndEscape(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{Type: protocol.TypeDiv, ID: "p1", HTML: "<p>hi</p>"})
	require.Contains(t, m.View(), "hi")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, submitted)
	require.Nil(t, submitted.Value)

	submitted = nil
	machine.Receive(protocol.PromptMessage{Type: protocol.TypeDiv, ID: "p2", HTML: "<p>bye</p>"})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, submitted)
	require.Nil(t, submitted.Value)
}

func TestModelSelectTogglesAndSubmitsJSONArray(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{
		Type: protocol.TypeSelect,
		ID:   "p1",
		Choices: []protocol.Choice{
			{Name: "one", Value: "1"},
			{Name: "two", Value: "2"},
		},
	})

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})

	m.list.Move(list.Down)
	time.Sleep(list.HeldKeyWindow + 20*time.Millisecond)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, submitted)
	require.NotNil(t, submitted.Value)
	require.Equal(t, `["1","2"]`, *submitted.Value)
}

func TestModelFieldsCyclesFocusAndSubmitsJSONArray(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{
		Type: protocol.TypeFields,
		ID:   "p1",
		Fields: []protocol.FormField{
			{Name: "first"},
			{Name: "second"},
		},
	})

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, submitted)
	require.NotNil(t, submitted.Value)
	require.Equal(t, `["a","b"]`, *submitted.Value)
}

func TestModelEditorLoadsContentAndSubmitsOnCtrlS(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{Type: protocol.TypeEditor, ID: "p1", Content: "seed"})
	require.Equal(t, "seed", m.editor.Value())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, submitted)
	require.NotNil(t, submitted.Value)
	require.Equal(t, "seed", *submitted.Value)
}

func TestModelPathSubmitsEditedValue(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{Type: protocol.TypePath, ID: "p1", StartPath: "/tmp"})
	require.Equal(t, "/tmp", m.input.Value())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, submitted)
	require.NotNil(t, submitted.Value)
	require.Equal(t, "/tmp", *submitted.Value)
}

func TestModelHotkeyCapturesNextChordIncludingEscape(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{Type: protocol.TypeHotkey, ID: "p1"})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, submitted)
	require.NotNil(t, submitted.Value)
	require.Contains(t, *submitted.Value, "esc")
}

func TestModelCancelsActivePromptOnEscape(t *testing.T) {
	var submitted *protocol.SubmitMessage
	m := NewModel(testScorer(t), nil, nil)
	machine := prompt.New(m, func(msg protocol.SubmitMessage) {
		submitted = &msg
	}, nil)
	m.Bind(machine)

	machine.Receive(protocol.PromptMessage{Type: protocol.TypeMini, ID: "p2", Placeholder: "name?"})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, submitted)
	require.Nil(t, submitted.Value)
	require.Nil(t, m.active)
}

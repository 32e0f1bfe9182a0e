package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drake/scriptkit/protocol"
)

type fakeSurface struct {
	rendered []protocol.PromptMessage
	cleared  int
}

func (f *fakeSurface) Render(msg protocol.PromptMessage) { f.rendered = append(f.rendered, msg) }
func (f *fakeSurface) Clear()                             { f.cleared++ }

func TestReceiveThenSubmitEmitsExactlyOneSubmit(t *testing.T) {
	surf := &fakeSurface{}
	var submits []protocol.SubmitMessage
	m := New(surf, func(s protocol.SubmitMessage) { submits = append(submits, s) }, nil)

	m.Receive(protocol.PromptMessage{Type: protocol.TypeArg, ID: "p1"})
	require.Equal(t, Rendering, m.State())

	val := "hello"
	m.Submit(&val)

	require.Len(t, submits, 1)
	require.Equal(t, "p1", submits[0].ID)
	require.Equal(t, "hello", *submits[0].Value)
	require.Equal(t, Idle, m.State())
}

func TestCancelSubmitsNullValue(t *testing.T) {
	surf := &fakeSurface{}
	var submits []protocol.SubmitMessage
	m := New(surf, func(s protocol.SubmitMessage) { submits = append(submits, s) }, nil)

	m.Receive(protocol.PromptMessage{Type: protocol.TypeDiv, ID: "p2"})
	m.Cancel()

	require.Len(t, submits, 1)
	require.Nil(t, submits[0].Value)
}

func TestSupersedingPromptDoesNotEmitImplicitSubmit(t *testing.T) {
	surf := &fakeSurface{}
	var submits []protocol.SubmitMessage
	m := New(surf, func(s protocol.SubmitMessage) { submits = append(submits, s) }, nil)

	m.Receive(protocol.PromptMessage{Type: protocol.TypeArg, ID: "p1"})
	m.Receive(protocol.PromptMessage{Type: protocol.TypeArg, ID: "p2"})

	require.Empty(t, submits, "superseding a prompt must not emit a submit for the old id")
	cur, ok := m.Current()
	require.True(t, ok)
	require.Equal(t, "p2", cur.ID)
}

func TestExitObservedDiscardsPendingPromptWithoutSubmit(t *testing.T) {
	surf := &fakeSurface{}
	var submits []protocol.SubmitMessage
	m := New(surf, func(s protocol.SubmitMessage) { submits = append(submits, s) }, nil)

	m.Receive(protocol.PromptMessage{Type: protocol.TypeArg, ID: "p1"})
	m.ExitObserved()

	require.Empty(t, submits)
	require.Equal(t, Idle, m.State())
	_, ok := m.Current()
	require.False(t, ok)
}

func TestSubmitAfterExitIsNoOp(t *testing.T) {
	surf := &fakeSurface{}
	var submits []protocol.SubmitMessage
	m := New(surf, func(s protocol.SubmitMessage) { submits = append(submits, s) }, nil)

	m.Receive(protocol.PromptMessage{Type: protocol.TypeArg, ID: "p1"})
	m.ExitObserved()

	val := "late"
	m.Submit(&val)
	require.Empty(t, submits, "a late submit after exit must be dropped")
}

package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drake/scriptkit/protocol"
)

type immediateClock struct{}

func (immediateClock) AfterFunc(delayMS int, fn func()) func() {
	fn()
	return func() {}
}

func fakeAutoSubmit(t *testing.T, enabled bool, override string, hasOverride bool) *AutoSubmit {
	t.Helper()
	return &AutoSubmit{
		enabled:     enabled,
		delay:       time.Millisecond,
		overrideVal: override,
		hasOverride: hasOverride,
		clock:       immediateClock{},
	}
}

func TestAutoSubmitDisabledByDefault(t *testing.T) {
	a := NewAutoSubmitFromEnv()
	require.False(t, a.Enabled())
}

func TestAutoSubmitUsesFirstChoiceForArg(t *testing.T) {
	a := fakeAutoSubmit(t, true, "", false)
	require.Equal(t, "first-val", a.valueFor(protocol.PromptMessage{
		Type:    protocol.TypeArg,
		Choices: []protocol.Choice{{Name: "First", Value: "first-val"}, {Name: "Second", Value: "second-val"}},
	}))
}

func TestAutoSubmitUsesSeedContentForEditor(t *testing.T) {
	a := fakeAutoSubmit(t, true, "", false)
	require.Equal(t, "seed body", a.valueFor(protocol.PromptMessage{Type: protocol.TypeEditor, Content: "seed body"}))
}

func TestAutoSubmitOverrideValueWins(t *testing.T) {
	a := fakeAutoSubmit(t, true, "forced", true)
	require.Equal(t, "forced", a.valueFor(protocol.PromptMessage{Type: protocol.TypeEditor, Content: "seed body"}))
}

func TestAutoSubmitScheduleInvokesSubmitFn(t *testing.T) {
	a := fakeAutoSubmit(t, true, "", false)
	var got *string
	a.Schedule(protocol.PromptMessage{Type: protocol.TypeArg, ID: "p1"}, func(v *string) { got = v })
	require.NotNil(t, got)
	require.Equal(t, "", *got)
}

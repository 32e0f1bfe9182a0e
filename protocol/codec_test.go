package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecoderKnownAndUnknownInterleaved(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"arg","id":"p1","placeholder":"Pick","choices":[]}`,
		`{"type":"futureWidget","id":"p2"}`,
		`{"type":"div","id":"p3","html":"<p>hi</p>"}`,
	}, "\n") + "\n"

	dec := NewDecoder(strings.NewReader(input))

	var knownCount int
	for {
		env, ok, err := dec.Next()
		if !ok {
			require.NoError(t, err)
			break
		}
		if err == nil {
			knownCount++
			continue
		}
		var unk *UnknownType
		require.ErrorAs(t, err, &unk)
		require.Equal(t, "futureWidget", unk.Raw)
	}
	require.Equal(t, 2, knownCount)
}

func TestDecoderMalformedLineResyncs(t *testing.T) {
	input := `{"type":"arg","id":"p1"` + "\n" + `{"type":"div","id":"p2","html":"ok"}` + "\n"
	dec := NewDecoder(strings.NewReader(input))

	env, ok, err := dec.Next()
	require.True(t, ok)
	var malformed *MalformedJSON
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, 1, malformed.Line)

	env, ok, err = dec.Next()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, TypeDiv, env.Type)

	msg, err := env.DecodePrompt()
	require.NoError(t, err)
	require.Equal(t, "p2", msg.ID)
	require.Equal(t, "ok", msg.HTML)
}

func TestDecoderRejectsOversizeLine(t *testing.T) {
	huge := `{"type":"arg","id":"p1","placeholder":"` + strings.Repeat("x", 200) + `"}`
	input := huge + "\n" + `{"type":"div","id":"p2","html":"ok"}` + "\n"
	dec := NewDecoderSize(strings.NewReader(input), 64)

	_, ok, err := dec.Next()
	require.True(t, ok)
	var malformed *MalformedJSON
	require.ErrorAs(t, err, &malformed)

	// The decoder must resynchronize at the next newline: the line after
	// the oversize one has to decode normally, not repeat the same error.
	env, ok, err := dec.Next()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, TypeDiv, env.Type)

	msg, err := env.DecodePrompt()
	require.NoError(t, err)
	require.Equal(t, "p2", msg.ID)
	require.Equal(t, "ok", msg.HTML)

	_, ok, err = dec.Next()
	require.False(t, ok)
	require.NoError(t, err)
}

func TestRoundTripSubmit(t *testing.T) {
	var buf strings.Builder
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(NewSubmit("p1", "banana")))

	dec := NewDecoder(strings.NewReader(buf.String()))
	env, ok, err := dec.Next()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, TypeSubmit, env.Type)
}

func TestNewCancelSubmitHasNilValue(t *testing.T) {
	sub := NewCancelSubmit("p3")
	require.Nil(t, sub.Value)
	require.Equal(t, "p3", sub.ID)
}

package sysops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drake/scriptkit/protocol"
)

type capturingLog struct{ lines []string }

func (l *capturingLog) Infof(format string, args ...any) { l.lines = append(l.lines, format) }

func TestDispatchUnsupportedOpsReturnSuccessFalse(t *testing.T) {
	h := &Handlers{}
	var got protocol.ResponseMessage
	respond := ResponderFunc(func(v any) error { got = v.(protocol.ResponseMessage); return nil })

	env := protocol.Envelope{Type: protocol.TypeGetSelectedText, Raw: []byte(`{"type":"getSelectedText","requestId":"r1"}`)}
	h.Dispatch(context.Background(), env, respond)

	require.Equal(t, "r1", got.RequestID)
	require.NotNil(t, got.Success)
	require.False(t, *got.Success)
	require.NotEmpty(t, got.Error)
}

func TestClipboardHistoryListAndRemove(t *testing.T) {
	ch := NewClipboardHandler(10)
	ch.record("first")
	ch.record("second")
	require.Equal(t, []string{"second", "first"}, ch.list())

	require.True(t, ch.remove(0))
	require.Equal(t, []string{"first"}, ch.list())
	require.False(t, ch.remove(5))
}

func TestFileSearchFindsMatchesUnderRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deploy.sh"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	fs := &FileSearchHandler{Root: dir, Limit: 10}
	matches, err := fs.Search(context.Background(), "deploy")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Contains(t, matches[0], "deploy.sh")
}

func TestFileSearchSkipsHiddenEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "config"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("x"), 0o644))

	fs := &FileSearchHandler{Root: dir}
	matches, err := fs.Search(context.Background(), "config")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestNotifyDispatchesToHandler(t *testing.T) {
	log := &capturingLog{}
	h := &Handlers{Notify: LoggingNotify(log)}
	env := protocol.Envelope{Type: protocol.TypeNotify, Raw: []byte(`{"type":"notify","title":"hi","body":"there"}`)}
	h.Dispatch(context.Background(), env, ResponderFunc(func(any) error { return nil }))
	require.NotEmpty(t, log.lines)
}

func TestWindowActionReportsUnsupported(t *testing.T) {
	h := &Handlers{}
	var got protocol.ResponseMessage
	env := protocol.Envelope{Type: protocol.TypeWindowAction, Raw: []byte(`{"type":"windowAction","requestId":"r2","action":"focus"}`)}
	h.Dispatch(context.Background(), env, ResponderFunc(func(v any) error { got = v.(protocol.ResponseMessage); return nil }))
	require.False(t, *got.Success)
}

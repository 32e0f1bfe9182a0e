package executor

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drake/scriptkit/protocol"
)

type recordingRouter struct {
	mu      sync.Mutex
	prompts []protocol.PromptMessage
	exits   []ExitResult
}

func (r *recordingRouter) RoutePrompt(id string, msg protocol.PromptMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, msg)
}
func (r *recordingRouter) RouteRequest(id string, env protocol.Envelope) {}
func (r *recordingRouter) RouteExit(id string, result ExitResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exits = append(r.exits, result)
}

type nopLog struct{}

func (nopLog) Infof(string, ...any)  {}
func (nopLog) Warnf(string, ...any)  {}
func (nopLog) Errorf(string, ...any) {}

// writeEchoScript writes a shell script (run as /bin/sh's argument) that
// emits one arg prompt on stdout, reads one line from stdin, writes that
// line to stderr, and exits 0. This stands in for a real script child
// without depending on node/python being installed in the test environment.
func writeEchoScript(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "echo.sh")
	script := "#!/bin/sh\n" +
		"echo '{\"type\":\"arg\",\"id\":\"p1\",\"placeholder\":\"go\"}'\n" +
		"read line\n" +
		"echo \"$line\" 1>&2\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestSpawnRoutesPromptAndObservesExit(t *testing.T) {
	dir := t.TempDir()
	script := writeEchoScript(t, dir)

	router := &recordingRouter{}
	ex := New(router, nopLog{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inv, err := ex.Spawn(ctx, "/bin/sh", script)
	require.NoError(t, err)
	require.NotEmpty(t, inv.ID)

	require.Eventually(t, func() bool {
		router.mu.Lock()
		defer router.mu.Unlock()
		return len(router.prompts) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, inv.Send(ctx, protocol.NewSubmit("p1", "hello")))

	require.Eventually(t, func() bool {
		router.mu.Lock()
		defer router.mu.Unlock()
		return len(router.exits) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return ex.count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStderrTailStripsANSIEscapes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colorful.sh")
	script := "#!/bin/sh\nprintf '\\033[31mboom\\033[0m\\n' 1>&2\nexit 1\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	router := &recordingRouter{}
	ex := New(router, nopLog{})

	_, err := ex.Spawn(context.Background(), "/bin/sh", path)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		router.mu.Lock()
		defer router.mu.Unlock()
		return len(router.exits) == 1
	}, 2*time.Second, 10*time.Millisecond)

	router.mu.Lock()
	defer router.mu.Unlock()
	require.Equal(t, []string{"boom"}, router.exits[0].StderrTail)
}

func TestCancelClosesStdinAndObservesExit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sleep.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nread line\nexit 0\n"), 0o755))

	router := &recordingRouter{}
	ex := New(router, nopLog{})

	inv, err := ex.Spawn(context.Background(), "/bin/sh", path)
	require.NoError(t, err)

	inv.Cancel()

	require.Eventually(t, func() bool {
		router.mu.Lock()
		defer router.mu.Unlock()
		return len(router.exits) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSynthesizeErrorOnNonZeroExit(t *testing.T) {
	result := ExitResult{
		ScriptPath: "/scripts/bad.js",
		ExitCode:   1,
		StderrTail: []string{"TypeError: boom", "at Object.<anonymous> (/scripts/bad.js:3:1)"},
	}
	msg := SynthesizeError(result)
	require.Equal(t, "/scripts/bad.js", msg.ScriptPath)
	require.Contains(t, msg.ErrorMessage, "1")
	require.Contains(t, msg.StackTrace, "at Object")
}

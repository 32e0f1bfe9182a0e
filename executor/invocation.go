package executor

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/drake/scriptkit/protocol"
	"github.com/drake/scriptkit/text"
)

// ExitResult records how an invocation terminated (§4.8 "On child exit").
type ExitResult struct {
	ExitCode    int
	Err         error // non-nil for a launch/wait failure distinct from a non-zero exit
	StderrTail  []string
	ScriptPath  string
}

// Invocation is one running script subprocess: its pipes, reader/writer
// goroutines, and cancellation state. Mirrors the teacher's connection type
// (network/client.go) generalized from one TCP socket to one child process.
type Invocation struct {
	ID          string
	ScriptPath  string
	Interpreter string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	sendQueue chan protocol.SubmitMessage
	respQueue chan any
	done      chan struct{}

	router Router
	log    Logger

	stderrTail   []string
	stderrMu     sync.Mutex
	exitOnce     sync.Once
	exitHandlers []func(ExitResult)
	exitMu       sync.Mutex

	canceled atomic.Bool
}

const stderrTailLines = 20

func newInvocation(ctx context.Context, id, interpreter, scriptPath string, router Router, log Logger) (*Invocation, error) {
	cmd := exec.CommandContext(ctx, interpreter, scriptPath)
	setProcessGroup(cmd) // platform-specific: new process group / job object (§4.8 step 2)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	return &Invocation{
		ID:          id,
		ScriptPath:  scriptPath,
		Interpreter: interpreter,
		cmd:         cmd,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		sendQueue:   make(chan protocol.SubmitMessage, SendQueueCapacity),
		respQueue:   make(chan any, SendQueueCapacity),
		done:        make(chan struct{}),
		router:      router,
		log:         log,
	}, nil
}

// onExit registers a callback invoked exactly once when the child's exit is
// observed.
func (inv *Invocation) onExit(fn func(ExitResult)) {
	inv.exitMu.Lock()
	inv.exitHandlers = append(inv.exitHandlers, fn)
	inv.exitMu.Unlock()
}

func (inv *Invocation) start() {
	if err := inv.cmd.Start(); err != nil {
		inv.finish(ExitResult{ExitCode: -1, Err: err, ScriptPath: inv.ScriptPath})
		return
	}

	// cmd.Wait closes the stdout/stderr pipes, so it must not run until both
	// readers have hit EOF; otherwise trailing output and the stderr tail
	// could be lost.
	var readers sync.WaitGroup
	readers.Add(2)
	go func() { defer readers.Done(); inv.readLoop() }()
	go inv.writeLoop()
	go func() { defer readers.Done(); inv.stderrLoop() }()
	go func() { readers.Wait(); inv.waitLoop() }()
}

// Send enqueues a submit for delivery to the child's stdin. Blocks if the
// bounded queue is full (§4.8 "Back-pressure... producers block... when the
// channel is full").
func (inv *Invocation) Send(ctx context.Context, msg protocol.SubmitMessage) error {
	select {
	case inv.sendQueue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-inv.done:
		return io.ErrClosedPipe
	}
}

// SendResponse enqueues an arbitrary system-op response (or any other
// non-submit message) for delivery to the child's stdin, multiplexed onto
// the same writer goroutine as Send so the two never interleave a
// half-written line.
func (inv *Invocation) SendResponse(ctx context.Context, v any) error {
	select {
	case inv.respQueue <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-inv.done:
		return io.ErrClosedPipe
	}
}

func (inv *Invocation) writeLoop() {
	enc := protocol.NewEncoder(inv.stdin)
	for {
		select {
		case msg, ok := <-inv.sendQueue:
			if !ok {
				return
			}
			if err := enc.Encode(msg); err != nil {
				if inv.log != nil {
					inv.log.Warnf("executor: write to %s failed: %v", inv.ScriptPath, err)
				}
				return
			}
		case v, ok := <-inv.respQueue:
			if !ok {
				return
			}
			if err := enc.Encode(v); err != nil {
				if inv.log != nil {
					inv.log.Warnf("executor: write to %s failed: %v", inv.ScriptPath, err)
				}
				return
			}
		case <-inv.done:
			return
		}
	}
}

func (inv *Invocation) readLoop() {
	dec := protocol.NewDecoder(inv.stdout)
	for {
		env, ok, err := dec.Next()
		if !ok {
			if err != nil && inv.log != nil {
				inv.log.Warnf("executor: read from %s: %v", inv.ScriptPath, err)
			}
			return
		}
		if err != nil {
			// Malformed line or unknown type: logged and dropped, stream
			// continues (§4.1, §4.8 "Unknown types are logged and dropped").
			if inv.log != nil {
				inv.log.Warnf("executor: %s: %v", inv.ScriptPath, err)
			}
			continue
		}

		if protocol.IsPromptType(env.Type) {
			msg, err := env.DecodePrompt()
			if err != nil {
				if inv.log != nil {
					inv.log.Warnf("executor: malformed prompt from %s: %v", inv.ScriptPath, err)
				}
				continue
			}
			inv.router.RoutePrompt(inv.ID, msg)
			continue
		}

		inv.router.RouteRequest(inv.ID, env)
	}
}

func (inv *Invocation) stderrLoop() {
	scanner := bufio.NewScanner(inv.stderr)
	for scanner.Scan() {
		line := text.StripANSI(scanner.Text())
		if inv.log != nil {
			inv.log.Infof("[%s] %s", inv.ScriptPath, line)
		}
		inv.stderrMu.Lock()
		inv.stderrTail = append(inv.stderrTail, line)
		if len(inv.stderrTail) > stderrTailLines {
			inv.stderrTail = inv.stderrTail[len(inv.stderrTail)-stderrTailLines:]
		}
		inv.stderrMu.Unlock()
	}
}

func (inv *Invocation) waitLoop() {
	err := inv.cmd.Wait()
	inv.stderrMu.Lock()
	tail := append([]string(nil), inv.stderrTail...)
	inv.stderrMu.Unlock()

	result := ExitResult{ScriptPath: inv.ScriptPath, StderrTail: tail}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Err = err
		}
	}
	inv.finish(result)
}

func (inv *Invocation) finish(result ExitResult) {
	inv.exitOnce.Do(func() {
		close(inv.done)
		inv.exitMu.Lock()
		handlers := append([]func(ExitResult){}, inv.exitHandlers...)
		inv.exitMu.Unlock()
		for _, h := range handlers {
			h(result)
		}
	})
}

// Cancel performs the two-stage escalating termination of §4.8
// "Cancellation semantics": stdin close, grace period, signal, grace
// period, force-kill. Safe to call multiple times or after natural exit.
func (inv *Invocation) Cancel() {
	if !inv.canceled.CompareAndSwap(false, true) {
		return
	}

	_ = inv.stdin.Close()

	if waitFor(inv.done, gracePeriod) {
		return
	}

	terminateGroup(inv.cmd)
	if waitFor(inv.done, gracePeriod) {
		return
	}

	killGroup(inv.cmd)
	waitFor(inv.done, gracePeriod)
}

const gracePeriod = 500 * time.Millisecond

func waitFor(done <-chan struct{}, d time.Duration) bool {
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

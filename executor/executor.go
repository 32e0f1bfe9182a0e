// Package executor implements the spawn/routing/cancellation control plane
// for running scripts as OS subprocesses (C8).
//
// This generalizes the teacher's network.TCPClient "one active connection,
// replaced wholesale on reconnect" shape (network/client.go) from "at most
// one connection" to "a map of concurrently active invocations, each with
// its own reader/writer goroutines and bounded send queue", and borrows the
// subprocess-spawn idiom (exec.CommandContext, Stdin/Stdout pipes, stderr
// forwarded to the log) from NGOClaw's sideload.Module.startStdio
// (gateway/internal/infrastructure/sideload/module.go).
package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/drake/scriptkit/protocol"
)

// Router delivers decoded child messages to their owning subsystem (§4.8
// "Routing"). PromptMessages go to C7, system-op RequestMessages to C9.
type Router interface {
	RoutePrompt(invocationID string, msg protocol.PromptMessage)
	RouteRequest(invocationID string, env protocol.Envelope)
	RouteExit(invocationID string, result ExitResult)
}

// Logger is the narrow logging facade the executor needs; obs.Logger
// satisfies it.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// SendQueueCapacity is the bounded stdin writer channel size (§4.8 step 5:
// "capacity >= 100").
const SendQueueCapacity = 100

// Executor owns the set of concurrently active invocations, keyed by
// correlation id.
type Executor struct {
	router Router
	log    Logger

	mu          sync.Mutex
	invocations map[string]*Invocation
}

// New creates an Executor that routes decoded messages through router.
func New(router Router, log Logger) *Executor {
	return &Executor{router: router, log: log, invocations: make(map[string]*Invocation)}
}

// Spawn generates a correlation id, spawns the interpreter subprocess, and
// begins routing its output (§4.8 spawn contract steps 1-6). interpreter is
// the executable to invoke (e.g. "node", "python3", "bash"); scriptPath is
// passed as its sole argument.
func (e *Executor) Spawn(ctx context.Context, interpreter, scriptPath string) (*Invocation, error) {
	id := uuid.NewString()

	inv, err := newInvocation(ctx, id, interpreter, scriptPath, e.router, e.log)
	if err != nil {
		return nil, fmt.Errorf("executor: spawn %s: %w", scriptPath, err)
	}

	e.mu.Lock()
	e.invocations[id] = inv
	e.mu.Unlock()

	inv.onExit(func(result ExitResult) {
		e.mu.Lock()
		delete(e.invocations, id)
		e.mu.Unlock()
		e.router.RouteExit(id, result)
	})

	inv.start()
	return inv, nil
}

// Get returns the active invocation for id, if any.
func (e *Executor) Get(id string) (*Invocation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inv, ok := e.invocations[id]
	return inv, ok
}

// Active returns the correlation ids of every currently running invocation.
func (e *Executor) Active() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.invocations))
	for id := range e.invocations {
		ids = append(ids, id)
	}
	return ids
}

// CancelAll cancels every active invocation, used on host shutdown (§4.8
// "Cancellation... host shutdown").
func (e *Executor) CancelAll() {
	e.mu.Lock()
	invs := make([]*Invocation, 0, len(e.invocations))
	for _, inv := range e.invocations {
		invs = append(invs, inv)
	}
	e.mu.Unlock()

	var wg sync.WaitGroup
	for _, inv := range invs {
		wg.Add(1)
		go func(inv *Invocation) {
			defer wg.Done()
			inv.Cancel()
		}(inv)
	}
	wg.Wait()
}

// count is exposed for tests verifying cleanup happens on exit.
func (e *Executor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.invocations)
}

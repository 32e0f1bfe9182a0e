// Package hostshell implements the host shell (C10): the process that boots
// the launcher, bridges external triggers (global hotkey, tray, or a
// control line on its own stdin) into an operation on the corpus, the list
// view, or a script spawn. Rendering and input run on the bubbletea
// program's own loop; the shell feeds it messages via Program.Send.
//
// watchLoop (a select over ctx and the watcher's event channel) is carried
// over from the teacher's Session.processEvents (session/session.go);
// executor routing reaches the shell through direct Router method calls
// rather than through that loop.
package hostshell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/scriptkit/config"
	"github.com/drake/scriptkit/corpus"
	"github.com/drake/scriptkit/executor"
	"github.com/drake/scriptkit/frecency"
	"github.com/drake/scriptkit/obs"
	"github.com/drake/scriptkit/prompt"
	"github.com/drake/scriptkit/protocol"
	"github.com/drake/scriptkit/sysops"
	"github.com/drake/scriptkit/ui"
	"github.com/drake/scriptkit/ui/style"
	"github.com/drake/scriptkit/watch"
)

// Program is the narrow surface of *tea.Program the shell drives, so tests
// can substitute a fake rather than spin up a real terminal (mirrors the
// teacher's ui.UI interface-at-the-boundary style, ui/interface.go).
type Program interface {
	Send(msg tea.Msg)
	Run() (tea.Model, error)
	Quit()
}

// Shell is the host process orchestrator.
type Shell struct {
	cfg    config.Settings
	log    obs.Logger
	closeLog func() error

	corpus   *corpus.Corpus
	watcher  *watch.Watcher
	scorer   *frecency.Store
	executor *executor.Executor
	sysHandlers *sysops.Handlers

	model   *ui.Model
	program Program

	promptMu sync.Mutex
	machines map[string]*prompt.Machine // invocation id -> its active prompt machine

	hotkeys HotkeySource
	tray    TrayBridge
}

// New wires every C1-C11 collaborator together per cfg. The returned Shell
// has not started its event loop; call Run.
func New(cfg config.Settings) (*Shell, error) {
	log, closeLog, err := obs.New(obs.Config{Dir: config.Dir(), Level: cfg.LogLevel, Format: cfg.LogFormat, MirrorEnv: "SK_AI_LOG"})
	if err != nil {
		return nil, fmt.Errorf("hostshell: logging: %w", err)
	}

	scorer := frecency.Load(config.DataDir()+"/frecency.json", log.Warnf)

	corp, err := corpus.New(corpus.DiscoverOptions{
		Root:       cfg.ScriptsDir,
		IgnoreList: cfg.IgnoreList,
		Logger:     log,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("hostshell: initial corpus scan: %w", err)
	}

	watcher, err := watch.New(cfg.ScriptsDir, config.ThemeFile(), config.ConfigFile())
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("hostshell: watcher: %w", err)
	}

	s := &Shell{
		cfg:      cfg,
		log:      log,
		closeLog: closeLog,
		corpus:   corp,
		watcher:  watcher,
		scorer:   scorer,
		machines: make(map[string]*prompt.Machine),
		hotkeys:  NoopHotkeySource{},
		tray:     NoopTrayBridge{},
	}

	s.executor = executor.New(s, log)
	s.sysHandlers = defaultSysHandlers(log)

	model := ui.NewModel(scorer, s.launch, log)
	model.SetSnapshot(corp.Snapshot())
	if overrides, err := config.LoadTheme(); err != nil {
		log.Warnf("hostshell: theme file: %v", err)
	} else {
		model.SetStyles(styleOverrides(overrides).Apply(style.Default()))
	}
	s.model = model

	corp.OnRefreshed(func(snap *corpus.Snapshot) {
		model.SetSnapshot(snap)
		if s.program != nil {
			s.program.Send(refreshedMsg{})
		}
	})

	return s, nil
}

// refreshedMsg is a no-op tea.Msg that wakes the program loop after a
// background corpus refresh so View() is re-rendered.
type refreshedMsg struct{}

// SetProgram attaches the running bubbletea program; Run wires this
// automatically when it constructs its own, but tests that drive Model
// directly may substitute a fake.
func (s *Shell) SetProgram(p Program) { s.program = p }

// Run starts the watch loop, the hotkey and tray bridges, and the bubbletea
// program, and blocks until the program exits. It does not read control
// verbs from stdin (the terminal program owns stdin in this mode); only
// RunHeadless serves the control-verb stream.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		s.watcher.Close()
		s.executor.CancelAll()
		s.scorer.FlushNow()
		s.closeLog()
	}()

	go s.watchLoop(ctx)

	stopHotkey, err := s.hotkeys.Register(func() {
		s.HandleControl(Command{Type: ControlShow})
	})
	if err != nil {
		s.log.Warnf("hostshell: hotkey registration failed: %v", err)
	} else {
		defer stopHotkey()
	}

	stopTray, err := s.tray.Start(s.HandleControl)
	if err != nil {
		s.log.Warnf("hostshell: tray bridge failed: %v", err)
	} else {
		defer stopTray()
	}

	program := tea.NewProgram(s.model, tea.WithAltScreen())
	s.program = program

	_, err = program.Run()
	return err
}

// RunHeadless drives the shell from a control-verb stream without starting
// a terminal program: the mode `scriptkit run --headless` uses to exercise
// run/show/hide/setFilter without a tty. It returns once controlStream is
// exhausted.
func (s *Shell) RunHeadless(ctx context.Context, controlStream io.Reader) error {
	go s.watchLoop(ctx)
	s.ServeControl(controlStream)
	return nil
}

func (s *Shell) watchLoop(ctx context.Context) {
	themeFile := config.ThemeFile()
	configFile := config.ConfigFile()
	events := s.watcher.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.log.Infof("watch event kind=%s path=%s", ev.Kind, ev.Path)
			switch ev.Path {
			case themeFile:
				s.reloadTheme()
			case configFile:
				s.log.Infof("hostshell: config file changed, restart to apply")
			default:
				s.corpus.RequestRefresh()
			}
		}
	}
}

// reloadTheme re-reads config.ThemeFile() and pushes the result into the
// model, waking the program loop so the new colors render immediately.
func (s *Shell) reloadTheme() {
	overrides, err := config.LoadTheme()
	if err != nil {
		s.log.Warnf("hostshell: theme reload: %v", err)
		return
	}
	s.model.SetStyles(styleOverrides(overrides).Apply(style.Default()))
	if s.program != nil {
		s.program.Send(refreshedMsg{})
	}
}

func styleOverrides(o config.ThemeOverrides) style.Overrides {
	return style.Overrides{
		ListBorderColor:  o.ListBorderColor,
		ListSelectedBG:   o.ListSelectedBG,
		ListSelectedFG:   o.ListSelectedFG,
		ListMatchColor:   o.ListMatchColor,
		InputPromptColor: o.InputPromptColor,
		ErrorColor:       o.ErrorColor,
		WarningColor:     o.WarningColor,
	}
}

// launch is the ui.LaunchFunc: it resolves an interpreter for path and
// spawns it via the executor.
func (s *Shell) launch(scriptPath string) error {
	snap := s.corpus.Snapshot()
	script, ok := snap.ScriptAt(scriptPath)
	if !ok {
		return fmt.Errorf("hostshell: unknown script %s", scriptPath)
	}

	interpreter := script.Interpreter
	if interpreter == "" {
		interpreter = interpreterFor(scriptPath)
	}

	s.scorer.RecordHit(scriptPath)

	_, err := s.executor.Spawn(context.Background(), interpreter, scriptPath)
	return err
}

func interpreterFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs", ".ts":
		return "node"
	case ".py":
		return "python3"
	case ".rb":
		return "ruby"
	default:
		return "bash"
	}
}

// RoutePrompt implements executor.Router: a child started exactly one
// ActivePrompt. Each invocation gets its own prompt.Machine so concurrent
// invocations never cross-talk (§4.7 "Exactly one ActivePrompt per
// invocation").
func (s *Shell) RoutePrompt(invocationID string, msg protocol.PromptMessage) {
	machine := s.machineFor(invocationID)
	machine.Receive(msg)
	if s.program != nil {
		s.program.Send(refreshedMsg{})
	}
}

// RouteRequest implements executor.Router, forwarding system-op requests to
// C9 and the correlated response back over the invocation's stdin.
func (s *Shell) RouteRequest(invocationID string, env protocol.Envelope) {
	inv, ok := s.executorInvocation(invocationID)
	if !ok {
		return
	}
	s.sysHandlers.Dispatch(context.Background(), env, sysops.ResponderFunc(func(v any) error {
		msg, ok := v.(protocol.SubmitMessage)
		if ok {
			return inv.Send(context.Background(), msg)
		}
		return inv.SendResponse(context.Background(), v)
	}))
}

// RouteExit implements executor.Router, tearing down the invocation's
// prompt machine and surfacing a synthesized error on non-zero exit.
func (s *Shell) RouteExit(invocationID string, result executor.ExitResult) {
	s.promptMu.Lock()
	machine, ok := s.machines[invocationID]
	delete(s.machines, invocationID)
	s.promptMu.Unlock()

	if ok {
		machine.ExitObserved()
	}

	if result.ExitCode != 0 {
		errMsg := executor.SynthesizeError(result)
		s.log.Warnf("invocation exited nonzero id=%s path=%s code=%d err=%s",
			invocationID, result.ScriptPath, result.ExitCode, errMsg.ErrorMessage)
	}

	if s.program != nil {
		s.program.Send(refreshedMsg{})
	}
}

func (s *Shell) machineFor(invocationID string) *prompt.Machine {
	s.promptMu.Lock()
	defer s.promptMu.Unlock()

	if m, ok := s.machines[invocationID]; ok {
		return m
	}

	inv, _ := s.executor.Get(invocationID)
	submit := func(msg protocol.SubmitMessage) {
		if inv != nil {
			inv.Send(context.Background(), msg)
		}
	}
	m := prompt.New(s.model, submit, prompt.NewAutoSubmitFromEnv())
	s.machines[invocationID] = m
	return m
}

func (s *Shell) executorInvocation(id string) (*executor.Invocation, bool) {
	return s.executor.Get(id)
}

func defaultSysHandlers(log obs.Logger) *sysops.Handlers {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &sysops.Handlers{
		Clipboard:  sysops.NewClipboardHandler(50),
		Notify:     sysops.LoggingNotify(log),
		Beep:       sysops.LoggingBeep(log),
		Say:        sysops.LoggingSay(log),
		FileSearch: &sysops.FileSearchHandler{Root: home},
	}
}

// Package watch implements the file watcher (C5): coalesced change events
// for the scripts directory tree plus the config and theme files.
//
// The event-loop shape (fsnotify.Watcher wrapped in a goroutine dispatching
// to registered subscribers) is grounded on NGOClaw's plugin hot-reload
// loader (gateway/internal/infrastructure/plugin/loader.go); the coalescing
// window generalizes the teacher's (mmcdole-rune) time.AfterFunc debounce
// idiom used for corpus refresh and UI bar ticks.
package watch

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventKind distinguishes the four event shapes §4.5 names.
type EventKind int

const (
	Created EventKind = iota
	Modified
	Deleted
	Changed // config/theme file events carry no create/modify/delete distinction
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Event is one coalesced, de-duplicated filesystem change.
type Event struct {
	Kind EventKind
	Path string
}

// CoalesceWindow is the dedup window: events within it referring to the same
// path collapse to one (§4.5 "editor save-burst dedup").
const CoalesceWindow = 500 * time.Millisecond

// Watcher recursively watches a scripts directory tree plus a fixed set of
// individual files (config, theme), coalescing bursts into single Events
// delivered to subscribers.
type Watcher struct {
	fsw        *fsnotify.Watcher
	extraFiles map[string]bool

	mu          sync.Mutex
	subscribers []chan Event
	pending     map[string]*pendingEvent
	window      time.Duration

	done chan struct{}
}

type pendingEvent struct {
	kind  EventKind
	timer *time.Timer
}

// New creates a Watcher rooted at scriptsDir, additionally watching any
// extraFiles (typically the config and theme files) individually.
func New(scriptsDir string, extraFiles ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:        fsw,
		extraFiles: make(map[string]bool, len(extraFiles)),
		pending:    make(map[string]*pendingEvent),
		window:     CoalesceWindow,
		done:       make(chan struct{}),
	}

	if err := w.addRecursive(scriptsDir); err != nil {
		fsw.Close()
		return nil, err
	}
	for _, f := range extraFiles {
		if f == "" {
			continue
		}
		if err := fsw.Add(filepath.Dir(f)); err != nil {
			fsw.Close()
			return nil, err
		}
		w.extraFiles[f] = true
	}

	go w.run()
	return w, nil
}

// addRecursive registers every directory under root with fsnotify.
// fsnotify watches are non-recursive, so each directory needs its own Add
// (mirrors the walk the corpus package already performs for discovery).
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() != "." && len(d.Name()) > 0 && d.Name()[0] == '.' && path != root {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Subscribe registers a new channel that receives every coalesced event.
// The channel is buffered; a slow consumer only affects its own backlog, not
// other subscribers or the watcher loop.
func (w *Watcher) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	w.mu.Lock()
	w.subscribers = append(w.subscribers, ch)
	w.mu.Unlock()
	return ch
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	var kind EventKind
	switch {
	case ev.Op&fsnotify.Create != 0:
		kind = Created
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		kind = Deleted
	case ev.Op&fsnotify.Write != 0:
		kind = Modified
	default:
		return
	}

	if w.extraFiles[ev.Name] {
		kind = Changed
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[ev.Name]; ok {
		p.timer.Stop()
		// A write right after a create (the file's first contents) keeps the
		// burst reported as Created.
		if !(p.kind == Created && kind == Modified) {
			p.kind = kind
		}
		name := ev.Name
		p.timer = time.AfterFunc(w.window, func() { w.fire(name) })
		return
	}

	p := &pendingEvent{kind: kind}
	name := ev.Name
	p.timer = time.AfterFunc(w.window, func() { w.fire(name) })
	w.pending[ev.Name] = p
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	kind := p.kind
	subs := append([]chan Event(nil), w.subscribers...)
	w.mu.Unlock()

	event := Event{Kind: kind, Path: path}
	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close stops the watcher goroutine and releases the underlying fsnotify
// handle (§4.5 "the watcher thread terminates with the host").
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

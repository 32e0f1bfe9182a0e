package corpus

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is an immutable, reference-counted view of the corpus (§3). It is
// cheap to share: readers hold their own *Snapshot and never block a
// concurrent refresh.
type Snapshot struct {
	Version int
	Scripts []Script   // sorted by Path
	byPath  map[string]int
}

// ScriptAt returns the script at Scripts[i] by path, or false if absent.
func (s *Snapshot) ScriptAt(path string) (Script, bool) {
	i, ok := s.byPath[path]
	if !ok {
		return Script{}, false
	}
	return s.Scripts[i], true
}

func newSnapshot(version int, scripts []Script) *Snapshot {
	byPath := make(map[string]int, len(scripts))
	for i, s := range scripts {
		byPath[s.Path] = i
	}
	return &Snapshot{Version: version, Scripts: scripts, byPath: byPath}
}

// Corpus owns the current Snapshot and performs debounced, coalesced
// refreshes from disk. refreshNow installs each new snapshot with a
// compare-and-swap that never replaces a newer version with an older one:
// readers always see either the whole old snapshot or the whole new one,
// never a mix (§5 "Corpus snapshots are advanced atomically").
//
// This generalizes the teacher's TCPClient "one active connection, replaced
// wholesale on reconnect" pattern (network/client.go) to "one active corpus
// snapshot, replaced wholesale on rescan".
type Corpus struct {
	current atomic.Pointer[Snapshot]
	version atomic.Int64

	opts DiscoverOptions

	mu          sync.Mutex
	debounce    time.Duration
	pending     bool
	timer       *time.Timer
	onRefreshed func(*Snapshot)
}

// New creates a Corpus and performs an initial synchronous scan.
func New(opts DiscoverOptions) (*Corpus, error) {
	c := &Corpus{opts: opts, debounce: 500 * time.Millisecond}
	if err := c.refreshNow(); err != nil {
		return nil, err
	}
	return c, nil
}

// OnRefreshed registers a callback invoked (on the debounce goroutine) after
// each successful atomic replace. It is not called for the initial scan
// performed by New.
func (c *Corpus) OnRefreshed(fn func(*Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefreshed = fn
}

// Snapshot returns the current, immutable view.
func (c *Corpus) Snapshot() *Snapshot {
	return c.current.Load()
}

// RequestRefresh schedules a rescan, debounced by 500ms to coalesce editor
// save bursts (§4.2 "Refresh semantics"). Multiple calls within the window
// collapse into a single rescan.
func (c *Corpus) RequestRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = true
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
		if err := c.refreshNow(); err == nil {
			c.mu.Lock()
			cb := c.onRefreshed
			c.mu.Unlock()
			if cb != nil {
				cb(c.Snapshot())
			}
		}
	})
}

func (c *Corpus) refreshNow() error {
	scripts, err := Discover(c.opts)
	if err != nil {
		return err
	}
	v := int(c.version.Add(1))
	next := newSnapshot(v, scripts)
	for {
		cur := c.current.Load()
		if cur != nil && cur.Version > v {
			return nil // a newer scan has already been installed
		}
		if c.current.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

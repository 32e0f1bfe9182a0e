// Package list implements the list view controller (C6): a potentially
// large ordered result list with fixed-height rows, keyboard navigation,
// scroll stabilization, held-key coalescing, and fuzzy-match highlighting.
//
// Selection/scroll bookkeeping (adjustScroll, wraparound-free clamping,
// height accounting) is adapted from the teacher's generic
// widget.Picker[T] (ui/tui/widget/picker.go), generalized from "filter a
// flat item list" to "render the sectioned groups search.Search already
// produced" plus the held-key coalescing and selection-stability rules C6
// adds (§4.6) that Picker[T] does not need (a single terminal session has
// no concurrent key-repeat floods the way a script-launcher overlay does).
package list

import (
	"strings"
	"sync"
	"time"

	"github.com/drake/scriptkit/ui/style"
)

// Row is one renderable entry: a corpus script projected through a search
// result, with highlight positions carried along for rendering.
type Row struct {
	Key         string // stable identity across result-set replacement (the script path)
	Text        string
	Description string
	Section     string // group label ("RECENT", "MATCHES", a letter); "" means same section as previous row
	Positions   []int  // matched rune indices into Text, for highlight rendering
}

// Direction is an arrow-key navigation direction.
type Direction int

const (
	Down Direction = iota
	Up
)

// HeldKeyWindow is the coalescing window for rapid key repeats (§4.6
// "Held-key coalescing... 20 ms").
const HeldKeyWindow = 20 * time.Millisecond

// List owns the current row set, selection, and scroll offset.
type List struct {
	mu         sync.Mutex
	rows       []Row
	selected   int // index into rows, or -1 if rows is empty
	scrollOff  int
	maxVisible int
	width      int
	styles     style.Styles

	pendingDir   Direction
	pendingCount int
	pendingSet   bool
	timer        *time.Timer
	window       time.Duration
}

// New creates a List rendering up to maxVisible rows at a time.
func New(maxVisible int, styles style.Styles) *List {
	if maxVisible <= 0 {
		maxVisible = 10
	}
	return &List{maxVisible: maxVisible, styles: styles, selected: -1, window: HeldKeyWindow}
}

// SetWidth updates the rendered width.
func (l *List) SetWidth(w int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.width = w
}

// SetStyles swaps the style set rows render with, e.g. after a theme file
// reload (§4.5).
func (l *List) SetStyles(styles style.Styles) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.styles = styles
}

// SetRows replaces the row set, preserving the previously selected item by
// Key if still present; otherwise clamping to 0 (non-empty) or -1 (empty)
// (§4.6 "Selection stability").
func (l *List) SetRows(rows []Row) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prevKey := ""
	if l.selected >= 0 && l.selected < len(l.rows) {
		prevKey = l.rows[l.selected].Key
	}

	l.rows = rows
	l.selected = -1
	if len(rows) == 0 {
		l.scrollOff = 0
		return
	}

	l.selected = 0
	if prevKey != "" {
		for i, r := range rows {
			if r.Key == prevKey {
				l.selected = i
				break
			}
		}
	}
	l.adjustScrollLocked()
}

// Move schedules a navigational step in dir, coalescing rapid repeats
// within HeldKeyWindow into a single selection update (§4.6 "Held-key
// coalescing").
func (l *List) Move(dir Direction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pendingSet && l.pendingDir != dir {
		l.flushLocked()
	}

	l.pendingDir = dir
	l.pendingCount++
	l.pendingSet = true

	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.window, l.Flush)
}

// Flush applies any pending coalesced movement immediately. Called by the
// window timer, or by the caller on any non-arrow key (§4.6: "the window
// closes (timer, direction change, or any other key)").
func (l *List) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushLocked()
}

func (l *List) flushLocked() {
	if !l.pendingSet || len(l.rows) == 0 {
		l.pendingSet = false
		l.pendingCount = 0
		return
	}

	delta := l.pendingCount
	if l.pendingDir == Up {
		delta = -delta
	}
	l.pendingSet = false
	l.pendingCount = 0

	sel := l.selected + delta
	if sel < 0 {
		sel = 0
	}
	if sel >= len(l.rows) {
		sel = len(l.rows) - 1
	}
	l.selected = sel
	l.adjustScrollLocked()
}

// PageDown/PageUp/Home/End are immediate (not coalesced): §4.6 only calls
// out arrow-key repeats for batching.
func (l *List) PageDown() { l.jump(l.maxVisible) }
func (l *List) PageUp()   { l.jump(-l.maxVisible) }

func (l *List) jump(delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.rows) == 0 {
		return
	}
	sel := l.selected + delta
	if sel < 0 {
		sel = 0
	}
	if sel >= len(l.rows) {
		sel = len(l.rows) - 1
	}
	l.selected = sel
	l.adjustScrollLocked()
}

// Home moves selection to the first row.
func (l *List) Home() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.rows) == 0 {
		return
	}
	l.selected = 0
	l.adjustScrollLocked()
}

// End moves selection to the last row.
func (l *List) End() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.rows) == 0 {
		return
	}
	l.selected = len(l.rows) - 1
	l.adjustScrollLocked()
}

// adjustScrollLocked places the selection within the viewport using the
// "nearest" strategy (§4.6 "Selection stability"): scroll the minimum
// amount needed to bring selected back into [scrollOff, scrollOff+maxVisible).
func (l *List) adjustScrollLocked() {
	if l.selected < l.scrollOff {
		l.scrollOff = l.selected
	} else if l.selected >= l.scrollOff+l.maxVisible {
		l.scrollOff = l.selected - l.maxVisible + 1
	}
}

// Selected returns the currently selected row, if any.
func (l *List) Selected() (Row, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected < 0 || l.selected >= len(l.rows) {
		return Row{}, false
	}
	return l.rows[l.selected], true
}

// Height returns the rendered height including the border (mirrors the
// teacher's Picker[T].Height). Section header lines that View inserts are
// not counted.
func (l *List) Height() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	h := len(l.rows)
	if h > l.maxVisible {
		h = l.maxVisible
	}
	if h == 0 {
		h = 1
	}
	return h + 2
}

// View renders the visible window of rows with fuzzy-match highlighting
// (§4.6 "Fuzzy-match highlighting").
func (l *List) View() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.rows) == 0 {
		content := l.styles.Muted.Render("  No matches")
		return l.styles.ListBorder.Width(maxInt(l.width-4, 0)).Render(content)
	}

	start := l.scrollOff
	end := start + l.maxVisible
	if end > len(l.rows) {
		end = len(l.rows)
	}

	var lines []string
	lastSection := ""
	for i := start; i < end; i++ {
		row := l.rows[i]
		if row.Section != "" && row.Section != lastSection {
			lines = append(lines, l.styles.ListSection.Render(row.Section))
			lastSection = row.Section
		}
		lines = append(lines, l.renderRow(row, i == l.selected))
	}

	content := strings.Join(lines, "\n")
	return l.styles.ListBorder.Width(maxInt(l.width-4, 0)).Render(content)
}

func (l *List) renderRow(row Row, selected bool) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}

	matchSet := make(map[int]bool, len(row.Positions))
	for _, p := range row.Positions {
		matchSet[p] = true
	}

	var b strings.Builder
	for idx, r := range []rune(row.Text) {
		ch := string(r)
		switch {
		case matchSet[idx] && selected:
			b.WriteString(l.styles.ListMatchSel.Render(ch))
		case matchSet[idx]:
			b.WriteString(l.styles.ListMatch.Render(ch))
		case selected:
			b.WriteString(l.styles.ListSelected.Render(ch))
		default:
			b.WriteString(l.styles.ListNormal.Render(ch))
		}
	}

	if row.Description != "" {
		sep := " - "
		if selected {
			b.WriteString(l.styles.ListSelected.Render(sep + row.Description))
		} else {
			b.WriteString(l.styles.ListNormal.Render(sep + row.Description))
		}
	}

	var prefixStyled string
	if selected {
		prefixStyled = l.styles.ListSelected.Render(prefix)
	} else {
		prefixStyled = l.styles.ListNormal.Render(prefix)
	}
	return prefixStyled + b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

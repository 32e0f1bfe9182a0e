package list

import (
	"testing"
	"time"

	"github.com/drake/scriptkit/ui/style"
	"github.com/stretchr/testify/require"
)

func rows(keys ...string) []Row {
	out := make([]Row, len(keys))
	for i, k := range keys {
		out[i] = Row{Key: k, Text: k}
	}
	return out
}

func TestSetRowsSelectsFirstWhenEmptyPreviousSelection(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows(rows("a", "b", "c"))

	sel, ok := l.Selected()
	require.True(t, ok)
	require.Equal(t, "a", sel.Key)
}

func TestSetRowsPreservesSelectionByKey(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows(rows("a", "b", "c"))
	l.jump(1) // select "b"

	sel, _ := l.Selected()
	require.Equal(t, "b", sel.Key)

	l.SetRows(rows("x", "b", "y", "z"))
	sel, ok := l.Selected()
	require.True(t, ok)
	require.Equal(t, "b", sel.Key)
}

func TestSetRowsClampsWhenPreviousSelectionGone(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows(rows("a", "b", "c"))
	l.jump(2) // select "c"

	l.SetRows(rows("x", "y"))
	sel, ok := l.Selected()
	require.True(t, ok)
	require.Equal(t, "x", sel.Key)
}

func TestSetRowsEmptyClearsSelection(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows(rows("a", "b"))
	l.SetRows(nil)

	_, ok := l.Selected()
	require.False(t, ok)
}

func TestMoveClampsAtBothEnds(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows(rows("a", "b", "c"))

	l.Move(Up)
	time.Sleep(HeldKeyWindow + 20*time.Millisecond)
	sel, _ := l.Selected()
	require.Equal(t, "a", sel.Key)

	l.End()
	l.Move(Down)
	time.Sleep(HeldKeyWindow + 20*time.Millisecond)
	sel, _ = l.Selected()
	require.Equal(t, "c", sel.Key)
}

func TestMoveCoalescesRapidRepeatsIntoOneStep(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows(rows("a", "b", "c", "d", "e"))

	for i := 0; i < 4; i++ {
		l.Move(Down)
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(HeldKeyWindow + 20*time.Millisecond)

	sel, _ := l.Selected()
	require.Equal(t, "e", sel.Key)
}

func TestFlushAppliesDirectionChangeImmediately(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows(rows("a", "b", "c"))

	l.Move(Down)
	time.Sleep(2 * time.Millisecond)
	l.Move(Up) // direction change flushes the pending Down first

	sel, _ := l.Selected()
	require.Equal(t, "b", sel.Key, "the single pending Down step should have applied before the Up was queued")

	time.Sleep(HeldKeyWindow + 20*time.Millisecond)
	sel, _ = l.Selected()
	require.Equal(t, "a", sel.Key)
}

func TestAdjustScrollKeepsSelectionInViewport(t *testing.T) {
	l := New(3, style.Default())
	names := []string{"a", "b", "c", "d", "e", "f"}
	l.SetRows(rows(names...))

	l.End()
	require.Equal(t, 3, l.scrollOff)

	l.Home()
	require.Equal(t, 0, l.scrollOff)
}

func TestHeightAccountsForBorderAndVisibleCap(t *testing.T) {
	l := New(3, style.Default())
	l.SetRows(rows("a", "b", "c", "d", "e"))
	require.Equal(t, 5, l.Height())

	l.SetRows(nil)
	require.Equal(t, 3, l.Height())
}

func TestViewHighlightsMatchPositionsWithoutPanicking(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows([]Row{
		{Key: "a", Text: "deploy.js", Description: "deploy script", Section: "MATCHES", Positions: []int{0, 1, 2}},
	})
	out := l.View()
	require.NotEmpty(t, out)
}

func TestViewRendersNoMatchesPlaceholderWhenEmpty(t *testing.T) {
	l := New(5, style.Default())
	out := l.View()
	require.Contains(t, out, "No matches")
}

func TestSetStylesChangesSubsequentRendering(t *testing.T) {
	l := New(5, style.Default())
	l.SetRows([]Row{{Key: "a", Text: "deploy.js"}})
	before := l.View()

	recolored := style.Overrides{ListMatchColor: "205"}.Apply(style.Default())
	recolored.ListNormal = recolored.ListNormal.Bold(true)
	l.SetStyles(recolored)

	require.NotEqual(t, before, l.View())
}

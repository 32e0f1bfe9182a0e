package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drake/scriptkit/corpus"
)

type fakeScorer map[string]float64

func (f fakeScorer) Score(path string) float64 { return f[path] }

func snapshotOf(names ...string) *corpus.Snapshot {
	scripts := make([]corpus.Script, len(names))
	for i, n := range names {
		scripts[i] = corpus.Script{
			Path: "/scripts/" + n + ".js",
			Name: n,
		}
	}
	return &corpus.Snapshot{Version: 1, Scripts: scripts}
}

func allIndices(res SearchResult) map[int]bool {
	out := make(map[int]bool)
	for _, g := range res.Groups {
		for _, item := range g.Items {
			out[item.Index] = true
		}
	}
	return out
}

func TestSearchEmptyQueryReturnsRecentThenAlphabeticSections(t *testing.T) {
	snap := snapshotOf("alpha", "beta", "gamma")
	scorer := fakeScorer{"/scripts/beta.js": 10}

	res := Search("", snap, scorer)
	require.NotEmpty(t, res.Groups)
	require.Equal(t, "RECENT", res.Groups[0].Label)
	require.Equal(t, 1, res.Groups[0].Items[0].Index) // beta has the only frecency score

	var sections []string
	for _, g := range res.Groups[1:] {
		sections = append(sections, g.Label)
	}
	require.Equal(t, []string{"A", "B", "G"}, sections)
}

func TestSearchMonotonicityAcrossExtendedQuery(t *testing.T) {
	snap := snapshotOf("deploy-staging", "deploy-prod", "destroy-env", "other")
	scorer := fakeScorer{}

	broad := Search("de", snap, scorer)
	narrow := Search("dep", snap, scorer)

	broadSet := allIndices(broad)
	for idx := range allIndices(narrow) {
		require.True(t, broadSet[idx], "every match of the extended query must appear in the broader query's results")
	}
}

func TestSearchTieBreaksByNameThenPath(t *testing.T) {
	snap := snapshotOf("zeta", "alpha")
	scorer := fakeScorer{}

	res := Search("", snap, scorer)
	// no frecency data at all: RECENT falls back to the tie-break order
	require.Equal(t, "alpha", snap.Scripts[res.Groups[0].Items[0].Index].Name)
}

func TestCacheExtendPrefixMatchesFullRescore(t *testing.T) {
	snap := snapshotOf("deploy-staging", "deploy-prod", "destroy-env", "other")
	scorer := fakeScorer{}

	c := NewCache(0)
	first := c.Search("de", snap, scorer)
	extended := c.Search("dep", snap, scorer)

	direct := Search("dep", snap, scorer)
	require.Equal(t, allIndices(direct), allIndices(extended))
	require.NotEmpty(t, first.Groups)
}

func TestCacheHitsReturnIdenticalResult(t *testing.T) {
	snap := snapshotOf("alpha", "beta")
	scorer := fakeScorer{}

	c := NewCache(0)
	first := c.Search("a", snap, scorer)
	second := c.Search("a", snap, scorer)
	require.Equal(t, first, second)
}

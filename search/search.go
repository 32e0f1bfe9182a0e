package search

import (
	"sort"
	"strings"

	"github.com/drake/scriptkit/corpus"
)

// DefaultRecentCount is K, the size of the "Recent" section on an empty
// query (§4.4).
const DefaultRecentCount = 5

// Group is a non-overlapping, ordered section of a SearchResult (§3).
type Group struct {
	Label string
	Items []ResultItem
}

// ResultItem references a Script by index into the corpus snapshot that
// produced it, plus the fuzzy-match positions for highlight rendering.
type ResultItem struct {
	Index     int // index into Snapshot.Scripts
	Positions []int
}

// SearchResult is the full output of Search: zero or more Groups in a fixed
// order (§3).
type SearchResult struct {
	Groups []Group
}

// FrecencyScorer is the narrow slice of *frecency.Store that Search needs.
type FrecencyScorer interface {
	Score(path string) float64
}

// Search implements §4.4: empty query returns "RECENT" (top-K by frecency)
// followed by alphabetic sections; non-empty query returns a single
// "MATCHES" group ordered by fuzzy score desc, frecency desc, name, path.
func Search(query string, snap *corpus.Snapshot, scorer FrecencyScorer) SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return searchEmpty(snap, scorer)
	}
	return searchQuery(query, snap, scorer)
}

func searchEmpty(snap *corpus.Snapshot, scorer FrecencyScorer) SearchResult {
	n := len(snap.Scripts)
	recentOrder := make([]int, n)
	for i := range recentOrder {
		recentOrder[i] = i
	}
	sort.SliceStable(recentOrder, func(i, j int) bool {
		a, b := snap.Scripts[recentOrder[i]], snap.Scripts[recentOrder[j]]
		sa, sb := scorer.Score(a.Path), scorer.Score(b.Path)
		if sa != sb {
			return sa > sb
		}
		return tieBreak(a, b)
	})

	k := DefaultRecentCount
	if k > n {
		k = n
	}

	var result SearchResult
	if k > 0 {
		recent := Group{Label: "RECENT"}
		for _, idx := range recentOrder[:k] {
			recent.Items = append(recent.Items, ResultItem{Index: idx})
		}
		result.Groups = append(result.Groups, recent)
	}

	bySection := make(map[corpus.Section][]int)
	var sections []corpus.Section
	for i, s := range snap.Scripts {
		sec := s.DisplaySection()
		if _, ok := bySection[sec]; !ok {
			sections = append(sections, sec)
		}
		bySection[sec] = append(bySection[sec], i)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i] < sections[j] })

	for _, sec := range sections {
		idxs := bySection[sec]
		sort.SliceStable(idxs, func(i, j int) bool {
			return tieBreak(snap.Scripts[idxs[i]], snap.Scripts[idxs[j]])
		})
		group := Group{Label: string(sec)}
		for _, idx := range idxs {
			group.Items = append(group.Items, ResultItem{Index: idx})
		}
		result.Groups = append(result.Groups, group)
	}
	return result
}

func searchQuery(query string, snap *corpus.Snapshot, scorer FrecencyScorer) SearchResult {
	texts := make([]string, len(snap.Scripts))
	for i, s := range snap.Scripts {
		texts[i] = s.SearchText()
	}
	matches := FuzzyFilter(query, texts)
	sortMatches(matches, snap, scorer)

	group := Group{Label: "MATCHES"}
	for _, m := range matches {
		group.Items = append(group.Items, ResultItem{Index: m.Index, Positions: m.Positions})
	}
	if len(group.Items) == 0 {
		return SearchResult{}
	}
	return SearchResult{Groups: []Group{group}}
}

// sortMatches orders matches by score desc, frecency desc, then tieBreak.
// Shared by the full-corpus path and the cache's prefix-filter fast path so
// both produce identical ordering (§8 property 4 relies on this).
func sortMatches(matches []Match, snap *corpus.Snapshot, scorer FrecencyScorer) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		a, b := snap.Scripts[matches[i].Index], snap.Scripts[matches[j].Index]
		fa, fb := scorer.Score(a.Path), scorer.Score(b.Path)
		if fa != fb {
			return fa > fb
		}
		return tieBreak(a, b)
	})
}

// tieBreak implements the final tie-break rule: lowercase name, then path.
func tieBreak(a, b corpus.Script) bool {
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.Path < b.Path
}

package search

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/drake/scriptkit/corpus"
)

// DefaultCacheSize bounds the memoization cache (§4.4 "Memoization").
const DefaultCacheSize = 256

// Cache memoizes Search results keyed by (corpus version, query), following
// the same bounded-LRU idiom the teacher's lua engine uses for its compiled
// regex cache (lua/engine.go).
type Cache struct {
	lru *lru.Cache[cacheKey, SearchResult]

	lastVersion int
	lastQuery   string
	lastResult  SearchResult
	hasLast     bool
}

type cacheKey struct {
	version int
	query   string
}

// NewCache builds a Cache holding up to size entries.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[cacheKey, SearchResult](size)
	if err != nil {
		panic(fmt.Sprintf("search: invalid cache size %d: %v", size, err))
	}
	return &Cache{lru: c}
}

// Search returns the memoized result for (snap.Version, query) if present.
// When query strictly extends the previous call's query (same corpus
// version, same prefix), the previous result is filtered instead of
// rescoring the whole corpus from scratch (§4.4 "extending the previous
// query filters the previous result").
func (c *Cache) Search(query string, snap *corpus.Snapshot, scorer FrecencyScorer) SearchResult {
	key := cacheKey{version: snap.Version, query: query}
	if v, ok := c.lru.Get(key); ok {
		return v
	}

	var result SearchResult
	if c.hasLast && c.lastVersion == snap.Version && extendsPrefix(c.lastQuery, query) {
		result = filterResult(c.lastResult, query, snap, scorer)
	} else {
		result = Search(query, snap, scorer)
	}

	c.lru.Add(key, result)
	c.lastVersion = snap.Version
	c.lastQuery = query
	c.lastResult = result
	c.hasLast = true
	return result
}

// extendsPrefix reports whether query is prev with one or more characters
// appended (strict extension, not equality).
func extendsPrefix(prev, query string) bool {
	return prev != "" && len(query) > len(prev) && strings.HasPrefix(query, prev)
}

// filterResult re-scores only the items already present in prev against the
// new (longer) query, rather than the whole snapshot. Correct because every
// match of query is necessarily a match of its own prefix (§8 property 4).
func filterResult(prev SearchResult, query string, snap *corpus.Snapshot, scorer FrecencyScorer) SearchResult {
	terms := strings.Fields(query)
	var matches []Match
	for _, g := range prev.Groups {
		for _, item := range g.Items {
			text := snap.Scripts[item.Index].SearchText()
			score, positions := fuzzyScoreMulti(terms, text)
			if score > 0 {
				matches = append(matches, Match{Index: item.Index, Score: score, Positions: positions})
			}
		}
	}

	if len(matches) == 0 {
		return SearchResult{}
	}

	sortMatches(matches, snap, scorer)

	group := Group{Label: "MATCHES"}
	for _, m := range matches {
		group.Items = append(group.Items, ResultItem{Index: m.Index, Positions: m.Positions})
	}
	return SearchResult{Groups: []Group{group}}
}

// Package search implements the fuzzy filter/ranking core (C4): scoring a
// query against the script corpus and producing a stable, sectioned
// SearchResult.
//
// FuzzyScore/FuzzyFilter are carried forward from the teacher's
// ui/util/fuzzy.go almost unchanged — the algorithm it already implements
// (forward existence scan, backward tightest-cluster scan, start/boundary/
// camelCase/consecutive bonuses, gap penalties) is exactly the "standard
// subsequence fuzzy scorer" §4.4 calls for.
package search

import (
	"sort"
	"strings"
	"unicode"
)

// Match is a scored fuzzy match against one searchable string.
type Match struct {
	Index     int
	Score     int
	Positions []int // matched rune indices, for highlight rendering (C6)
}

// FuzzyFilter scores every item against pattern and returns matches sorted
// by score descending, ties broken by original index. Pattern is
// whitespace-split into AND terms (fzf-style): every term must match
// somewhere in the text, order between terms does not matter.
func FuzzyFilter(pattern string, items []string) []Match {
	if pattern == "" {
		matches := make([]Match, len(items))
		for i := range items {
			matches[i] = Match{Index: i}
		}
		return matches
	}

	terms := strings.Fields(pattern)
	var matches []Match
	for i, item := range items {
		score, positions := fuzzyScoreMulti(terms, item)
		if score > 0 {
			matches = append(matches, Match{Index: i, Score: score, Positions: positions})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})
	return matches
}

func fuzzyScoreMulti(terms []string, text string) (int, []int) {
	if len(terms) == 0 {
		return 0, nil
	}
	if len(terms) == 1 {
		return FuzzyScore(terms[0], text)
	}

	total := 0
	seen := make(map[int]bool)
	var positions []int
	for _, term := range terms {
		score, pos := FuzzyScore(term, text)
		if score == 0 {
			return 0, nil
		}
		total += score
		for _, p := range pos {
			if !seen[p] {
				seen[p] = true
				positions = append(positions, p)
			}
		}
	}
	sort.Ints(positions)
	return total, positions
}

// FuzzyScore computes a subsequence match of pattern against text. A match
// is accepted only if every pattern rune appears in order in text (§4.4).
// Returns (0, nil) on no match.
func FuzzyScore(pattern, text string) (int, []int) {
	if pattern == "" || text == "" {
		return 0, nil
	}

	patternLower := strings.ToLower(pattern)
	textLower := strings.ToLower(text)
	textRunes := []rune(text)
	textLowerRunes := []rune(textLower)
	patternRunes := []rune(patternLower)

	pIdx := 0
	endIdx := -1
	for i := 0; i < len(textLowerRunes) && pIdx < len(patternRunes); i++ {
		if textLowerRunes[i] == patternRunes[pIdx] {
			endIdx = i
			pIdx++
		}
	}
	if pIdx < len(patternRunes) {
		return 0, nil
	}

	positions := make([]int, len(patternRunes))
	pIdx = len(patternRunes) - 1
	for i := endIdx; i >= 0 && pIdx >= 0; i-- {
		if textLowerRunes[i] == patternRunes[pIdx] {
			positions[pIdx] = i
			pIdx--
		}
	}

	score := 0
	firstPos := positions[0]
	score += max(0, 50-firstPos*3)

	for i, pos := range positions {
		if pos == 0 {
			score += 16
		} else {
			prev := textRunes[pos-1]
			if prev == ' ' || prev == '/' || prev == '_' || prev == '-' || prev == '.' {
				score += 8
			} else if unicode.IsLower(prev) && unicode.IsUpper(textRunes[pos]) {
				score += 7
			}
		}

		if i > 0 && positions[i] == positions[i-1]+1 {
			score += 8
		}
		if i > 0 && positions[i] > positions[i-1]+1 {
			gap := positions[i] - positions[i-1] - 1
			score -= 3 + gap
		}
	}

	if score <= 0 {
		score = 1
	}
	return score, positions
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

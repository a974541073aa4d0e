package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// NameSimilarity scores two normalized names in [0,1].
//
// Names are compared as token sets: each token of one name is paired with at
// most one token of the other, best pairs first, and each pair contributes its
// character similarity (1 - edit distance / longer length). The score is
// 2*matched / (|A|+|B|), so word order is irrelevant, an omitted word costs a
// share of the score, and a one-letter typo costs only part of one token.
// Identical names score exactly 1; two empty names score 1; an empty name
// against a non-empty one scores 0.
func NameSimilarity(a, b string) float64 {
	// Canonical argument order keeps the greedy pairing exactly symmetric.
	if a > b {
		a, b = b, a
	}

	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	type pair struct {
		i, j  int
		score float64
	}
	pairs := make([]pair, 0, len(ta)*len(tb))
	for i := range ta {
		for j := range tb {
			pairs = append(pairs, pair{i: i, j: j, score: tokenSimilarity(ta[i], tb[j])})
		}
	}
	sort.SliceStable(pairs, func(x, y int) bool {
		return pairs[x].score > pairs[y].score
	})

	usedA := make([]bool, len(ta))
	usedB := make([]bool, len(tb))
	var matched float64
	for _, p := range pairs {
		if usedA[p.i] || usedB[p.j] {
			continue
		}
		usedA[p.i] = true
		usedB[p.j] = true
		matched += p.score
	}

	return 2 * matched / float64(len(ta)+len(tb))
}

// tokenSet splits s on whitespace and returns its distinct tokens, sorted.
func tokenSet(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	tokens := fields[:1]
	for _, f := range fields[1:] {
		if f != tokens[len(tokens)-1] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// tokenSimilarity is 1 - levenshtein(a, b) / max(len(a), len(b)), counted in runes.
func tokenSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

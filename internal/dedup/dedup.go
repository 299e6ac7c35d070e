// Package dedup finds near-duplicate catalog names. Two rows with the same
// case-insensitive name are a data-integrity violation; this package catches
// the near misses (typos, spacing variants, doubled letters) that slip past
// the exact-identity check, so a human can resolve them via merge.
package dedup

import "strings"

// DefaultThreshold is the similarity above which a pair is flagged. Tuned
// empirically; configurable rather than re-derived.
const DefaultThreshold = 0.8

// Pair is one flagged duplicate candidate. NameA always precedes NameB in
// catalog order.
type Pair struct {
	NameA      string  `json:"name_a"`
	NameB      string  `json:"name_b"`
	Similarity float64 `json:"similarity"`
}

// FindPairs compares every unordered pair of non-blank names and returns
// those whose similarity exceeds threshold. Names equal up to case count as
// duplicates at similarity 1.0. Pass threshold <= 0 for the default.
func FindPairs(names []string, threshold float64) []Pair {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	var pairs []Pair
	for i := 0; i < len(names); i++ {
		a := strings.TrimSpace(names[i])
		if a == "" {
			continue
		}
		for j := i + 1; j < len(names); j++ {
			b := strings.TrimSpace(names[j])
			if b == "" {
				continue
			}
			if sim := Similarity(a, b); sim > threshold {
				pairs = append(pairs, Pair{NameA: names[i], NameB: names[j], Similarity: sim})
			}
		}
	}
	return pairs
}

// Similarity scores two names in [0,1], case-insensitive.
//
// Exact equality scores 1.0 and substring containment 0.9; everything else
// starts from normalized edit distance and gains a +0.2 boost (capped at
// 0.95) when the pair looks like a common typo.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	score := 1 - float64(Levenshtein(a, b))/float64(maxLen)

	if isCommonTypo(a, b) {
		score += 0.2
		if score > 0.95 {
			score = 0.95
		}
	}
	return score
}

// isCommonTypo reports whether a and b differ only by a separator, a single
// adjacent transposition, or a doubled letter.
func isCommonTypo(a, b string) bool {
	if stripSeparators(a) == stripSeparators(b) {
		return true
	}
	if isAdjacentTransposition(a, b) {
		return true
	}
	if collapseRuns(a) == collapseRuns(b) {
		return true
	}
	return false
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, s)
}

// isAdjacentTransposition requires equal length and exactly one swapped
// adjacent character pair accounting for all differences.
func isAdjacentTransposition(a, b string) bool {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) != len(br) {
		return false
	}
	i := 0
	for i < len(ar) && ar[i] == br[i] {
		i++
	}
	if i >= len(ar)-1 {
		return false
	}
	if ar[i] != br[i+1] || ar[i+1] != br[i] {
		return false
	}
	for j := i + 2; j < len(ar); j++ {
		if ar[j] != br[j] {
			return false
		}
	}
	return true
}

// collapseRuns reduces any run of a repeated character to a single instance,
// so "arborvittae" and "arborvitae" collapse to the same form.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// Levenshtein computes the edit distance between two strings. Symmetric:
// Levenshtein(a, b) == Levenshtein(b, a), and zero for identical inputs.
func Levenshtein(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}

// Package match scores how well a catalog record matches a free-text query.
//
// Scoring is a fixed ladder evaluated top-down, first rung wins:
//
//	100  exact case-insensitive equality with the primary field
//	 95  plural-normalized exact equality (normalized mode only)
//	 80  primary field contains the full query
//	 75  plural-normalized substring (normalized mode only)
//	 60  every query token appears inside some record token
//	  0-50  fraction of query tokens found, scaled
//
// The same ladder serves the inventory, fleet and knowledge resolvers; only
// the searchable text and the keep-threshold differ per resolver.
package match

import (
	"sort"
	"strings"

	"github.com/yardpilot/yardpilot/internal/text"
)

// Record is the searchable view of one catalog row. Primary is the identity
// field (item name, vehicle name, knowledge question); Extra holds any other
// fields that should count for token matching.
type Record struct {
	Primary string
	Extra   []string
}

// Options controls matching behavior per resolver.
type Options struct {
	// Normalize enables plural folding before comparison. The inventory
	// resolver sets this; fleet and knowledge match raw text.
	Normalize bool
}

// Score returns the ladder score for query against rec.
func Score(query string, rec Record, opts Options) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	primary := strings.ToLower(strings.TrimSpace(rec.Primary))
	if q == "" || primary == "" {
		return 0
	}

	if q == primary {
		return 100
	}
	var qf, pf string
	if opts.Normalize {
		qf = text.Fold(q)
		pf = text.Fold(primary)
		if qf != "" && qf == pf {
			return 95
		}
	}
	if strings.Contains(primary, q) {
		return 80
	}
	if opts.Normalize && qf != "" && strings.Contains(pf, qf) {
		return 75
	}

	recTokens := recordTokens(rec, opts.Normalize)
	qTokens := strings.Fields(q)
	if opts.Normalize {
		for i, t := range qTokens {
			qTokens[i] = text.Singular(t)
		}
	}
	if len(qTokens) == 0 {
		return 0
	}

	found := 0
	for _, qt := range qTokens {
		if tokenFound(qt, recTokens) {
			found++
		}
	}
	if found == len(qTokens) {
		return 60
	}
	return float64(found) / float64(len(qTokens)) * 50
}

// Scored pairs a record index with its ladder score.
type Scored struct {
	Index int
	Score float64
}

// Rank scores every record and returns those strictly above threshold,
// sorted by descending score. Equal scores keep catalog order.
func Rank(query string, records []Record, threshold float64, opts Options) []Scored {
	out := make([]Scored, 0, len(records))
	for i, rec := range records {
		if s := Score(query, rec, opts); s > threshold {
			out = append(out, Scored{Index: i, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Best returns the single highest-scoring record index, or -1 when no record
// scores above threshold. Used by the knowledge resolver, which answers with
// one best entry rather than a filtered list.
func Best(query string, records []Record, threshold float64, opts Options) (int, float64) {
	bestIdx := -1
	bestScore := 0.0
	for i, rec := range records {
		s := Score(query, rec, opts)
		if s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	if bestScore <= threshold {
		return -1, bestScore
	}
	return bestIdx, bestScore
}

func recordTokens(rec Record, normalize bool) []string {
	fields := strings.Fields(strings.ToLower(rec.Primary))
	for _, e := range rec.Extra {
		fields = append(fields, strings.Fields(strings.ToLower(e))...)
	}
	if normalize {
		for i, f := range fields {
			fields[i] = text.Singular(f)
		}
	}
	return fields
}

func tokenFound(qt string, recTokens []string) bool {
	for _, rt := range recTokens {
		if strings.Contains(rt, qt) {
			return true
		}
	}
	return false
}

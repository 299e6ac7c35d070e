// Package quantity extracts a requested amount and unit from free text, so
// "need 5 yards mulch" can be answered with an availability judgment instead
// of a bare stock line.
package quantity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yardpilot/yardpilot/internal/text"
)

// Request is a parsed quantity plus canonical unit.
type Request struct {
	Quantity int
	Unit     string
}

const unitWords = `yards?|yds?|feet|foot|ft|bags?|pallets?|gallons?|gal|pounds?|lbs?|lb|tons?|units?|unit|each|ea|pieces?|pcs?|pc`

// Patterns are tried in order; the first match wins. The "need N unit"
// phrasing outranks the bare forms so "we need 5 yards of mulch" parses the
// requested amount, not an incidental number later in the sentence.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bneed\s+(\d+)\s*(` + unitWords + `)\b`),
	regexp.MustCompile(`(?i)\b(\d+)\s*(` + unitWords + `)\s+of\b`),
	regexp.MustCompile(`(?i)\b(\d+)\s*(` + unitWords + `)\b`),
}

// Parse returns the first quantity/unit phrase found in query, or nil when
// the query carries no recognizable amount.
func Parse(query string) *Request {
	for _, re := range patterns {
		m := re.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return &Request{
			Quantity: n,
			Unit:     text.CanonicalUnit(m[2]),
		}
	}
	return nil
}

// Strip removes the first quantity/unit phrase from query, leaving the item
// words for relevance matching: "need 5 yards mulch" becomes "mulch". When
// nothing but the phrase remains, the original query is returned unchanged.
func Strip(query string) string {
	for _, re := range patterns {
		loc := re.FindStringIndex(query)
		if loc == nil {
			continue
		}
		rest := strings.Join(strings.Fields(query[:loc[0]]+" "+query[loc[1]:]), " ")
		if rest == "" {
			return query
		}
		return rest
	}
	return query
}

// Package text provides plural folding and unit canonicalization for
// matching. Normalization never alters stored or displayed values; it exists
// purely so that "plants" finds "plant" and "5 yds" finds "yards".
package text

import "strings"

// pluralForms maps domain plurals to their singular form. Checked before the
// generic trailing-s rule so irregular or ambiguous terms fold correctly.
var pluralForms = map[string]string{
	"plants":    "plant",
	"bags":      "bag",
	"yards":     "yard",
	"feet":      "foot",
	"pallets":   "pallet",
	"trucks":    "truck",
	"gallons":   "gallon",
	"pounds":    "pound",
	"tons":      "ton",
	"units":     "unit",
	"bushes":    "bush",
	"trees":     "tree",
	"shrubs":    "shrub",
	"stones":    "stone",
	"bricks":    "brick",
	"pavers":    "paver",
	"mulches":   "mulch",
	"trailers":  "trailer",
	"mowers":    "mower",
	"blowers":   "blower",
	"trimmers":  "trimmer",
	"shovels":   "shovel",
	"rakes":     "rake",
	"gloves":    "glove",
	"fertilizers": "fertilizer",
}

// unitSynonyms maps unit spellings and abbreviations to a canonical label.
var unitSynonyms = map[string]string{
	"yd":      "yards",
	"yds":     "yards",
	"yard":    "yards",
	"yards":   "yards",
	"ft":      "feet",
	"foot":    "feet",
	"feet":    "feet",
	"bag":     "bags",
	"bags":    "bags",
	"pallet":  "pallets",
	"pallets": "pallets",
	"gal":     "gallons",
	"gallon":  "gallons",
	"gallons": "gallons",
	"lb":      "pounds",
	"lbs":     "pounds",
	"pound":   "pounds",
	"pounds":  "pounds",
	"ton":     "tons",
	"tons":    "tons",
	"each":    "units",
	"ea":      "units",
	"unit":    "units",
	"units":   "units",
	"piece":   "units",
	"pieces":  "units",
	"pc":      "units",
	"pcs":     "units",
}

// Singular folds one token to its singular form. The lookup table wins;
// otherwise a single trailing "s" is stripped unless the remaining stem would
// still end in s, x, or z (so "grass" and "box" survive intact).
func Singular(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return ""
	}
	if s, ok := pluralForms[t]; ok {
		return s
	}
	if len(t) > 1 && strings.HasSuffix(t, "s") {
		stem := t[:len(t)-1]
		switch stem[len(stem)-1] {
		case 's', 'x', 'z':
			return t
		}
		return stem
	}
	return t
}

// Fold singularizes every whitespace-separated token of a phrase.
func Fold(phrase string) string {
	fields := strings.Fields(strings.ToLower(phrase))
	if len(fields) == 0 {
		return ""
	}
	for i, f := range fields {
		fields[i] = Singular(f)
	}
	return strings.Join(fields, " ")
}

// CanonicalUnit maps a unit spelling to its canonical label. Unknown units
// are returned lowercased and trimmed, not rejected, since the stock catalog
// uses free-text unit labels.
func CanonicalUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if c, ok := unitSynonyms[u]; ok {
		return c
	}
	return u
}

// UnitsMatch reports whether two unit labels refer to the same unit, either
// directly or after canonicalization and plural folding.
func UnitsMatch(a, b string) bool {
	ca := CanonicalUnit(a)
	cb := CanonicalUnit(b)
	if ca == cb {
		return true
	}
	return Singular(ca) == Singular(cb)
}

package dedup

import "testing"

func TestLevenshteinBasics(t *testing.T) {
	if d := Levenshtein("mulch", "mulch"); d != 0 {
		t.Fatalf("dist(a,a) = %d, want 0", d)
	}
	if d := Levenshtein("kitten", "sitting"); d != 3 {
		t.Fatalf("kitten/sitting = %d, want 3", d)
	}
	if Levenshtein("gravel", "grovel") != Levenshtein("grovel", "gravel") {
		t.Fatal("distance should be symmetric")
	}
	if d := Levenshtein("", "abc"); d != 3 {
		t.Fatalf("empty vs abc = %d, want 3", d)
	}
}

func TestSimilarityExactAndSubstring(t *testing.T) {
	if s := Similarity("Red Mulch", "red mulch"); s != 1.0 {
		t.Fatalf("case-insensitive equality = %v, want 1.0", s)
	}
	if s := Similarity("Boxwood", "Boxwood - 3gal"); s != 0.9 {
		t.Fatalf("substring = %v, want 0.9", s)
	}
}

func TestSimilarityDoubledLetterTypo(t *testing.T) {
	s := Similarity("Arborvitae", "Arborvittae")
	if s < 0.90 {
		t.Fatalf("doubled-letter typo similarity = %v, want >= 0.90", s)
	}
	if s > 0.95 {
		t.Fatalf("typo boost must cap at 0.95, got %v", s)
	}
}

func TestSimilaritySeparatorTypo(t *testing.T) {
	s := Similarity("Top Soil", "Top-Soil")
	// Substring rule does not apply; separator-stripped equality marks it a
	// common typo on top of an already high edit-distance score.
	if s <= 0.8 {
		t.Fatalf("separator variant similarity = %v, want > 0.8", s)
	}
}

func TestSimilarityTranspositionTypo(t *testing.T) {
	base := 1 - float64(Levenshtein("gravel", "grvael"))/6
	s := Similarity("gravel", "grvael")
	if s <= base {
		t.Fatalf("transposition should boost: base %v, got %v", base, s)
	}
	if s > 0.95 {
		t.Fatalf("boost cap exceeded: %v", s)
	}
}

func TestSimilarityUnrelated(t *testing.T) {
	if s := Similarity("Boxwood", "Diesel Fuel"); s > 0.5 {
		t.Fatalf("unrelated names scored %v", s)
	}
}

func TestFindPairs(t *testing.T) {
	names := []string{"Arborvitae", "Arborvittae", "Gravel - Pea", "", "Boxwood"}
	pairs := FindPairs(names, 0.8)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d: %+v", len(pairs), pairs)
	}
	p := pairs[0]
	if p.NameA != "Arborvitae" || p.NameB != "Arborvittae" {
		t.Fatalf("unexpected pair %+v", p)
	}
	if p.Similarity <= 0.8 {
		t.Fatalf("pair similarity %v should exceed threshold", p.Similarity)
	}
}

func TestFindPairsFlagsExactIdentity(t *testing.T) {
	// Two rows sharing a case-insensitive name are the worst duplicate of
	// all; the detector reports them at full similarity.
	pairs := FindPairs([]string{"Mulch", "mulch"}, 0.8)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair for case-folded identity, got %+v", pairs)
	}
	if pairs[0].Similarity != 1.0 {
		t.Fatalf("identity pair similarity = %v, want 1.0", pairs[0].Similarity)
	}
}

func TestFindPairsDefaultThreshold(t *testing.T) {
	pairs := FindPairs([]string{"Arborvitae", "Arborvittae"}, 0)
	if len(pairs) != 1 {
		t.Fatalf("default threshold should flag the typo pair, got %d", len(pairs))
	}
}

package match

import "testing"

func TestScoreExactEquality(t *testing.T) {
	got := Score("Red Mulch", Record{Primary: "Red Mulch"}, Options{})
	if got != 100 {
		t.Fatalf("exact match score = %v, want 100", got)
	}
	got = Score("red mulch", Record{Primary: "RED MULCH"}, Options{})
	if got != 100 {
		t.Fatalf("case-insensitive exact score = %v, want 100", got)
	}
}

func TestScoreNormalizedEquality(t *testing.T) {
	got := Score("red mulches", Record{Primary: "Red Mulch"}, Options{Normalize: true})
	if got != 95 {
		t.Fatalf("plural-normalized equality score = %v, want 95", got)
	}
	// Without normalization the same query falls through to substring checks.
	got = Score("red mulches", Record{Primary: "Red Mulch"}, Options{})
	if got >= 95 {
		t.Fatalf("non-normalized score = %v, expected below 95", got)
	}
}

func TestScoreSubstring(t *testing.T) {
	got := Score("boxwood", Record{Primary: "Boxwood - 3gal"}, Options{Normalize: true})
	if got != 80 {
		t.Fatalf("substring score = %v, want 80", got)
	}
}

func TestScoreNormalizedSubstring(t *testing.T) {
	got := Score("bags", Record{Primary: "Topsoil Bag - 40lb"}, Options{Normalize: true})
	if got != 75 {
		t.Fatalf("normalized substring score = %v, want 75", got)
	}
}

func TestScoreAllTokens(t *testing.T) {
	rec := Record{Primary: "Mulch - Red", Extra: []string{"Yard B", "premium dyed"}}
	got := Score("red premium", rec, Options{Normalize: true})
	if got != 60 {
		t.Fatalf("all-tokens score = %v, want 60", got)
	}
}

func TestScorePartialTokens(t *testing.T) {
	rec := Record{Primary: "Mulch - Red"}
	got := Score("red gravel", rec, Options{Normalize: true})
	if got != 25 {
		t.Fatalf("partial score = %v, want 25 (1 of 2 tokens)", got)
	}
}

func TestScoreEmpty(t *testing.T) {
	if got := Score("", Record{Primary: "Mulch"}, Options{}); got != 0 {
		t.Fatalf("empty query score = %v, want 0", got)
	}
	if got := Score("mulch", Record{}, Options{}); got != 0 {
		t.Fatalf("empty record score = %v, want 0", got)
	}
}

func TestRankOrderAndThreshold(t *testing.T) {
	records := []Record{
		{Primary: "Gravel - Pea"},
		{Primary: "Red Mulch"},
		{Primary: "Mulch - Hardwood"},
	}
	ranked := Rank("red mulch", records, 30, Options{Normalize: true})
	if len(ranked) == 0 {
		t.Fatal("expected survivors above threshold")
	}
	if ranked[0].Index != 1 {
		t.Fatalf("expected exact match first, got index %d", ranked[0].Index)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatal("ranking not in descending score order")
		}
	}
	for _, r := range ranked {
		if r.Score <= 30 {
			t.Fatalf("record at or below threshold survived: %+v", r)
		}
	}
}

func TestRankStableTies(t *testing.T) {
	records := []Record{
		{Primary: "Mulch - Red"},
		{Primary: "Mulch - Brown"},
	}
	ranked := Rank("mulch", records, 30, Options{Normalize: true})
	if len(ranked) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(ranked))
	}
	if ranked[0].Index != 0 || ranked[1].Index != 1 {
		t.Fatalf("tie should keep catalog order, got %d then %d", ranked[0].Index, ranked[1].Index)
	}
}

func TestBestSingleWinner(t *testing.T) {
	records := []Record{
		{Primary: "What are your delivery hours?"},
		{Primary: "Do you deliver mulch?"},
	}
	idx, score := Best("do you deliver mulch", records, 40, Options{})
	if idx != 1 {
		t.Fatalf("best index = %d, want 1", idx)
	}
	if score <= 40 {
		t.Fatalf("best score = %v, want above threshold", score)
	}
}

func TestBestBelowThreshold(t *testing.T) {
	records := []Record{{Primary: "What are your delivery hours?"}}
	idx, _ := Best("zebra enclosure pricing", records, 40, Options{})
	if idx != -1 {
		t.Fatalf("expected no winner below threshold, got index %d", idx)
	}
}

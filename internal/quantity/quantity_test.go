package quantity

import "testing"

func TestParseNeedPhrase(t *testing.T) {
	req := Parse("need 5 yards mulch")
	if req == nil {
		t.Fatal("expected a parse")
	}
	if req.Quantity != 5 || req.Unit != "yards" {
		t.Fatalf("got %+v, want 5 yards", req)
	}
}

func TestParseOfPhrase(t *testing.T) {
	req := Parse("do we have 12 bags of topsoil")
	if req == nil {
		t.Fatal("expected a parse")
	}
	if req.Quantity != 12 || req.Unit != "bags" {
		t.Fatalf("got %+v, want 12 bags", req)
	}
}

func TestParseBareForm(t *testing.T) {
	req := Parse("mulch 3 yd")
	if req == nil {
		t.Fatal("expected a parse")
	}
	if req.Quantity != 3 || req.Unit != "yards" {
		t.Fatalf("abbreviation should canonicalize, got %+v", req)
	}
}

func TestParseUnitAbbreviations(t *testing.T) {
	cases := map[string]string{
		"need 2 yds gravel":  "yards",
		"need 40 lbs seed":   "pounds",
		"need 1 gal sealant": "gallons",
		"need 6 ea stakes":   "units",
	}
	for q, unit := range cases {
		req := Parse(q)
		if req == nil {
			t.Fatalf("no parse for %q", q)
		}
		if req.Unit != unit {
			t.Fatalf("Parse(%q).Unit = %q, want %q", q, req.Unit, unit)
		}
	}
}

func TestStrip(t *testing.T) {
	cases := map[string]string{
		"need 5 yards mulch":        "mulch",
		"do we have 12 bags of topsoil": "do we have topsoil",
		"mulch 3 yd":                "mulch",
		"boxwood":                   "boxwood",
	}
	for in, want := range cases {
		if got := Strip(in); got != want {
			t.Fatalf("Strip(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripKeepsQueryWhenNothingRemains(t *testing.T) {
	if got := Strip("need 5 yards"); got != "need 5 yards" {
		t.Fatalf("got %q, want the original query back", got)
	}
}

func TestParseNoQuantity(t *testing.T) {
	for _, q := range []string{"mulch", "is the truck back yet", "need more gravel"} {
		if req := Parse(q); req != nil {
			t.Fatalf("Parse(%q) = %+v, want nil", q, req)
		}
	}
}

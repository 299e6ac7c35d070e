package text

import "testing"

func TestSingularTableWins(t *testing.T) {
	if got := Singular("plants"); got != "plant" {
		t.Fatalf("Singular(plants) = %q, want plant", got)
	}
	if got := Singular("feet"); got != "foot" {
		t.Fatalf("Singular(feet) = %q, want foot", got)
	}
}

func TestSingularGenericRule(t *testing.T) {
	if got := Singular("rocks"); got != "rock" {
		t.Fatalf("Singular(rocks) = %q, want rock", got)
	}
	// Stems ending in s/x/z are left alone so "grass" is not corrupted.
	if got := Singular("grass"); got != "grass" {
		t.Fatalf("Singular(grass) = %q, want grass", got)
	}
	if got := Singular("boxes"); got != "boxe" {
		// "boxes" is not in the table; the generic rule strips one s.
		t.Fatalf("Singular(boxes) = %q, want boxe", got)
	}
}

func TestSingularIdempotent(t *testing.T) {
	for _, w := range []string{"plants", "yards", "grass", "mulch", "bags", "Boxwood"} {
		once := Singular(w)
		twice := Singular(once)
		if once != twice {
			t.Fatalf("Singular not idempotent for %q: %q then %q", w, once, twice)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Red Mulch Bags"); got != "red mulch bag" {
		t.Fatalf("Fold = %q", got)
	}
	if Fold("plants") != Fold("plant") {
		t.Fatal("expected plants and plant to fold to the same form")
	}
	if got := Fold("   "); got != "" {
		t.Fatalf("Fold(blank) = %q, want empty", got)
	}
}

func TestCanonicalUnit(t *testing.T) {
	for _, in := range []string{"yd", "yds", "yard", "YARDS"} {
		if got := CanonicalUnit(in); got != "yards" {
			t.Fatalf("CanonicalUnit(%q) = %q, want yards", in, got)
		}
	}
	if got := CanonicalUnit("truckload"); got != "truckload" {
		t.Fatalf("unknown unit should pass through, got %q", got)
	}
}

func TestUnitsMatch(t *testing.T) {
	if !UnitsMatch("yd", "yards") {
		t.Fatal("yd should match yards")
	}
	if !UnitsMatch("Bag", "bags") {
		t.Fatal("Bag should match bags")
	}
	if UnitsMatch("yards", "tons") {
		t.Fatal("yards should not match tons")
	}
}

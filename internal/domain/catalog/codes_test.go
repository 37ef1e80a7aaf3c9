package catalog

import "testing"

func TestCleanSKU(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"abc123", "ABC123"},
		{"ABC123-99", "ABC123"},
		{"  x", "X"},
		{" 7501001\n", "7501001"},
		{"", ""},
		{"---", ""},
		{"7501x/2", "7501X"},
	}
	for _, tc := range cases {
		if got := CleanSKU(tc.raw); got != tc.want {
			t.Fatalf("CleanSKU(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestPadCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"2", "02"},
		{"02", "02"},
		{"123", "123"},
		{"a1b", "01"},
		{"xx", ""},
	}
	for _, tc := range cases {
		if got := PadCode(tc.in); got != tc.want {
			t.Fatalf("PadCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSignatureTreatsAbsentAsEmpty(t *testing.T) {
	empty := CodeSet{}
	if empty.Signature() != "||" {
		t.Fatalf("Signature() = %q, want ||", empty.Signature())
	}

	a := CodeSet{Category: "01", Type: "02", Classification: "03"}
	b := CodeSet{Category: "01", Type: "02", Classification: "03"}
	if a.Signature() != b.Signature() {
		t.Fatalf("equal code sets produced different signatures")
	}
	if a.Signature() == empty.Signature() {
		t.Fatalf("distinct code sets share a signature")
	}
}

func TestMeetsTargets(t *testing.T) {
	snap := CodeSet{Category: "01", Type: "05", Classification: "09"}

	if !MeetsTargets(snap, CodeSet{}) {
		t.Fatalf("empty targets must always match")
	}
	if !MeetsTargets(snap, CodeSet{Category: "1"}) {
		t.Fatalf("target 1 should match snapshot 01 after padding")
	}
	if MeetsTargets(snap, CodeSet{Type: "02"}) {
		t.Fatalf("type target mismatch must fail")
	}
}

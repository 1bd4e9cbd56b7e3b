package textutil

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"   ":             "",
		"The  Daily\tShow ": "the daily show",
		"Ｈａｒｄｃｏｒｅ":        "hardcore",
		"Straße":          "strasse",
		"Ep. 12:  Finale": "ep. 12: finale",
		"ﬁnal Cut":        "final cut",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Ep. 12 — The Return (Part 2)")
	want := []string{"ep", "12", "the", "return", "part"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", got, want)
		}
	}
}

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("hello world")},
		{"b nil", NewFingerprint("hello world"), nil},
		{"zero norm", &Fingerprint{counts: map[string]float64{}}, NewFingerprint("hello world")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityIgnoresOrderAndCase(t *testing.T) {
	got := TokenSimilarity("Dan Carlin, Jane Doe", "jane doe & DAN CARLIN")
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("TokenSimilarity = %v, want 1", got)
	}
}

func TestCosineSimilarityPartialOverlap(t *testing.T) {
	a := NewFingerprint("the quick brown fox")
	b := NewFingerprint("the slow brown cat")
	// Two shared terms out of four on each side.
	if got := CosineSimilarity(a, b); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("CosineSimilarity(partial) = %v, want 0.5", got)
	}
	if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
		t.Error("CosineSimilarity not symmetric")
	}
}

func TestCosineSimilarityDisjoint(t *testing.T) {
	if got := TokenSimilarity("apple banana cherry", "dog elephant frog"); got != 0 {
		t.Errorf("TokenSimilarity(disjoint) = %v, want 0", got)
	}
	if NewFingerprint("a b c") != nil {
		t.Error("expected nil fingerprint for single-rune tokens")
	}
	if NewFingerprint("alpha alpha beta").Len() != 2 {
		t.Error("expected two distinct terms")
	}
}

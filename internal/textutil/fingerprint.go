package textutil

import (
	"math"
	"strings"
	"unicode"
)

// Fingerprint is a term-frequency vector of a text.
type Fingerprint struct {
	counts map[string]float64
	norm   float64
}

// NewFingerprint tokenizes text and counts its terms. It returns nil when the
// text yields no tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var sum float64
	for _, c := range counts {
		sum += c * c
	}
	return &Fingerprint{counts: counts, norm: math.Sqrt(sum)}
}

// Tokenize normalizes text and splits it on anything that is not a letter or
// digit. Tokens shorter than two runes are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Len returns the number of distinct terms.
func (f *Fingerprint) Len() int {
	if f == nil {
		return 0
	}
	return len(f.counts)
}

// CosineSimilarity compares two fingerprints. Nil or empty fingerprints score 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	if len(b.counts) < len(a.counts) {
		a, b = b, a
	}
	var dot float64
	for token, c := range a.counts {
		dot += c * b.counts[token]
	}
	if dot == 0 {
		return 0
	}
	return math.Min(1, dot/(a.norm*b.norm))
}

// TokenSimilarity fingerprints both texts and returns their cosine similarity.
func TokenSimilarity(a, b string) float64 {
	return CosineSimilarity(NewFingerprint(a), NewFingerprint(b))
}

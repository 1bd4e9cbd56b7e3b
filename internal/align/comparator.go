package align

import "math"

// Comparator scores one field of two records. Build comparators with Field or
// StringField; the zero value is rejected by New.
type Comparator[R any] struct {
	// Name labels the field in logs and errors.
	Name string
	// Weight is the field's share of the combined score. Must be >= 0.
	Weight float64

	score func(a, b R) float64
}

// Field builds a comparator for an arbitrary projection type. extract returns
// ok=false when the record has no usable value for the field (absent, empty or
// malformed); the field then scores 0 for that pair instead of failing the
// alignment.
func Field[R, P any](name string, weight float64, extract func(R) (P, bool), similarity func(a, b P) float64) Comparator[R] {
	c := Comparator[R]{Name: name, Weight: weight}
	if extract == nil || similarity == nil {
		return c
	}
	c.score = func(a, b R) float64 {
		pa, ok := extract(a)
		if !ok {
			return 0
		}
		pb, ok := extract(b)
		if !ok {
			return 0
		}
		return clampUnit(similarity(pa, pb))
	}
	return c
}

// StringField builds a comparator that scores string projections with
// StringSimilarity.
func StringField[R any](name string, weight float64, extract func(R) (string, bool)) Comparator[R] {
	return Field(name, weight, extract, StringSimilarity)
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return 1
	default:
		return v
	}
}

package align

import "math"

// Unmatched marks a primary element for which no secondary element was
// accepted. It is never a valid index.
const Unmatched = -1

const (
	// DefaultMinimumSimilarity is the floor below which no pair is accepted.
	DefaultMinimumSimilarity = 0.83
	// DefaultLockInThreshold is the score at which the first candidate found
	// is accepted without scanning the rest.
	DefaultLockInThreshold = 0.97
)

// Option adjusts a Matcher during construction.
type Option func(*settings)

type settings struct {
	minimumSimilarity float64
	lockInThreshold   float64
}

// WithMinimumSimilarity overrides DefaultMinimumSimilarity.
func WithMinimumSimilarity(v float64) Option {
	return func(s *settings) { s.minimumSimilarity = v }
}

// WithLockInThreshold overrides DefaultLockInThreshold. A value above 1
// disables the lock-in fast path.
func WithLockInThreshold(v float64) Option {
	return func(s *settings) { s.lockInThreshold = v }
}

// Matcher aligns sequences of R. The comparator set is fixed at construction;
// the thresholds can be changed between calls. Concurrent Align calls are
// safe as long as no setter runs at the same time.
type Matcher[R any] struct {
	comparators []Comparator[R]
	totalWeight float64

	minimumSimilarity float64
	lockInThreshold   float64
}

// New validates the comparator set and thresholds and returns a Matcher.
func New[R any](comparators []Comparator[R], opts ...Option) (*Matcher[R], error) {
	if len(comparators) == 0 {
		return nil, configError("at least one comparator is required")
	}
	var total float64
	for i, c := range comparators {
		if c.score == nil {
			return nil, configError("comparator %d (%q) has no extractor or similarity", i, c.Name)
		}
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight < 0 {
			return nil, configError("comparator %d (%q) has invalid weight %v", i, c.Name, c.Weight)
		}
		total += c.Weight
	}
	if total <= 0 {
		return nil, configError("comparator weights sum to zero")
	}

	s := settings{
		minimumSimilarity: DefaultMinimumSimilarity,
		lockInThreshold:   DefaultLockInThreshold,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if err := validateThresholds(s.minimumSimilarity, s.lockInThreshold); err != nil {
		return nil, err
	}

	return &Matcher[R]{
		comparators:       append([]Comparator[R](nil), comparators...),
		totalWeight:       total,
		minimumSimilarity: s.minimumSimilarity,
		lockInThreshold:   s.lockInThreshold,
	}, nil
}

// MinimumSimilarity returns the current acceptance floor.
func (m *Matcher[R]) MinimumSimilarity() float64 { return m.minimumSimilarity }

// LockInThreshold returns the current lock-in threshold.
func (m *Matcher[R]) LockInThreshold() float64 { return m.lockInThreshold }

// SetMinimumSimilarity changes the acceptance floor. The new pair is checked
// by Validate and on the next Align.
func (m *Matcher[R]) SetMinimumSimilarity(v float64) { m.minimumSimilarity = v }

// SetLockInThreshold changes the lock-in threshold. The new pair is checked
// by Validate and on the next Align.
func (m *Matcher[R]) SetLockInThreshold(v float64) { m.lockInThreshold = v }

// Validate reports whether the current thresholds are usable.
func (m *Matcher[R]) Validate() error {
	return validateThresholds(m.minimumSimilarity, m.lockInThreshold)
}

func validateThresholds(minimum, lockIn float64) error {
	if math.IsNaN(minimum) || math.IsInf(minimum, 0) {
		return configError("minimum similarity must be a finite number, got %v", minimum)
	}
	if math.IsNaN(lockIn) || math.IsInf(lockIn, 0) {
		return configError("lock-in threshold must be a finite number, got %v", lockIn)
	}
	if minimum > lockIn {
		return configError("minimum similarity %.4f exceeds lock-in threshold %.4f", minimum, lockIn)
	}
	return nil
}

// Score returns the weighted average field similarity of a and b in [0, 1].
func (m *Matcher[R]) Score(a, b R) float64 {
	var sum float64
	for _, c := range m.comparators {
		if c.Weight == 0 {
			continue
		}
		sum += c.Weight * c.score(a, b)
	}
	return clampUnit(sum / m.totalWeight)
}

package align

// Align pairs each element of primary with at most one element of secondary.
// The argument order is significant: primary elements are visited in order
// and claim secondary elements greedily, so earlier primary elements win
// contested candidates.
//
// The returned Result always covers every primary element. The only error is
// a configuration error from the current thresholds.
func (m *Matcher[R]) Align(primary, secondary []R) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{
		Matches: make([]int, len(primary)),
		Scores:  make([]float64, len(primary)),
	}
	for i := range res.Matches {
		res.Matches[i] = Unmatched
	}
	if len(primary) == 0 || len(secondary) == 0 {
		return res, nil
	}

	minimum := m.minimumSimilarity
	lockIn := m.lockInThreshold
	consumed := make([]bool, len(secondary))
	remaining := len(secondary)

	for i := range primary {
		if remaining == 0 {
			break
		}
		best := Unmatched
		bestScore := 0.0
		locked := false
		for j := range secondary {
			if consumed[j] {
				continue
			}
			score := m.Score(primary[i], secondary[j])
			res.Comparisons++
			if score >= lockIn {
				best, bestScore, locked = j, score, true
				break
			}
			if best == Unmatched || score > bestScore {
				best, bestScore = j, score
			}
		}
		if best == Unmatched || (!locked && bestScore < minimum) {
			continue
		}
		consumed[best] = true
		remaining--
		res.Matches[i] = best
		res.Scores[i] = bestScore
		if locked {
			res.LockIns++
		}
	}
	return res, nil
}

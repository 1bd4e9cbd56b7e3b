package align

// Result is the outcome of one Align call.
type Result struct {
	// Matches holds, for each primary index, the chosen secondary index or
	// Unmatched. Non-Unmatched entries are pairwise distinct.
	Matches []int
	// Scores holds the combined score of each accepted pair, 0 when unmatched.
	Scores []float64
	// Comparisons counts record-pair scorings performed.
	Comparisons int
	// LockIns counts matches accepted through the lock-in fast path.
	LockIns int
}

// Pair is one accepted primary/secondary pairing.
type Pair struct {
	Primary   int
	Secondary int
	Score     float64
}

// Pairs lists accepted pairings in primary order.
func (r Result) Pairs() []Pair {
	pairs := make([]Pair, 0, len(r.Matches))
	for i, j := range r.Matches {
		if j == Unmatched {
			continue
		}
		pairs = append(pairs, Pair{Primary: i, Secondary: j, Score: r.Scores[i]})
	}
	return pairs
}

// MatchedCount returns the number of primary elements that found a match.
func (r Result) MatchedCount() int {
	n := 0
	for _, j := range r.Matches {
		if j != Unmatched {
			n++
		}
	}
	return n
}

package align

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"podalign/internal/textutil"
)

// StringSimilarity returns 1 - editDistance/maxLength over the normalized
// forms of a and b (see textutil.Normalize). Identical strings score 1.
// A string that normalizes to empty is treated as absent and scores 0.
func StringSimilarity(a, b string) float64 {
	na := textutil.Normalize(a)
	nb := textutil.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	longest := max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))
	dist := levenshtein.ComputeDistance(na, nb)
	return clampUnit(1 - float64(dist)/float64(longest))
}

// LCSRatio returns 2*LCS/(len(a)+len(b)) over the runes of the normalized
// inputs, where LCS is the longest common subsequence. It rewards shared
// prefixes and suffixes more than StringSimilarity when one side is a
// truncated or decorated copy of the other.
func LCSRatio(a, b string) float64 {
	ra := []rune(textutil.Normalize(a))
	rb := []rune(textutil.Normalize(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return clampUnit(2 * float64(lcs) / float64(len(ra)+len(rb)))
}

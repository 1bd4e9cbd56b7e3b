package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC, Unicode case folding and whitespace collapsing.
// Punctuation is preserved.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	// A Caser carries state and must not be shared across goroutines.
	folded := cases.Fold().String(norm.NFKC.String(text))
	return strings.Join(strings.Fields(folded), " ")
}

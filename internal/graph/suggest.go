package graph

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// closest returns the candidate with the smallest edit distance to want.
// Candidates further away than a third of want's length (minimum 2) are
// not considered similar and closest returns false.
func closest(want string, candidates []string) (string, bool) {
	if want == "" || len(candidates) == 0 {
		return "", false
	}

	limit := max(2, utf8.RuneCountInString(want)/3)
	dmp := diffmatchpatch.New()

	best, bestDist := "", limit+1
	for _, c := range candidates {
		if c == "" || c == want {
			continue
		}
		d := dmp.DiffLevenshtein(dmp.DiffMain(want, c, false))
		if d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

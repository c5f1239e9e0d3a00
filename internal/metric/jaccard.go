package metric

import (
	"math"
	"strings"
)

// WordJaccard returns the Jaccard distance between the whitespace-separated word
// sets of a and b, scaled to 0..100 and rounded half away from zero.
// Word order and repeated words do not matter. Two strings without any words are
// identical (distance 0).
func WordJaccard(a, b string) int {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}

	similarity := float64(intersection) / float64(union)
	return int(math.Round((1 - similarity) * 100))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

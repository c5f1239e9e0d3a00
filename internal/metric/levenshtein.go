// Package metric provides the distance functions used to rank stored strings.
package metric

// Levenshtein returns the minimum number of single-rune insertions, deletions and
// substitutions needed to turn a into b. Runes are compared, not bytes, so a
// multi-byte character counts as one position.
//
// The full (len(a)+1) x (len(b)+1) matrix is kept: O(len(a)*len(b)) time and space.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	d := make([][]int, lenA+1)
	for i := range d {
		d[i] = make([]int, lenB+1)
	}
	for i := 0; i <= lenA; i++ {
		d[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		d[0][j] = j
	}

	for i, ra := range runesA {
		for j, rb := range runesB {
			cost := 1
			if ra == rb {
				cost = 0
			}
			d[i+1][j+1] = min(
				d[i][j+1]+1,  // deletion
				d[i+1][j]+1,  // insertion
				d[i][j]+cost, // substitution
			)
		}
	}

	return d[lenA][lenB]
}

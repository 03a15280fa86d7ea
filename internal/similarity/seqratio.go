package similarity

// sequenceRatio measures character-level similarity between two strings
// as 2*M/T, where M is the total length of matched blocks found by the
// Ratcliff/Obershelp longest-matching-block recursion and T the
// combined length. It catches typos and minor title rewordings that
// token-level Jaccard misses.
func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	matched := matchedLength(ra, rb, 0, len(ra), 0, len(rb))
	return 2 * float64(matched) / float64(total)
}

func matchedLength(a, b []rune, alo, ahi, blo, bhi int) int {
	besti, bestj, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	matched := size
	matched += matchedLength(a, b, alo, besti, blo, bestj)
	matched += matchedLength(a, b, besti+size, ahi, bestj+size, bhi)
	return matched
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] within the
// given bounds, preferring the earliest block in a, then in b, on ties.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (int, int, int) {
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj, bestSize := alo, blo, 0
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return besti, bestj, bestSize
}

package similarity

import (
	"hash/fnv"
	"math/bits"
)

const simhashBits = 64

// simhash64 computes a 64-bit locality-sensitive fingerprint from the
// token stream: each token's FNV-64a hash votes every bit position up
// or down, and the sign of the accumulated vote fixes the final bit.
// Hamming distance between two fingerprints approximates dissimilarity
// between the token-weighted bags of words that produced them.
//
// The boolean reports whether any tokens contributed; an empty token
// stream has no meaningful fingerprint.
func simhash64(tokens []string) (uint64, bool) {
	if len(tokens) == 0 {
		return 0, false
	}

	var votes [simhashBits]int
	for _, token := range tokens {
		h := hashToken64(token)
		for bit := 0; bit < simhashBits; bit++ {
			if h&(uint64(1)<<bit) != 0 {
				votes[bit]++
			} else {
				votes[bit]--
			}
		}
	}

	var fingerprint uint64
	for bit := 0; bit < simhashBits; bit++ {
		if votes[bit] > 0 {
			fingerprint |= uint64(1) << bit
		}
	}
	return fingerprint, true
}

func hashToken64(token string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	return h.Sum64()
}

// simhashSimilarity converts Hamming distance into a [0,1] similarity.
func simhashSimilarity(a, b uint64) float64 {
	distance := bits.OnesCount64(a ^ b)
	return 1 - float64(distance)/simhashBits
}

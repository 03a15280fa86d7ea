package similarity

import "testing"

func TestSimhash64(t *testing.T) {
	t.Parallel()

	if _, ok := simhash64(nil); ok {
		t.Fatal("empty token stream should not produce a fingerprint")
	}

	tokens := []string{"model", "reason", "bench", "code"}
	fpA, okA := simhash64(tokens)
	fpB, okB := simhash64(tokens)
	if !okA || !okB {
		t.Fatal("expected fingerprints for non-empty token streams")
	}
	if fpA != fpB {
		t.Fatalf("fingerprint is not deterministic: %x vs %x", fpA, fpB)
	}
	if got := simhashSimilarity(fpA, fpB); got != 1 {
		t.Fatalf("identical fingerprints should score 1, got %v", got)
	}
}

func TestSimhashSimilarityTracksOverlap(t *testing.T) {
	t.Parallel()

	base := []string{"model", "reason", "bench", "code", "chat", "token", "train", "data"}
	near := []string{"model", "reason", "bench", "code", "chat", "token", "train", "eval"}
	far := []string{"recipe", "garlic", "butter", "oven", "flour", "sugar", "yeast", "salt"}

	fpBase, _ := simhash64(base)
	fpNear, _ := simhash64(near)
	fpFar, _ := simhash64(far)

	nearSim := simhashSimilarity(fpBase, fpNear)
	farSim := simhashSimilarity(fpBase, fpFar)
	if nearSim <= farSim {
		t.Fatalf("near-identical stream (%v) should outscore unrelated stream (%v)", nearSim, farSim)
	}
	if nearSim < 0 || nearSim > 1 || farSim < 0 || farSim > 1 {
		t.Fatalf("similarity outside [0,1]: %v, %v", nearSim, farSim)
	}
}

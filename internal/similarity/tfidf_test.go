package similarity

import (
	"math"
	"testing"
)

func TestTFIDFCosine(t *testing.T) {
	t.Parallel()

	if got := tfidfCosine("quantum computing hits milestone", "quantum computing hits milestone"); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical texts should score ~1, got %v", got)
	}
	if got := tfidfCosine("alpha beta gamma", "delta epsilon zeta"); got != 0 {
		t.Fatalf("texts with no shared terms should score 0, got %v", got)
	}
	if got := tfidfCosine("", "anything"); got != 0 {
		t.Fatalf("empty text should score 0, got %v", got)
	}
	if got := tfidfCosine("the and of to", "is are was were"); got != 0 {
		t.Fatalf("pure stop-word texts should score 0, got %v", got)
	}

	partial := tfidfCosine(
		"quantum computing startup raises funding",
		"quantum computing lab publishes benchmark",
	)
	if partial <= 0 || partial >= 1 {
		t.Fatalf("partially overlapping texts should score strictly between 0 and 1, got %v", partial)
	}
}

func TestTFIDFNgrams(t *testing.T) {
	t.Parallel()

	grams := tfidfNgrams("The model beats the benchmark")
	want := map[string]bool{
		"model":           true,
		"beats":           true,
		"benchmark":       true,
		"model beats":     true,
		"beats benchmark": true,
	}
	if len(grams) != len(want) {
		t.Fatalf("unexpected gram count: got %v", grams)
	}
	for _, g := range grams {
		if !want[g] {
			t.Fatalf("unexpected gram %q in %v", g, grams)
		}
	}
}

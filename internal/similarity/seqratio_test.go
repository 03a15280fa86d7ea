package similarity

import (
	"math"
	"testing"
)

func TestSequenceRatio(t *testing.T) {
	t.Parallel()

	if got := sequenceRatio("same title", "same title"); got != 1 {
		t.Fatalf("identical strings should score 1, got %v", got)
	}
	if got := sequenceRatio("", ""); got != 1 {
		t.Fatalf("two empty strings should score 1, got %v", got)
	}
	if got := sequenceRatio("abc", ""); got != 0 {
		t.Fatalf("one empty string should score 0, got %v", got)
	}

	// longest block "bcd" matches, 2*3/8
	if got := sequenceRatio("abcd", "bcde"); got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
}

func TestSequenceRatioRewording(t *testing.T) {
	t.Parallel()

	short := sequenceRatio(
		"openai releases gpt-5 model today",
		"openai releases gpt-5 model",
	)
	if math.Abs(short-0.9) > 1e-12 {
		t.Fatalf("expected ratio 0.9 for trailing-word difference, got %v", short)
	}

	unrelated := sequenceRatio("gpt-5 released", "quarterly tax filing deadline")
	if unrelated >= short {
		t.Fatalf("unrelated titles (%v) should score below a reworded title (%v)", unrelated, short)
	}
}

package similarity

import (
	"reflect"
	"testing"
)

func TestTokensNormalization(t *testing.T) {
	t.Parallel()

	tok := DefaultTokenizer()

	got := tok.Tokens("AI is the new electricity!")
	want := []string{"the", "new", "electric"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens: got %v, want %v", got, want)
	}

	if got := tok.Tokens("   "); got != nil {
		t.Fatalf("expected no tokens for blank input, got %v", got)
	}
}

func TestStemSuffixRules(t *testing.T) {
	t.Parallel()

	tok := DefaultTokenizer()
	cases := map[string]string{
		"models":    "model",
		"talking":   "talk",
		"happiness": "happi",
		"releases":  "releas",
		// five characters or fewer never stem
		"cats":  "cats",
		"using": "using",
	}
	for in, want := range cases {
		if got := tok.stem(in); got != want {
			t.Fatalf("stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	a := tokenSet([]string{"model", "releas", "bench"})
	b := tokenSet([]string{"model", "releas", "chat"})

	if got := jaccard(a, a); got != 1 {
		t.Fatalf("identical sets should score 1, got %v", got)
	}
	if got := jaccard(a, b); got != 0.5 {
		t.Fatalf("expected 2/4 overlap = 0.5, got %v", got)
	}
	if got := jaccard(a, nil); got != 0 {
		t.Fatalf("empty side should score 0, got %v", got)
	}
	if got := jaccard(a, tokenSet([]string{"zebra"})); got != 0 {
		t.Fatalf("disjoint sets should score 0, got %v", got)
	}
}

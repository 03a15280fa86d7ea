package similarity

import (
	"strings"
)

// Tokenizer splits comparison text into normalized tokens. The default
// implementation is English-biased; alternate corpora can plug in their
// own rule set without touching the cascade.
type Tokenizer interface {
	Tokens(text string) []string
}

// defaultSuffixes is ordered: the first matching suffix wins, so longer
// or more specific suffixes come before their substrings.
var defaultSuffixes = []string{
	"ing", "ment", "tion", "sion", "ness", "able", "ible",
	"ity", "ies", "ance", "ence", "ly", "ed", "es", "s",
}

// SuffixStemTokenizer lowercases, strips non-alphanumeric runes to
// spaces, discards tokens of length <= 2, and folds near-morphological
// variants by removing one common suffix from tokens longer than five
// characters. This is deliberately crude, not a linguistic stemmer; the
// exact rules are load-bearing for score parity across deployments.
type SuffixStemTokenizer struct {
	suffixes []string
}

// NewSuffixStemTokenizer returns the default tokenizer. A nil or empty
// suffix list disables stemming.
func NewSuffixStemTokenizer(suffixes []string) *SuffixStemTokenizer {
	return &SuffixStemTokenizer{suffixes: suffixes}
}

// DefaultTokenizer returns the stock English tokenizer used by
// NewDetector when no override is supplied.
func DefaultTokenizer() *SuffixStemTokenizer {
	return NewSuffixStemTokenizer(defaultSuffixes)
}

func (t *SuffixStemTokenizer) Tokens(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) <= 2 {
			continue
		}
		tokens = append(tokens, t.stem(field))
	}
	return tokens
}

func (t *SuffixStemTokenizer) stem(token string) string {
	if len(token) <= 5 {
		return token
	}
	for _, suffix := range t.suffixes {
		if strings.HasSuffix(token, suffix) {
			return token[:len(token)-len(suffix)]
		}
	}
	return token
}

func tokenSet(tokens []string) map[string]struct{} {
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// jaccard is intersection-over-union of two token sets. Either side
// empty scores zero.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

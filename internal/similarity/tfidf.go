package similarity

import (
	"math"
	"sort"
	"strings"
)

const tfidfMaxFeatures = 1000

// englishStopWords is the fixed stop-word list applied before n-gram
// construction. Frozen: changing it shifts cosine values across the
// whole corpus.
var englishStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
a about above after again against all also am an and any are aren as at
be because been before being below between both but by can cannot could
did do does doing don down during each few for from further had has have
having he her here hers herself him himself his how i if in into is it
its itself just me more most my myself no nor not now of off on once
only or other our ours ourselves out over own same she should so some
such than that the their theirs them themselves then there these they
this those through to too under until up very was we were what when
where which while who whom why will with would you your yours yourself
yourselves`) {
		englishStopWords[w] = struct{}{}
	}
}

// tfidfCosine computes the cosine similarity between the two texts
// under a vectorizer fitted on this pair alone: unigrams and bigrams
// over stop-word-filtered word tokens, vocabulary capped at
// tfidfMaxFeatures, smoothed idf, l2-normalized vectors. Degenerate
// input (for example both texts pure stop-words) yields 0 rather than
// an error; the cascade treats this stage as best-effort.
func tfidfCosine(textA, textB string) float64 {
	gramsA := tfidfNgrams(textA)
	gramsB := tfidfNgrams(textB)
	if len(gramsA) == 0 || len(gramsB) == 0 {
		return 0
	}

	countsA := countGrams(gramsA)
	countsB := countGrams(gramsB)

	vocab := buildVocabulary(countsA, countsB, tfidfMaxFeatures)
	if len(vocab) == 0 {
		return 0
	}

	vecA := make([]float64, len(vocab))
	vecB := make([]float64, len(vocab))
	for i, term := range vocab {
		df := 0
		if countsA[term] > 0 {
			df++
		}
		if countsB[term] > 0 {
			df++
		}
		// smoothed idf over a two-document corpus
		idf := math.Log(3.0/float64(1+df)) + 1
		vecA[i] = float64(countsA[term]) * idf
		vecB[i] = float64(countsB[term]) * idf
	}

	normalize(vecA)
	normalize(vecB)

	dot := 0.0
	for i := range vecA {
		dot += vecA[i] * vecB[i]
	}
	if math.IsNaN(dot) {
		return 0
	}
	return dot
}

// tfidfNgrams uses its own word splitting rather than the stemming
// tokenizer: words of two or more characters, stop words dropped,
// bigrams formed over the filtered sequence.
func tfidfNgrams(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := make([]string, 0, 32)
	for _, field := range strings.Fields(b.String()) {
		if len(field) < 2 {
			continue
		}
		if _, stop := englishStopWords[field]; stop {
			continue
		}
		words = append(words, field)
	}
	if len(words) == 0 {
		return nil
	}

	grams := make([]string, 0, 2*len(words))
	grams = append(grams, words...)
	for i := 0; i+1 < len(words); i++ {
		grams = append(grams, words[i]+" "+words[i+1])
	}
	return grams
}

func countGrams(grams []string) map[string]int {
	counts := make(map[string]int, len(grams))
	for _, g := range grams {
		counts[g]++
	}
	return counts
}

// buildVocabulary keeps the max most frequent terms across both
// documents, breaking count ties lexicographically so the result is
// deterministic.
func buildVocabulary(countsA, countsB map[string]int, max int) []string {
	totals := make(map[string]int, len(countsA)+len(countsB))
	for term, n := range countsA {
		totals[term] += n
	}
	for term, n := range countsB {
		totals[term] += n
	}

	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > max {
		terms = terms[:max]
	}
	return terms
}

func normalize(vec []float64) {
	sum := 0.0
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

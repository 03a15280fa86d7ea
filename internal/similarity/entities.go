package similarity

import (
	"regexp"
	"strings"
)

// EntityExtractor pulls comparable entity signals out of one text.
// Shared entities between two documents are a strong hint that both
// describe the same story even when the wording diverges. The default
// implementation is tuned for English AI/tech coverage; other corpora
// can supply their own pattern sets.
type EntityExtractor interface {
	Extract(text string) EntityProfile
}

// EntityProfile holds the entity signals of one document. Pattern hits
// are keyed by pattern index so two profiles from the same extractor
// can be intersected.
type EntityProfile struct {
	Patterns    map[int]struct{}
	ProperNouns map[string]struct{}
	Codes       map[string]struct{}
}

// SharedEntityCount counts entities present in both profiles.
// Alphanumeric codes (HER2, IAM1363 style) weigh double because a
// shared code almost always pins the same underlying story.
func SharedEntityCount(a, b EntityProfile) int {
	count := 0
	for idx := range a.Patterns {
		if _, ok := b.Patterns[idx]; ok {
			count++
		}
	}
	for noun := range a.ProperNouns {
		if _, ok := b.ProperNouns[noun]; ok {
			count++
		}
	}
	for code := range a.Codes {
		if _, ok := b.Codes[code]; ok {
			count += 2
		}
	}
	return count
}

// DefaultEntityPatterns matches product, model, and company names
// common in AI news. Matching runs against lowercased text.
var DefaultEntityPatterns = []string{
	`\bgpt-?\d+\b`,
	`\bclaude[- ]?\d+\.?\d*\b`,
	`\bgemini[- ]?\d+\.?\d*\b`,
	`\bllama[- ]?\d+\b`,
	`\bmistral\b`,
	`\bopenai\b`,
	`\banthrop\w*\b`,
	`\bgoogle\b`,
	`\bmeta\b`,
	`\bdeepseek\b`,
	`\bqwen\b`,
	`\bvit\b`,
	`\btransform\w*\b`,
	`\bdiffusion\b`,
	`\bsora\b`,
	`\bdalle\b`,
	`\bmidjourney\b`,
}

var (
	properNounRE = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z]+)*\b`)
	codeRE       = regexp.MustCompile(`\b[A-Z]{2,}\d+\b`)
)

// sentence-initial words that look like proper nouns but carry no
// entity signal
var properNounStoplist = map[string]struct{}{
	"The": {}, "This": {}, "That": {}, "What": {}, "How": {},
	"When": {}, "Where": {}, "Why": {}, "Which": {},
}

// PatternEntityExtractor is the default EntityExtractor: fixed regex
// patterns, capitalized proper nouns minus a stoplist, and uppercase
// alphanumeric codes.
type PatternEntityExtractor struct {
	patterns []*regexp.Regexp
}

func NewPatternEntityExtractor(patterns []string) (*PatternEntityExtractor, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &PatternEntityExtractor{patterns: compiled}, nil
}

// DefaultEntityExtractor returns the stock extractor. The default
// pattern set is known-good, so compilation cannot fail.
func DefaultEntityExtractor() *PatternEntityExtractor {
	extractor, err := NewPatternEntityExtractor(DefaultEntityPatterns)
	if err != nil {
		panic(err)
	}
	return extractor
}

func (e *PatternEntityExtractor) Extract(text string) EntityProfile {
	profile := EntityProfile{
		Patterns:    map[int]struct{}{},
		ProperNouns: map[string]struct{}{},
		Codes:       map[string]struct{}{},
	}
	if text == "" {
		return profile
	}

	lowered := strings.ToLower(text)
	for idx, re := range e.patterns {
		if re.MatchString(lowered) {
			profile.Patterns[idx] = struct{}{}
		}
	}

	for _, noun := range properNounRE.FindAllString(text, -1) {
		if _, stop := properNounStoplist[noun]; stop {
			continue
		}
		profile.ProperNouns[noun] = struct{}{}
	}

	for _, code := range codeRE.FindAllString(text, -1) {
		profile.Codes[code] = struct{}{}
	}
	return profile
}

var (
	moneyRE   = regexp.MustCompile(`\$\d+(?:\.\d+)?(?:\s*(?:m|b|million|billion|thousand|k))?`)
	percentRE = regexp.MustCompile(`\d+(?:\.\d+)?%`)
	bareNumRE = regexp.MustCompile(`\b\d{2,}\b`)
)

// extractNumbers pulls currency amounts, percentages, and bare numbers
// of two or more digits. Matching specific figures between documents is
// one of the strongest same-story indicators.
func extractNumbers(text string) map[string]struct{} {
	if text == "" {
		return nil
	}
	numbers := make(map[string]struct{})
	for _, match := range moneyRE.FindAllString(strings.ToLower(text), -1) {
		numbers[match] = struct{}{}
	}
	for _, match := range percentRE.FindAllString(text, -1) {
		numbers[match] = struct{}{}
	}
	for _, match := range bareNumRE.FindAllString(text, -1) {
		numbers[match] = struct{}{}
	}
	return numbers
}

// numberOverlap is |shared| / min(|a|, |b|); zero when either side has
// no numbers at all.
func numberOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for n := range a {
		if _, ok := b[n]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	minSize := len(a)
	if len(b) < minSize {
		minSize = len(b)
	}
	return float64(shared) / float64(minSize)
}

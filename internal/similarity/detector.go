package similarity

import (
	"fmt"
	"strings"
)

// Method names the cascade stage that decided a similarity score. It is
// diagnostic only: callers log it but never branch on it.
type Method string

const (
	MethodExactTitle    Method = "exact_title"
	MethodTitleMatch    Method = "title_match"
	MethodSimhash       Method = "simhash"
	MethodJaccard       Method = "jaccard"
	MethodTFIDF         Method = "tfidf"
	MethodSmartCombined Method = "smart_combined"
	MethodCombined      Method = "combined"
)

// Document is the unit of comparison: an optional stable identifier, a
// short title, and the comparison body. Callers should pre-truncate the
// body (content.Item.ComparisonText does) to bound tokenization cost.
type Document struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Result is one duplicate-confidence verdict in [0,1], monotonically
// interpreted as "probability these describe the same story".
type Result struct {
	Score  float64 `json:"score"`
	Method Method  `json:"method"`
}

const (
	DefaultSimhashThreshold = 0.85
	DefaultTFIDFThreshold   = 0.5
	DefaultTitleWeight      = 0.4

	titleExactThreshold = 0.95
	titleMatchThreshold = 0.80
	titleMatchDamping   = 0.95
	jaccardThreshold    = 0.60

	smartTitleFloor     = 0.6
	smartContentFloor   = 0.4
	smartAgreementBoost = 0.08

	// empirically tuned fusion constants; change only with a parity run
	// against the scenario fixtures
	entityBonusHigh = 0.12
	entityBonusMid  = 0.08
	entityBonusLow  = 0.04
	numberBonusHigh = 0.15
	numberBonusMid  = 0.08

	lengthPenaltyMidChars  = 1000
	lengthPenaltyHighChars = 2000
	lengthPenaltyMid       = 0.6
	lengthPenaltyHigh      = 0.3
)

// Config carries the tunable cascade thresholds. Zero values take the
// documented defaults; values outside [0,1] are rejected at
// construction, never at call time.
type Config struct {
	SimhashThreshold float64
	TFIDFThreshold   float64
	TitleWeight      float64
}

// Option overrides a detector collaborator.
type Option func(*Detector)

// WithTokenizer swaps the token normalization strategy.
func WithTokenizer(t Tokenizer) Option {
	return func(d *Detector) { d.tokenizer = t }
}

// WithEntityExtractor swaps the entity signal strategy.
func WithEntityExtractor(e EntityExtractor) Option {
	return func(d *Detector) { d.entities = e }
}

// Detector scores pairs of documents through a cascade of
// cheap-to-expensive similarity heuristics with early exit. It holds no
// per-comparison state and is safe for concurrent use.
type Detector struct {
	simhashThreshold float64
	tfidfThreshold   float64
	titleWeight      float64

	tokenizer Tokenizer
	entities  EntityExtractor
}

func NewDetector(cfg Config, opts ...Option) (*Detector, error) {
	if cfg.SimhashThreshold == 0 {
		cfg.SimhashThreshold = DefaultSimhashThreshold
	}
	if cfg.TFIDFThreshold == 0 {
		cfg.TFIDFThreshold = DefaultTFIDFThreshold
	}
	if cfg.TitleWeight == 0 {
		cfg.TitleWeight = DefaultTitleWeight
	}
	if cfg.SimhashThreshold < 0 || cfg.SimhashThreshold > 1 {
		return nil, fmt.Errorf("simhash threshold %v outside [0,1]", cfg.SimhashThreshold)
	}
	if cfg.TFIDFThreshold < 0 || cfg.TFIDFThreshold > 1 {
		return nil, fmt.Errorf("tfidf threshold %v outside [0,1]", cfg.TFIDFThreshold)
	}
	if cfg.TitleWeight < 0 || cfg.TitleWeight > 1 {
		return nil, fmt.Errorf("title weight %v outside [0,1]", cfg.TitleWeight)
	}

	d := &Detector{
		simhashThreshold: cfg.SimhashThreshold,
		tfidfThreshold:   cfg.TFIDFThreshold,
		titleWeight:      cfg.TitleWeight,
		tokenizer:        DefaultTokenizer(),
		entities:         DefaultEntityExtractor(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Prepared caches the per-document features (tokens, fingerprint,
// entity and number sets) so a document compared against a whole
// look-back window pays the extraction cost once. Feature extraction is
// pure; Prepared values may be built concurrently.
type Prepared struct {
	Doc Document

	titleKey      string
	titleTokenSet map[string]struct{}
	bodyTokenSet  map[string]struct{}
	fingerprint   uint64
	hasTokens     bool
	entities      EntityProfile
	numbers       map[string]struct{}
	bodyRunes     int
}

// Prepare extracts all cascade features from one document. Empty
// titles and bodies are fine: the corresponding stages score zero.
func (d *Detector) Prepare(doc Document) *Prepared {
	bodyTokens := d.tokenizer.Tokens(doc.Body)
	fingerprint, hasTokens := simhash64(bodyTokens)

	return &Prepared{
		Doc:           doc,
		titleKey:      strings.ToLower(strings.TrimSpace(doc.Title)),
		titleTokenSet: tokenSet(d.tokenizer.Tokens(doc.Title)),
		bodyTokenSet:  tokenSet(bodyTokens),
		fingerprint:   fingerprint,
		hasTokens:     hasTokens,
		entities:      d.entities.Extract(doc.Body),
		numbers:       extractNumbers(doc.Body),
		bodyRunes:     len([]rune(doc.Body)),
	}
}

// Check scores two raw documents. Use Prepare plus CheckPrepared when
// the same document is compared repeatedly.
func (d *Detector) Check(a, b Document) Result {
	return d.CheckPrepared(d.Prepare(a), d.Prepare(b))
}

// CheckPrepared runs the cascade, cheapest signal first, returning at
// the first stage that clears its threshold.
func (d *Detector) CheckPrepared(a, b *Prepared) Result {
	// Stage 1: title fast path.
	titleSim := 0.0
	hasTitles := a.titleKey != "" && b.titleKey != ""
	if hasTitles {
		titleSim = d.titleSimilarity(a, b)
		if titleSim >= titleExactThreshold {
			return Result{Score: titleSim, Method: MethodExactTitle}
		}
		if titleSim >= titleMatchThreshold {
			return Result{Score: titleSim * titleMatchDamping, Method: MethodTitleMatch}
		}
	}

	// Stage 2: SimHash over body fingerprints.
	simhashSim := 0.0
	if a.hasTokens && b.hasTokens {
		simhashSim = simhashSimilarity(a.fingerprint, b.fingerprint)
		if simhashSim >= d.simhashThreshold {
			return Result{Score: simhashSim, Method: MethodSimhash}
		}
	}

	// Stage 3: token-set Jaccard.
	jaccardSim := jaccard(a.bodyTokenSet, b.bodyTokenSet)
	if jaccardSim >= jaccardThreshold {
		return Result{Score: jaccardSim, Method: MethodJaccard}
	}

	// Stage 4: pairwise TF-IDF cosine.
	tfidfSim := tfidfCosine(a.Doc.Body, b.Doc.Body)
	if tfidfSim >= d.tfidfThreshold {
		return Result{Score: tfidfSim, Method: MethodTFIDF}
	}

	// Stage 5: fusion of everything computed so far plus entity and
	// number signals.
	contentSim := max3(simhashSim, jaccardSim, tfidfSim)

	sharedEntities := SharedEntityCount(a.entities, b.entities)
	entityBonus := entityBonusFor(sharedEntities, a.bodyRunes, b.bodyRunes)

	numberBonus := 0.0
	switch overlap := numberOverlap(a.numbers, b.numbers); {
	case overlap >= 0.5:
		numberBonus = numberBonusHigh
	case overlap >= 0.3:
		numberBonus = numberBonusMid
	}

	if hasTitles {
		if titleSim >= smartTitleFloor && contentSim >= smartContentFloor {
			combined := d.titleWeight*titleSim +
				(1-d.titleWeight)*contentSim +
				entityBonus + numberBonus + smartAgreementBoost
			return Result{Score: capScore(combined), Method: MethodSmartCombined}
		}
		combined := d.titleWeight*titleSim + (1-d.titleWeight)*contentSim + entityBonus + numberBonus
		return Result{Score: capScore(combined), Method: MethodCombined}
	}

	return Result{Score: capScore(contentSim + entityBonus + numberBonus), Method: MethodCombined}
}

// titleSimilarity is 1.0 on case-insensitive equality, otherwise the
// better of token Jaccard and character sequence ratio. The character
// ratio catches typos and small rewordings.
func (d *Detector) titleSimilarity(a, b *Prepared) float64 {
	if a.titleKey == b.titleKey {
		return 1.0
	}
	tokenSim := jaccard(a.titleTokenSet, b.titleTokenSet)
	charSim := sequenceRatio(strings.ToLower(a.Doc.Title), strings.ToLower(b.Doc.Title))
	if charSim > tokenSim {
		return charSim
	}
	return tokenSim
}

// entityBonusFor scales the shared-entity bonus down for long
// documents, which accumulate spurious shared entities.
func entityBonusFor(shared, runesA, runesB int) float64 {
	bonus := 0.0
	switch {
	case shared >= 3:
		bonus = entityBonusHigh
	case shared == 2:
		bonus = entityBonusMid
	case shared == 1:
		bonus = entityBonusLow
	default:
		return 0
	}

	avgLength := float64(runesA+runesB) / 2
	switch {
	case avgLength > lengthPenaltyHighChars:
		return bonus * lengthPenaltyHigh
	case avgLength > lengthPenaltyMidChars:
		return bonus * lengthPenaltyMid
	default:
		return bonus
	}
}

func capScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	return score
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// Package dedup collapses near-duplicate items describing the same
// underlying story before they reach the digest. It is a greedy single
// pass over a sliding look-back window, not exhaustive clustering: the
// window caps worst-case comparisons per item, and temporally adjacent
// duplicates are overwhelmingly more likely than distant ones.
package dedup

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/similarity"
)

const (
	// DefaultWindow bounds how many recent accepted items each incoming
	// item is compared against, keeping a pass O(n*window).
	DefaultWindow = 50

	DefaultThreshold = 0.68
)

// MethodExactID tags rejections made on identifier equality alone,
// where no similarity comparison ever runs.
const MethodExactID similarity.Method = "exact_id"

// Config tunes one pass. Zero values take defaults.
type Config struct {
	Threshold float64
	Window    int
	BodyLimit int
}

// Rejection records why an item was dropped. Diagnostic only: it must
// never feed back into acceptance decisions.
type Rejection struct {
	Item          content.Item      `json:"item"`
	DuplicateOfID string            `json:"duplicate_of_id,omitempty"`
	DuplicateOf   string            `json:"duplicate_of"`
	Score         float64           `json:"score"`
	Method        similarity.Method `json:"method"`
}

// Pass reduces an ordered item sequence to a maximal order-preserving
// subsequence of mutually non-duplicate items. Each Run owns its own
// accepted-list state; a Pass is safe to reuse across runs.
type Pass struct {
	detector  *similarity.Detector
	threshold float64
	window    int
	bodyLimit int
	logger    zerolog.Logger
}

func New(detector *similarity.Detector, cfg Config, logger zerolog.Logger) (*Pass, error) {
	if detector == nil {
		return nil, fmt.Errorf("similarity detector is required")
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("dedup threshold %v outside [0,1]", cfg.Threshold)
	}
	if cfg.Window == 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Window < 0 {
		return nil, fmt.Errorf("dedup window must be positive, got %d", cfg.Window)
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = content.DefaultComparisonLimit
	}

	return &Pass{
		detector:  detector,
		threshold: cfg.Threshold,
		window:    cfg.Window,
		bodyLimit: cfg.BodyLimit,
		logger:    logger,
	}, nil
}

// Run deduplicates items in order. The first occurrence of each
// duplicate cluster is kept; callers wanting the best-scored
// representative sort by descending relevance first. Accepted items
// come back in input order with metadata untouched.
func (p *Pass) Run(items []content.Item) ([]content.Item, []Rejection) {
	if len(items) == 0 {
		return nil, nil
	}

	accepted := make([]content.Item, 0, len(items))
	prepared := make([]*similarity.Prepared, 0, len(items))
	seenIDs := make(map[string]struct{}, len(items))
	var rejections []Rejection

	for _, item := range items {
		if item.ID != "" {
			if _, seen := seenIDs[item.ID]; seen {
				p.logger.Debug().
					Str("id", item.ID).
					Str("title", item.Title).
					Msg("rejected exact id repeat")
				rejections = append(rejections, Rejection{
					Item:          item,
					DuplicateOfID: item.ID,
					Score:         1,
					Method:        MethodExactID,
				})
				continue
			}
		}

		incoming := p.detector.Prepare(similarity.Document{
			ID:    item.ID,
			Title: item.Title,
			Body:  item.ComparisonText(p.bodyLimit),
		})

		match, matchIdx := p.findDuplicate(incoming, prepared)
		if matchIdx >= 0 {
			p.logger.Debug().
				Str("title", item.Title).
				Str("duplicate_of", accepted[matchIdx].Title).
				Float64("score", match.Score).
				Str("method", string(match.Method)).
				Msg("rejected duplicate")
			rejections = append(rejections, Rejection{
				Item:          item,
				DuplicateOfID: accepted[matchIdx].ID,
				DuplicateOf:   accepted[matchIdx].Title,
				Score:         match.Score,
				Method:        match.Method,
			})
			continue
		}

		accepted = append(accepted, item)
		prepared = append(prepared, incoming)
		if item.ID != "" {
			seenIDs[item.ID] = struct{}{}
		}
	}

	p.logger.Info().
		Int("input", len(items)).
		Int("accepted", len(accepted)).
		Int("rejected", len(rejections)).
		Float64("threshold", p.threshold).
		Msg("deduplication pass complete")

	return accepted, rejections
}

// findDuplicate compares the incoming item against the accepted window,
// most recent first, stopping at the first score that clears the
// threshold. A duplicate needs only one confirming match.
func (p *Pass) findDuplicate(incoming *similarity.Prepared, prepared []*similarity.Prepared) (similarity.Result, int) {
	window := p.window
	if window > len(prepared) {
		window = len(prepared)
	}

	for i := len(prepared) - 1; i >= len(prepared)-window; i-- {
		result := p.detector.CheckPrepared(incoming, prepared[i])
		if result.Score >= p.threshold {
			return result, i
		}
	}
	return similarity.Result{}, -1
}

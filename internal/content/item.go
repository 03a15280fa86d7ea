package content

import (
	"sort"
	"strings"
	"time"
)

// DefaultComparisonLimit bounds the body text used for duplicate
// comparison so tokenization cost stays flat per item.
const DefaultComparisonLimit = 1000

// Item is one collected document moving through the pipeline. Metadata
// is opaque to every processing stage and passes through unchanged.
type Item struct {
	ID             string         `json:"id"`
	Source         string         `json:"source"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	URL            string         `json:"url,omitempty"`
	Category       string         `json:"category,omitempty"`
	Language       string         `json:"language,omitempty"`
	RelevanceScore float64        `json:"relevance_score,omitempty"`
	Insights       string         `json:"insights,omitempty"`
	PublishedAt    time.Time      `json:"published_at,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ComparisonText builds the text compared during deduplication: the
// title plus the body truncated to limit runes. Insights, when present,
// stand in for the raw body because they are what the digest shows.
func (it Item) ComparisonText(limit int) string {
	if limit <= 0 {
		limit = DefaultComparisonLimit
	}

	title := strings.TrimSpace(it.Title)
	body := strings.TrimSpace(it.Insights)
	if body == "" {
		body = strings.TrimSpace(it.Body)
	}
	if body == "" {
		return title
	}

	runes := []rune(body)
	if len(runes) > limit {
		body = string(runes[:limit])
	}
	if title == "" {
		return body
	}
	return title + "\n\n" + body
}

// SortByScore orders items by descending relevance score in place,
// keeping the original order among equal scores. Callers sort before
// deduplication so the kept cluster representative is the best-scored
// one.
func SortByScore(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RelevanceScore > items[j].RelevanceScore
	})
}

// Package report renders the daily digest as markdown and writes it
// under the configured report directory.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/dedup"
)

// Options tunes digest rendering.
type Options struct {
	Dir      string
	Language string
	Now      func() time.Time
}

// Report is one rendered digest.
type Report struct {
	RunID      string
	Path       string
	Language   string
	ItemCount  int
	Duplicates int
	Markdown   string
}

type labelSet = map[string]string

// headings maps report language to section labels. Unknown languages
// fall back to English.
var headings = map[string]labelSet{
	"en": {
		"title":      "Intelligence Digest",
		"summary":    "Summary",
		"items":      "items",
		"duplicates": "duplicates removed",
		"other":      "Other",
		"score":      "relevance",
		"source":     "source",
	},
	"de": {
		"title":      "Nachrichtenübersicht",
		"summary":    "Zusammenfassung",
		"items":      "Beiträge",
		"duplicates": "Duplikate entfernt",
		"other":      "Sonstiges",
		"score":      "Relevanz",
		"source":     "Quelle",
	},
	"fr": {
		"title":      "Synthèse de veille",
		"summary":    "Résumé",
		"items":      "éléments",
		"duplicates": "doublons supprimés",
		"other":      "Autres",
		"score":      "pertinence",
		"source":     "source",
	},
}

// Generate renders the digest and writes it to disk. Items are grouped
// by category; within each group the incoming order is kept, which the
// pipeline has already sorted by relevance.
func Generate(items []content.Item, rejected []dedup.Rejection, opts Options) (Report, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	language := strings.ToLower(strings.TrimSpace(opts.Language))
	labels, ok := headings[language]
	if !ok {
		language = "en"
		labels = headings["en"]
	}
	dir := opts.Dir
	if dir == "" {
		dir = "data/reports"
	}

	report := Report{
		RunID:      uuid.NewString(),
		Language:   language,
		ItemCount:  len(items),
		Duplicates: len(rejected),
	}

	timestamp := now().UTC()
	report.Markdown = render(items, rejected, labels, timestamp)
	report.Path = filepath.Join(dir, fmt.Sprintf("digest-%s-%s.md",
		timestamp.Format("2006-01-02"), report.RunID[:8]))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(report.Path, []byte(report.Markdown), 0o644); err != nil {
		return report, fmt.Errorf("write report: %w", err)
	}
	return report, nil
}

func render(items []content.Item, rejected []dedup.Rejection, labels labelSet, timestamp time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s — %s\n\n", labels["title"], timestamp.Format("2006-01-02"))
	fmt.Fprintf(&b, "_%s: %d %s, %d %s_\n\n",
		labels["summary"], len(items), labels["items"], len(rejected), labels["duplicates"])

	groups := make(map[string][]content.Item)
	var order []string
	for _, item := range items {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = labels["other"]
		}
		if _, ok := groups[category]; !ok {
			order = append(order, category)
		}
		groups[category] = append(groups[category], item)
	}
	sort.Strings(order)

	for _, category := range order {
		fmt.Fprintf(&b, "## %s\n\n", category)
		for _, item := range groups[category] {
			writeItem(&b, item, labels)
		}
	}

	if len(rejected) > 0 {
		fmt.Fprintf(&b, "<details>\n<summary>%d %s</summary>\n\n", len(rejected), labels["duplicates"])
		for _, rejection := range rejected {
			fmt.Fprintf(&b, "- %s (%.2f, %s, = %s)\n",
				rejection.Item.Title, rejection.Score, rejection.Method, rejection.DuplicateOfID)
		}
		b.WriteString("\n</details>\n")
	}
	return b.String()
}

func writeItem(b *strings.Builder, item content.Item, labels labelSet) {
	if item.URL != "" {
		fmt.Fprintf(b, "### [%s](%s)\n\n", item.Title, item.URL)
	} else {
		fmt.Fprintf(b, "### %s\n\n", item.Title)
	}
	fmt.Fprintf(b, "_%s %.1f/10 · %s: %s_\n\n", labels["score"], item.RelevanceScore, labels["source"], item.Source)

	summary := strings.TrimSpace(item.Insights)
	if summary == "" {
		summary = summarize(item.Body, 400)
	}
	if summary != "" {
		b.WriteString(summary)
		b.WriteString("\n\n")
	}
}

// summarize cuts the body at the last sentence boundary before the
// limit, or hard-truncates with an ellipsis when there is none.
func summarize(body string, limit int) string {
	text := strings.TrimSpace(body)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexAny(cut, ".!?"); idx > limit/2 {
		return strings.TrimSpace(cut[:idx+1])
	}
	return strings.TrimSpace(cut) + "…"
}

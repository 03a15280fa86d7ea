package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/dedup"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
}

func TestGenerateWritesDigest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	items := []content.Item{
		{ID: "1", Title: "Reasoning milestone", Category: "Research", RelevanceScore: 9, URL: "https://example.com/1", Body: "A lab reported new benchmark results."},
		{ID: "2", Title: "Agent framework ships", Category: "Tools", RelevanceScore: 8, Insights: "A popular framework reached 1.0."},
		{ID: "3", Title: "Untagged item", RelevanceScore: 7},
	}
	rejected := []dedup.Rejection{
		{Item: content.Item{ID: "4", Title: "Reasoning milestone repost"}, DuplicateOfID: "1", Score: 0.91, Method: "title_match"},
	}

	report, err := Generate(items, rejected, Options{Dir: dir, Language: "en", Now: fixedNow})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if report.ItemCount != 3 || report.Duplicates != 1 {
		t.Fatalf("unexpected report counts: %+v", report)
	}
	if !strings.HasPrefix(filepath.Base(report.Path), "digest-2026-08-30-") {
		t.Fatalf("unexpected report filename: %s", report.Path)
	}

	written, err := os.ReadFile(report.Path)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	text := string(written)
	if text != report.Markdown {
		t.Fatal("file content should match the returned markdown")
	}

	for _, want := range []string{
		"## Research",
		"## Tools",
		"## Other",
		"[Reasoning milestone](https://example.com/1)",
		"A popular framework reached 1.0.",
		"Reasoning milestone repost",
		"1 duplicates removed",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("digest missing %q:\n%s", want, text)
		}
	}
}

func TestGenerateUnknownLanguageFallsBack(t *testing.T) {
	t.Parallel()

	report, err := Generate([]content.Item{{ID: "1", Title: "Item"}}, nil, Options{
		Dir:      t.TempDir(),
		Language: "xx",
		Now:      fixedNow,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if report.Language != "en" {
		t.Fatalf("unknown language should fall back to en, got %s", report.Language)
	}
	if !strings.Contains(report.Markdown, "Intelligence Digest") {
		t.Fatal("expected English headings in fallback")
	}
}

func TestSummarizeCutsAtSentence(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("Sentence one is here. ", 30)
	got := summarize(body, 100)
	if !strings.HasSuffix(got, ".") {
		t.Fatalf("expected cut at sentence boundary, got %q", got)
	}
	if len(got) > 100 {
		t.Fatalf("summary exceeds limit: %d chars", len(got))
	}

	unbroken := strings.Repeat("x", 300)
	got = summarize(unbroken, 100)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis for unbreakable text, got %q", got)
	}
}

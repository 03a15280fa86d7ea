package config

import (
	"reflect"
	"testing"
)

func validConfig() Config {
	return Config{
		Environment:        "local",
		LogLevel:           "info",
		SimhashThreshold:   0.85,
		TFIDFThreshold:     0.5,
		TitleWeight:        0.4,
		DedupThreshold:     0.68,
		DedupWindow:        50,
		ComparisonLimit:    1000,
		RelevanceThreshold: 7,
		MaxReportItems:     30,
		CacheRetentionDays: 90,
		ReportDir:          "data/reports",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}

	if cfg.DedupThreshold != 0.68 {
		t.Fatalf("unexpected default dedup threshold: %v", cfg.DedupThreshold)
	}
	if cfg.DedupWindow != 50 {
		t.Fatalf("unexpected default dedup window: %d", cfg.DedupWindow)
	}
	if cfg.ComparisonLimit != 1000 {
		t.Fatalf("unexpected default comparison limit: %d", cfg.ComparisonLimit)
	}
	if cfg.OllamaModel == "" {
		t.Fatal("expected a default model name")
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.DedupThreshold = 1.2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for dedup threshold outside [0,1]")
	}

	cfg = validConfig()
	cfg.DedupWindow = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero dedup window")
	}

	cfg = validConfig()
	cfg.RelevanceThreshold = 11
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relevance threshold above 10")
	}

	cfg = validConfig()
	cfg.ReportDir = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank report dir")
	}

	cfg = validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestSubredditList(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.RedditSubreddits = " artificial, MachineLearning ,,artificial , LocalLLaMA"
	got := cfg.SubredditList()
	want := []string{"artificial", "MachineLearning", "LocalLLaMA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected subreddit list: %v", got)
	}

	cfg.RedditSubreddits = ""
	if got := cfg.SubredditList(); len(got) != 0 {
		t.Fatalf("empty setting should yield no subreddits, got %v", got)
	}
}

package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Empty disables the processed-content cache and report ledger.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	SimhashThreshold float64 `envconfig:"SIMHASH_THRESHOLD" default:"0.85"`
	TFIDFThreshold   float64 `envconfig:"TFIDF_THRESHOLD" default:"0.5"`
	TitleWeight      float64 `envconfig:"TITLE_WEIGHT" default:"0.4"`
	DedupThreshold   float64 `envconfig:"DEDUP_THRESHOLD" default:"0.68"`
	DedupWindow      int     `envconfig:"DEDUP_WINDOW" default:"50"`
	ComparisonLimit  int     `envconfig:"COMPARISON_LIMIT" default:"1000"`

	OllamaEndpoint     string  `envconfig:"OLLAMA_ENDPOINT" default:"http://127.0.0.1:11434"`
	OllamaModel        string  `envconfig:"OLLAMA_MODEL" default:"mistral"`
	RelevanceThreshold float64 `envconfig:"RELEVANCE_THRESHOLD" default:"7"`
	MaxReportItems     int     `envconfig:"MAX_REPORT_ITEMS" default:"30"`

	RedditSubreddits string `envconfig:"REDDIT_SUBREDDITS" default:"artificial,MachineLearning,LocalLLaMA"`
	RedditMinScore   int    `envconfig:"REDDIT_MIN_SCORE" default:"50"`
	RedditLimit      int    `envconfig:"REDDIT_LIMIT" default:"25"`
	YouTubeChannels  string `envconfig:"YOUTUBE_CHANNELS" default:""`
	YouTubeLimit     int    `envconfig:"YOUTUBE_LIMIT" default:"10"`

	ReportDir      string `envconfig:"REPORT_DIR" default:"data/reports"`
	ReportLanguage string `envconfig:"REPORT_LANGUAGE" default:"en"`

	DiscordWebhookURL string `envconfig:"DISCORD_WEBHOOK_URL" default:""`

	ServeAddr          string `envconfig:"SERVE_ADDR" default:":8090"`
	DaemonSchedule     string `envconfig:"DAEMON_SCHEDULE" default:"0 8 * * *"`
	CacheRetentionDays int    `envconfig:"CACHE_RETENTION_DAYS" default:"90"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	for name, value := range map[string]float64{
		"SIMHASH_THRESHOLD": c.SimhashThreshold,
		"TFIDF_THRESHOLD":   c.TFIDFThreshold,
		"TITLE_WEIGHT":      c.TitleWeight,
		"DEDUP_THRESHOLD":   c.DedupThreshold,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, value)
		}
	}
	if c.DedupWindow < 1 {
		return fmt.Errorf("DEDUP_WINDOW must be >= 1")
	}
	if c.ComparisonLimit < 1 {
		return fmt.Errorf("COMPARISON_LIMIT must be >= 1")
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 10 {
		return fmt.Errorf("RELEVANCE_THRESHOLD must be within [0,10], got %v", c.RelevanceThreshold)
	}
	if c.MaxReportItems < 1 {
		return fmt.Errorf("MAX_REPORT_ITEMS must be >= 1")
	}
	if c.CacheRetentionDays < 1 {
		return fmt.Errorf("CACHE_RETENTION_DAYS must be >= 1")
	}
	if strings.TrimSpace(c.ReportDir) == "" {
		return fmt.Errorf("REPORT_DIR is required")
	}
	return nil
}

func (c *Config) SubredditList() []string {
	return splitCommaList(c.RedditSubreddits)
}

func (c *Config) YouTubeChannelList() []string {
	return splitCommaList(c.YouTubeChannels)
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}

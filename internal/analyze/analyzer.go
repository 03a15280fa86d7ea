// Package analyze scores collected items for relevance with a local
// LLM served by Ollama and filters out anything below the configured
// floor.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/content"
)

const (
	DefaultEndpoint       = "http://127.0.0.1:11434"
	DefaultModel          = "mistral"
	DefaultRequestTimeout = 90 * time.Second
	DefaultMaxItems       = 30

	promptBodyLimit = 1500
)

// Options tunes one analysis run.
type Options struct {
	Endpoint           string
	Model              string
	RelevanceThreshold float64
	MaxItems           int
	RequestTimeout     time.Duration
	HTTPClient         *http.Client
}

// Result summarizes an analysis run.
type Result struct {
	Scored   int
	Kept     int
	Dropped  int
	Failed   int
	Duration time.Duration
}

// Analyzer asks the model for a 0-10 relevance score per item.
type Analyzer struct {
	logger zerolog.Logger
}

func NewAnalyzer(logger zerolog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

var scoreRE = regexp.MustCompile(`(?:^|[^\d.])(10|\d(?:\.\d+)?)`)

// Run scores every item, keeps the ones at or above the threshold,
// sorts the survivors by score, and caps the result at MaxItems.
// Scoring failures drop the item rather than aborting the run.
func (a *Analyzer) Run(ctx context.Context, items []content.Item, opts Options) ([]content.Item, Result, error) {
	opts = normalizeOptions(opts)
	start := time.Now()

	var result Result
	kept := make([]content.Item, 0, len(items))
	for i := range items {
		score, err := a.scoreItem(ctx, items[i], opts)
		if err != nil {
			if ctx.Err() != nil {
				return kept, result, ctx.Err()
			}
			result.Failed++
			a.logger.Warn().
				Err(err).
				Str("item_id", items[i].ID).
				Msg("relevance scoring failed")
			continue
		}
		result.Scored++
		items[i].RelevanceScore = score
		if score < opts.RelevanceThreshold {
			result.Dropped++
			continue
		}
		kept = append(kept, items[i])
	}

	content.SortByScore(kept)
	if opts.MaxItems > 0 && len(kept) > opts.MaxItems {
		kept = kept[:opts.MaxItems]
	}
	result.Kept = len(kept)
	result.Duration = time.Since(start)

	a.logger.Info().
		Int("scored", result.Scored).
		Int("kept", result.Kept).
		Int("dropped", result.Dropped).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("analysis complete")
	return kept, result, nil
}

func (a *Analyzer) scoreItem(ctx context.Context, item content.Item, opts Options) (float64, error) {
	body := item.Body
	if runes := []rune(body); len(runes) > promptBodyLimit {
		body = string(runes[:promptBodyLimit])
	}

	prompt := fmt.Sprintf(
		"Rate the relevance of this post to AI and machine learning practitioners on a scale of 0 to 10. "+
			"Reply with only the number.\n\nTitle: %s\n\nContent: %s",
		item.Title, body)

	raw, err := a.generate(ctx, prompt, opts)
	if err != nil {
		return 0, err
	}
	return parseScore(raw)
}

func (a *Analyzer) generate(ctx context.Context, prompt string, opts Options) (string, error) {
	payload := generateRequest{
		Model:  opts.Model,
		Prompt: prompt,
		Stream: false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, opts.RequestTimeout)
	defer cancel()

	endpoint := strings.TrimSuffix(opts.Endpoint, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("model service status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return parsed.Response, nil
}

// parseScore pulls the first numeric token out of the model reply and
// clamps it to [0, 10]. Models rarely answer with a bare number even
// when told to.
func parseScore(raw string) (float64, error) {
	match := scoreRE.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return 0, fmt.Errorf("no score in model reply %q", strings.TrimSpace(raw))
	}
	score, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %w", match[1], err)
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score, nil
}

func normalizeOptions(opts Options) Options {
	if strings.TrimSpace(opts.Endpoint) == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = DefaultModel
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.MaxItems == 0 {
		opts.MaxItems = DefaultMaxItems
	}
	return opts
}

// Package collect gathers raw short-form documents from the configured
// sources. Collectors normalize everything into content.Item and leave
// relevance and duplicate decisions to later stages.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/langdetect"
	"github.com/scribe-intel/scribe/internal/reader"
)

const (
	redditBaseURL       = "https://www.reddit.com"
	redditUserAgent     = "scribe-collector/1.0"
	defaultRedditWindow = "day"
)

// RedditOptions tunes one collection run.
type RedditOptions struct {
	Subreddits []string
	MinScore   int
	Limit      int
	// FetchLinkBodies pulls readable text for link posts without
	// selftext. Slower, better comparison bodies.
	FetchLinkBodies bool
	HTTPClient      *http.Client
}

// RedditCollector reads subreddit top listings over the public JSON
// API.
type RedditCollector struct {
	client *http.Client
	logger zerolog.Logger
}

func NewRedditCollector(logger zerolog.Logger) *RedditCollector {
	return &RedditCollector{
		client: &http.Client{Timeout: 20 * time.Second},
		logger: logger,
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	IsSelf      bool    `json:"is_self"`
	Stickied    bool    `json:"stickied"`
}

// Collect fetches the top posts of each configured subreddit, skipping
// stickied posts and anything below the score floor. Per-subreddit
// failures are logged and skipped; one broken community never sinks the
// whole run.
func (c *RedditCollector) Collect(ctx context.Context, opts RedditOptions) ([]content.Item, error) {
	if len(opts.Subreddits) == 0 {
		return nil, nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 25
	}

	var items []content.Item
	for _, subreddit := range opts.Subreddits {
		posts, err := c.fetchTop(ctx, subreddit, limit, opts)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("subreddit", subreddit).
				Msg("reddit collection failed for subreddit")
			continue
		}
		items = append(items, posts...)
	}

	c.logger.Info().
		Int("items", len(items)).
		Int("subreddits", len(opts.Subreddits)).
		Msg("reddit collection complete")
	return items, nil
}

func (c *RedditCollector) fetchTop(ctx context.Context, subreddit string, limit int, opts RedditOptions) ([]content.Item, error) {
	endpoint := fmt.Sprintf("%s/r/%s/top.json?t=%s&limit=%s",
		redditBaseURL, url.PathEscape(subreddit), defaultRedditWindow, strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build reddit request: %w", err)
	}
	req.Header.Set("User-Agent", redditUserAgent)

	client := opts.HTTPClient
	if client == nil {
		client = c.client
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("reddit status %d for r/%s", resp.StatusCode, subreddit)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read reddit response: %w", err)
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	items := make([]content.Item, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.Stickied || post.Score < opts.MinScore {
			continue
		}
		items = append(items, c.toItem(ctx, post, opts))
	}
	return items, nil
}

func (c *RedditCollector) toItem(ctx context.Context, post redditPost, opts RedditOptions) content.Item {
	body := strings.TrimSpace(post.Selftext)
	if body == "" && !post.IsSelf && opts.FetchLinkBodies && post.URL != "" {
		text, err := reader.FetchText(ctx, post.URL, post.Title, reader.FetchOptions{HTTPClient: opts.HTTPClient})
		if err != nil {
			c.logger.Debug().
				Err(err).
				Str("url", post.URL).
				Msg("link body extraction failed")
		} else {
			body = text
		}
	}

	permalink := post.Permalink
	if permalink != "" && !strings.HasPrefix(permalink, "http") {
		permalink = redditBaseURL + permalink
	}

	item := content.Item{
		ID:          post.Name,
		Source:      "reddit",
		Title:       strings.TrimSpace(post.Title),
		Body:        body,
		URL:         permalink,
		PublishedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
		Metadata: map[string]any{
			"subreddit":    post.Subreddit,
			"author":       post.Author,
			"score":        post.Score,
			"num_comments": post.NumComments,
			"external_url": post.URL,
		},
	}
	item.Language = langdetect.DetectISO6391(item.Title + " " + item.Body)
	return item
}

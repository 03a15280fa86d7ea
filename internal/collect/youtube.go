package collect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/langdetect"
)

const youtubeFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// YouTubeOptions tunes one channel collection run.
type YouTubeOptions struct {
	ChannelIDs []string
	// Limit caps the number of entries taken per channel. Zero keeps
	// everything the feed returns.
	Limit int
}

// YouTubeCollector reads channel upload feeds via the public Atom
// endpoint, so no API key is involved.
type YouTubeCollector struct {
	parser *gofeed.Parser
	logger zerolog.Logger
}

func NewYouTubeCollector(logger zerolog.Logger) *YouTubeCollector {
	parser := gofeed.NewParser()
	parser.UserAgent = "scribe-collector/1.0"
	return &YouTubeCollector{parser: parser, logger: logger}
}

// Collect fetches recent uploads from each channel. A failing channel
// is logged and skipped.
func (c *YouTubeCollector) Collect(ctx context.Context, opts YouTubeOptions) ([]content.Item, error) {
	if len(opts.ChannelIDs) == 0 {
		return nil, nil
	}

	var items []content.Item
	for _, channelID := range opts.ChannelIDs {
		entries, err := c.fetchChannel(ctx, channelID, opts.Limit)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("channel_id", channelID).
				Msg("youtube collection failed for channel")
			continue
		}
		items = append(items, entries...)
	}

	c.logger.Info().
		Int("items", len(items)).
		Int("channels", len(opts.ChannelIDs)).
		Msg("youtube collection complete")
	return items, nil
}

func (c *YouTubeCollector) fetchChannel(ctx context.Context, channelID string, limit int) ([]content.Item, error) {
	feed, err := c.parser.ParseURLWithContext(fmt.Sprintf(youtubeFeedURL, channelID), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse channel feed: %w", err)
	}

	entries := feed.Items
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]content.Item, 0, len(entries))
	for _, entry := range entries {
		item := content.Item{
			ID:     entryID(entry),
			Source: "youtube",
			Title:  strings.TrimSpace(entry.Title),
			Body:   videoDescription(entry),
			URL:    entry.Link,
			Metadata: map[string]any{
				"channel_id": channelID,
				"channel":    feed.Title,
			},
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed.UTC()
		} else {
			item.PublishedAt = time.Now().UTC()
		}
		item.Language = langdetect.DetectISO6391(item.Title + " " + item.Body)
		items = append(items, item)
	}
	return items, nil
}

func entryID(entry *gofeed.Item) string {
	if entry.GUID != "" {
		return entry.GUID
	}
	return entry.Link
}

// videoDescription digs the description out of the media extension,
// which YouTube nests under media:group rather than the plain Atom
// summary.
func videoDescription(entry *gofeed.Item) string {
	if entry.Description != "" {
		return strings.TrimSpace(entry.Description)
	}
	group, ok := entry.Extensions["media"]["group"]
	if !ok || len(group) == 0 {
		return ""
	}
	descriptions, ok := group[0].Children["description"]
	if !ok || len(descriptions) == 0 {
		return ""
	}
	return strings.TrimSpace(descriptions[0].Value)
}

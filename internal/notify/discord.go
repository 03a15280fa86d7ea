// Package notify delivers run summaries to a Discord webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Discord trims messages at 2000 characters per request.
const discordMessageLimit = 2000

// DiscordNotifier posts markdown messages to a single webhook URL. A
// notifier with an empty URL is a no-op.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
	logger     zerolog.Logger
}

func NewDiscordNotifier(webhookURL string, logger zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: strings.TrimSpace(webhookURL),
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (n *DiscordNotifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

type discordPayload struct {
	Content string `json:"content"`
}

// Send splits the message into webhook-sized chunks and posts them in
// order. Chunks break on line boundaries where possible.
func (n *DiscordNotifier) Send(ctx context.Context, message string) error {
	if !n.Enabled() {
		return nil
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}

	chunks := SplitMessage(message, discordMessageLimit)
	for i, chunk := range chunks {
		if err := n.post(ctx, chunk); err != nil {
			return fmt.Errorf("post chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	n.logger.Debug().
		Int("chunks", len(chunks)).
		Msg("discord notification sent")
	return nil
}

func (n *DiscordNotifier) post(ctx context.Context, chunk string) error {
	body, err := json.Marshal(discordPayload{Content: chunk})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// SplitMessage cuts text into pieces of at most limit runes, breaking
// on the last newline inside each window when one exists. A single
// line longer than the limit is hard-split.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = append(chunks, string(runes))
			break
		}
		window := runes[:limit]
		cut := limit
		for i := limit - 1; i > 0; i-- {
			if window[i] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		for cut < len(runes) && runes[cut] == '\n' {
			cut++
		}
		runes = runes[cut:]
	}
	return chunks
}

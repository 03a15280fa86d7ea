package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSplitMessageShortText(t *testing.T) {
	t.Parallel()

	chunks := SplitMessage("hello", 2000)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Fatalf("short text should pass through unsplit, got %v", chunks)
	}
}

func TestSplitMessageBreaksOnLines(t *testing.T) {
	t.Parallel()

	text := "first line\nsecond line\nthird line"
	chunks := SplitMessage(text, 15)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	for i, chunk := range chunks {
		if len(chunk) > 15 {
			t.Fatalf("chunk %d exceeds limit: %q", i, chunk)
		}
		if strings.HasPrefix(chunk, "\n") || strings.HasSuffix(chunk, "\n") {
			t.Fatalf("chunk %d carries boundary newlines: %q", i, chunk)
		}
	}
	if got := strings.Join(chunks, "\n"); got != text {
		t.Fatalf("rejoined chunks lost content: %q", got)
	}
}

func TestSplitMessageHardSplitsLongLine(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 45)
	chunks := SplitMessage(text, 20)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for a 45-char line at limit 20, got %v", chunks)
	}
	if strings.Join(chunks, "") != text {
		t.Fatal("hard split lost characters")
	}
}

func TestSendPostsChunksInOrder(t *testing.T) {
	t.Parallel()

	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(server.URL, zerolog.Nop())
	message := strings.Repeat("line of digest output\n", 200)
	if err := notifier.Send(context.Background(), message); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(bodies) < 2 {
		t.Fatalf("expected the long message to be chunked, got %d requests", len(bodies))
	}
	if !strings.Contains(bodies[0], "line of digest output") {
		t.Fatalf("unexpected first payload: %q", bodies[0])
	}
}

func TestSendDisabledNotifier(t *testing.T) {
	t.Parallel()

	notifier := NewDiscordNotifier("", zerolog.Nop())
	if notifier.Enabled() {
		t.Fatal("empty webhook URL should disable the notifier")
	}
	if err := notifier.Send(context.Background(), "anything"); err != nil {
		t.Fatalf("disabled notifier should be a no-op, got %v", err)
	}
}

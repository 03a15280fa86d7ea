package payloadschema

import (
	"encoding/json"
	"testing"
)

func TestValidateContentItemPayload_Valid(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"id":"t3_abc123",
		"source":"reddit",
		"title":"Model release roundup",
		"body":"A new open-weights model dropped this morning.",
		"url":"https://example.com/post/abc123",
		"language":"en",
		"relevance_score":8.5,
		"published_at":"2026-08-30T10:00:00Z",
		"metadata":{"subreddit":"LocalLLaMA","score":431}
	}`)

	item, err := ValidateContentItemPayload(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}
	if item.ID != "t3_abc123" {
		t.Fatalf("expected id=t3_abc123, got %q", item.ID)
	}
	if item.Source != "reddit" {
		t.Fatalf("expected source=reddit, got %q", item.Source)
	}

	converted := item.ToItem()
	if converted.RelevanceScore != 8.5 {
		t.Fatalf("expected relevance 8.5, got %v", converted.RelevanceScore)
	}
	if converted.PublishedAt.IsZero() {
		t.Fatal("expected published_at to be parsed")
	}
}

func TestValidateContentItemPayload_MissingRequired(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"source":"reddit",
		"title":"Missing id"
	}`)

	if _, err := ValidateContentItemPayload(payload); err == nil {
		t.Fatal("expected validation to fail for missing id")
	}
}

func TestValidateContentItemPayload_WrongVersion(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v2",
		"id":"x",
		"source":"reddit",
		"title":"Future version"
	}`)

	if _, err := ValidateContentItemPayload(payload); err == nil {
		t.Fatal("expected validation to fail for unknown payload version")
	}
}

func TestValidateContentItemPayload_WhitespaceTitle(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"id":"x",
		"source":"reddit",
		"title":"   "
	}`)

	if _, err := ValidateContentItemPayload(payload); err == nil {
		t.Fatal("expected validation to fail for whitespace-only title")
	}
}

func TestValidateContentItemPayload_BadScore(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"id":"x",
		"source":"reddit",
		"title":"Score out of range",
		"relevance_score":12
	}`)

	if _, err := ValidateContentItemPayload(payload); err == nil {
		t.Fatal("expected validation to fail for relevance score above 10")
	}
}

func TestValidateContentItemPayload_TrailingContent(t *testing.T) {
	payload := json.RawMessage(`{"payload_version":"v1","id":"x","source":"reddit","title":"ok"} {}`)

	if _, err := ValidateContentItemPayload(payload); err == nil {
		t.Fatal("expected validation to fail for trailing JSON content")
	}
}

func TestValidateContentItemPayload_UnknownField(t *testing.T) {
	payload := json.RawMessage(`{
		"payload_version":"v1",
		"id":"x",
		"source":"reddit",
		"title":"ok",
		"unexpected":"field"
	}`)

	if _, err := ValidateContentItemPayload(payload); err == nil {
		t.Fatal("expected additionalProperties to reject unknown fields")
	}
}

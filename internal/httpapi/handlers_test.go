package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		SimhashThreshold: 0.85,
		TFIDFThreshold:   0.5,
		TitleWeight:      0.4,
		DedupThreshold:   0.68,
		DedupWindow:      50,
		ComparisonLimit:  1000,
		ServeAddr:        ":0",
	}
	server, err := NewServer(cfg, nil, zerolog.Nop(), Options{})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func performJSON(t *testing.T, handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	if err := handler(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeJSend(t *testing.T, rec *httptest.ResponseRecorder) jsendResponse {
	t.Helper()
	var resp jsendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	return resp
}

func TestHandleHealthWithoutDatabase(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	rec := performJSON(t, server.handleHealth, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	resp := decodeJSend(t, rec)
	if resp.Status != "success" {
		t.Fatalf("unexpected jsend status %q", resp.Status)
	}
	if !strings.Contains(rec.Body.String(), `"database":"disabled"`) {
		t.Fatalf("expected disabled database marker: %s", rec.Body.String())
	}
}

func TestHandleSimilarity(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	body := `{
		"a": {"title":"Budget airline adds routes","body":"The carrier will fly from Dublin to Boston in March."},
		"b": {"title":"Budget airline adds routes","body":"New transatlantic service starts this spring."}
	}`
	rec := performJSON(t, server.handleSimilarity, http.MethodPost, "/api/v1/similarity", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string             `json:"status"`
		Data   similarityResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Data.Score != 1 {
		t.Fatalf("identical titles should score 1, got %v", resp.Data.Score)
	}
	if !resp.Data.Duplicate {
		t.Fatal("expected duplicate verdict")
	}
	if resp.Data.Method != "exact_title" {
		t.Fatalf("unexpected method %q", resp.Data.Method)
	}
}

func TestHandleSimilarityRejectsEmptyDocument(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	rec := performJSON(t, server.handleSimilarity, http.MethodPost, "/api/v1/similarity",
		`{"a":{"title":"","body":""},"b":{"title":"x","body":"y"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty document, got %d", rec.Code)
	}
}

func TestHandleDedup(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	body := `{"items":[
		{"payload_version":"v1","id":"a1","source":"reddit","title":"Quantum computing startup raises seed round","body":"A Berlin-based team closed funding to build error-corrected qubits for chemistry simulations."},
		{"payload_version":"v1","id":"a2","source":"reddit","title":"Quantum computing startup raises seed round","body":"The Berlin team closed a funding round to build error-corrected qubits aimed at chemistry simulations."}
	]}`
	rec := performJSON(t, server.handleDedup, http.MethodPost, "/api/v1/dedup", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string        `json:"status"`
		Data   dedupResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Data.Kept) != 1 {
		t.Fatalf("expected 1 kept item, got %d", len(resp.Data.Kept))
	}
	if len(resp.Data.Rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(resp.Data.Rejected))
	}
	if resp.Data.Rejected[0].DuplicateOfID != "a1" {
		t.Fatalf("duplicate should point at first item, got %+v", resp.Data.Rejected[0])
	}
}

func TestHandleDedupInvalidPayload(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	rec := performJSON(t, server.handleDedup, http.MethodPost, "/api/v1/dedup",
		`{"items":[{"payload_version":"v1","source":"reddit","title":"missing id"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid item, got %d", rec.Code)
	}

	rec = performJSON(t, server.handleDedup, http.MethodPost, "/api/v1/dedup", `{"items":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty items, got %d", rec.Code)
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/dedup"
	"github.com/scribe-intel/scribe/internal/similarity"
	payloadschema "github.com/scribe-intel/scribe/schema"
)

const maxDedupBatch = 5000

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := healthResponse{Status: "ok", Database: "disabled"}
	if s.store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
		} else {
			resp.Database = "ok"
		}
	}
	return success(c, resp)
}

type similarityRequest struct {
	A similarity.Document `json:"a"`
	B similarity.Document `json:"b"`
}

type similarityResponse struct {
	Score     float64 `json:"score"`
	Method    string  `json:"method"`
	Duplicate bool    `json:"duplicate"`
	Threshold float64 `json:"threshold"`
}

func (s *Server) handleSimilarity(c echo.Context) error {
	var req similarityRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if strings.TrimSpace(req.A.Title) == "" && strings.TrimSpace(req.A.Body) == "" {
		return fail(c, http.StatusBadRequest, "Document a is empty", nil)
	}
	if strings.TrimSpace(req.B.Title) == "" && strings.TrimSpace(req.B.Body) == "" {
		return fail(c, http.StatusBadRequest, "Document b is empty", nil)
	}

	result := s.detector.Check(req.A, req.B)
	return success(c, similarityResponse{
		Score:     result.Score,
		Method:    string(result.Method),
		Duplicate: result.Score >= s.cfg.DedupThreshold,
		Threshold: s.cfg.DedupThreshold,
	})
}

type dedupRequest struct {
	Items []json.RawMessage `json:"items"`
}

type dedupResponse struct {
	Kept     []content.Item    `json:"kept"`
	Rejected []dedup.Rejection `json:"rejected"`
}

func (s *Server) handleDedup(c echo.Context) error {
	var req dedupRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusBadRequest, "items must not be empty", nil)
	}
	if len(req.Items) > maxDedupBatch {
		return fail(c, http.StatusRequestEntityTooLarge, "too many items", map[string]any{
			"max_items": maxDedupBatch,
		})
	}

	items := make([]content.Item, 0, len(req.Items))
	for i, raw := range req.Items {
		payload, err := payloadschema.ValidateContentItemPayload(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid item payload", map[string]any{
				"index":  i,
				"reason": err.Error(),
			})
		}
		items = append(items, payload.ToItem())
	}

	kept, rejected := s.pass.Run(items)
	if rejected == nil {
		rejected = []dedup.Rejection{}
	}
	return success(c, dedupResponse{Kept: kept, Rejected: rejected})
}

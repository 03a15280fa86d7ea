// Package payloadschema validates incoming content-item payloads
// against the embedded JSON Schema before they enter the pipeline.
package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/scribe-intel/scribe/internal/content"
)

//go:embed content_item.schema.json
var contentItemSchemaJSON string

// ContentItem is the wire form of one document submitted for
// processing.
type ContentItem struct {
	PayloadVersion string         `json:"payload_version"`
	ID             string         `json:"id"`
	Source         string         `json:"source"`
	Title          string         `json:"title"`
	Body           *string        `json:"body,omitempty"`
	URL            *string        `json:"url,omitempty"`
	Category       *string        `json:"category,omitempty"`
	Language       *string        `json:"language,omitempty"`
	RelevanceScore *float64       `json:"relevance_score,omitempty"`
	Insights       *string        `json:"insights,omitempty"`
	PublishedAt    *string        `json:"published_at,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateContentItemPayload checks the raw JSON against the schema
// plus a few semantic rules the schema cannot express, and returns the
// decoded payload.
func ValidateContentItemPayload(payload json.RawMessage) (*ContentItem, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var item ContentItem
	if err := json.Unmarshal(normalized, &item); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&item); err != nil {
		return nil, err
	}

	return &item, nil
}

// ToItem converts a validated payload into the pipeline's item form.
func (c *ContentItem) ToItem() content.Item {
	item := content.Item{
		ID:       c.ID,
		Source:   c.Source,
		Title:    c.Title,
		Metadata: c.Metadata,
	}
	if c.Body != nil {
		item.Body = *c.Body
	}
	if c.URL != nil {
		item.URL = *c.URL
	}
	if c.Category != nil {
		item.Category = *c.Category
	}
	if c.Language != nil {
		item.Language = *c.Language
	}
	if c.RelevanceScore != nil {
		item.RelevanceScore = *c.RelevanceScore
	}
	if c.Insights != nil {
		item.Insights = *c.Insights
	}
	if c.PublishedAt != nil {
		if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*c.PublishedAt)); err == nil {
			item.PublishedAt = parsed
		}
	}
	return item
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("content_item.schema.json", strings.NewReader(contentItemSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("content_item.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(item *ContentItem) error {
	if item == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("id must not be empty")
	}
	if strings.TrimSpace(item.Source) == "" {
		return fmt.Errorf("source must not be empty")
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if strings.TrimSpace(item.PayloadVersion) != "v1" {
		return fmt.Errorf("payload_version must be v1")
	}

	if item.URL != nil {
		if err := validateURI("url", *item.URL); err != nil {
			return err
		}
	}
	if item.PublishedAt != nil {
		if _, err := time.Parse(time.RFC3339, strings.TrimSpace(*item.PublishedAt)); err != nil {
			return fmt.Errorf("published_at must be RFC3339: %w", err)
		}
	}

	return nil
}

func validateURI(fieldName, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%s must not be empty", fieldName)
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return fmt.Errorf("%s is not a valid URI: %w", fieldName, err)
	}
	return nil
}

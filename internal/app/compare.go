package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/scribe-intel/scribe/internal/cli"
	"github.com/scribe-intel/scribe/internal/similarity"
	payloadschema "github.com/scribe-intel/scribe/schema"
)

func runCompare(args []string) int {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	fileA := fs.String("a", "", "Path to first content item JSON file")
	fileB := fs.String("b", "", "Path to second content item JSON file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *fileA == "" || *fileB == "" {
		fmt.Fprintln(os.Stderr, "compare requires both -a and -b file arguments")
		return 2
	}

	cfg, _, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	docA, err := loadDocument(*fileA, cfg.ComparisonLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid document a: %v\n", err)
		return 2
	}
	docB, err := loadDocument(*fileB, cfg.ComparisonLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid document b: %v\n", err)
		return 2
	}

	detector, err := similarity.NewDetector(similarity.Config{
		SimhashThreshold: cfg.SimhashThreshold,
		TFIDFThreshold:   cfg.TFIDFThreshold,
		TitleWeight:      cfg.TitleWeight,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build detector: %v\n", err)
		return 1
	}

	result := detector.Check(docA, docB)
	output := map[string]any{
		"score":     result.Score,
		"method":    result.Method,
		"duplicate": result.Score >= cfg.DedupThreshold,
		"threshold": cfg.DedupThreshold,
	}
	if err := printJSON(output); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write result: %v\n", err)
		return 1
	}
	return 0
}

func loadDocument(path string, bodyLimit int) (similarity.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return similarity.Document{}, fmt.Errorf("read file: %w", err)
	}
	payload, err := payloadschema.ValidateContentItemPayload(json.RawMessage(data))
	if err != nil {
		return similarity.Document{}, err
	}
	item := payload.ToItem()
	return similarity.Document{
		ID:    item.ID,
		Title: item.Title,
		Body:  item.ComparisonText(bodyLimit),
	}, nil
}

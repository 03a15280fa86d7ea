package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/scribe-intel/scribe/internal/cli"
	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/dedup"
	"github.com/scribe-intel/scribe/internal/similarity"
	payloadschema "github.com/scribe-intel/scribe/schema"
)

func runDedup(args []string) int {
	fs := flag.NewFlagSet("dedup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	input := fs.String("input", "", "Path to a JSON array of content item payloads (defaults to stdin)")
	threshold := fs.Float64("threshold", -1, "Override dedup threshold (0..1)")
	window := fs.Int("window", 0, "Override look-back window size")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if *threshold >= 0 {
		cfg.DedupThreshold = *threshold
	}
	if *window > 0 {
		cfg.DedupWindow = *window
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 2
	}

	items, err := readItems(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
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
	pass, err := dedup.New(detector, dedup.Config{
		Threshold: cfg.DedupThreshold,
		Window:    cfg.DedupWindow,
		BodyLimit: cfg.ComparisonLimit,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dedup pass: %v\n", err)
		return 1
	}

	kept, rejected := pass.Run(items)
	if rejected == nil {
		rejected = []dedup.Rejection{}
	}
	output := map[string]any{
		"kept":     kept,
		"rejected": rejected,
	}
	if err := printJSON(output); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write result: %v\n", err)
		return 1
	}
	return 0
}

func readItems(path string) ([]content.Item, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode item array: %w", err)
	}

	items := make([]content.Item, 0, len(raws))
	for i, raw := range raws {
		payload, err := payloadschema.ValidateContentItemPayload(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, payload.ToItem())
	}
	return items, nil
}

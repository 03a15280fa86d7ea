package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	payloadschema "github.com/scribe-intel/scribe/schema"
)

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "validate requires at least one JSON file argument")
		return 2
	}

	failed := 0
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("%s: read failed: %v\n", path, err)
			failed++
			continue
		}
		item, err := payloadschema.ValidateContentItemPayload(json.RawMessage(data))
		if err != nil {
			fmt.Printf("%s: INVALID: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok (id=%s source=%s)\n", path, item.ID, item.Source)
	}

	if failed > 0 {
		fmt.Printf("%d of %d files invalid\n", failed, fs.NArg())
		return 1
	}
	return 0
}

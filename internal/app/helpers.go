package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/cli"
	"github.com/scribe-intel/scribe/internal/config"
	"github.com/scribe-intel/scribe/internal/logging"
	"github.com/scribe-intel/scribe/internal/store"
)

// bootstrap loads the env file, config, and logger shared by every
// command. Env loading failure is a warning: the process environment
// may already carry everything.
func bootstrap(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("initialize logger: %w", err)
	}

	return cfg, logger, nil
}

// openStoreIfConfigured connects when DATABASE_URL is set and returns
// nil otherwise. Callers treat a nil store as a disabled cache.
func openStoreIfConfigured(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store.Store, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Debug().Msg("no database configured, content cache disabled")
		return nil, nil
	}
	st, err := store.Open(ctx, cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return st, nil
}

func loadJSONInput(inline, filePath, label string) (json.RawMessage, error) {
	if strings.TrimSpace(filePath) != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read %s file: %w", label, err)
		}
		return json.RawMessage(data), nil
	}
	if strings.TrimSpace(inline) == "" {
		return nil, fmt.Errorf("%s is empty", label)
	}
	return json.RawMessage(inline), nil
}

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

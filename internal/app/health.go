package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/scribe-intel/scribe/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	healthy := true

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		fmt.Println("database: disabled")
	} else {
		st, err := openStoreIfConfigured(ctx, cfg, logger)
		if err != nil {
			logger.Error().Err(err).Msg("database connection failed")
			fmt.Printf("database: unreachable (%v)\n", err)
			healthy = false
		} else {
			defer st.Close()
			fmt.Println("database: ok")
		}
	}

	if err := checkModelService(ctx, cfg.OllamaEndpoint); err != nil {
		fmt.Printf("model service: unreachable (%v)\n", err)
		healthy = false
	} else {
		fmt.Println("model service: ok")
	}

	if !healthy {
		return 1
	}
	fmt.Println("status: ok")
	return 0
}

func checkModelService(ctx context.Context, endpoint string) error {
	url := strings.TrimSuffix(endpoint, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

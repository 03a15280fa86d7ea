package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/scribe-intel/scribe/internal/cli"
	"github.com/scribe-intel/scribe/internal/pipeline"
)

func runProcess(args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Minute, "Cycle timeout")

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

	st, err := openStoreIfConfigured(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if st != nil {
		defer st.Close()
	}

	svc, err := pipeline.NewService(cfg, st, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build pipeline: %v\n", err)
		return 1
	}

	result, err := svc.RunCycle(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("pipeline cycle failed")
		fmt.Fprintf(os.Stderr, "Cycle failed: %v\n", err)
		return 1
	}

	fmt.Printf("collected=%d fresh=%d kept=%d duplicates=%d duration=%s\n",
		result.Collected, result.Fresh, result.Kept, result.Duplicates, result.Duration.Round(time.Millisecond))
	if result.ReportPath != "" {
		fmt.Printf("report=%s\n", result.ReportPath)
	}
	return 0
}

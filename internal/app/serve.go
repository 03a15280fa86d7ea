package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scribe-intel/scribe/internal/cli"
	"github.com/scribe-intel/scribe/internal/httpapi"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	addr := fs.String("addr", "", "Listen address (defaults to SERVE_ADDR)")

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := openStoreIfConfigured(connectCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Warn().Err(err).Msg("database unavailable, serving without cache")
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	server, err := httpapi.NewServer(cfg, st, logger, httpapi.Options{Addr: *addr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build server: %v\n", err)
		return 1
	}

	if err := server.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}
	return 0
}

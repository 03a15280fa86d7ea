package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/scribe-intel/scribe/internal/cli"
	"github.com/scribe-intel/scribe/internal/pipeline"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	schedule := fs.String("schedule", "", "Cron schedule (defaults to DAEMON_SCHEDULE)")
	runNow := fs.Bool("run-now", false, "Run one cycle immediately on startup")
	cycleTimeout := fs.Duration("cycle-timeout", 30*time.Minute, "Per-cycle timeout")

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

	spec := *schedule
	if spec == "" {
		spec = cfg.DaemonSchedule
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := openStoreIfConfigured(connectCtx, cfg, logger)
	cancel()
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

	// Overlapping cycles are skipped rather than queued: a cycle that
	// outlasts the schedule interval would otherwise pile up.
	var running sync.Mutex
	runCycle := func() {
		if !running.TryLock() {
			logger.Warn().Msg("previous cycle still running, skipping")
			return
		}
		defer running.Unlock()

		cycleCtx, cancel := context.WithTimeout(ctx, *cycleTimeout)
		defer cancel()

		if _, err := svc.RunCycle(cycleCtx); err != nil {
			logger.Error().Err(err).Msg("scheduled cycle failed")
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(spec, runCycle); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid schedule %q: %v\n", spec, err)
		return 2
	}

	logger.Info().Str("schedule", spec).Msg("daemon started")
	scheduler.Start()

	if *runNow {
		go runCycle()
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down daemon")

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(*cycleTimeout):
		logger.Warn().Msg("shutdown timed out waiting for running cycle")
	}
	return 0
}

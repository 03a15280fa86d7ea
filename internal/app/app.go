// Package app implements the scribe CLI commands.
package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "compare":
		return runCompare(args[1:])
	case "dedup":
		return runDedup(args[1:])
	case "collect":
		return runCollect(args[1:])
	case "process", "run-once":
		return runProcess(args[1:])
	case "serve":
		return runServe(args[1:])
	case "daemon":
		return runDaemon(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "scribe CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  scribe <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health    Verify database and model service connectivity")
	fmt.Fprintln(os.Stderr, "  validate  Validate content item JSON files against the v1 schema")
	fmt.Fprintln(os.Stderr, "  compare   Score two documents for near-duplicate similarity")
	fmt.Fprintln(os.Stderr, "  dedup     Deduplicate an ordered JSON array of content items")
	fmt.Fprintln(os.Stderr, "  collect   Fetch configured sources and print collected items")
	fmt.Fprintln(os.Stderr, "  process   Run one full collection cycle")
	fmt.Fprintln(os.Stderr, "  run-once  Alias for process")
	fmt.Fprintln(os.Stderr, "  serve     Start the Echo API server")
	fmt.Fprintln(os.Stderr, "  daemon    Run cycles on a cron schedule")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"scribe <command> -h\" for command-specific flags.")
}

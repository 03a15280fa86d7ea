package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/scribe-intel/scribe/internal/cli"
	"github.com/scribe-intel/scribe/internal/collect"
	"github.com/scribe-intel/scribe/internal/content"
)

func runCollect(args []string) int {
	fs := flag.NewFlagSet("collect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	fetchBodies := fs.Bool("fetch-bodies", false, "Extract readable text for link posts")

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

	var items []content.Item

	reddit := collect.NewRedditCollector(logger)
	redditItems, err := reddit.Collect(ctx, collect.RedditOptions{
		Subreddits:      cfg.SubredditList(),
		MinScore:        cfg.RedditMinScore,
		Limit:           cfg.RedditLimit,
		FetchLinkBodies: *fetchBodies,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Reddit collection failed: %v\n", err)
		return 1
	}
	items = append(items, redditItems...)

	youtube := collect.NewYouTubeCollector(logger)
	youtubeItems, err := youtube.Collect(ctx, collect.YouTubeOptions{
		ChannelIDs: cfg.YouTubeChannelList(),
		Limit:      cfg.YouTubeLimit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "YouTube collection failed: %v\n", err)
		return 1
	}
	items = append(items, youtubeItems...)

	if err := printJSON(items); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write items: %v\n", err)
		return 1
	}
	return 0
}

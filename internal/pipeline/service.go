// Package pipeline runs the full collection cycle: gather, validate,
// skip already-seen content, score, deduplicate, report, notify.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scribe-intel/scribe/internal/analyze"
	"github.com/scribe-intel/scribe/internal/collect"
	"github.com/scribe-intel/scribe/internal/config"
	"github.com/scribe-intel/scribe/internal/content"
	"github.com/scribe-intel/scribe/internal/dedup"
	"github.com/scribe-intel/scribe/internal/notify"
	"github.com/scribe-intel/scribe/internal/report"
	"github.com/scribe-intel/scribe/internal/similarity"
	"github.com/scribe-intel/scribe/internal/store"
)

// Service owns the wired pipeline stages. Store may be nil when no
// database is configured; every stage that touches it tolerates that.
type Service struct {
	cfg      *config.Config
	logger   zerolog.Logger
	reddit   *collect.RedditCollector
	youtube  *collect.YouTubeCollector
	analyzer *analyze.Analyzer
	pass     *dedup.Pass
	store    *store.Store
	notifier *notify.DiscordNotifier
}

// CycleResult summarizes one pipeline run.
type CycleResult struct {
	Collected  int               `json:"collected"`
	Fresh      int               `json:"fresh"`
	Analyzed   int               `json:"analyzed"`
	Kept       int               `json:"kept"`
	Duplicates int               `json:"duplicates"`
	ReportPath string            `json:"report_path,omitempty"`
	Duration   time.Duration     `json:"duration"`
	Rejected   []dedup.Rejection `json:"rejected,omitempty"`
}

func NewService(cfg *config.Config, st *store.Store, logger zerolog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	detector, err := similarity.NewDetector(similarity.Config{
		SimhashThreshold: cfg.SimhashThreshold,
		TFIDFThreshold:   cfg.TFIDFThreshold,
		TitleWeight:      cfg.TitleWeight,
	})
	if err != nil {
		return nil, fmt.Errorf("build detector: %w", err)
	}

	pass, err := dedup.New(detector, dedup.Config{
		Threshold: cfg.DedupThreshold,
		Window:    cfg.DedupWindow,
		BodyLimit: cfg.ComparisonLimit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build dedup pass: %w", err)
	}

	return &Service{
		cfg:      cfg,
		logger:   logger,
		reddit:   collect.NewRedditCollector(logger),
		youtube:  collect.NewYouTubeCollector(logger),
		analyzer: analyze.NewAnalyzer(logger),
		pass:     pass,
		store:    st,
		notifier: notify.NewDiscordNotifier(cfg.DiscordWebhookURL, logger),
	}, nil
}

// Dedup runs only the duplicate pass, for callers that bring their own
// items.
func (s *Service) Dedup(items []content.Item) ([]content.Item, []dedup.Rejection) {
	return s.pass.Run(items)
}

// RunCycle executes one full pipeline run.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	start := time.Now()
	var result CycleResult

	items, err := s.collectAll(ctx)
	if err != nil {
		return result, err
	}
	result.Collected = len(items)
	if len(items) == 0 {
		s.logger.Info().Msg("nothing collected, cycle done")
		result.Duration = time.Since(start)
		return result, nil
	}

	fresh, err := s.store.FilterSeen(ctx, items)
	if err != nil {
		return result, fmt.Errorf("filter seen content: %w", err)
	}
	result.Fresh = len(fresh)

	analyzed, analyzeResult, err := s.analyzer.Run(ctx, fresh, analyze.Options{
		Endpoint:           s.cfg.OllamaEndpoint,
		Model:              s.cfg.OllamaModel,
		RelevanceThreshold: s.cfg.RelevanceThreshold,
		MaxItems:           s.cfg.MaxReportItems,
	})
	if err != nil {
		return result, fmt.Errorf("analyze items: %w", err)
	}
	result.Analyzed = analyzeResult.Scored

	kept, rejected := s.pass.Run(analyzed)
	result.Kept = len(kept)
	result.Duplicates = len(rejected)
	result.Rejected = rejected

	if err := s.store.MarkProcessed(ctx, analyzed); err != nil {
		return result, fmt.Errorf("mark processed: %w", err)
	}

	if len(kept) > 0 {
		rep, err := report.Generate(kept, rejected, report.Options{
			Dir:      s.cfg.ReportDir,
			Language: s.cfg.ReportLanguage,
		})
		if err != nil {
			return result, fmt.Errorf("generate report: %w", err)
		}
		result.ReportPath = rep.Path

		if err := s.store.RecordReport(ctx, rep.Path, rep.Language, rep.ItemCount, rep.Duplicates); err != nil {
			return result, fmt.Errorf("record report: %w", err)
		}

		if s.notifier.Enabled() {
			if err := s.notifier.Send(ctx, rep.Markdown); err != nil {
				s.logger.Warn().Err(err).Msg("discord notification failed")
			}
		}
	}

	if s.cfg.CacheRetentionDays > 0 {
		retention := time.Duration(s.cfg.CacheRetentionDays) * 24 * time.Hour
		removed, err := s.store.CleanupOlderThan(ctx, retention)
		if err != nil {
			s.logger.Warn().Err(err).Msg("cache cleanup failed")
		} else if removed > 0 {
			s.logger.Info().Int64("removed", removed).Msg("expired cache rows removed")
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info().
		Int("collected", result.Collected).
		Int("fresh", result.Fresh).
		Int("kept", result.Kept).
		Int("duplicates", result.Duplicates).
		Str("report", result.ReportPath).
		Dur("duration", result.Duration).
		Msg("pipeline cycle complete")
	return result, nil
}

func (s *Service) collectAll(ctx context.Context) ([]content.Item, error) {
	var items []content.Item

	redditItems, err := s.reddit.Collect(ctx, collect.RedditOptions{
		Subreddits:      s.cfg.SubredditList(),
		MinScore:        s.cfg.RedditMinScore,
		Limit:           s.cfg.RedditLimit,
		FetchLinkBodies: true,
	})
	if err != nil {
		return nil, fmt.Errorf("collect reddit: %w", err)
	}
	items = append(items, redditItems...)

	youtubeItems, err := s.youtube.Collect(ctx, collect.YouTubeOptions{
		ChannelIDs: s.cfg.YouTubeChannelList(),
		Limit:      s.cfg.YouTubeLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("collect youtube: %w", err)
	}
	items = append(items, youtubeItems...)

	return items, nil
}

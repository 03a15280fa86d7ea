// Package store persists processed-content history in Postgres so
// repeat runs skip content the pipeline has already seen.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/scribe-intel/scribe/internal/content"
)

// Store wraps the gorm handle. A nil *Store is a valid no-op cache for
// runs without a database.
type Store struct {
	gdb *gorm.DB
}

// Open connects, pings, and migrates. databaseURL must be a Postgres
// DSN.
func Open(ctx context.Context, databaseURL string, environment string) (*Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	logLevel := logger.Warn
	if strings.EqualFold(environment, "local") {
		logLevel = logger.Info
	}

	gdb, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get gorm sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{gdb: gdb}
	if err := store.autoMigrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto-migrate schema: %w", err)
	}
	return store, nil
}

func (s *Store) autoMigrate(ctx context.Context) error {
	if err := s.gdb.WithContext(ctx).Exec("CREATE SCHEMA IF NOT EXISTS scribe").Error; err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := s.gdb.WithContext(ctx).AutoMigrate(autoMigrateModels()...); err != nil {
		return fmt.Errorf("gorm auto-migrate models: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.gdb == nil {
		return nil
	}
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.gdb == nil {
		return fmt.Errorf("store is not initialized")
	}
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// FilterSeen returns the subset of items whose (source, item ID) pair
// has no processed-content row yet. A nil store keeps everything.
func (s *Store) FilterSeen(ctx context.Context, items []content.Item) ([]content.Item, error) {
	if s == nil || s.gdb == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	var rows []ProcessedContent
	err := s.gdb.WithContext(ctx).
		Select("source_item_id", "source").
		Where("source_item_id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query processed content: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		seen[row.Source+"\x00"+row.SourceItemID] = struct{}{}
	}

	fresh := make([]content.Item, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Source+"\x00"+item.ID]; ok {
			continue
		}
		fresh = append(fresh, item)
	}
	return fresh, nil
}

// MarkProcessed upserts a processed-content row per item.
func (s *Store) MarkProcessed(ctx context.Context, items []content.Item) error {
	if s == nil || s.gdb == nil || len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]ProcessedContent, 0, len(items))
	for _, item := range items {
		row := ProcessedContent{
			ContentUUID:    uuid.NewString(),
			SourceItemID:   item.ID,
			Source:         item.Source,
			Title:          item.Title,
			Language:       item.Language,
			RelevanceScore: item.RelevanceScore,
			ProcessedAt:    now,
		}
		if item.URL != "" {
			url := item.URL
			row.URL = &url
		}
		if row.Language == "" {
			row.Language = "und"
		}
		if !item.PublishedAt.IsZero() {
			published := item.PublishedAt
			row.PublishedAt = &published
		}
		rows = append(rows, row)
	}

	err := s.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_item_id"}, {Name: "source"}},
			DoUpdates: clause.AssignmentColumns([]string{"relevance_score", "processed_at"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upsert processed content: %w", err)
	}
	return nil
}

// RecordReport stores the metadata of one generated digest.
func (s *Store) RecordReport(ctx context.Context, path string, language string, itemCount, duplicates int) error {
	if s == nil || s.gdb == nil {
		return nil
	}
	row := GeneratedReport{
		ReportUUID: uuid.NewString(),
		Path:       path,
		Language:   language,
		ItemCount:  itemCount,
		Duplicates: duplicates,
	}
	if err := s.gdb.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert generated report: %w", err)
	}
	return nil
}

// CleanupOlderThan deletes processed-content rows past the retention
// window and returns how many went away.
func (s *Store) CleanupOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	if s == nil || s.gdb == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-retention)
	res := s.gdb.WithContext(ctx).
		Where("processed_at < ?", cutoff).
		Delete(&ProcessedContent{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired processed content: %w", res.Error)
	}
	return res.RowsAffected, nil
}

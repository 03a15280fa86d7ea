package store

import "time"

// ProcessedContent records an item the pipeline already handled, so a
// later run can skip it before any scoring work.
type ProcessedContent struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ContentUUID    string     `gorm:"column:content_uuid;type:uuid;not null;unique"`
	SourceItemID   string     `gorm:"column:source_item_id;type:text;not null;uniqueIndex:idx_processed_source_item"`
	Source         string     `gorm:"column:source;type:text;not null;uniqueIndex:idx_processed_source_item"`
	Title          string     `gorm:"column:title;type:text;not null"`
	URL            *string    `gorm:"column:url;type:text"`
	Language       string     `gorm:"column:language;type:text;not null;default:und"`
	RelevanceScore float64    `gorm:"column:relevance_score;type:double precision;not null;default:0"`
	PublishedAt    *time.Time `gorm:"column:published_at;type:timestamptz"`
	ProcessedAt    time.Time  `gorm:"column:processed_at;type:timestamptz;not null;default:now()"`
	CreatedAt      time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (ProcessedContent) TableName() string { return "scribe.processed_content" }

// GeneratedReport records one digest written by the report stage.
type GeneratedReport struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ReportUUID string    `gorm:"column:report_uuid;type:uuid;not null;unique"`
	Path       string    `gorm:"column:path;type:text;not null"`
	Language   string    `gorm:"column:language;type:text;not null;default:en"`
	ItemCount  int       `gorm:"column:item_count;type:integer;not null;default:0"`
	Duplicates int       `gorm:"column:duplicates;type:integer;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (GeneratedReport) TableName() string { return "scribe.generated_reports" }

func autoMigrateModels() []any {
	return []any{
		&ProcessedContent{},
		&GeneratedReport{},
	}
}

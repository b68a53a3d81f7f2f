package models

import "time"

// NovelStatistics holds the denormalized per-novel totals. The row is a
// cache over the source tables: after any committed transaction each
// total_* equals a fresh count of the non-deleted source rows.
type NovelStatistics struct {
	NovelID        int64     `gorm:"primaryKey" json:"novel_id"`
	TotalViews     int64     `gorm:"not null;default:0" json:"total_views"`
	TotalComments  int64     `gorm:"not null;default:0" json:"total_comments"`
	TotalReactions int64     `gorm:"not null;default:0" json:"total_reactions"`
	TotalChapters  int64     `gorm:"not null;default:0" json:"total_chapters"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (NovelStatistics) TableName() string {
	return "statistics"
}

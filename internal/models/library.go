package models

import "time"

// Bookmark is library membership, idempotent per (user, novel).
type Bookmark struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_once" json:"user_id"`
	NovelID   int64     `gorm:"not null;uniqueIndex:idx_bookmark_once" json:"novel_id"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Novel *Novel `gorm:"foreignKey:NovelID" json:"novel,omitempty"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// ReadingHistory keeps one row per (user, novel, chapter); repeated saves
// update the position in place.
type ReadingHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_history_once" json:"user_id"`
	NovelID   int64     `gorm:"not null;uniqueIndex:idx_history_once" json:"novel_id"`
	ChapterID int64     `gorm:"not null;uniqueIndex:idx_history_once" json:"chapter_id"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Novel   *Novel   `gorm:"foreignKey:NovelID" json:"novel,omitempty"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`
}

func (ReadingHistory) TableName() string {
	return "reading_history"
}

package models

import "time"

type Chapter struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	NovelID       int64     `gorm:"not null;index:idx_novel_chapter_number,unique" json:"novel_id"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	ChapterNumber int       `gorm:"not null;index:idx_novel_chapter_number,unique" json:"chapter_number"`
	AuthorID      string    `gorm:"type:uuid;not null;index" json:"author_id"`
	TranslatorID  *string   `gorm:"type:uuid" json:"translator_id,omitempty"`
	Views         int64     `gorm:"not null;default:0" json:"views"`
	IsDeleted     bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Novel *Novel `gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE;" json:"novel,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// OwnedBy reports whether userID is the chapter's author or translator of
// record.
func (c *Chapter) OwnedBy(userID string) bool {
	if c.AuthorID == userID {
		return true
	}
	return c.TranslatorID != nil && *c.TranslatorID == userID
}

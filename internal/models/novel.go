package models

import "time"

// Novel status values.
const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusHiatus    = "hiatus"
)

// Novel type values.
const (
	TypeOriginal   = "original"
	TypeTranslated = "translated"
)

type Novel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Summary      string    `gorm:"type:text" json:"summary"`
	CoverImage   *string   `json:"cover_image,omitempty"`
	AuthorID     string    `gorm:"type:uuid;not null;index" json:"author_id"`
	TranslatorID *string   `gorm:"type:uuid;index" json:"translator_id,omitempty"`
	Status       string    `gorm:"not null;default:'ongoing'" json:"status"`
	Type         string    `gorm:"not null;default:'original'" json:"type"`
	Views        int64     `gorm:"not null;default:0" json:"views"`
	IsFeatured   bool      `gorm:"not null;default:false" json:"is_featured"`
	IsDeleted    bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Author     *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Translator *User      `gorm:"foreignKey:TranslatorID" json:"translator,omitempty"`
	Categories []Category `gorm:"many2many:novel_categories;constraint:OnDelete:CASCADE;" json:"categories,omitempty"`
}

func (Novel) TableName() string {
	return "novels"
}

// OwnedBy reports whether userID holds edit rights as author or translator
// of record.
func (n *Novel) OwnedBy(userID string) bool {
	if n.AuthorID == userID {
		return true
	}
	return n.TranslatorID != nil && *n.TranslatorID == userID
}

type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

func (Category) TableName() string {
	return "categories"
}

package models

import "time"

// Comment attaches to a novel or a chapter (never a comment). Replies are
// single-level: a reply's parent must itself be a top-level comment.
type Comment struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          string     `gorm:"type:uuid;not null;index" json:"user_id"`
	TargetKind      TargetKind `gorm:"not null;index:idx_comment_target" json:"target_kind"`
	TargetID        int64      `gorm:"not null;index:idx_comment_target" json:"target_id"`
	ParentCommentID *int64     `gorm:"index" json:"parent_comment_id,omitempty"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	IsDeleted       bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// Target returns the tagged attachment point.
func (c *Comment) Target() Target {
	return Target{Kind: c.TargetKind, ID: c.TargetID}
}

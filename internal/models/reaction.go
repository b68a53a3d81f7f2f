package models

import "time"

// Reaction is a (user, target, type) tuple. The unique index makes a
// repeated identical reaction a toggle-off rather than a duplicate row.
type Reaction struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_once" json:"user_id"`
	TargetKind   TargetKind `gorm:"not null;uniqueIndex:idx_reaction_once" json:"target_kind"`
	TargetID     int64      `gorm:"not null;uniqueIndex:idx_reaction_once" json:"target_id"`
	ReactionType string     `gorm:"not null;uniqueIndex:idx_reaction_once" json:"reaction_type"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}

// Target returns the tagged attachment point.
func (r *Reaction) Target() Target {
	return Target{Kind: r.TargetKind, ID: r.TargetID}
}

package models

import "time"

// AdminLog is the append-only audit trail of privileged mutations. Rows
// are never updated or deleted.
type AdminLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminID   string    `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action    string    `gorm:"not null" json:"action"`
	Details   string    `gorm:"type:jsonb" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}

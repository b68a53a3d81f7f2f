package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Approval states for registration gating.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
)

type User struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Password       string     `gorm:"column:password_hash;not null" json:"-"`
	DisplayName    string     `json:"display_name"`
	RoleID         int64      `gorm:"not null;default:1;index" json:"role_id"`
	Bio            *string    `json:"bio,omitempty"`
	ProfileImage   *string    `json:"profile_image,omitempty"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	IsBanned       bool       `gorm:"not null;default:false" json:"is_banned"`
	BanReason      *string    `json:"ban_reason,omitempty"`
	BanExpiry      *time.Time `json:"ban_expiry,omitempty"`
	ApprovalStatus string     `gorm:"not null;default:'approved'" json:"approval_status"`
	ApprovedBy     *string    `gorm:"type:uuid" json:"approved_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`

	// Associations
	Role UserRole `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

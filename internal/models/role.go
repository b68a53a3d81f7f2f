package models

// Fixed role ids. The owner id is a reserved sentinel: exactly one user
// holds it and it can only move via an explicit self-transfer.
const (
	RoleReaderID     int64 = 1
	RoleAuthorID     int64 = 2
	RoleTranslatorID int64 = 3
	RoleModeratorID  int64 = 4
	RoleAdminID      int64 = 5
	RoleOwnerID      int64 = 6
)

type UserRole struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// SeedRoles is the fixed role set inserted at startup.
func SeedRoles() []UserRole {
	return []UserRole{
		{ID: RoleReaderID, Name: "reader", Description: "Can read and comment"},
		{ID: RoleAuthorID, Name: "author", Description: "Can publish original novels"},
		{ID: RoleTranslatorID, Name: "translator", Description: "Can publish translated novels"},
		{ID: RoleModeratorID, Name: "moderator", Description: "Can moderate content"},
		{ID: RoleAdminID, Name: "admin", Description: "Site administration"},
		{ID: RoleOwnerID, Name: "owner", Description: "Site owner"},
	}
}

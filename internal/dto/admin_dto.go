package dto

// BanUserRequest: owner-only payload for banning an account. Duration is
// a count of days or months ("7 days", "1 month"); omitted means
// permanent.
type BanUserRequest struct {
	Reason   string `json:"reason" binding:"required,min=1,max=1000"`
	Duration string `json:"duration,omitempty"`
}

// ChangeRoleRequest: owner-only payload for changing an account's role
type ChangeRoleRequest struct {
	RoleID int64  `json:"role_id" binding:"required,min=1"`
	Reason string `json:"reason,omitempty" binding:"max=1000"`
}

// SearchUsersRequest: owner-only user search filters
type SearchUsersRequest struct {
	Query    string `form:"q" binding:"required,min=1"`
	RoleID   *int64 `form:"role_id,omitempty"`
	IsActive *bool  `form:"is_active,omitempty"`
	IsBanned *bool  `form:"is_banned,omitempty"`
}

package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"max=100"`
}

// LoginRequest: email-or-username identifier plus password
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// RegisterResponse: response payload after successful registration
type RegisterResponse struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ApprovalStatus string `json:"approval_status"`
}

// UpdateProfileRequest: self-service profile edits
type UpdateProfileRequest struct {
	DisplayName  *string `json:"display_name,omitempty" binding:"omitempty,max=100"`
	Bio          *string `json:"bio,omitempty" binding:"omitempty,max=2000"`
	ProfileImage *string `json:"profile_image,omitempty" binding:"omitempty,url"`
}

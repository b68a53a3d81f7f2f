package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"nineworlds/internal/models"
)

// UserWithCounts is a user row joined with its role name and per-user
// rollup counts for the admin console.
type UserWithCounts struct {
	models.User
	RoleName        string `json:"role_name"`
	RoleDescription string `json:"role_description"`
	TotalNovels     int64  `json:"total_novels"`
	TotalChapters   int64  `json:"total_chapters"`
	TotalComments   int64  `json:"total_comments"`
}

// UserStats is the aggregate breakdown of the whole user base.
type UserStats struct {
	TotalUsers   int64            `json:"total_users"`
	ActiveUsers  int64            `json:"active_users"`
	BannedUsers  int64            `json:"banned_users"`
	PendingUsers int64            `json:"pending_users"`
	ByRole       map[string]int64 `json:"by_role"`
}

// UserSearchFilters narrows admin user searches.
type UserSearchFilters struct {
	RoleID   *int64
	IsActive *bool
	IsBanned *bool
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIdentifier resolves an email-or-username login identifier.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// RoleName re-reads the role from the store; privileged gates never
	// trust a cached or claimed role.
	RoleName(ctx context.Context, userID string) (string, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, userID string) error
	SetBanState(ctx context.Context, userID string, banned bool, reason *string, expiry *time.Time, active bool) error
	SetRole(ctx context.Context, userID string, roleID int64) error
	List(ctx context.Context, page, pageSize int) ([]UserWithCounts, int64, error)
	GetWithCounts(ctx context.Context, userID string) (*UserWithCounts, error)
	Stats(ctx context.Context) (*UserStats, error)
	Search(ctx context.Context, query string, filters UserSearchFilters) ([]UserWithCounts, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Role").
		Where("email = ? OR username = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) RoleName(ctx context.Context, userID string) (string, error) {
	var name string
	err := r.db.WithContext(ctx).Model(&models.UserRole{}).
		Select("user_roles.name").
		Joins("JOIN users ON users.role_id = user_roles.id").
		Where("users.id = ?", userID).
		Scan(&name).Error
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", gorm.ErrRecordNotFound
	}
	return name, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

func (r *userRepository) SetBanState(ctx context.Context, userID string, banned bool, reason *string, expiry *time.Time, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"is_banned":  banned,
			"ban_reason": reason,
			"ban_expiry": expiry,
			"is_active":  active,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, userID string, roleID int64) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("role_id", roleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// withCountsSelect joins role metadata and the per-user rollup counts used
// by the admin console. Counts include soft-deleted rows so they match the
// full publication history of the account.
func (r *userRepository) withCountsSelect(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Select(`users.*,
			user_roles.name AS role_name,
			user_roles.description AS role_description,
			(SELECT COUNT(*) FROM novels WHERE novels.author_id = users.id OR novels.translator_id = users.id) AS total_novels,
			(SELECT COUNT(*) FROM chapters WHERE chapters.author_id = users.id OR chapters.translator_id = users.id) AS total_chapters,
			(SELECT COUNT(*) FROM comments WHERE comments.user_id = users.id) AS total_comments`).
		Joins("LEFT JOIN user_roles ON users.role_id = user_roles.id")
}

func (r *userRepository) List(ctx context.Context, page, pageSize int) ([]UserWithCounts, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []UserWithCounts
	offset := (page - 1) * pageSize
	err := r.withCountsSelect(ctx).
		Order("users.created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) GetWithCounts(ctx context.Context, userID string) (*UserWithCounts, error) {
	var user UserWithCounts
	err := r.withCountsSelect(ctx).
		Where("users.id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Stats(ctx context.Context) (*UserStats, error) {
	stats := &UserStats{ByRole: make(map[string]int64)}

	type generalRow struct {
		TotalUsers   int64
		ActiveUsers  int64
		BannedUsers  int64
		PendingUsers int64
	}
	var general generalRow
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select(`COUNT(*) AS total_users,
			COUNT(CASE WHEN is_active THEN 1 END) AS active_users,
			COUNT(CASE WHEN is_banned THEN 1 END) AS banned_users,
			COUNT(CASE WHEN approval_status = ? THEN 1 END) AS pending_users`,
			models.ApprovalPending).
		Scan(&general).Error
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	stats.TotalUsers = general.TotalUsers
	stats.ActiveUsers = general.ActiveUsers
	stats.BannedUsers = general.BannedUsers
	stats.PendingUsers = general.PendingUsers

	type roleRow struct {
		Name  string
		Count int64
	}
	var roles []roleRow
	err = r.db.WithContext(ctx).Model(&models.UserRole{}).
		Select("user_roles.name, COUNT(users.id) AS count").
		Joins("LEFT JOIN users ON users.role_id = user_roles.id").
		Group("user_roles.id, user_roles.name").
		Scan(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("role stats: %w", err)
	}
	for _, row := range roles {
		stats.ByRole[row.Name] = row.Count
	}
	return stats, nil
}

func (r *userRepository) Search(ctx context.Context, query string, filters UserSearchFilters) ([]UserWithCounts, error) {
	pattern := "%" + query + "%"
	db := r.withCountsSelect(ctx).
		Where("users.username ILIKE ? OR users.email ILIKE ? OR users.display_name ILIKE ?",
			pattern, pattern, pattern)

	if filters.RoleID != nil {
		db = db.Where("users.role_id = ?", *filters.RoleID)
	}
	if filters.IsActive != nil {
		db = db.Where("users.is_active = ?", *filters.IsActive)
	}
	if filters.IsBanned != nil {
		db = db.Where("users.is_banned = ?", *filters.IsBanned)
	}

	var users []UserWithCounts
	if err := db.Order("users.created_at DESC").Limit(100).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

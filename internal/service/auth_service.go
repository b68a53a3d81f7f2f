package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nineworlds/internal/auth"
	"nineworlds/internal/config"
	"nineworlds/internal/models"
	"nineworlds/internal/notify"
	"nineworlds/internal/repository"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountBanned      = errors.New("account is banned")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrAccountPending     = errors.New("account is pending approval")
)

// Claims carried in the session token. The role here is advisory display
// state; privileged gates re-read the role from the store.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, email, username, password, displayName string) (*models.User, error)
	// Login resolves an email-or-username identifier. A banned account
	// whose ban expiry has passed is reactivated here; expiry is enforced
	// lazily at login, there is no background sweep.
	Login(ctx context.Context, identifier, password string) (string, *models.User, error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, displayName, bio, profileImage *string) (*models.User, error)
}

type authService struct {
	userRepo        repository.UserRepository
	notifier        notify.Notifier
	logger          *slog.Logger
	jwtSecret       string
	tokenTTL        time.Duration
	requireApproval bool
}

func NewAuthService(userRepo repository.UserRepository, notifier notify.Notifier, logger *slog.Logger, cfg *config.Config) AuthService {
	return &authService{
		userRepo:        userRepo,
		notifier:        notifier,
		logger:          logger,
		jwtSecret:       cfg.JWTSecret,
		tokenTTL:        cfg.TokenTTL,
		requireApproval: cfg.RequireApproval,
	}
}

func (s *authService) Register(ctx context.Context, email, username, password, displayName string) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrNameInUse
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = username
	}
	approval := models.ApprovalApproved
	template := notify.TemplateWelcome
	if s.requireApproval {
		approval = models.ApprovalPending
		template = notify.TemplatePendingApproval
	}

	user := &models.User{
		Email:          email,
		Username:       username,
		Password:       hashedPassword,
		DisplayName:    displayName,
		RoleID:         models.RoleReaderID,
		IsActive:       true,
		ApprovalStatus: approval,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.dispatch(ctx, notify.Email{
		To:       user.Email,
		Subject:  "Welcome to Nine Worlds",
		Template: template,
		Data:     map[string]any{"display_name": user.DisplayName},
	})

	return user, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		// Dummy compare so unknown identifiers take as long as bad
		// passwords.
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if user.IsBanned {
		if user.BanExpiry != nil && time.Now().After(*user.BanExpiry) {
			if err := s.userRepo.SetBanState(ctx, user.ID, false, nil, nil, true); err != nil {
				return "", nil, err
			}
			user.IsBanned = false
			user.BanReason = nil
			user.BanExpiry = nil
			user.IsActive = true
			s.logger.Info("ban expired, account reactivated at login", "user_id", user.ID)
		} else {
			return "", nil, ErrAccountBanned
		}
	}

	if user.ApprovalStatus == models.ApprovalPending {
		return "", nil, ErrAccountPending
	}
	if !user.IsActive {
		return "", nil, ErrAccountInactive
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Non-critical bookkeeping.
		s.logger.Warn("failed to update last_login", "user_id", user.ID, "error", err)
	}

	return token, user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, displayName, bio, profileImage *string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if displayName != nil {
		user.DisplayName = *displayName
	}
	if bio != nil {
		user.Bio = bio
	}
	if profileImage != nil {
		user.ProfileImage = profileImage
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) dispatch(ctx context.Context, email notify.Email) {
	if err := s.notifier.Send(ctx, email); err != nil {
		s.logger.Error("notification dispatch failed",
			"to", email.To, "template", email.Template, "error", err)
	}
}

package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"nineworlds/internal/config"
	"nineworlds/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
}

func newAuthService(userRepo *MockUserRepository, notifier *MockNotifier, cfg *config.Config) AuthService {
	return NewAuthService(userRepo, notifier, testLogger(), cfg)
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockNotifier.On("Send", mock.Anything, mock.AnythingOfType("notify.Email")).Return(nil)

	user, err := authService.Register(context.Background(), "test@example.com", "testuser", "password123", "")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "testuser", user.DisplayName)
	assert.Equal(t, models.RoleReaderID, user.RoleID)
	assert.Equal(t, models.ApprovalApproved, user.ApprovalStatus)
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(&models.User{Username: "testuser"}, nil)

	user, err := authService.Register(context.Background(), "test@example.com", "testuser", "password123", "")

	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&models.User{Email: "test@example.com"}, nil)

	user, err := authService.Register(context.Background(), "test@example.com", "testuser", "password123", "")

	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_RequiresApproval(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	cfg := testConfig()
	cfg.RequireApproval = true
	authService := newAuthService(mockUserRepo, mockNotifier, cfg)

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockNotifier.On("Send", mock.Anything, mock.AnythingOfType("notify.Email")).Return(nil)

	user, err := authService.Register(context.Background(), "test@example.com", "testuser", "password123", "")

	assert.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, user.ApprovalStatus)
}

func activeUser(password string) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &models.User{
		ID:             "user-id",
		Email:          "test@example.com",
		Username:       "testuser",
		Password:       string(hashed),
		RoleID:         models.RoleReaderID,
		IsActive:       true,
		ApprovalStatus: models.ApprovalApproved,
		Role:           models.UserRole{ID: models.RoleReaderID, Name: "reader"},
	}
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	user := activeUser("password123")
	mockUserRepo.On("FindByIdentifier", mock.Anything, "testuser").Return(user, nil)
	mockUserRepo.On("UpdateLastLogin", mock.Anything, "user-id").Return(nil)

	token, returnedUser, err := authService.Login(context.Background(), "testuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.Username, returnedUser.Username)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_ByEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	user := activeUser("password123")
	mockUserRepo.On("FindByIdentifier", mock.Anything, "test@example.com").Return(user, nil)
	mockUserRepo.On("UpdateLastLogin", mock.Anything, "user-id").Return(nil)

	token, _, err := authService.Login(context.Background(), "test@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLogin_InvalidPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	mockUserRepo.On("FindByIdentifier", mock.Anything, "testuser").Return(activeUser("password123"), nil)

	token, user, err := authService.Login(context.Background(), "testuser", "wrongpassword")

	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestLogin_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	mockUserRepo.On("FindByIdentifier", mock.Anything, "nonexistent").Return(nil, gorm.ErrRecordNotFound)

	token, user, err := authService.Login(context.Background(), "nonexistent", "password123")

	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestLogin_BannedPermanent(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	user := activeUser("password123")
	reason := "spam"
	user.IsBanned = true
	user.IsActive = false
	user.BanReason = &reason

	mockUserRepo.On("FindByIdentifier", mock.Anything, "testuser").Return(user, nil)

	token, returnedUser, err := authService.Login(context.Background(), "testuser", "password123")

	assert.Equal(t, ErrAccountBanned, err)
	assert.Empty(t, token)
	assert.Nil(t, returnedUser)
}

func TestLogin_BanStillActive(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	user := activeUser("password123")
	expiry := time.Now().Add(24 * time.Hour)
	user.IsBanned = true
	user.IsActive = false
	user.BanExpiry = &expiry

	mockUserRepo.On("FindByIdentifier", mock.Anything, "testuser").Return(user, nil)

	_, _, err := authService.Login(context.Background(), "testuser", "password123")

	assert.Equal(t, ErrAccountBanned, err)
	mockUserRepo.AssertNotCalled(t, "SetBanState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_BanExpiredIsLifted(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	user := activeUser("password123")
	expiry := time.Now().Add(-time.Hour)
	user.IsBanned = true
	user.IsActive = false
	user.BanExpiry = &expiry

	mockUserRepo.On("FindByIdentifier", mock.Anything, "testuser").Return(user, nil)
	mockUserRepo.On("SetBanState", mock.Anything, "user-id", false, (*string)(nil), (*time.Time)(nil), true).Return(nil)
	mockUserRepo.On("UpdateLastLogin", mock.Anything, "user-id").Return(nil)

	token, returnedUser, err := authService.Login(context.Background(), "testuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, returnedUser.IsBanned)
	assert.True(t, returnedUser.IsActive)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_PendingApproval(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	user := activeUser("password123")
	user.ApprovalStatus = models.ApprovalPending

	mockUserRepo.On("FindByIdentifier", mock.Anything, "testuser").Return(user, nil)

	_, _, err := authService.Login(context.Background(), "testuser", "password123")

	assert.Equal(t, ErrAccountPending, err)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	user := activeUser("password123")
	mockUserRepo.On("FindByIdentifier", mock.Anything, "testuser").Return(user, nil)
	mockUserRepo.On("UpdateLastLogin", mock.Anything, "user-id").Return(nil)

	token, _, err := authService.Login(context.Background(), "testuser", "password123")
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "reader", claims.Role)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	claims, err := authService.ValidateToken("not-a-token")

	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	issuer := newAuthService(mockUserRepo, mockNotifier, testConfig())

	otherCfg := testConfig()
	otherCfg.JWTSecret = "other-secret"
	verifier := newAuthService(mockUserRepo, mockNotifier, otherCfg)

	user := activeUser("password123")
	mockUserRepo.On("FindByIdentifier", mock.Anything, "testuser").Return(user, nil)
	mockUserRepo.On("UpdateLastLogin", mock.Anything, "user-id").Return(nil)

	token, _, err := issuer.Login(context.Background(), "testuser", "password123")
	assert.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockNotifier := new(MockNotifier)
	authService := newAuthService(mockUserRepo, mockNotifier, testConfig())

	user := activeUser("password123")
	user.DisplayName = "Old Name"
	mockUserRepo.On("FindByID", mock.Anything, "user-id").Return(user, nil)
	mockUserRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	displayName := "New Name"
	updated, err := authService.UpdateProfile(context.Background(), "user-id", &displayName, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.DisplayName)
	assert.Nil(t, updated.Bio)
	mockUserRepo.AssertExpectations(t)
}

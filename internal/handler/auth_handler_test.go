package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"nineworlds/internal/dto"
	"nineworlds/internal/models"
	"nineworlds/internal/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, username, password, displayName string) (*models.User, error) {
	args := m.Called(ctx, email, username, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, displayName, bio, profileImage *string) (*models.User, error) {
	args := m.Called(ctx, userID, displayName, bio, profileImage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func noLimit() gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

func TestRegisterHandler_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, time.Hour, noLimit())
	router := setupRouter()
	router.POST("/register", handler.Register)

	user := &models.User{
		ID:             "user-123",
		Username:       "testuser",
		Email:          "test@example.com",
		ApprovalStatus: models.ApprovalApproved,
	}
	mockAuthService.On("Register", mock.Anything, "test@example.com", "testuser", "password123", "").Return(user, nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password123",
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.RegisterResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "user-123", response.UserID)
	assert.Equal(t, "approved", response.ApprovalStatus)
	mockAuthService.AssertExpectations(t)
}

func TestRegisterHandler_Conflict(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, time.Hour, noLimit())
	router := setupRouter()
	router.POST("/register", handler.Register)

	mockAuthService.On("Register", mock.Anything, "test@example.com", "testuser", "password123", "").
		Return(nil, service.ErrNameInUse)

	body, _ := json.Marshal(dto.RegisterRequest{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password123",
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterHandler_BadPayload(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, time.Hour, noLimit())
	router := setupRouter()
	router.POST("/register", handler.Register)

	// Password too short fails binding before the service is reached.
	body, _ := json.Marshal(dto.RegisterRequest{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "short",
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginHandler_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, time.Hour, noLimit())
	router := setupRouter()
	router.POST("/login", handler.Login)

	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Role:     models.UserRole{ID: models.RoleReaderID, Name: "reader"},
	}
	mockAuthService.On("Login", mock.Anything, "testuser", "password123").Return("signed-token", user, nil)

	body, _ := json.Marshal(dto.LoginRequest{Identifier: "testuser", Password: "password123"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "signed-token", response.Token)
	assert.Equal(t, "reader", response.Role)
	assert.Equal(t, int64(3600), response.ExpiresIn)
}

func TestLoginHandler_Banned(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, time.Hour, noLimit())
	router := setupRouter()
	router.POST("/login", handler.Login)

	mockAuthService.On("Login", mock.Anything, "testuser", "password123").
		Return("", nil, service.ErrAccountBanned)

	body, _ := json.Marshal(dto.LoginRequest{Identifier: "testuser", Password: "password123"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService, time.Hour, noLimit())
	router := setupRouter()
	router.POST("/login", handler.Login)

	mockAuthService.On("Login", mock.Anything, "testuser", "wrong").
		Return("", nil, service.ErrInvalidCredentials)

	body, _ := json.Marshal(dto.LoginRequest{Identifier: "testuser", Password: "wrong"})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

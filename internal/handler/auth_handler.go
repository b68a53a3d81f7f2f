package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nineworlds/internal/dto"
	"nineworlds/internal/middleware"
	"nineworlds/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	tokenTTL    time.Duration
	loginLimit  gin.HandlerFunc
}

func NewAuthHandler(authService service.AuthService, tokenTTL time.Duration, loginLimit gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{authService: authService, tokenTTL: tokenTTL, loginLimit: loginLimit}
}

// RegisterRoutes registers auth routes; profile routes require a token.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.loginLimit, h.Login)
	}

	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.authService))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Username, req.Password, req.DisplayName)
	if errors.Is(err, service.ErrNameInUse) || errors.Is(err, service.ErrEmailInUse) {
		c.JSON(http.StatusConflict, gin.H{"error": "account creation failed"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account creation failed"})
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		UserID:         user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ApprovalStatus: user.ApprovalStatus,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Identifier, req.Password)
	switch {
	case errors.Is(err, service.ErrAccountBanned):
		c.JSON(http.StatusForbidden, gin.H{"error": "account is banned"})
		return
	case errors.Is(err, service.ErrAccountPending):
		c.JSON(http.StatusForbidden, gin.H{"error": "account is pending approval"})
		return
	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		return
	case err != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role.Name,
		ExpiresIn: int64(h.tokenTTL.Seconds()),
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c),
		req.DisplayName, req.Bio, req.ProfileImage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile update failed"})
		return
	}
	c.JSON(http.StatusOK, user)
}

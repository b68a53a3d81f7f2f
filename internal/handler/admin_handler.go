package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nineworlds/internal/dto"
	"nineworlds/internal/middleware"
	"nineworlds/internal/repository"
	"nineworlds/internal/service"
)

type AdminHandler struct {
	adminService service.AdminService
	authMW       gin.HandlerFunc
}

func NewAdminHandler(adminService service.AdminService, authMW gin.HandlerFunc) *AdminHandler {
	return &AdminHandler{adminService: adminService, authMW: authMW}
}

// RegisterRoutes registers the owner console. The role middleware is a
// cheap first gate; the service re-reads the actor's role from the store
// before every mutation.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(h.authMW, middleware.RequireRole("owner"))
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/search", h.SearchUsers)
		admin.GET("/users/stats", h.UserStats)
		admin.GET("/users/:id", h.GetUserDetails)
		admin.POST("/users/:id/ban", h.BanUser)
		admin.POST("/users/:id/unban", h.UnbanUser)
		admin.PUT("/users/:id/role", h.ChangeUserRole)
		admin.GET("/logs", h.ListAdminLogs)
	}
}

func writeAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOwnerImmune):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownRole), errors.Is(err, service.ErrBadDuration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := pagination(c)
	users, total, err := h.adminService.ListUsers(c.Request.Context(), middleware.CurrentUserID(c), page, pageSize)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(users, total, page, pageSize))
}

func (h *AdminHandler) SearchUsers(c *gin.Context) {
	var req dto.SearchUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, err := h.adminService.SearchUsers(c.Request.Context(), middleware.CurrentUserID(c), req.Query,
		repository.UserSearchFilters{
			RoleID:   req.RoleID,
			IsActive: req.IsActive,
			IsBanned: req.IsBanned,
		})
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UserStats(c *gin.Context) {
	stats, err := h.adminService.UserStats(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) GetUserDetails(c *gin.Context) {
	user, err := h.adminService.GetUserDetails(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	var req dto.BanUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.BanUser(c.Request.Context(), middleware.CurrentUserID(c),
		c.Param("id"), req.Reason, req.Duration); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user banned"})
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	if err := h.adminService.UnbanUser(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user unbanned"})
}

func (h *AdminHandler) ChangeUserRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.ChangeUserRole(c.Request.Context(), middleware.CurrentUserID(c),
		c.Param("id"), req.RoleID, req.Reason); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *AdminHandler) ListAdminLogs(c *gin.Context) {
	page, pageSize := pagination(c)
	logs, total, err := h.adminService.ListAdminLogs(c.Request.Context(), middleware.CurrentUserID(c), page, pageSize)
	if err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(logs, total, page, pageSize))
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nineworlds/internal/dto"
	"nineworlds/internal/middleware"
	"nineworlds/internal/service"
)

type LibraryHandler struct {
	libraryService service.LibraryService
	authMW         gin.HandlerFunc
}

func NewLibraryHandler(libraryService service.LibraryService, authMW gin.HandlerFunc) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService, authMW: authMW}
}

// RegisterRoutes registers the per-user library routes. Everything here
// is scoped to the authenticated user.
func (h *LibraryHandler) RegisterRoutes(router *gin.RouterGroup) {
	library := router.Group("/library")
	library.Use(h.authMW)
	{
		library.GET("/bookmarks", h.ListBookmarks)
		library.POST("/bookmarks/:id", h.AddBookmark)
		library.DELETE("/bookmarks/:id", h.RemoveBookmark)
		library.GET("/bookmarks/:id", h.HasBookmark)

		library.GET("/history", h.ListHistory)
		library.PUT("/novels/:id/progress", h.SaveProgress)
		library.GET("/novels/:id/progress", h.GetProgress)

		library.GET("/statistics", h.UserStatistics)
	}
}

func (h *LibraryHandler) AddBookmark(c *gin.Context) {
	novelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	err := h.libraryService.AddBookmark(c.Request.Context(), middleware.CurrentUserID(c), novelID)
	if errors.Is(err, service.ErrNovelNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "bookmarked"})
}

func (h *LibraryHandler) RemoveBookmark(c *gin.Context) {
	novelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.libraryService.RemoveBookmark(c.Request.Context(), middleware.CurrentUserID(c), novelID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bookmark removed"})
}

func (h *LibraryHandler) ListBookmarks(c *gin.Context) {
	bookmarks, err := h.libraryService.ListBookmarks(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, bookmarks)
}

func (h *LibraryHandler) HasBookmark(c *gin.Context) {
	novelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookmarked, err := h.libraryService.HasBookmark(c.Request.Context(), middleware.CurrentUserID(c), novelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

func (h *LibraryHandler) SaveProgress(c *gin.Context) {
	novelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.libraryService.SaveProgress(c.Request.Context(), middleware.CurrentUserID(c),
		novelID, req.ChapterID, req.Position); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "progress saved"})
}

func (h *LibraryHandler) GetProgress(c *gin.Context) {
	novelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var chapterID *int64
	if raw := c.Query("chapter_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter_id"})
			return
		}
		chapterID = &parsed
	}

	progress, err := h.libraryService.GetProgress(c.Request.Context(), middleware.CurrentUserID(c), novelID, chapterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if progress == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reading progress recorded"})
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *LibraryHandler) ListHistory(c *gin.Context) {
	history, err := h.libraryService.ListHistory(c.Request.Context(), middleware.CurrentUserID(c), queryLimit(c, 50, 200))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *LibraryHandler) UserStatistics(c *gin.Context) {
	stats, err := h.libraryService.UserStatistics(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

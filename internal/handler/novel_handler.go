package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nineworlds/internal/authz"
	"nineworlds/internal/dto"
	"nineworlds/internal/middleware"
	"nineworlds/internal/service"
)

type NovelHandler struct {
	novelService   service.NovelService
	chapterService service.ChapterService
	authMW         gin.HandlerFunc
}

func NewNovelHandler(novelService service.NovelService, chapterService service.ChapterService, authMW gin.HandlerFunc) *NovelHandler {
	return &NovelHandler{
		novelService:   novelService,
		chapterService: chapterService,
		authMW:         authMW,
	}
}

// RegisterRoutes registers novel, chapter and category routes. Reads are
// public; writes go through the auth middleware.
func (h *NovelHandler) RegisterRoutes(router *gin.RouterGroup) {
	novels := router.Group("/novels")
	{
		novels.GET("", h.ListLatest)
		novels.GET("/search", h.Search)
		novels.GET("/:id", h.GetNovel)
		novels.GET("/:id/statistics", h.GetStatistics)
		novels.GET("/:id/chapters", h.ListChapters)

		novels.POST("", h.authMW, h.CreateNovel)
		novels.PUT("/:id", h.authMW, h.UpdateNovel)
		novels.DELETE("/:id", h.authMW, h.DeleteNovel)
		novels.PUT("/:id/featured", h.authMW, h.SetFeatured)
		novels.POST("/:id/statistics/recount", h.authMW, h.RecountStatistics)
		novels.POST("/:id/chapters", h.authMW, h.CreateChapter)
	}

	chapters := router.Group("/chapters")
	{
		chapters.GET("/:id", h.GetChapter)
		chapters.PUT("/:id", h.authMW, h.UpdateChapter)
		chapters.DELETE("/:id", h.authMW, h.DeleteChapter)
	}

	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id/novels", h.ListByCategory)
		categories.POST("", h.authMW, h.CreateCategory)
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryLimit(c *gin.Context, fallback, max int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(fallback)))
	if err != nil || limit < 1 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

// writeContentError maps service errors shared by novel and chapter
// paths onto HTTP statuses.
func writeContentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNovelNotFound),
		errors.Is(err, service.ErrChapterNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *NovelHandler) CreateNovel(c *gin.Context) {
	var req dto.CreateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	novel, err := h.novelService.CreateNovel(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, novel)
}

func (h *NovelHandler) GetNovel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	novel, err := h.novelService.GetNovel(c.Request.Context(), id)
	if err != nil {
		writeContentError(c, err)
		return
	}
	// Reads count as views; the counter failing must not break the read.
	if err := h.novelService.RecordView(c.Request.Context(), id); err != nil {
		slog.Warn("novel view count failed", "novel_id", id, "error", err)
	}
	c.JSON(http.StatusOK, novel)
}

func (h *NovelHandler) UpdateNovel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	novel, err := h.novelService.UpdateNovel(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), id, req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, novel)
}

func (h *NovelHandler) DeleteNovel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.novelService.DeleteNovel(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), id); err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "novel deleted"})
}

func (h *NovelHandler) SetFeatured(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.novelService.SetFeatured(c.Request.Context(),
		middleware.CurrentRole(c), id, req.Featured); err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "featured flag updated"})
}

func (h *NovelHandler) RecountStatistics(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := h.novelService.RecountStatistics(c.Request.Context(), middleware.CurrentRole(c), id)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *NovelHandler) GetStatistics(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := h.novelService.Statistics(c.Request.Context(), id)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *NovelHandler) ListLatest(c *gin.Context) {
	if authorID := c.Query("author_id"); authorID != "" {
		novels, err := h.novelService.ListByAuthor(c.Request.Context(), authorID)
		if err != nil {
			writeContentError(c, err)
			return
		}
		c.JSON(http.StatusOK, novels)
		return
	}
	if translatorID := c.Query("translator_id"); translatorID != "" {
		novels, err := h.novelService.ListByTranslator(c.Request.Context(), translatorID)
		if err != nil {
			writeContentError(c, err)
			return
		}
		c.JSON(http.StatusOK, novels)
		return
	}

	novels, err := h.novelService.ListLatest(c.Request.Context(), queryLimit(c, 20, 100))
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, novels)
}

func (h *NovelHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search query"})
		return
	}
	novels, err := h.novelService.Search(c.Request.Context(), query, queryLimit(c, 20, 100))
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, novels)
}

func (h *NovelHandler) CreateChapter(c *gin.Context) {
	novelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.chapterService.CreateChapter(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), novelID, req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

func (h *NovelHandler) GetChapter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	chapter, err := h.chapterService.GetChapter(c.Request.Context(), id)
	if err != nil {
		writeContentError(c, err)
		return
	}
	if err := h.chapterService.RecordView(c.Request.Context(), id); err != nil {
		slog.Warn("chapter view count failed", "chapter_id", id, "error", err)
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *NovelHandler) UpdateChapter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.chapterService.UpdateChapter(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), id, req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *NovelHandler) DeleteChapter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.chapterService.DeleteChapter(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), id); err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chapter deleted"})
}

func (h *NovelHandler) ListChapters(c *gin.Context) {
	novelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	chapters, err := h.chapterService.ListByNovel(c.Request.Context(), novelID)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

func (h *NovelHandler) ListCategories(c *gin.Context) {
	categories, err := h.novelService.ListCategories(c.Request.Context())
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *NovelHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	novels, err := h.novelService.ListByCategory(c.Request.Context(), categoryID, queryLimit(c, 20, 100))
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, novels)
}

func (h *NovelHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.novelService.CreateCategory(c.Request.Context(), middleware.CurrentRole(c), req)
	if err != nil {
		writeContentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

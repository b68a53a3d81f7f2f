package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nineworlds/internal/service"
)

type RankingHandler struct {
	rankingService service.RankingService
}

func NewRankingHandler(rankingService service.RankingService) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

// RegisterRoutes registers the public ranking routes.
func (h *RankingHandler) RegisterRoutes(router *gin.RouterGroup) {
	rankings := router.Group("/rankings")
	{
		rankings.GET("/novels", h.TopNovels)
		rankings.GET("/novels/featured", h.Featured)
		rankings.GET("/novels/:id/related", h.Related)
		rankings.GET("/authors", h.TopAuthors)
		rankings.GET("/translators", h.TopTranslators)
		rankings.GET("/users", h.TopUsers)
	}
}

func (h *RankingHandler) TopNovels(c *gin.Context) {
	limit := queryLimit(c, 10, 50)

	var fetch func() (any, error)
	switch c.DefaultQuery("by", "views") {
	case "views":
		fetch = func() (any, error) { return h.rankingService.TopNovelsByViews(c.Request.Context(), limit) }
	case "comments":
		fetch = func() (any, error) { return h.rankingService.TopNovelsByComments(c.Request.Context(), limit) }
	case "reactions":
		fetch = func() (any, error) { return h.rankingService.TopNovelsByReactions(c.Request.Context(), limit) }
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ranking criterion"})
		return
	}

	novels, err := fetch()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, novels)
}

func (h *RankingHandler) Featured(c *gin.Context) {
	novels, err := h.rankingService.FeaturedNovels(c.Request.Context(), queryLimit(c, 10, 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, novels)
}

func (h *RankingHandler) Related(c *gin.Context) {
	novelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	novels, err := h.rankingService.RelatedNovels(c.Request.Context(), novelID, queryLimit(c, 10, 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, novels)
}

func (h *RankingHandler) TopAuthors(c *gin.Context) {
	users, err := h.rankingService.TopAuthors(c.Request.Context(), queryLimit(c, 10, 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *RankingHandler) TopTranslators(c *gin.Context) {
	users, err := h.rankingService.TopTranslators(c.Request.Context(), queryLimit(c, 10, 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *RankingHandler) TopUsers(c *gin.Context) {
	users, err := h.rankingService.TopUsers(c.Request.Context(), queryLimit(c, 10, 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nineworlds/internal/authz"
	"nineworlds/internal/dto"
	"nineworlds/internal/middleware"
	"nineworlds/internal/models"
	"nineworlds/internal/repository"
	"nineworlds/internal/service"
)

type EngagementHandler struct {
	commentService  service.CommentService
	reactionService service.ReactionService
	authMW          gin.HandlerFunc
}

func NewEngagementHandler(commentService service.CommentService, reactionService service.ReactionService, authMW gin.HandlerFunc) *EngagementHandler {
	return &EngagementHandler{
		commentService:  commentService,
		reactionService: reactionService,
		authMW:          authMW,
	}
}

// RegisterRoutes registers comment and reaction routes. Comment listings
// are public; everything else requires a token.
func (h *EngagementHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/novels/:id/comments", h.listFor(models.TargetNovel))
	router.POST("/novels/:id/comments", h.authMW, h.createFor(models.TargetNovel))
	router.GET("/chapters/:id/comments", h.listFor(models.TargetChapter))
	router.POST("/chapters/:id/comments", h.authMW, h.createFor(models.TargetChapter))

	comments := router.Group("/comments")
	comments.Use(h.authMW)
	{
		comments.PUT("/:id", h.UpdateComment)
		comments.DELETE("/:id", h.DeleteComment)
	}

	reactions := router.Group("/reactions")
	{
		reactions.GET("/count", h.CountReactions)
		reactions.POST("", h.authMW, h.ToggleReaction)
		reactions.GET("/me", h.authMW, h.ListMyReactions)
	}
}

func (h *EngagementHandler) createFor(kind models.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		comment, err := h.commentService.CreateComment(c.Request.Context(),
			middleware.CurrentUserID(c), middleware.CurrentRole(c),
			models.Target{Kind: kind, ID: targetID}, req)
		if err != nil {
			writeCommentError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.FromModelToCommentResponse(comment))
	}
}

func (h *EngagementHandler) listFor(kind models.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := pathID(c, "id")
		if !ok {
			return
		}
		page, pageSize := pagination(c)

		comments, total, err := h.commentService.ListByTarget(c.Request.Context(),
			models.Target{Kind: kind, ID: targetID}, page, pageSize)
		if err != nil {
			writeCommentError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewPaginated(comments, total, page, pageSize))
	}
}

func (h *EngagementHandler) UpdateComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), id, req)
	if err != nil {
		writeCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCommentResponse(comment))
}

func (h *EngagementHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.commentService.DeleteComment(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), id); err != nil {
		writeCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *EngagementHandler) ToggleReaction(c *gin.Context) {
	var req dto.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := models.Target{Kind: models.TargetKind(req.TargetKind), ID: req.TargetID}
	active, count, err := h.reactionService.Toggle(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), target, req.ReactionType)
	if err != nil {
		writeCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReactionResponse{Active: active, Count: count})
}

func (h *EngagementHandler) CountReactions(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil || targetID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target_id"})
		return
	}
	target := models.Target{Kind: models.TargetKind(c.Query("target_kind")), ID: targetID}

	count, err := h.reactionService.Count(c.Request.Context(), target, c.Query("type"))
	if err != nil {
		writeCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *EngagementHandler) ListMyReactions(c *gin.Context) {
	reactions, err := h.reactionService.ListByUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, reactions)
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func writeCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrReplyDepth),
		errors.Is(err, repository.ErrParentMismatch),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrInvalidReactionTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

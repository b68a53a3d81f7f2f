package dto

import (
	"time"

	"nineworlds/internal/models"
)

// CreateCommentRequest: payload for commenting on a novel or chapter
type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required,min=1,max=5000"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest: payload for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// CommentResponse: comment with author display data and its direct replies
type CommentResponse struct {
	ID              int64             `json:"id"`
	Username        string            `json:"username"`
	DisplayName     string            `json:"display_name"`
	Content         string            `json:"content"`
	ParentCommentID *int64            `json:"parent_comment_id,omitempty"`
	Replies         []CommentResponse `json:"replies,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// FromModelToCommentResponse converts a Comment model to a CommentResponse
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:              comment.ID,
		Content:         comment.Content,
		ParentCommentID: comment.ParentCommentID,
		CreatedAt:       comment.CreatedAt,
		UpdatedAt:       comment.UpdatedAt,
	}
	if comment.User != nil {
		resp.Username = comment.User.Username
		resp.DisplayName = comment.User.DisplayName
	}
	return resp
}

// ReactionRequest: payload for toggling a reaction on a target
type ReactionRequest struct {
	TargetKind   string `json:"target_kind" binding:"required,oneof=novel chapter comment"`
	TargetID     int64  `json:"target_id" binding:"required,min=1"`
	ReactionType string `json:"reaction_type" binding:"required,min=1,max=30"`
}

// ReactionResponse reports the post-toggle state
type ReactionResponse struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// SaveProgressRequest: payload for recording a reading position
type SaveProgressRequest struct {
	ChapterID int64 `json:"chapter_id" binding:"required,min=1"`
	Position  int   `json:"position" binding:"min=0"`
}

package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"nineworlds/internal/authz"
	"nineworlds/internal/dto"
	"nineworlds/internal/models"
	"nineworlds/internal/repository"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidTarget   = errors.New("invalid comment target")
)

type CommentService interface {
	// CreateComment attaches to a novel or chapter. Replies are one level
	// deep; a reply's parent must be a top-level comment on the same
	// target.
	CreateComment(ctx context.Context, actorID, actorRole string, target models.Target, req dto.CreateCommentRequest) (*models.Comment, error)
	UpdateComment(ctx context.Context, actorID, actorRole string, commentID int64, req dto.UpdateCommentRequest) (*models.Comment, error)
	// DeleteComment soft-deletes the comment and its direct replies in
	// one transaction. Allowed for the comment's author or a
	// moderation-tier role.
	DeleteComment(ctx context.Context, actorID, actorRole string, commentID int64) error
	ListByTarget(ctx context.Context, target models.Target, page, pageSize int) ([]dto.CommentResponse, int64, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	auth        *authz.Authorizer
}

func NewCommentService(commentRepo repository.CommentRepository, auth *authz.Authorizer) CommentService {
	return &commentService{commentRepo: commentRepo, auth: auth}
}

func (s *commentService) CreateComment(ctx context.Context, actorID, actorRole string, target models.Target, req dto.CreateCommentRequest) (*models.Comment, error) {
	if err := s.auth.Authorize(actorRole, authz.ActionComment, true); err != nil {
		return nil, err
	}
	if !target.Valid() || target.Kind == models.TargetComment {
		return nil, ErrInvalidTarget
	}

	comment := &models.Comment{
		UserID:          actorID,
		TargetKind:      target.Kind,
		TargetID:        target.ID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *commentService) UpdateComment(ctx context.Context, actorID, actorRole string, commentID int64, req dto.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actorID && !s.auth.Can(actorRole, authz.ActionModerateComments, false) {
		return nil, authz.ErrForbidden
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actorID, actorRole string, commentID int64) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actorID && !s.auth.Can(actorRole, authz.ActionModerateComments, false) {
		return authz.ErrForbidden
	}
	return s.commentRepo.SoftDelete(ctx, commentID)
}

func (s *commentService) ListByTarget(ctx context.Context, target models.Target, page, pageSize int) ([]dto.CommentResponse, int64, error) {
	if !target.Valid() || target.Kind == models.TargetComment {
		return nil, 0, ErrInvalidTarget
	}
	comments, total, err := s.commentRepo.ListByTarget(ctx, target, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp := dto.FromModelToCommentResponse(&comments[i])
		replies, err := s.commentRepo.ListReplies(ctx, comments[i].ID)
		if err != nil {
			return nil, 0, err
		}
		for j := range replies {
			resp.Replies = append(resp.Replies, *dto.FromModelToCommentResponse(&replies[j]))
		}
		responses = append(responses, *resp)
	}
	return responses, total, nil
}

func (s *commentService) getComment(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	return comment, err
}

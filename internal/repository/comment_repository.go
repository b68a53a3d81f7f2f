package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"nineworlds/internal/models"
	"nineworlds/internal/stats"
)

var (
	// ErrReplyDepth rejects replies to replies; threading is one level.
	ErrReplyDepth = errors.New("replies cannot be nested")
	// ErrParentMismatch rejects a reply whose parent sits on a different
	// novel or chapter.
	ErrParentMismatch = errors.New("parent comment belongs to a different target")
)

type CommentRepository interface {
	// Create inserts the comment and bumps the owning novel's comment
	// counter in one transaction. Replies are validated against their
	// parent's depth and attachment target.
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	// SoftDelete marks the comment and its direct replies deleted and
	// applies the matching negative delta, in one transaction.
	SoftDelete(ctx context.Context, id int64) error
	ListByTarget(ctx context.Context, target models.Target, page, pageSize int) ([]models.Comment, int64, error)
	ListReplies(ctx context.Context, parentID int64) ([]models.Comment, error)
}

type commentRepository struct {
	db         *gorm.DB
	aggregator stats.Aggregator
}

func NewCommentRepository(db *gorm.DB, aggregator stats.Aggregator) CommentRepository {
	return &commentRepository{db: db, aggregator: aggregator}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if comment.ParentCommentID != nil {
			var parent models.Comment
			if err := tx.Where("is_deleted = FALSE").First(&parent, *comment.ParentCommentID).Error; err != nil {
				return fmt.Errorf("parent comment: %w", err)
			}
			if parent.ParentCommentID != nil {
				return ErrReplyDepth
			}
			if parent.TargetKind != comment.TargetKind || parent.TargetID != comment.TargetID {
				return ErrParentMismatch
			}
		}

		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}

		return r.aggregator.ApplyDeltaForTarget(tx, comment.Target(), stats.KindComments, 1)
	})
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("is_deleted = FALSE").
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("is_deleted = FALSE").First(&comment, id).Error; err != nil {
			return err
		}

		// Direct replies only; replies never nest further.
		replyResult := tx.Model(&models.Comment{}).
			Where("parent_comment_id = ? AND is_deleted = FALSE", id).
			Update("is_deleted", true)
		if replyResult.Error != nil {
			return replyResult.Error
		}

		if err := tx.Model(&models.Comment{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		removed := int(replyResult.RowsAffected) + 1
		return r.aggregator.ApplyDeltaForTarget(tx, comment.Target(), stats.KindComments, -removed)
	})
}

func (r *commentRepository) ListByTarget(ctx context.Context, target models.Target, page, pageSize int) ([]models.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("target_kind = ? AND target_id = ? AND parent_comment_id IS NULL AND is_deleted = FALSE",
			target.Kind, target.ID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ? AND parent_comment_id IS NULL AND is_deleted = FALSE",
			target.Kind, target.ID).
		Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID int64) ([]models.Comment, error) {
	var replies []models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_comment_id = ? AND is_deleted = FALSE", parentID).
		Preload("User").
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

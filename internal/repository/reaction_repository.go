package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"nineworlds/internal/models"
	"nineworlds/internal/stats"
)

type ReactionRepository interface {
	// Toggle adds the reaction if absent, removes it if present, applying
	// the matching signed delta in the same transaction. Returns whether
	// the reaction exists after the call.
	Toggle(ctx context.Context, userID string, target models.Target, reactionType string) (bool, error)
	Count(ctx context.Context, target models.Target, reactionType string) (int64, error)
	Exists(ctx context.Context, userID string, target models.Target, reactionType string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reaction, error)
}

type reactionRepository struct {
	db         *gorm.DB
	aggregator stats.Aggregator
}

func NewReactionRepository(db *gorm.DB, aggregator stats.Aggregator) ReactionRepository {
	return &reactionRepository{db: db, aggregator: aggregator}
}

func (r *reactionRepository) Toggle(ctx context.Context, userID string, target models.Target, reactionType string) (bool, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Reaction
		err := tx.Where("user_id = ? AND target_kind = ? AND target_id = ? AND reaction_type = ?",
			userID, target.Kind, target.ID, reactionType).
			First(&existing).Error

		switch {
		case err == nil:
			// Repeated identical reaction toggles off.
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("remove reaction: %w", err)
			}
			active = false
			return r.aggregator.ApplyDeltaForTarget(tx, target, stats.KindReactions, -1)

		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction := models.Reaction{
				UserID:       userID,
				TargetKind:   target.Kind,
				TargetID:     target.ID,
				ReactionType: reactionType,
			}
			if err := tx.Create(&reaction).Error; err != nil {
				return fmt.Errorf("create reaction: %w", err)
			}
			active = true
			return r.aggregator.ApplyDeltaForTarget(tx, target, stats.KindReactions, 1)

		default:
			return err
		}
	})
	return active, err
}

func (r *reactionRepository) Count(ctx context.Context, target models.Target, reactionType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("target_kind = ? AND target_id = ? AND reaction_type = ?",
			target.Kind, target.ID, reactionType).
		Count(&count).Error
	return count, err
}

func (r *reactionRepository) Exists(ctx context.Context, userID string, target models.Target, reactionType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ? AND reaction_type = ?",
			userID, target.Kind, target.ID, reactionType).
		Count(&count).Error
	return count > 0, err
}

func (r *reactionRepository) ListByUser(ctx context.Context, userID string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reactions).Error
	return reactions, err
}

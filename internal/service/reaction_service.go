package service

import (
	"context"
	"errors"

	"nineworlds/internal/authz"
	"nineworlds/internal/models"
	"nineworlds/internal/repository"
)

var ErrInvalidReactionTarget = errors.New("invalid reaction target")

type ReactionService interface {
	// Toggle flips the reaction: on when absent, off when present.
	// Returns the post-toggle state and the current count for the
	// (target, type) pair.
	Toggle(ctx context.Context, actorID, actorRole string, target models.Target, reactionType string) (bool, int64, error)
	Exists(ctx context.Context, userID string, target models.Target, reactionType string) (bool, error)
	Count(ctx context.Context, target models.Target, reactionType string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reaction, error)
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	auth         *authz.Authorizer
}

func NewReactionService(reactionRepo repository.ReactionRepository, auth *authz.Authorizer) ReactionService {
	return &reactionService{reactionRepo: reactionRepo, auth: auth}
}

func (s *reactionService) Toggle(ctx context.Context, actorID, actorRole string, target models.Target, reactionType string) (bool, int64, error) {
	if err := s.auth.Authorize(actorRole, authz.ActionComment, true); err != nil {
		return false, 0, err
	}
	if !target.Valid() {
		return false, 0, ErrInvalidReactionTarget
	}

	active, err := s.reactionRepo.Toggle(ctx, actorID, target, reactionType)
	if err != nil {
		return false, 0, err
	}
	count, err := s.reactionRepo.Count(ctx, target, reactionType)
	if err != nil {
		return false, 0, err
	}
	return active, count, nil
}

func (s *reactionService) Exists(ctx context.Context, userID string, target models.Target, reactionType string) (bool, error) {
	return s.reactionRepo.Exists(ctx, userID, target, reactionType)
}

func (s *reactionService) Count(ctx context.Context, target models.Target, reactionType string) (int64, error) {
	if !target.Valid() {
		return 0, ErrInvalidReactionTarget
	}
	return s.reactionRepo.Count(ctx, target, reactionType)
}

func (s *reactionService) ListByUser(ctx context.Context, userID string) ([]models.Reaction, error) {
	return s.reactionRepo.ListByUser(ctx, userID)
}

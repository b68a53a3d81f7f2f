package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"nineworlds/internal/authz"
	"nineworlds/internal/models"
)

func newReactionService(reactionRepo *MockReactionRepository) ReactionService {
	return NewReactionService(reactionRepo, authz.NewAuthorizer())
}

func TestToggleReaction_On(t *testing.T) {
	mockReactionRepo := new(MockReactionRepository)
	reactionService := newReactionService(mockReactionRepo)

	target := models.NovelTarget(1)
	mockReactionRepo.On("Toggle", mock.Anything, "user-id", target, "like").Return(true, nil)
	mockReactionRepo.On("Count", mock.Anything, target, "like").Return(int64(5), nil)

	active, count, err := reactionService.Toggle(context.Background(), "user-id", "reader", target, "like")

	assert.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, int64(5), count)
	mockReactionRepo.AssertExpectations(t)
}

func TestToggleReaction_Off(t *testing.T) {
	mockReactionRepo := new(MockReactionRepository)
	reactionService := newReactionService(mockReactionRepo)

	target := models.CommentTarget(9)
	mockReactionRepo.On("Toggle", mock.Anything, "user-id", target, "like").Return(false, nil)
	mockReactionRepo.On("Count", mock.Anything, target, "like").Return(int64(4), nil)

	active, count, err := reactionService.Toggle(context.Background(), "user-id", "reader", target, "like")

	assert.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, int64(4), count)
}

func TestToggleReaction_InvalidTarget(t *testing.T) {
	mockReactionRepo := new(MockReactionRepository)
	reactionService := newReactionService(mockReactionRepo)

	_, _, err := reactionService.Toggle(context.Background(), "user-id", "reader",
		models.Target{Kind: "page", ID: 1}, "like")

	assert.Equal(t, ErrInvalidReactionTarget, err)
	mockReactionRepo.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleReaction_UnknownRoleForbidden(t *testing.T) {
	mockReactionRepo := new(MockReactionRepository)
	reactionService := newReactionService(mockReactionRepo)

	_, _, err := reactionService.Toggle(context.Background(), "user-id", "ghost",
		models.NovelTarget(1), "like")

	assert.Equal(t, authz.ErrForbidden, err)
}

package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"nineworlds/internal/models"
	"nineworlds/internal/repository"
)

type LibraryService interface {
	AddBookmark(ctx context.Context, userID string, novelID int64) error
	RemoveBookmark(ctx context.Context, userID string, novelID int64) error
	ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error)
	HasBookmark(ctx context.Context, userID string, novelID int64) (bool, error)

	// SaveProgress upserts the reading position for (user, novel,
	// chapter).
	SaveProgress(ctx context.Context, userID string, novelID, chapterID int64, position int) error
	GetProgress(ctx context.Context, userID string, novelID int64, chapterID *int64) (*models.ReadingHistory, error)
	ListHistory(ctx context.Context, userID string, limit int) ([]models.ReadingHistory, error)

	UserStatistics(ctx context.Context, userID string) (*repository.UserStatistics, error)
}

type libraryService struct {
	libraryRepo repository.LibraryRepository
	novelRepo   repository.NovelRepository
}

func NewLibraryService(libraryRepo repository.LibraryRepository, novelRepo repository.NovelRepository) LibraryService {
	return &libraryService{libraryRepo: libraryRepo, novelRepo: novelRepo}
}

func (s *libraryService) AddBookmark(ctx context.Context, userID string, novelID int64) error {
	if _, err := s.novelRepo.GetByID(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNovelNotFound
		}
		return err
	}
	return s.libraryRepo.AddBookmark(ctx, userID, novelID)
}

func (s *libraryService) RemoveBookmark(ctx context.Context, userID string, novelID int64) error {
	return s.libraryRepo.RemoveBookmark(ctx, userID, novelID)
}

func (s *libraryService) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	return s.libraryRepo.ListBookmarks(ctx, userID)
}

func (s *libraryService) HasBookmark(ctx context.Context, userID string, novelID int64) (bool, error) {
	return s.libraryRepo.HasBookmark(ctx, userID, novelID)
}

func (s *libraryService) SaveProgress(ctx context.Context, userID string, novelID, chapterID int64, position int) error {
	history := &models.ReadingHistory{
		UserID:    userID,
		NovelID:   novelID,
		ChapterID: chapterID,
		Position:  position,
	}
	return s.libraryRepo.SaveProgress(ctx, history)
}

func (s *libraryService) GetProgress(ctx context.Context, userID string, novelID int64, chapterID *int64) (*models.ReadingHistory, error) {
	progress, err := s.libraryRepo.GetProgress(ctx, userID, novelID, chapterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return progress, err
}

func (s *libraryService) ListHistory(ctx context.Context, userID string, limit int) ([]models.ReadingHistory, error) {
	return s.libraryRepo.ListHistory(ctx, userID, limit)
}

func (s *libraryService) UserStatistics(ctx context.Context, userID string) (*repository.UserStatistics, error) {
	return s.libraryRepo.UserStatistics(ctx, userID)
}

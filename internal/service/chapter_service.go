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

type ChapterService interface {
	// CreateChapter assigns the chapter number inside the insert
	// transaction; numbers are never reused after a soft delete.
	CreateChapter(ctx context.Context, actorID, actorRole string, novelID int64, req dto.CreateChapterRequest) (*models.Chapter, error)
	GetChapter(ctx context.Context, id int64) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, actorID, actorRole string, chapterID int64, req dto.UpdateChapterRequest) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, actorID, actorRole string, chapterID int64) error
	RecordView(ctx context.Context, chapterID int64) error
	ListByNovel(ctx context.Context, novelID int64) ([]models.Chapter, error)
}

type chapterService struct {
	chapterRepo repository.ChapterRepository
	novelRepo   repository.NovelRepository
	auth        *authz.Authorizer
}

func NewChapterService(chapterRepo repository.ChapterRepository, novelRepo repository.NovelRepository, auth *authz.Authorizer) ChapterService {
	return &chapterService{chapterRepo: chapterRepo, novelRepo: novelRepo, auth: auth}
}

// canEditChapter mirrors the novel check: moderation-tier roles pass,
// publishers must be the chapter's author or translator of record.
func (s *chapterService) canEditChapter(actorID, actorRole string, chapter *models.Chapter) error {
	if s.auth.Can(actorRole, authz.ActionEditAnyNovel, false) {
		return nil
	}
	return s.auth.Authorize(actorRole, authz.ActionEditOwnNovel, chapter.OwnedBy(actorID))
}

func (s *chapterService) CreateChapter(ctx context.Context, actorID, actorRole string, novelID int64, req dto.CreateChapterRequest) (*models.Chapter, error) {
	novel, err := s.novelRepo.GetByID(ctx, novelID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNovelNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.auth.Can(actorRole, authz.ActionEditAnyNovel, false) {
		if err := s.auth.Authorize(actorRole, authz.ActionEditOwnNovel, novel.OwnedBy(actorID)); err != nil {
			return nil, err
		}
	}

	chapter := &models.Chapter{
		NovelID:      novelID,
		Title:        req.Title,
		Content:      req.Content,
		AuthorID:     novel.AuthorID,
		TranslatorID: novel.TranslatorID,
	}
	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *chapterService) GetChapter(ctx context.Context, id int64) (*models.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChapterNotFound
	}
	return chapter, err
}

func (s *chapterService) UpdateChapter(ctx context.Context, actorID, actorRole string, chapterID int64, req dto.UpdateChapterRequest) (*models.Chapter, error) {
	chapter, err := s.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if err := s.canEditChapter(actorID, actorRole, chapter); err != nil {
		return nil, err
	}

	chapter.Title = req.Title
	chapter.Content = req.Content
	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *chapterService) DeleteChapter(ctx context.Context, actorID, actorRole string, chapterID int64) error {
	chapter, err := s.GetChapter(ctx, chapterID)
	if err != nil {
		return err
	}
	if err := s.canEditChapter(actorID, actorRole, chapter); err != nil {
		return err
	}
	return s.chapterRepo.SoftDelete(ctx, chapterID)
}

func (s *chapterService) RecordView(ctx context.Context, chapterID int64) error {
	err := s.chapterRepo.IncrementViews(ctx, chapterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChapterNotFound
	}
	return err
}

func (s *chapterService) ListByNovel(ctx context.Context, novelID int64) ([]models.Chapter, error) {
	return s.chapterRepo.ListByNovel(ctx, novelID)
}

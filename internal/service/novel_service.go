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
	ErrNovelNotFound    = errors.New("novel not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrCategoryNotFound = errors.New("category not found")
)

type NovelService interface {
	CreateNovel(ctx context.Context, actorID, actorRole string, req dto.CreateNovelRequest) (*models.Novel, error)
	GetNovel(ctx context.Context, id int64) (*models.Novel, error)
	UpdateNovel(ctx context.Context, actorID, actorRole string, novelID int64, req dto.UpdateNovelRequest) (*models.Novel, error)
	DeleteNovel(ctx context.Context, actorID, actorRole string, novelID int64) error
	SetFeatured(ctx context.Context, actorRole string, novelID int64, featured bool) error
	RecordView(ctx context.Context, novelID int64) error
	Statistics(ctx context.Context, novelID int64) (*models.NovelStatistics, error)
	RecountStatistics(ctx context.Context, actorRole string, novelID int64) (*models.NovelStatistics, error)

	ListLatest(ctx context.Context, limit int) ([]models.Novel, error)
	ListByCategory(ctx context.Context, categoryID int64, limit int) ([]models.Novel, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error)
	ListByTranslator(ctx context.Context, translatorID string) ([]models.Novel, error)
	Search(ctx context.Context, query string, limit int) ([]models.Novel, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, actorRole string, req dto.CreateCategoryRequest) (*models.Category, error)
}

type novelService struct {
	novelRepo repository.NovelRepository
	auth      *authz.Authorizer
}

func NewNovelService(novelRepo repository.NovelRepository, auth *authz.Authorizer) NovelService {
	return &novelService{novelRepo: novelRepo, auth: auth}
}

// canEditNovel is the single ownership check for novel write paths.
// Moderation-tier roles may edit anything; publishers only their own.
func (s *novelService) canEditNovel(actorID, actorRole string, novel *models.Novel) error {
	if s.auth.Can(actorRole, authz.ActionEditAnyNovel, false) {
		return nil
	}
	return s.auth.Authorize(actorRole, authz.ActionEditOwnNovel, novel.OwnedBy(actorID))
}

func (s *novelService) canDeleteNovel(actorID, actorRole string, novel *models.Novel) error {
	if s.auth.Can(actorRole, authz.ActionDeleteAnyNovel, false) {
		return nil
	}
	return s.auth.Authorize(actorRole, authz.ActionDeleteOwnNovel, novel.OwnedBy(actorID))
}

func (s *novelService) CreateNovel(ctx context.Context, actorID, actorRole string, req dto.CreateNovelRequest) (*models.Novel, error) {
	if err := s.auth.Authorize(actorRole, authz.ActionCreateNovel, true); err != nil {
		return nil, err
	}

	novelType := models.TypeOriginal
	if req.TranslatorID != nil {
		novelType = models.TypeTranslated
	}
	novel := &models.Novel{
		Title:        req.Title,
		Summary:      req.Summary,
		CoverImage:   req.CoverImage,
		AuthorID:     actorID,
		TranslatorID: req.TranslatorID,
		Status:       models.StatusOngoing,
		Type:         novelType,
	}

	if err := s.novelRepo.Create(ctx, novel, req.CategoryIDs); err != nil {
		return nil, err
	}
	return s.novelRepo.GetByID(ctx, novel.ID)
}

func (s *novelService) GetNovel(ctx context.Context, id int64) (*models.Novel, error) {
	novel, err := s.novelRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNovelNotFound
	}
	return novel, err
}

func (s *novelService) UpdateNovel(ctx context.Context, actorID, actorRole string, novelID int64, req dto.UpdateNovelRequest) (*models.Novel, error) {
	novel, err := s.GetNovel(ctx, novelID)
	if err != nil {
		return nil, err
	}
	if err := s.canEditNovel(actorID, actorRole, novel); err != nil {
		return nil, err
	}

	novel.Title = req.Title
	novel.Summary = req.Summary
	if req.CoverImage != nil {
		novel.CoverImage = req.CoverImage
	}
	if req.Status != nil {
		novel.Status = *req.Status
	}
	// Field changes and category links commit together; a nil slice
	// leaves the links alone.
	if err := s.novelRepo.Update(ctx, novel, req.CategoryIDs); err != nil {
		return nil, err
	}
	return s.novelRepo.GetByID(ctx, novelID)
}

func (s *novelService) DeleteNovel(ctx context.Context, actorID, actorRole string, novelID int64) error {
	novel, err := s.GetNovel(ctx, novelID)
	if err != nil {
		return err
	}
	if err := s.canDeleteNovel(actorID, actorRole, novel); err != nil {
		return err
	}
	if err := s.novelRepo.SoftDelete(ctx, novelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNovelNotFound
		}
		return err
	}
	return nil
}

func (s *novelService) SetFeatured(ctx context.Context, actorRole string, novelID int64, featured bool) error {
	if err := s.auth.Authorize(actorRole, authz.ActionFeatureNovel, false); err != nil {
		return err
	}
	err := s.novelRepo.SetFeatured(ctx, novelID, featured)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNovelNotFound
	}
	return err
}

func (s *novelService) RecordView(ctx context.Context, novelID int64) error {
	err := s.novelRepo.IncrementViews(ctx, novelID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNovelNotFound
	}
	return err
}

func (s *novelService) Statistics(ctx context.Context, novelID int64) (*models.NovelStatistics, error) {
	stats, err := s.novelRepo.Statistics(ctx, novelID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNovelNotFound
	}
	return stats, err
}

// RecountStatistics rebuilds a novel's counters from the source tables.
// Restricted to the admin tier since it is a repair operation.
func (s *novelService) RecountStatistics(ctx context.Context, actorRole string, novelID int64) (*models.NovelStatistics, error) {
	if err := s.auth.Authorize(actorRole, authz.ActionFeatureNovel, false); err != nil {
		return nil, err
	}
	stats, err := s.novelRepo.RecountStatistics(ctx, novelID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNovelNotFound
	}
	return stats, err
}

func (s *novelService) ListLatest(ctx context.Context, limit int) ([]models.Novel, error) {
	return s.novelRepo.ListLatest(ctx, limit)
}

func (s *novelService) ListByCategory(ctx context.Context, categoryID int64, limit int) ([]models.Novel, error) {
	return s.novelRepo.ListByCategory(ctx, categoryID, limit)
}

func (s *novelService) ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error) {
	return s.novelRepo.ListByAuthor(ctx, authorID)
}

func (s *novelService) ListByTranslator(ctx context.Context, translatorID string) ([]models.Novel, error) {
	return s.novelRepo.ListByTranslator(ctx, translatorID)
}

func (s *novelService) Search(ctx context.Context, query string, limit int) ([]models.Novel, error) {
	return s.novelRepo.Search(ctx, query, limit)
}

func (s *novelService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.novelRepo.ListCategories(ctx)
}

func (s *novelService) CreateCategory(ctx context.Context, actorRole string, req dto.CreateCategoryRequest) (*models.Category, error) {
	if err := s.auth.Authorize(actorRole, authz.ActionManageCategories, false); err != nil {
		return nil, err
	}
	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := s.novelRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"nineworlds/internal/models"
	"nineworlds/internal/stats"
)

type ChapterRepository interface {
	// Create assigns chapter_number = max+1 for the novel and bumps the
	// chapter counter, all inside one transaction so concurrent creates
	// cannot produce duplicate numbers.
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id int64) (*models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	// SoftDelete marks the chapter deleted and decrements the chapter
	// counter. The chapter number is never reassigned.
	SoftDelete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	ListByNovel(ctx context.Context, novelID int64) ([]models.Chapter, error)
}

type chapterRepository struct {
	db         *gorm.DB
	aggregator stats.Aggregator
}

func NewChapterRepository(db *gorm.DB, aggregator stats.Aggregator) ChapterRepository {
	return &chapterRepository{db: db, aggregator: aggregator}
}

func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Include soft-deleted chapters in the max so numbers are never
		// reused after a delete.
		var lastNumber int
		err := tx.Model(&models.Chapter{}).
			Where("novel_id = ?", chapter.NovelID).
			Select("COALESCE(MAX(chapter_number), 0)").
			Scan(&lastNumber).Error
		if err != nil {
			return fmt.Errorf("next chapter number: %w", err)
		}
		chapter.ChapterNumber = lastNumber + 1

		if err := tx.Create(chapter).Error; err != nil {
			return fmt.Errorf("create chapter: %w", err)
		}

		if err := tx.Model(&models.Novel{}).
			Where("id = ?", chapter.NovelID).
			Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
			return err
		}

		return r.aggregator.ApplyDelta(tx, chapter.NovelID, stats.KindChapters, 1)
	})
}

func (r *chapterRepository) GetByID(ctx context.Context, id int64) (*models.Chapter, error) {
	var chapter models.Chapter
	err := r.db.WithContext(ctx).
		Where("is_deleted = FALSE").
		First(&chapter, id).Error
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Save(chapter).Error
}

func (r *chapterRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chapter models.Chapter
		if err := tx.Select("novel_id").Where("is_deleted = FALSE").First(&chapter, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Chapter{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return r.aggregator.ApplyDelta(tx, chapter.NovelID, stats.KindChapters, -1)
	})
}

func (r *chapterRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chapter models.Chapter
		if err := tx.Select("novel_id").Where("is_deleted = FALSE").First(&chapter, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Chapter{}).
			Where("id = ?", id).
			Update("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		return r.aggregator.ApplyDelta(tx, chapter.NovelID, stats.KindViews, 1)
	})
}

func (r *chapterRepository) ListByNovel(ctx context.Context, novelID int64) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.WithContext(ctx).
		Where("novel_id = ? AND is_deleted = FALSE", novelID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	return chapters, err
}

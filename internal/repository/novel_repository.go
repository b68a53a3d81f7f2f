package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nineworlds/internal/models"
	"nineworlds/internal/stats"
)

type NovelRepository interface {
	// Create inserts the novel, its category links and its zeroed
	// statistics row in one transaction.
	Create(ctx context.Context, novel *models.Novel, categoryIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Novel, error)
	// Update saves the novel's fields and, when categoryIDs is non-nil,
	// replaces its category links in the same transaction.
	Update(ctx context.Context, novel *models.Novel, categoryIDs []int64) error
	SoftDelete(ctx context.Context, id int64) error
	SetFeatured(ctx context.Context, id int64, featured bool) error
	// IncrementViews bumps the novel row counter and the statistics row in
	// one transaction.
	IncrementViews(ctx context.Context, id int64) error
	Statistics(ctx context.Context, novelID int64) (*models.NovelStatistics, error)
	RecountStatistics(ctx context.Context, novelID int64) (*models.NovelStatistics, error)

	ListLatest(ctx context.Context, limit int) ([]models.Novel, error)
	ListByCategory(ctx context.Context, categoryID int64, limit int) ([]models.Novel, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error)
	ListByTranslator(ctx context.Context, translatorID string) ([]models.Novel, error)
	Search(ctx context.Context, query string, limit int) ([]models.Novel, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

type novelRepository struct {
	db         *gorm.DB
	aggregator stats.Aggregator
}

func NewNovelRepository(db *gorm.DB, aggregator stats.Aggregator) NovelRepository {
	return &novelRepository{db: db, aggregator: aggregator}
}

func (r *novelRepository) Create(ctx context.Context, novel *models.Novel, categoryIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(novel).Error; err != nil {
			return fmt.Errorf("create novel: %w", err)
		}
		if len(categoryIDs) > 0 {
			if err := appendCategories(tx, novel, categoryIDs); err != nil {
				return err
			}
		}
		return r.aggregator.EnsureRow(tx, novel.ID)
	})
}

func appendCategories(tx *gorm.DB, novel *models.Novel, categoryIDs []int64) error {
	categories := make([]models.Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		categories = append(categories, models.Category{ID: id})
	}
	if err := tx.Model(novel).Association("Categories").Append(&categories); err != nil {
		return fmt.Errorf("append categories: %w", err)
	}
	return nil
}

func (r *novelRepository) GetByID(ctx context.Context, id int64) (*models.Novel, error) {
	var novel models.Novel
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("is_deleted = FALSE").
		First(&novel, id).Error
	if err != nil {
		return nil, err
	}
	return &novel, nil
}

func (r *novelRepository) Update(ctx context.Context, novel *models.Novel, categoryIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(novel).Error; err != nil {
			return err
		}
		if categoryIDs == nil {
			return nil
		}
		return replaceCategories(tx, novel.ID, categoryIDs)
	})
}

func replaceCategories(tx *gorm.DB, novelID int64, categoryIDs []int64) error {
	novel := models.Novel{ID: novelID}
	if err := tx.Model(&novel).Association("Categories").Clear(); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	return appendCategories(tx, &novel, categoryIDs)
}

func (r *novelRepository) SoftDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.Novel{}).
		Where("id = ? AND is_deleted = FALSE", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *novelRepository) SetFeatured(ctx context.Context, id int64, featured bool) error {
	result := r.db.WithContext(ctx).Model(&models.Novel{}).
		Where("id = ? AND is_deleted = FALSE", id).
		Update("is_featured", featured)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *novelRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Novel{}).
			Where("id = ? AND is_deleted = FALSE", id).
			Update("views", gorm.Expr("views + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.aggregator.ApplyDelta(tx, id, stats.KindViews, 1)
	})
}

func (r *novelRepository) Statistics(ctx context.Context, novelID int64) (*models.NovelStatistics, error) {
	var row models.NovelStatistics
	if err := r.db.WithContext(ctx).First(&row, "novel_id = ?", novelID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// RecountStatistics rebuilds one novel's totals from the source tables.
// The incremental deltas keep the row exact in normal operation; this is
// the repair path for rows touched outside the application.
func (r *novelRepository) RecountStatistics(ctx context.Context, novelID int64) (*models.NovelStatistics, error) {
	var row *models.NovelStatistics
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = r.aggregator.Recount(tx, novelID)
		return err
	})
	return row, err
}

func (r *novelRepository) ListLatest(ctx context.Context, limit int) ([]models.Novel, error) {
	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Where("is_deleted = FALSE").
		Order("updated_at DESC").
		Limit(limit).
		Find(&novels).Error
	return novels, err
}

func (r *novelRepository) ListByCategory(ctx context.Context, categoryID int64, limit int) ([]models.Novel, error) {
	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Joins("JOIN novel_categories ON novel_categories.novel_id = novels.id").
		Where("novel_categories.category_id = ? AND novels.is_deleted = FALSE", categoryID).
		Order("novels.updated_at DESC").
		Limit(limit).
		Find(&novels).Error
	return novels, err
}

func (r *novelRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error) {
	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND is_deleted = FALSE", authorID).
		Order("updated_at DESC").
		Find(&novels).Error
	return novels, err
}

func (r *novelRepository) ListByTranslator(ctx context.Context, translatorID string) ([]models.Novel, error) {
	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Where("translator_id = ? AND is_deleted = FALSE", translatorID).
		Order("updated_at DESC").
		Find(&novels).Error
	return novels, err
}

// Search matches title and summary, ranking title-prefix hits first, then
// title hits, then summary hits, with views as the tiebreak.
func (r *novelRepository) Search(ctx context.Context, query string, limit int) ([]models.Novel, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}
	loose := "%" + strings.Join(strings.Fields(trimmed), "%") + "%"
	prefix := trimmed + "%"

	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Where("(title ILIKE ? OR summary ILIKE ?) AND is_deleted = FALSE", loose, loose).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN title ILIKE ? THEN 1 WHEN title ILIKE ? THEN 2 ELSE 3 END, views DESC",
			Vars:               []interface{}{prefix, loose},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&novels).Error
	return novels, err
}

func (r *novelRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *novelRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

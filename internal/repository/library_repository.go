package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nineworlds/internal/models"
)

// UserStatistics is the per-user rollup shown on profile pages.
type UserStatistics struct {
	Novels             int64 `json:"novels"`
	TranslatedNovels   int64 `json:"translated_novels"`
	Chapters           int64 `json:"chapters"`
	TranslatedChapters int64 `json:"translated_chapters"`
	Comments           int64 `json:"comments"`
	Reactions          int64 `json:"reactions"`
	Views              int64 `json:"views"`
	CommentsReceived   int64 `json:"comments_received"`
	ReactionsReceived  int64 `json:"reactions_received"`
}

type LibraryRepository interface {
	// AddBookmark is idempotent per (user, novel).
	AddBookmark(ctx context.Context, userID string, novelID int64) error
	RemoveBookmark(ctx context.Context, userID string, novelID int64) error
	ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error)
	HasBookmark(ctx context.Context, userID string, novelID int64) (bool, error)

	// SaveProgress upserts the (user, novel, chapter) position marker.
	SaveProgress(ctx context.Context, history *models.ReadingHistory) error
	GetProgress(ctx context.Context, userID string, novelID int64, chapterID *int64) (*models.ReadingHistory, error)
	ListHistory(ctx context.Context, userID string, limit int) ([]models.ReadingHistory, error)

	UserStatistics(ctx context.Context, userID string) (*UserStatistics, error)
}

type libraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) AddBookmark(ctx context.Context, userID string, novelID int64) error {
	// Insert-or-ignore so a racing duplicate never surfaces the unique
	// constraint to the caller.
	bookmark := models.Bookmark{UserID: userID, NovelID: novelID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "novel_id"}},
			DoNothing: true,
		}).
		Create(&bookmark).Error
}

func (r *libraryRepository) RemoveBookmark(ctx context.Context, userID string, novelID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		Delete(&models.Bookmark{}).Error
}

func (r *libraryRepository) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).
		Joins("JOIN novels ON novels.id = bookmarks.novel_id AND novels.is_deleted = FALSE").
		Where("bookmarks.user_id = ?", userID).
		Preload("Novel").
		Order("bookmarks.created_at DESC").
		Find(&bookmarks).Error
	return bookmarks, err
}

func (r *libraryRepository) HasBookmark(ctx context.Context, userID string, novelID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND novel_id = ?", userID, novelID).
		Count(&count).Error
	return count > 0, err
}

func (r *libraryRepository) SaveProgress(ctx context.Context, history *models.ReadingHistory) error {
	var existing models.ReadingHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND novel_id = ? AND chapter_id = ?",
			history.UserID, history.NovelID, history.ChapterID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(history).Error
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"position":   history.Position,
		"updated_at": time.Now(),
	}).Error
}

func (r *libraryRepository) GetProgress(ctx context.Context, userID string, novelID int64, chapterID *int64) (*models.ReadingHistory, error) {
	db := r.db.WithContext(ctx).Where("user_id = ? AND novel_id = ?", userID, novelID)

	var history models.ReadingHistory
	var err error
	if chapterID != nil {
		err = db.Where("chapter_id = ?", *chapterID).First(&history).Error
	} else {
		// Latest chapter the user touched in this novel.
		err = db.Order("updated_at DESC").First(&history).Error
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *libraryRepository) ListHistory(ctx context.Context, userID string, limit int) ([]models.ReadingHistory, error) {
	var history []models.ReadingHistory
	err := r.db.WithContext(ctx).
		Joins("JOIN novels ON novels.id = reading_history.novel_id AND novels.is_deleted = FALSE").
		Joins("JOIN chapters ON chapters.id = reading_history.chapter_id AND chapters.is_deleted = FALSE").
		Where("reading_history.user_id = ?", userID).
		Preload("Novel").
		Preload("Chapter").
		Order("reading_history.updated_at DESC").
		Limit(limit).
		Find(&history).Error
	return history, err
}

func (r *libraryRepository) UserStatistics(ctx context.Context, userID string) (*UserStatistics, error) {
	db := r.db.WithContext(ctx)
	rollup := &UserStatistics{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&rollup.Novels, db.Model(&models.Novel{}).Where("author_id = ? AND is_deleted = FALSE", userID)},
		{&rollup.TranslatedNovels, db.Model(&models.Novel{}).Where("translator_id = ? AND is_deleted = FALSE", userID)},
		{&rollup.Chapters, db.Model(&models.Chapter{}).Where("author_id = ? AND is_deleted = FALSE", userID)},
		{&rollup.TranslatedChapters, db.Model(&models.Chapter{}).Where("translator_id = ? AND is_deleted = FALSE", userID)},
		{&rollup.Comments, db.Model(&models.Comment{}).Where("user_id = ? AND is_deleted = FALSE", userID)},
		{&rollup.Reactions, db.Model(&models.Reaction{}).Where("user_id = ?", userID)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var novelViews, chapterViews int64
	err := db.Model(&models.Novel{}).
		Where("(author_id = ? OR translator_id = ?) AND is_deleted = FALSE", userID, userID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&novelViews).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&models.Chapter{}).
		Where("(author_id = ? OR translator_id = ?) AND is_deleted = FALSE", userID, userID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&chapterViews).Error
	if err != nil {
		return nil, err
	}
	rollup.Views = novelViews + chapterViews

	ownNovels := db.Model(&models.Novel{}).Select("id").
		Where("author_id = ? OR translator_id = ?", userID, userID)

	err = db.Model(&models.Comment{}).
		Where("target_kind = ? AND target_id IN (?) AND is_deleted = FALSE", models.TargetNovel, ownNovels).
		Count(&rollup.CommentsReceived).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&models.Reaction{}).
		Where("target_kind = ? AND target_id IN (?)", models.TargetNovel, ownNovels).
		Count(&rollup.ReactionsReceived).Error
	if err != nil {
		return nil, err
	}

	return rollup, nil
}

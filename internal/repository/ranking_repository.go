package repository

import (
	"context"

	"gorm.io/gorm"

	"nineworlds/internal/models"
)

// TopUser is a leaderboard row for authors, translators or engaged
// readers.
type TopUser struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	DisplayName   string  `json:"display_name"`
	ProfileImage  *string `json:"profile_image,omitempty"`
	NovelCount    int64   `json:"novel_count,omitempty"`
	TotalViews    int64   `json:"total_views,omitempty"`
	CommentCount  int64   `json:"comment_count,omitempty"`
	ReactionCount int64   `json:"reaction_count,omitempty"`
}

type RankingRepository interface {
	TopNovelsByViews(ctx context.Context, limit int) ([]models.Novel, error)
	TopNovelsByComments(ctx context.Context, limit int) ([]models.Novel, error)
	TopNovelsByReactions(ctx context.Context, limit int) ([]models.Novel, error)
	FeaturedNovels(ctx context.Context, limit int) ([]models.Novel, error)
	RelatedNovels(ctx context.Context, novelID int64, limit int) ([]models.Novel, error)
	TopAuthors(ctx context.Context, limit int) ([]TopUser, error)
	TopTranslators(ctx context.Context, limit int) ([]TopUser, error)
	TopUsers(ctx context.Context, limit int) ([]TopUser, error)
}

type rankingRepository struct {
	db *gorm.DB
}

func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

func (r *rankingRepository) TopNovelsByViews(ctx context.Context, limit int) ([]models.Novel, error) {
	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Where("is_deleted = FALSE").
		Order("views DESC").
		Limit(limit).
		Find(&novels).Error
	return novels, err
}

func (r *rankingRepository) topNovelsByCounter(ctx context.Context, column string, limit int) ([]models.Novel, error) {
	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Joins("JOIN statistics ON statistics.novel_id = novels.id").
		Where("novels.is_deleted = FALSE").
		Order("statistics." + column + " DESC").
		Limit(limit).
		Find(&novels).Error
	return novels, err
}

func (r *rankingRepository) TopNovelsByComments(ctx context.Context, limit int) ([]models.Novel, error) {
	return r.topNovelsByCounter(ctx, "total_comments", limit)
}

func (r *rankingRepository) TopNovelsByReactions(ctx context.Context, limit int) ([]models.Novel, error) {
	return r.topNovelsByCounter(ctx, "total_reactions", limit)
}

func (r *rankingRepository) FeaturedNovels(ctx context.Context, limit int) ([]models.Novel, error) {
	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Where("is_featured = TRUE AND is_deleted = FALSE").
		Order("updated_at DESC").
		Limit(limit).
		Find(&novels).Error
	return novels, err
}

// RelatedNovels ranks other novels by how many categories they share with
// the given one, views as the tiebreak.
func (r *rankingRepository) RelatedNovels(ctx context.Context, novelID int64, limit int) ([]models.Novel, error) {
	categoryIDs := r.db.Table("novel_categories").
		Select("category_id").
		Where("novel_id = ?", novelID)

	var novels []models.Novel
	err := r.db.WithContext(ctx).
		Select("novels.*, COUNT(novel_categories.category_id) AS category_matches").
		Joins("JOIN novel_categories ON novel_categories.novel_id = novels.id").
		Where("novel_categories.category_id IN (?) AND novels.id != ? AND novels.is_deleted = FALSE",
			categoryIDs, novelID).
		Group("novels.id").
		Order("category_matches DESC, novels.views DESC").
		Limit(limit).
		Find(&novels).Error
	return novels, err
}

func (r *rankingRepository) topPublishers(ctx context.Context, ownerColumn string, limit int) ([]TopUser, error) {
	var users []TopUser
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select(`users.id, users.username, users.display_name, users.profile_image,
			COUNT(DISTINCT novels.id) AS novel_count,
			COALESCE(SUM(novels.views), 0) AS total_views`).
		Joins("JOIN novels ON novels."+ownerColumn+" = users.id AND novels.is_deleted = FALSE").
		Group("users.id").
		Order("total_views DESC").
		Limit(limit).
		Scan(&users).Error
	return users, err
}

func (r *rankingRepository) TopAuthors(ctx context.Context, limit int) ([]TopUser, error) {
	return r.topPublishers(ctx, "author_id", limit)
}

func (r *rankingRepository) TopTranslators(ctx context.Context, limit int) ([]TopUser, error) {
	return r.topPublishers(ctx, "translator_id", limit)
}

func (r *rankingRepository) TopUsers(ctx context.Context, limit int) ([]TopUser, error) {
	var users []TopUser
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select(`users.id, users.username, users.display_name, users.profile_image,
			COUNT(DISTINCT comments.id) AS comment_count,
			COUNT(DISTINCT reactions.id) AS reaction_count`).
		Joins("LEFT JOIN comments ON comments.user_id = users.id AND comments.is_deleted = FALSE").
		Joins("LEFT JOIN reactions ON reactions.user_id = users.id").
		Group("users.id").
		Order("(COUNT(DISTINCT comments.id) + COUNT(DISTINCT reactions.id)) DESC").
		Limit(limit).
		Scan(&users).Error
	return users, err
}

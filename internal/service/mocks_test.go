package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"nineworlds/internal/models"
	"nineworlds/internal/notify"
	"nineworlds/internal/repository"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) RoleName(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) SetBanState(ctx context.Context, userID string, banned bool, reason *string, expiry *time.Time, active bool) error {
	args := m.Called(ctx, userID, banned, reason, expiry, active)
	return args.Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, userID string, roleID int64) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, page, pageSize int) ([]repository.UserWithCounts, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]repository.UserWithCounts), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) GetWithCounts(ctx context.Context, userID string) (*repository.UserWithCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserWithCounts), args.Error(1)
}

func (m *MockUserRepository) Stats(ctx context.Context) (*repository.UserStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserStats), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, query string, filters repository.UserSearchFilters) ([]repository.UserWithCounts, error) {
	args := m.Called(ctx, query, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.UserWithCounts), args.Error(1)
}

// MockAdminLogRepository mocks the AdminLogRepository interface
type MockAdminLogRepository struct {
	mock.Mock
}

func (m *MockAdminLogRepository) Append(ctx context.Context, adminID, action string, details map[string]any) error {
	args := m.Called(ctx, adminID, action, details)
	return args.Error(0)
}

func (m *MockAdminLogRepository) List(ctx context.Context, page, pageSize int) ([]models.AdminLog, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.AdminLog), args.Get(1).(int64), args.Error(2)
}

// MockNovelRepository mocks the NovelRepository interface
type MockNovelRepository struct {
	mock.Mock
}

func (m *MockNovelRepository) Create(ctx context.Context, novel *models.Novel, categoryIDs []int64) error {
	args := m.Called(ctx, novel, categoryIDs)
	return args.Error(0)
}

func (m *MockNovelRepository) GetByID(ctx context.Context, id int64) (*models.Novel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Novel), args.Error(1)
}

func (m *MockNovelRepository) Update(ctx context.Context, novel *models.Novel, categoryIDs []int64) error {
	args := m.Called(ctx, novel, categoryIDs)
	return args.Error(0)
}

func (m *MockNovelRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNovelRepository) SetFeatured(ctx context.Context, id int64, featured bool) error {
	args := m.Called(ctx, id, featured)
	return args.Error(0)
}

func (m *MockNovelRepository) IncrementViews(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNovelRepository) Statistics(ctx context.Context, novelID int64) (*models.NovelStatistics, error) {
	args := m.Called(ctx, novelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NovelStatistics), args.Error(1)
}

func (m *MockNovelRepository) RecountStatistics(ctx context.Context, novelID int64) (*models.NovelStatistics, error) {
	args := m.Called(ctx, novelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NovelStatistics), args.Error(1)
}

func (m *MockNovelRepository) ListLatest(ctx context.Context, limit int) ([]models.Novel, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockNovelRepository) ListByCategory(ctx context.Context, categoryID int64, limit int) ([]models.Novel, error) {
	args := m.Called(ctx, categoryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockNovelRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockNovelRepository) ListByTranslator(ctx context.Context, translatorID string) ([]models.Novel, error) {
	args := m.Called(ctx, translatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockNovelRepository) Search(ctx context.Context, query string, limit int) ([]models.Novel, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockNovelRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockNovelRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockChapterRepository mocks the ChapterRepository interface
type MockChapterRepository struct {
	mock.Mock
}

func (m *MockChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterRepository) GetByID(ctx context.Context, id int64) (*models.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChapterRepository) IncrementViews(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChapterRepository) ListByNovel(ctx context.Context, novelID int64) ([]models.Chapter, error) {
	args := m.Called(ctx, novelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chapter), args.Error(1)
}

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByTarget(ctx context.Context, target models.Target, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, target, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) ListReplies(ctx context.Context, parentID int64) ([]models.Comment, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

// MockReactionRepository mocks the ReactionRepository interface
type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Toggle(ctx context.Context, userID string, target models.Target, reactionType string) (bool, error) {
	args := m.Called(ctx, userID, target, reactionType)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) Count(ctx context.Context, target models.Target, reactionType string) (int64, error) {
	args := m.Called(ctx, target, reactionType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReactionRepository) Exists(ctx context.Context, userID string, target models.Target, reactionType string) (bool, error) {
	args := m.Called(ctx, userID, target, reactionType)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) ListByUser(ctx context.Context, userID string) ([]models.Reaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reaction), args.Error(1)
}

// MockNotifier mocks the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, email notify.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockLibraryRepository mocks the LibraryRepository interface
type MockLibraryRepository struct {
	mock.Mock
}

func (m *MockLibraryRepository) AddBookmark(ctx context.Context, userID string, novelID int64) error {
	args := m.Called(ctx, userID, novelID)
	return args.Error(0)
}

func (m *MockLibraryRepository) RemoveBookmark(ctx context.Context, userID string, novelID int64) error {
	args := m.Called(ctx, userID, novelID)
	return args.Error(0)
}

func (m *MockLibraryRepository) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bookmark), args.Error(1)
}

func (m *MockLibraryRepository) HasBookmark(ctx context.Context, userID string, novelID int64) (bool, error) {
	args := m.Called(ctx, userID, novelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLibraryRepository) SaveProgress(ctx context.Context, history *models.ReadingHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockLibraryRepository) GetProgress(ctx context.Context, userID string, novelID int64, chapterID *int64) (*models.ReadingHistory, error) {
	args := m.Called(ctx, userID, novelID, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingHistory), args.Error(1)
}

func (m *MockLibraryRepository) ListHistory(ctx context.Context, userID string, limit int) ([]models.ReadingHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReadingHistory), args.Error(1)
}

func (m *MockLibraryRepository) UserStatistics(ctx context.Context, userID string) (*repository.UserStatistics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserStatistics), args.Error(1)
}

// MockRankingRepository mocks the RankingRepository interface
type MockRankingRepository struct {
	mock.Mock
}

func (m *MockRankingRepository) TopNovelsByViews(ctx context.Context, limit int) ([]models.Novel, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockRankingRepository) TopNovelsByComments(ctx context.Context, limit int) ([]models.Novel, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockRankingRepository) TopNovelsByReactions(ctx context.Context, limit int) ([]models.Novel, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockRankingRepository) FeaturedNovels(ctx context.Context, limit int) ([]models.Novel, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockRankingRepository) RelatedNovels(ctx context.Context, novelID int64, limit int) ([]models.Novel, error) {
	args := m.Called(ctx, novelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Novel), args.Error(1)
}

func (m *MockRankingRepository) TopAuthors(ctx context.Context, limit int) ([]repository.TopUser, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TopUser), args.Error(1)
}

func (m *MockRankingRepository) TopTranslators(ctx context.Context, limit int) ([]repository.TopUser, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TopUser), args.Error(1)
}

func (m *MockRankingRepository) TopUsers(ctx context.Context, limit int) ([]repository.TopUser, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TopUser), args.Error(1)
}

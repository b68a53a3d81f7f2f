package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"nineworlds/internal/models"
	"nineworlds/internal/repository"
)

type RankingService interface {
	TopNovelsByViews(ctx context.Context, limit int) ([]models.Novel, error)
	TopNovelsByComments(ctx context.Context, limit int) ([]models.Novel, error)
	TopNovelsByReactions(ctx context.Context, limit int) ([]models.Novel, error)
	FeaturedNovels(ctx context.Context, limit int) ([]models.Novel, error)
	RelatedNovels(ctx context.Context, novelID int64, limit int) ([]models.Novel, error)
	TopAuthors(ctx context.Context, limit int) ([]repository.TopUser, error)
	TopTranslators(ctx context.Context, limit int) ([]repository.TopUser, error)
	TopUsers(ctx context.Context, limit int) ([]repository.TopUser, error)
}

// rankingService serves ranked listings through a redis cache. A nil
// client or any redis error degrades to a direct database read.
type rankingService struct {
	rankingRepo repository.RankingRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      *slog.Logger
}

func NewRankingService(rankingRepo repository.RankingRepository, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) RankingService {
	return &rankingService{
		rankingRepo: rankingRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func cached[T any](ctx context.Context, s *rankingService, key string, fetch func() (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var value T
			if err := json.Unmarshal([]byte(raw), &value); err == nil {
				return value, nil
			}
			// Stale or malformed payload; fall through to the database.
		} else if err != redis.Nil {
			s.logger.Warn("ranking cache read failed", "key", key, "error", err)
		}
	}

	value, err := fetch()
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(value); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("ranking cache write failed", "key", key, "error", err)
			}
		}
	}
	return value, nil
}

func (s *rankingService) TopNovelsByViews(ctx context.Context, limit int) ([]models.Novel, error) {
	key := fmt.Sprintf("rankings:novels:views:%d", limit)
	return cached(ctx, s, key, func() ([]models.Novel, error) {
		return s.rankingRepo.TopNovelsByViews(ctx, limit)
	})
}

func (s *rankingService) TopNovelsByComments(ctx context.Context, limit int) ([]models.Novel, error) {
	key := fmt.Sprintf("rankings:novels:comments:%d", limit)
	return cached(ctx, s, key, func() ([]models.Novel, error) {
		return s.rankingRepo.TopNovelsByComments(ctx, limit)
	})
}

func (s *rankingService) TopNovelsByReactions(ctx context.Context, limit int) ([]models.Novel, error) {
	key := fmt.Sprintf("rankings:novels:reactions:%d", limit)
	return cached(ctx, s, key, func() ([]models.Novel, error) {
		return s.rankingRepo.TopNovelsByReactions(ctx, limit)
	})
}

func (s *rankingService) FeaturedNovels(ctx context.Context, limit int) ([]models.Novel, error) {
	key := fmt.Sprintf("rankings:novels:featured:%d", limit)
	return cached(ctx, s, key, func() ([]models.Novel, error) {
		return s.rankingRepo.FeaturedNovels(ctx, limit)
	})
}

func (s *rankingService) RelatedNovels(ctx context.Context, novelID int64, limit int) ([]models.Novel, error) {
	key := fmt.Sprintf("rankings:novels:related:%d:%d", novelID, limit)
	return cached(ctx, s, key, func() ([]models.Novel, error) {
		return s.rankingRepo.RelatedNovels(ctx, novelID, limit)
	})
}

func (s *rankingService) TopAuthors(ctx context.Context, limit int) ([]repository.TopUser, error) {
	key := fmt.Sprintf("rankings:users:authors:%d", limit)
	return cached(ctx, s, key, func() ([]repository.TopUser, error) {
		return s.rankingRepo.TopAuthors(ctx, limit)
	})
}

func (s *rankingService) TopTranslators(ctx context.Context, limit int) ([]repository.TopUser, error) {
	key := fmt.Sprintf("rankings:users:translators:%d", limit)
	return cached(ctx, s, key, func() ([]repository.TopUser, error) {
		return s.rankingRepo.TopTranslators(ctx, limit)
	})
}

func (s *rankingService) TopUsers(ctx context.Context, limit int) ([]repository.TopUser, error) {
	key := fmt.Sprintf("rankings:users:active:%d", limit)
	return cached(ctx, s, key, func() ([]repository.TopUser, error) {
		return s.rankingRepo.TopUsers(ctx, limit)
	})
}

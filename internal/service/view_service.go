package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/repository"
)

// ViewService buffers post view counts in redis and flushes them to the
// database periodically. Repeat views by the same visitor within an hour do
// not count. With no redis configured it writes straight to the database.
type ViewService interface {
	IncrementView(ctx context.Context, postID uuid.UUID, visitorKey string) error
	SyncViews(ctx context.Context)
}

type viewService struct {
	redisClient *redis.Client
	postRepo    repository.PostRepository
}

func NewViewService(redisClient *redis.Client, postRepo repository.PostRepository) ViewService {
	return &viewService{
		redisClient: redisClient,
		postRepo:    postRepo,
	}
}

func (s *viewService) IncrementView(ctx context.Context, postID uuid.UUID, visitorKey string) error {
	if s.redisClient == nil {
		return s.postRepo.AddViews(ctx, postID, 1)
	}

	visitorViewKey := fmt.Sprintf("post:visitor_view:%s:%s", postID, visitorKey)

	exists, err := s.redisClient.Exists(ctx, visitorViewKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check visitor view: %w", err)
	}
	if exists == 1 {
		return nil
	}

	viewKey := fmt.Sprintf("post:views:%s", postID)
	if _, err := s.redisClient.Incr(ctx, viewKey).Result(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	if _, err := s.redisClient.SAdd(ctx, "pending:post_views", postID.String()).Result(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}

	if _, err := s.redisClient.SetEx(ctx, visitorViewKey, "viewed", time.Hour).Result(); err != nil {
		return fmt.Errorf("failed to mark visitor view: %w", err)
	}

	return nil
}

// SyncViews flushes buffered counters to the posts table. Run from the cron
// scheduler in main.
func (s *viewService) SyncViews(ctx context.Context) {
	if s.redisClient == nil {
		return
	}

	pendingKey := "pending:post_views"

	postIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		zap.L().Error("failed to read pending post views", zap.Error(err))
		return
	}
	if len(postIDs) == 0 {
		return
	}

	for _, postIDStr := range postIDs {
		postID, err := uuid.Parse(postIDStr)
		if err != nil {
			zap.L().Warn("invalid post id in pending views", zap.String("id", postIDStr))
			continue
		}

		viewKey := fmt.Sprintf("post:views:%s", postID)
		viewCountStr, err := s.redisClient.Get(ctx, viewKey).Result()
		if err != nil && err != redis.Nil {
			zap.L().Error("failed to read view counter", zap.String("post_id", postIDStr), zap.Error(err))
			continue
		}
		if viewCountStr == "" {
			continue
		}

		viewCount, _ := strconv.Atoi(viewCountStr)
		if viewCount <= 0 {
			continue
		}

		if err := s.postRepo.AddViews(ctx, postID, viewCount); err != nil {
			zap.L().Error("failed to flush views to db", zap.String("post_id", postIDStr), zap.Error(err))
			continue
		}

		if _, err := s.redisClient.Del(ctx, viewKey).Result(); err != nil {
			zap.L().Error("failed to reset view counter", zap.String("post_id", postIDStr), zap.Error(err))
		}
	}

	if _, err := s.redisClient.Del(ctx, pendingKey).Result(); err != nil {
		zap.L().Error("failed to clear pending view set", zap.Error(err))
	}

	zap.L().Info("synced post views", zap.Int("posts", len(postIDs)))
}

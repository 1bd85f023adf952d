package service

import (
	"context"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/metrics"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

type CommentService interface {
	SubmitComment(ctx context.Context, postSlug, visitorKey string, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	redisClient *redis.Client
	rateLimit   time.Duration
	sanitizer   *bluemonday.Policy
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	redisClient *redis.Client,
	rateLimit time.Duration,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		redisClient: redisClient,
		rateLimit:   rateLimit,
		sanitizer:   bluemonday.UGCPolicy(),
	}
}

// SubmitComment stores a guest comment pending approval. Content is
// sanitized before it is stored.
func (s *commentService) SubmitComment(ctx context.Context, postSlug, visitorKey string, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	post, err := s.postRepo.FindVisibleBySlug(ctx, postSlug, time.Now())
	if err != nil {
		return nil, notFoundOr(err)
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, visitorKey, "comment", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	comment := &model.Comment{
		PostID:      post.ID,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Website:     req.Website,
		Content:     s.sanitizer.Sanitize(req.Content),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	metrics.CommentsSubmitted.Inc()

	return &dto.CommentResponse{
		ID:         comment.ID,
		AuthorName: comment.AuthorName,
		Website:    comment.Website,
		Content:    comment.Content,
		CreatedAt:  formatTime(comment.CreatedAt),
	}, nil
}

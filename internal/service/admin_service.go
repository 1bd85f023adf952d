package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
)

const adminExcerptLimit = 75

// AdminService exposes the moderation operations: listings that include
// soft-deleted rows, bulk soft deletes reporting affected counts, and
// comment approval.
type AdminService interface {
	ListPosts(ctx context.Context, filter dto.AdminPostFilter) ([]dto.AdminPostRow, dto.PaginationMeta, error)
	SoftDeletePosts(ctx context.Context, ids []uuid.UUID) (int64, error)
	FeaturePost(ctx context.Context, id uuid.UUID, featured bool) error
	ListComments(ctx context.Context, filter dto.AdminCommentFilter) ([]dto.AdminCommentRow, dto.PaginationMeta, error)
	SoftDeleteComments(ctx context.Context, ids []uuid.UUID) (int64, error)
	ApproveComment(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, page, limit int) ([]*model.User, dto.PaginationMeta, error)
}

type adminService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	search      SearchService
}

func NewAdminService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	search SearchService,
) AdminService {
	return &adminService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		search:      search,
	}
}

func (s *adminService) ListPosts(ctx context.Context, filter dto.AdminPostFilter) ([]dto.AdminPostRow, dto.PaginationMeta, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)
	posts, total, err := s.postRepo.FindAdmin(ctx, repository.AdminPostFilter{
		Search:    filter.Search,
		Author:    filter.Author,
		Published: filter.Published,
		Deleted:   filter.Deleted,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	rows := make([]dto.AdminPostRow, 0, len(posts))
	for _, post := range posts {
		row := dto.AdminPostRow{
			ID:          post.ID,
			Title:       post.Title,
			Slug:        post.Slug,
			Author:      post.Author.Username,
			IsPublished: post.IsPublished,
			CreatedAt:   formatTime(post.CreatedAt),
		}
		if post.DeletedAt != nil {
			deleted := formatTime(*post.DeletedAt)
			row.DeletedAt = &deleted
		}
		rows = append(rows, row)
	}

	return rows, dto.NewPaginationMeta(page, limit, total), nil
}

func (s *adminService) SoftDeletePosts(ctx context.Context, ids []uuid.UUID) (int64, error) {
	count, err := s.postRepo.SoftDeleteMany(ctx, ids, time.Now())
	if err != nil {
		return 0, err
	}

	if s.search != nil {
		for _, id := range ids {
			_ = s.search.DeletePost(id.String())
		}
	}

	return count, nil
}

// FeaturePost flips the home page featured flag and refreshes the search
// document, which carries featured as a filterable attribute.
func (s *adminService) FeaturePost(ctx context.Context, id uuid.UUID, featured bool) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}

	if err := s.postRepo.SetFeatured(ctx, id, featured); err != nil {
		return err
	}

	if s.search != nil && post.IsVisible(time.Now()) {
		post.Featured = featured
		_ = s.search.IndexPost(post)
	}

	return nil
}

func (s *adminService) ListComments(ctx context.Context, filter dto.AdminCommentFilter) ([]dto.AdminCommentRow, dto.PaginationMeta, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)
	comments, total, err := s.commentRepo.FindAdmin(ctx, repository.AdminCommentFilter{
		Search:   filter.Search,
		Approved: filter.Approved,
		Deleted:  filter.Deleted,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	rows := make([]dto.AdminCommentRow, 0, len(comments))
	for _, comment := range comments {
		row := dto.AdminCommentRow{
			ID:         comment.ID,
			Excerpt:    DisplayExcerpt(comment.Content, adminExcerptLimit),
			AuthorName: comment.AuthorName,
			PostTitle:  comment.Post.Title,
			IsApproved: comment.IsApproved,
			CreatedAt:  formatTime(comment.CreatedAt),
		}
		if comment.DeletedAt != nil {
			deleted := formatTime(*comment.DeletedAt)
			row.DeletedAt = &deleted
		}
		rows = append(rows, row)
	}

	return rows, dto.NewPaginationMeta(page, limit, total), nil
}

func (s *adminService) SoftDeleteComments(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return s.commentRepo.SoftDeleteMany(ctx, ids, time.Now())
}

func (s *adminService) ApproveComment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.commentRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.commentRepo.Approve(ctx, id)
}

func (s *adminService) ListUsers(ctx context.Context, page, limit int) ([]*model.User, dto.PaginationMeta, error) {
	page, limit = normalizePage(page, limit)
	users, total, err := s.userRepo.FindAll(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}
	return users, dto.NewPaginationMeta(page, limit, total), nil
}

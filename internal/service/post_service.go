package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/metrics"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

const (
	defaultPageSize  = 9
	maxPageSize      = 50
	featuredHomeSize = 3
	recentHomeSize   = 6
	topCategorySize  = 5
	relatedPostSize  = 3
)

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, userID uuid.UUID, slug string, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	PublishPost(ctx context.Context, userID uuid.UUID, slug string) (*dto.PostResponse, error)
	SoftDeletePost(ctx context.Context, userID uuid.UUID, slug string) error
	ListPublished(ctx context.Context, filter dto.PostFilter) (*dto.PaginatedPostResponse, error)
	GetPublishedDetail(ctx context.Context, slug, visitorKey string) (*dto.PostDetailResponse, error)
	MyPosts(ctx context.Context, authorID uuid.UUID, page, limit int) (*dto.PaginatedPostResponse, error)
	Home(ctx context.Context) (*dto.HomeResponse, error)
	Archive(ctx context.Context) ([]dto.ArchiveMonth, error)
	ArchiveMonth(ctx context.Context, year, month, page, limit int) (*dto.PaginatedPostResponse, error)
}

type postService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	taxonomyRepo repository.TaxonomyRepository
	userRepo     repository.UserRepository
	search       SearchService
	views        ViewService
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	taxonomyRepo repository.TaxonomyRepository,
	userRepo repository.UserRepository,
	search SearchService,
	views ViewService,
) PostService {
	return &postService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		taxonomyRepo: taxonomyRepo,
		userRepo:     userRepo,
		search:       search,
		views:        views,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	base := req.Slug
	if base == "" {
		base = req.Title
	}
	base = Slugify(base)
	if base == "" {
		return nil, apperror.New(400, "title must contain at least one letter or digit", apperror.ErrInvalidInput)
	}

	slug, err := uniquePostSlug(ctx, s.postRepo, base)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		AuthorID: authorID,
		Title:    req.Title,
		Slug:     slug,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
	}

	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, apperror.New(400, "invalid category id", apperror.ErrInvalidInput)
		}
		post.CategoryID = &categoryID
	}

	if len(req.Tags) > 0 {
		tags, err := s.ensureTags(ctx, req.Tags)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if req.Publish {
		now := time.Now()
		post.IsPublished = true
		post.PublishedAt = &now
	}

	err = s.postRepo.Create(ctx, post)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent create won the slug between probe and insert.
		// Re-derive once against the fresh state; the unique index rejects
		// anything beyond that.
		slug, err = uniquePostSlug(ctx, s.postRepo, base)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
		err = s.postRepo.Create(ctx, post)
	}
	if err != nil {
		return nil, err
	}
	metrics.PostsCreated.Inc()

	s.indexIfVisible(ctx, post.ID)

	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	resp := toPostResponse(created, true)
	return &resp, nil
}

func (s *postService) UpdatePost(ctx context.Context, userID uuid.UUID, slug string, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.findOwnedPost(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			post.CategoryID = nil
		} else {
			categoryID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				return nil, apperror.New(400, "invalid category id", apperror.ErrInvalidInput)
			}
			post.CategoryID = &categoryID
		}
	}
	if req.Tags != nil {
		tags, err := s.ensureTags(ctx, req.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.indexIfVisible(ctx, post.ID)

	updated, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	resp := toPostResponse(updated, true)
	return &resp, nil
}

func (s *postService) PublishPost(ctx context.Context, userID uuid.UUID, slug string) (*dto.PostResponse, error) {
	post, err := s.findOwnedPost(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if !post.IsPublished {
		now := time.Now()
		post.IsPublished = true
		if post.PublishedAt == nil {
			post.PublishedAt = &now
		}
		if err := s.postRepo.Update(ctx, post); err != nil {
			return nil, err
		}
		s.indexIfVisible(ctx, post.ID)
	}

	resp := toPostResponse(post, true)
	return &resp, nil
}

// SoftDeletePost marks the post deleted and persists only that field. The
// operation is idempotent in effect.
func (s *postService) SoftDeletePost(ctx context.Context, userID uuid.UUID, slug string) error {
	post, err := s.findOwnedPost(ctx, userID, slug)
	if err != nil {
		return err
	}

	if err := s.postRepo.SoftDelete(ctx, post.ID, time.Now()); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeletePost(post.ID.String()); err != nil {
			zap.L().Warn("failed to remove post from search index", zap.String("slug", slug), zap.Error(err))
		}
	}

	return nil
}

func (s *postService) ListPublished(ctx context.Context, filter dto.PostFilter) (*dto.PaginatedPostResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)
	repoFilter := repository.PostFilter{
		Search: filter.Search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	}

	if filter.Category != "" {
		category, err := s.taxonomyRepo.FindCategoryBySlug(ctx, filter.Category)
		if err != nil {
			return nil, notFoundOr(err)
		}
		repoFilter.CategoryID = &category.ID
	}
	if filter.Tag != "" {
		tag, err := s.taxonomyRepo.FindTagBySlug(ctx, filter.Tag)
		if err != nil {
			return nil, notFoundOr(err)
		}
		repoFilter.TagID = &tag.ID
	}

	posts, total, err := s.postRepo.FindVisible(ctx, repoFilter, time.Now())
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedPostResponse{
		Data: toPostResponses(posts, false),
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *postService) GetPublishedDetail(ctx context.Context, slug, visitorKey string) (*dto.PostDetailResponse, error) {
	now := time.Now()
	post, err := s.postRepo.FindVisibleBySlug(ctx, slug, now)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if err := s.views.IncrementView(ctx, post.ID, visitorKey); err != nil {
		// View counting is best effort; never fail the read for it.
		zap.L().Warn("failed to count view", zap.String("slug", slug), zap.Error(err))
	}

	comments, err := s.commentRepo.FindVisibleByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	var related []*model.Post
	if post.CategoryID != nil {
		related, err = s.postRepo.FindRelated(ctx, *post.CategoryID, post.ID, relatedPostSize, now)
		if err != nil {
			return nil, err
		}
	}

	return &dto.PostDetailResponse{
		Post:     toPostResponse(post, true),
		Comments: toCommentResponses(comments),
		Related:  toPostResponses(related, false),
	}, nil
}

func (s *postService) MyPosts(ctx context.Context, authorID uuid.UUID, page, limit int) (*dto.PaginatedPostResponse, error) {
	page, limit = normalizePage(page, limit)
	posts, total, err := s.postRepo.FindByAuthor(ctx, authorID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedPostResponse{
		Data: toPostResponses(posts, false),
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *postService) Home(ctx context.Context) (*dto.HomeResponse, error) {
	now := time.Now()

	featured, err := s.postRepo.FindFeatured(ctx, featuredHomeSize, now)
	if err != nil {
		return nil, err
	}

	excludeIDs := make([]uuid.UUID, 0, len(featured))
	for _, post := range featured {
		excludeIDs = append(excludeIDs, post.ID)
	}

	recent, err := s.postRepo.FindRecent(ctx, excludeIDs, recentHomeSize, now)
	if err != nil {
		return nil, err
	}

	categories, err := s.taxonomyRepo.TopCategories(ctx, topCategorySize, now)
	if err != nil {
		return nil, err
	}

	return &dto.HomeResponse{
		Featured:   toPostResponses(featured, false),
		Recent:     toPostResponses(recent, false),
		Categories: toCategoryResponses(categories),
	}, nil
}

func (s *postService) Archive(ctx context.Context) ([]dto.ArchiveMonth, error) {
	months, err := s.postRepo.ArchiveMonths(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := make([]dto.ArchiveMonth, 0, len(months))
	for _, m := range months {
		result = append(result, dto.ArchiveMonth{Year: m.Year, Month: m.Month, Count: m.Count})
	}
	return result, nil
}

func (s *postService) ArchiveMonth(ctx context.Context, year, month, page, limit int) (*dto.PaginatedPostResponse, error) {
	if month < 1 || month > 12 {
		return nil, apperror.New(400, "invalid month", apperror.ErrInvalidInput)
	}

	page, limit = normalizePage(page, limit)
	posts, total, err := s.postRepo.FindByMonth(ctx, year, month, (page-1)*limit, limit, time.Now())
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedPostResponse{
		Data: toPostResponses(posts, false),
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *postService) findOwnedPost(ctx context.Context, userID uuid.UUID, slug string) (*model.Post, error) {
	post, err := s.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if post.AuthorID == userID {
		return post, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if user.Role.Name != "admin" {
		return nil, apperror.ErrForbidden
	}
	return post, nil
}

func (s *postService) ensureTags(ctx context.Context, names []string) ([]model.Tag, error) {
	cleaned := make([]string, 0, len(names))
	slugs := make([]string, 0, len(names))
	seen := make(map[string]bool)

	for _, name := range names {
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		cleaned = append(cleaned, name)
		slugs = append(slugs, slug)
	}

	return s.taxonomyRepo.EnsureTags(ctx, cleaned, slugs)
}

func (s *postService) indexIfVisible(ctx context.Context, postID uuid.UUID) {
	if s.search == nil {
		return
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return
	}
	if !post.IsVisible(time.Now()) {
		return
	}
	if err := s.search.IndexPost(post); err != nil {
		zap.L().Warn("failed to index post", zap.String("slug", post.Slug), zap.Error(err))
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}

func toPostResponse(post *model.Post, includeContent bool) dto.PostResponse {
	resp := dto.PostResponse{
		ID:      post.ID,
		Title:   post.Title,
		Slug:    post.Slug,
		Excerpt: post.Excerpt,
		Author: dto.AuthorResponse{
			Username: post.Author.Username,
		},
		Featured:    post.Featured,
		Views:       post.Views,
		PublishedAt: formatTimePtr(post.PublishedAt),
		CreatedAt:   formatTime(post.CreatedAt),
		UpdatedAt:   formatTime(post.UpdatedAt),
	}

	if includeContent {
		resp.Content = post.Content
	}
	if post.Author.Profile != nil {
		resp.Author.AvatarURL = post.Author.Profile.AvatarURL
	}
	if post.Category != nil {
		resp.Category = &post.Category.Name
	}
	for _, tag := range post.Tags {
		resp.Tags = append(resp.Tags, tag.Name)
	}

	return resp
}

func toPostResponses(posts []*model.Post, includeContent bool) []dto.PostResponse {
	result := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		result = append(result, toPostResponse(post, includeContent))
	}
	return result
}

func toCommentResponses(comments []*model.Comment) []dto.CommentResponse {
	result := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		result = append(result, dto.CommentResponse{
			ID:         comment.ID,
			AuthorName: comment.AuthorName,
			Website:    comment.Website,
			Content:    comment.Content,
			CreatedAt:  formatTime(comment.CreatedAt),
		})
	}
	return result
}

func toCategoryResponses(categories []*model.Category) []dto.CategoryResponse {
	result := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, dto.CategoryResponse{
			ID:          category.ID,
			Name:        category.Name,
			Slug:        category.Slug,
			Description: category.Description,
			PostCount:   category.PostCount,
		})
	}
	return result
}

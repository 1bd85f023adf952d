package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

// VisiblePosts is the public visibility predicate as a reusable scope:
// published, not soft-deleted, publish time not in the future.
func VisiblePosts(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("is_published = ?", true).
			Where("deleted_at IS NULL").
			Where("published_at IS NULL OR published_at <= ?", now)
	}
}

type PostFilter struct {
	Search     string
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	Offset     int
	Limit      int
}

type AdminPostFilter struct {
	Search    string
	Author    string
	Published *bool
	Deleted   *bool
	Offset    int
	Limit     int
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	ReplaceTags(ctx context.Context, post *model.Post, tags []model.Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	FindVisibleBySlug(ctx context.Context, slug string, now time.Time) (*model.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindVisible(ctx context.Context, filter PostFilter, now time.Time) ([]*model.Post, int64, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*model.Post, int64, error)
	FindFeatured(ctx context.Context, limit int, now time.Time) ([]*model.Post, error)
	FindRecent(ctx context.Context, excludeIDs []uuid.UUID, limit int, now time.Time) ([]*model.Post, error)
	FindRelated(ctx context.Context, categoryID uuid.UUID, excludeID uuid.UUID, limit int, now time.Time) ([]*model.Post, error)
	FindAdmin(ctx context.Context, filter AdminPostFilter) ([]*model.Post, int64, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDeleteMany(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
	AddViews(ctx context.Context, id uuid.UUID, delta int) error
	ArchiveMonths(ctx context.Context, now time.Time) ([]ArchiveMonth, error)
	FindByMonth(ctx context.Context, year, month int, offset, limit int, now time.Time) ([]*model.Post, int64, error)
	AuthorStats(ctx context.Context, authorID uuid.UUID) (total, published, views int64, err error)
}

type ArchiveMonth struct {
	Year  int
	Month int
	Count int64
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// ReplaceTags swaps the post's tag set. Save only upserts join rows and
// never deletes dropped ones, so removal has to go through the association.
func (r *postRepository) ReplaceTags(ctx context.Context, post *model.Post, tags []model.Tag) error {
	assoc := r.db.WithContext(ctx).Model(post).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(tags)
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Author.Profile").
		Preload("Category").
		Preload("Tags").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Author.Profile").
		Preload("Category").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindVisibleBySlug(ctx context.Context, slug string, now time.Time) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Scopes(VisiblePosts(now)).
		Preload("Author").
		Preload("Author.Profile").
		Preload("Category").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugExists probes all posts, soft-deleted included, so a reused title can
// never collide with a deleted post's slug.
func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) FindVisible(ctx context.Context, filter PostFilter, now time.Time) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Scopes(VisiblePosts(now))

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ? OR excerpt ILIKE ?", pattern, pattern, pattern)
	}

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	if filter.TagID != nil {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", filter.TagID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Author.Profile").
		Preload("Category").
		Preload("Tags").
		Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_id = ?", authorID).
		Where("deleted_at IS NULL")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Category").
		Preload("Tags").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) FindFeatured(ctx context.Context, limit int, now time.Time) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.db.WithContext(ctx).
		Scopes(VisiblePosts(now)).
		Where("featured = ?", true).
		Preload("Author").
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindRecent(ctx context.Context, excludeIDs []uuid.UUID, limit int, now time.Time) ([]*model.Post, error) {
	var posts []*model.Post
	query := r.db.WithContext(ctx).
		Scopes(VisiblePosts(now)).
		Preload("Author").
		Preload("Category")

	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindRelated(ctx context.Context, categoryID uuid.UUID, excludeID uuid.UUID, limit int, now time.Time) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.db.WithContext(ctx).
		Scopes(VisiblePosts(now)).
		Where("category_id = ?", categoryID).
		Where("id <> ?", excludeID).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindAdmin(ctx context.Context, filter AdminPostFilter) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Post{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	if filter.Author != "" {
		query = query.
			Joins("JOIN users ON users.id = posts.author_id").
			Where("users.username = ?", filter.Author)
	}
	if filter.Published != nil {
		query = query.Where("is_published = ?", *filter.Published)
	}
	if filter.Deleted != nil {
		if *filter.Deleted {
			query = query.Where("posts.deleted_at IS NOT NULL")
		} else {
			query = query.Where("posts.deleted_at IS NULL")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("featured", featured).Error
}

// SoftDelete persists only deleted_at. Applying it to an already-deleted row
// overwrites the timestamp but changes nothing observable.
func (r *postRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("deleted_at", at).Error
}

func (r *postRepository) SoftDeleteMany(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id IN ?", ids).
		UpdateColumn("deleted_at", at)
	return result.RowsAffected, result.Error
}

func (r *postRepository) AddViews(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", delta)).Error
}

func (r *postRepository) ArchiveMonths(ctx context.Context, now time.Time) ([]ArchiveMonth, error) {
	var months []ArchiveMonth

	query := `
		SELECT EXTRACT(YEAR FROM published_at)::int AS year,
		       EXTRACT(MONTH FROM published_at)::int AS month,
		       COUNT(*) AS count
		FROM posts
		WHERE is_published = true
		  AND deleted_at IS NULL
		  AND published_at IS NOT NULL
		  AND published_at <= ?
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC
	`

	if err := r.db.WithContext(ctx).Raw(query, now).Scan(&months).Error; err != nil {
		return nil, err
	}
	return months, nil
}

func (r *postRepository) FindByMonth(ctx context.Context, year, month int, offset, limit int, now time.Time) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Scopes(VisiblePosts(now)).
		Where("published_at IS NOT NULL").
		Where("EXTRACT(YEAR FROM published_at) = ? AND EXTRACT(MONTH FROM published_at) = ?", year, month)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Category").
		Order("published_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepository) AuthorStats(ctx context.Context, authorID uuid.UUID) (total, published, views int64, err error) {
	base := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("author_id = ?", authorID).
		Where("deleted_at IS NULL")

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return
	}
	if err = base.Session(&gorm.Session{}).Where("is_published = ?", true).Count(&published).Error; err != nil {
		return
	}

	var sum struct{ Total int64 }
	if err = base.Session(&gorm.Session{}).Select("COALESCE(SUM(views), 0) AS total").Scan(&sum).Error; err != nil {
		return
	}
	views = sum.Total
	return
}

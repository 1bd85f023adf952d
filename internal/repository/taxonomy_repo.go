package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

type TaxonomyRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	FindCategories(ctx context.Context, now time.Time) ([]*model.Category, error)
	TopCategories(ctx context.Context, limit int, now time.Time) ([]*model.Category, error)

	CreateTag(ctx context.Context, tag *model.Tag) error
	DeleteTag(ctx context.Context, id uuid.UUID) error
	FindTagBySlug(ctx context.Context, slug string) (*model.Tag, error)
	FindTags(ctx context.Context, now time.Time) ([]*model.Tag, error)
	EnsureTags(ctx context.Context, names []string, slugs []string) ([]model.Tag, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *taxonomyRepository) UpdateCategory(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *taxonomyRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id).Error
}

func (r *taxonomyRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *taxonomyRepository) FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategories returns all categories with post_count computed against the
// visibility predicate. The count is never stored, so it cannot drift.
func (r *taxonomyRepository) FindCategories(ctx context.Context, now time.Time) ([]*model.Category, error) {
	var categories []*model.Category
	if err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Select("categories.*, COUNT(posts.id) AS post_count").
		Joins(`LEFT JOIN posts ON posts.category_id = categories.id
			AND posts.is_published = true
			AND posts.deleted_at IS NULL
			AND (posts.published_at IS NULL OR posts.published_at <= ?)`, now).
		Group("categories.id").
		Order("categories.name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *taxonomyRepository) TopCategories(ctx context.Context, limit int, now time.Time) ([]*model.Category, error) {
	var categories []*model.Category
	if err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Select("categories.*, COUNT(posts.id) AS post_count").
		Joins(`LEFT JOIN posts ON posts.category_id = categories.id
			AND posts.is_published = true
			AND posts.deleted_at IS NULL
			AND (posts.published_at IS NULL OR posts.published_at <= ?)`, now).
		Group("categories.id").
		Having("COUNT(posts.id) > 0").
		Order("post_count DESC").
		Limit(limit).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *taxonomyRepository) CreateTag(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *taxonomyRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tag{}, "id = ?", id).Error
}

func (r *taxonomyRepository) FindTagBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *taxonomyRepository) FindTags(ctx context.Context, now time.Time) ([]*model.Tag, error) {
	var tags []*model.Tag
	if err := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tags.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins(`LEFT JOIN posts ON posts.id = post_tags.post_id
			AND posts.is_published = true
			AND posts.deleted_at IS NULL
			AND (posts.published_at IS NULL OR posts.published_at <= ?)`, now).
		Group("tags.id").
		Order("tags.name ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// EnsureTags resolves tag names to rows, creating missing ones. names and
// slugs are parallel slices.
func (r *taxonomyRepository) EnsureTags(ctx context.Context, names []string, slugs []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	for i, name := range names {
		var tag model.Tag
		err := r.db.WithContext(ctx).Where("slug = ?", slugs[i]).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = model.Tag{Name: name, Slug: slugs[i]}
			if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

type AdminCommentFilter struct {
	Search   string
	Approved *bool
	Deleted  *bool
	Offset   int
	Limit    int
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	FindVisibleByPost(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error)
	FindAdmin(ctx context.Context, filter AdminCommentFilter) ([]*model.Comment, int64, error)
	Approve(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDeleteMany(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).
		Preload("Post").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindVisibleByPost(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	var comments []*model.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Where("is_approved = ?", true).
		Where("deleted_at IS NULL").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) FindAdmin(ctx context.Context, filter AdminCommentFilter) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Comment{})

	if filter.Search != "" {
		query = query.Where("content ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Approved != nil {
		query = query.Where("is_approved = ?", *filter.Approved)
	}
	if filter.Deleted != nil {
		if *filter.Deleted {
			query = query.Where("deleted_at IS NOT NULL")
		} else {
			query = query.Where("deleted_at IS NULL")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Post").
		Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *commentRepository) Approve(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumn("is_approved", true).Error
}

func (r *commentRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumn("deleted_at", at).Error
}

func (r *commentRepository) SoftDeleteMany(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id IN ?", ids).
		UpdateColumn("deleted_at", at)
	return result.RowsAffected, result.Error
}

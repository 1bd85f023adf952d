package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

type NewsletterRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.Subscription, error)
	Create(ctx context.Context, subscription *model.Subscription) error
	SetActive(ctx context.Context, email string, active bool) error
	FindAll(ctx context.Context, offset, limit int) ([]*model.Subscription, int64, error)
}

type newsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) FindByEmail(ctx context.Context, email string) (*model.Subscription, error) {
	var sub model.Subscription
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *newsletterRepository) Create(ctx context.Context, subscription *model.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *newsletterRepository) SetActive(ctx context.Context, email string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("email = ?", email).
		UpdateColumn("is_active", active).Error
}

func (r *newsletterRepository) FindAll(ctx context.Context, offset, limit int) ([]*model.Subscription, int64, error) {
	var subs []*model.Subscription
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Subscription{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("subscribed_at DESC").
		Offset(offset).Limit(limit).
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

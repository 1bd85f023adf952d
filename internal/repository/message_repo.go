package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	Inbox(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Message, int64, error)
	Sent(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Message, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	SoftDeleteForSender(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDeleteForReceiver(ctx context.Context, id uuid.UUID, at time.Time) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Sender.Profile").
		Preload("Receiver").
		Preload("Receiver.Profile").
		Where("id = ?", id).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Inbox(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Message, int64, error) {
	var messages []*model.Message
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("receiver_id = ?", userID).
		Where("receiver_deleted_at IS NULL")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Sender").
		Preload("Sender.Profile").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *messageRepository) Sent(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Message, int64, error) {
	var messages []*model.Message
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("sender_id = ?", userID).
		Where("sender_deleted_at IS NULL")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Receiver").
		Preload("Receiver.Profile").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// MarkRead flips is_read only when it is still false, so re-reads never
// touch the row.
func (r *messageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", id).
		Where("is_read = ?", false).
		UpdateColumn("is_read", true).Error
}

func (r *messageRepository) SoftDeleteForSender(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", id).
		UpdateColumn("sender_deleted_at", at).Error
}

func (r *messageRepository) SoftDeleteForReceiver(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", id).
		UpdateColumn("receiver_deleted_at", at).Error
}

func (r *messageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("receiver_id = ?", userID).
		Where("is_read = ?", false).
		Where("receiver_deleted_at IS NULL").
		Count(&count).Error
	return count, err
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

// MessageChannel returns the redis pub/sub channel carrying a user's
// new-message events. The inbox websocket subscribes to it.
func MessageChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user_messages:%s", userID)
}

type MessageService interface {
	Send(ctx context.Context, senderID uuid.UUID, req dto.SendMessageRequest) (*dto.MessageResponse, error)
	Inbox(ctx context.Context, userID uuid.UUID, filter dto.MessageFilter) (*dto.PaginatedMessageResponse, error)
	Sent(ctx context.Context, userID uuid.UUID, filter dto.MessageFilter) (*dto.PaginatedMessageResponse, error)
	Get(ctx context.Context, userID, messageID uuid.UUID) (*dto.MessageResponse, error)
	MarkAsRead(ctx context.Context, userID, messageID uuid.UUID) error
	Delete(ctx context.Context, userID, messageID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	redisClient *redis.Client
	rateLimit   time.Duration
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	rateLimit time.Duration,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
		rateLimit:   rateLimit,
	}
}

func (s *messageService) Send(ctx context.Context, senderID uuid.UUID, req dto.SendMessageRequest) (*dto.MessageResponse, error) {
	receiver, err := s.userRepo.FindByUsername(ctx, req.ReceiverUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "receiver not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if receiver.ID == senderID {
		return nil, apperror.New(400, "cannot send a message to yourself", apperror.ErrBadRequest)
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, senderID.String(), "message", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Subject:    req.Subject,
		Content:    req.Content,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, message, receiver.ID)

	created, err := s.messageRepo.FindByID(ctx, message.ID)
	if err != nil {
		return nil, err
	}
	resp := toMessageResponse(created)
	return &resp, nil
}

func (s *messageService) publishEvent(ctx context.Context, message *model.Message, receiverID uuid.UUID) {
	if s.redisClient == nil {
		return
	}

	sender, err := s.userRepo.FindByID(ctx, message.SenderID.String())
	if err != nil {
		return
	}

	event := dto.MessageEvent{
		MessageID: message.ID,
		From:      sender.Username,
		Subject:   message.Subject,
		SentAt:    formatTime(message.CreatedAt),
	}

	if payload, err := json.Marshal(event); err == nil {
		s.redisClient.Publish(ctx, MessageChannel(receiverID), payload)
	}
}

func (s *messageService) Inbox(ctx context.Context, userID uuid.UUID, filter dto.MessageFilter) (*dto.PaginatedMessageResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)
	messages, total, err := s.messageRepo.Inbox(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedMessageResponse{
		Data: toMessageResponses(messages),
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *messageService) Sent(ctx context.Context, userID uuid.UUID, filter dto.MessageFilter) (*dto.PaginatedMessageResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)
	messages, total, err := s.messageRepo.Sent(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedMessageResponse{
		Data: toMessageResponses(messages),
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *messageService) Get(ctx context.Context, userID, messageID uuid.UUID) (*dto.MessageResponse, error) {
	message, err := s.findParty(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}
	resp := toMessageResponse(message)
	return &resp, nil
}

// MarkAsRead flips is_read false to true. Only the receiver may mark, and a
// message already read is left untouched.
func (s *messageService) MarkAsRead(ctx context.Context, userID, messageID uuid.UUID) error {
	message, err := s.findParty(ctx, userID, messageID)
	if err != nil {
		return err
	}

	if message.ReceiverID != userID {
		return apperror.ErrForbidden
	}

	if message.IsRead {
		return nil
	}

	return s.messageRepo.MarkRead(ctx, messageID)
}

// Delete soft-deletes the caller's copy only; the other party keeps theirs.
func (s *messageService) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	message, err := s.findParty(ctx, userID, messageID)
	if err != nil {
		return err
	}

	now := time.Now()
	if message.SenderID == userID {
		return s.messageRepo.SoftDeleteForSender(ctx, messageID, now)
	}
	return s.messageRepo.SoftDeleteForReceiver(ctx, messageID, now)
}

func (s *messageService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}

// findParty loads the message and verifies the caller is a party whose copy
// is not deleted.
func (s *messageService) findParty(ctx context.Context, userID, messageID uuid.UUID) (*model.Message, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	switch userID {
	case message.SenderID:
		if message.SenderDeletedAt != nil {
			return nil, apperror.ErrNotFound
		}
	case message.ReceiverID:
		if message.ReceiverDeletedAt != nil {
			return nil, apperror.ErrNotFound
		}
	default:
		return nil, apperror.ErrForbidden
	}

	return message, nil
}

func toMessageResponse(message *model.Message) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:        message.ID,
		Subject:   message.Subject,
		Content:   message.Content,
		IsRead:    message.IsRead,
		CreatedAt: formatTime(message.CreatedAt),
		Sender:    dto.AuthorResponse{Username: message.Sender.Username},
		Receiver:  dto.AuthorResponse{Username: message.Receiver.Username},
	}
	if message.Sender.Profile != nil {
		resp.Sender.AvatarURL = message.Sender.Profile.AvatarURL
	}
	if message.Receiver.Profile != nil {
		resp.Receiver.AvatarURL = message.Receiver.Profile.AvatarURL
	}
	return resp
}

func toMessageResponses(messages []*model.Message) []dto.MessageResponse {
	result := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		result = append(result, toMessageResponse(message))
	}
	return result
}

package dto

import "github.com/google/uuid"

type SendMessageRequest struct {
	ReceiverUsername string `json:"receiver_username" binding:"required,max=50"`
	Subject          string `json:"subject" binding:"max=200"`
	Content          string `json:"content" binding:"required,max=5000"`
}

type MessageResponse struct {
	ID        uuid.UUID      `json:"id"`
	Sender    AuthorResponse `json:"sender"`
	Receiver  AuthorResponse `json:"receiver"`
	Subject   string         `json:"subject"`
	Content   string         `json:"content"`
	IsRead    bool           `json:"is_read"`
	CreatedAt string         `json:"created_at"`
}

type MessageFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type PaginatedMessageResponse struct {
	Data []MessageResponse `json:"data"`
	Meta PaginationMeta    `json:"meta"`
}

// MessageEvent is the payload published to the receiver's redis channel and
// forwarded over the inbox websocket.
type MessageEvent struct {
	MessageID uuid.UUID `json:"message_id"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	SentAt    string    `json:"sent_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message deletion is per party: each side has its own timestamp, so one
// party deleting never hides the message from the other.
type Message struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender            User       `gorm:"constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	ReceiverID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_receiver_read" json:"receiver_id"`
	Receiver          User       `gorm:"constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
	Subject           string     `gorm:"size:200" json:"subject"`
	Content           string     `gorm:"type:text;not null" json:"content"`
	IsRead            bool       `gorm:"default:false;index:idx_messages_receiver_read" json:"is_read"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	SenderDeletedAt   *time.Time `json:"-"`
	ReceiverDeletedAt *time.Time `json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}

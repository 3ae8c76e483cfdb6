package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatParticipant is the denormalized participant snapshot stored on a chat
// so the conversation list renders without joining users.
type ChatParticipant struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
	Role   string  `json:"role"`
}

// Chat is a two-party conversation. The unordered participant pair is stored
// canonically (ParticipantLow < ParticipantHigh by string order); uniqueness
// of the pair is enforced by lookup-before-create in the chat service, not by
// a database constraint.
type Chat struct {
	ID              uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantLow  uuid.UUID                  `gorm:"type:uuid;not null;index:idx_chat_pair" json:"-"`
	ParticipantHigh uuid.UUID                  `gorm:"type:uuid;not null;index:idx_chat_pair" json:"-"`
	Participants    map[string]ChatParticipant `gorm:"serializer:json" json:"participants"`
	LastMessage     *string                    `gorm:"type:text" json:"last_message,omitempty"`
	LastMessageTime *time.Time                 `json:"last_message_time,omitempty"`
	UnreadCounts    map[string]int             `gorm:"serializer:json" json:"unread_counts"`
	CreatedAt       time.Time                  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ChatMessage is append-only; messages are never edited or deleted.
type ChatMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID     uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	SenderName string    `gorm:"size:100" json:"sender_name"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

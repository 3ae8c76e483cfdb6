package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationAnnouncement = "announcement"
	NotificationApplication  = "application"
	NotificationEvent        = "event"
	NotificationAccount      = "account"
)

type Notification struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type           string     `gorm:"size:30;not null" json:"type"`
	Title          string     `gorm:"size:150;not null" json:"title"`
	Message        string     `gorm:"type:text" json:"message"`
	Link           *string    `gorm:"size:255" json:"link,omitempty"`
	AnnouncementID *uuid.UUID `gorm:"type:uuid" json:"announcement_id,omitempty"`
	IsRead         bool       `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

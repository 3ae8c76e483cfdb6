package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventInterview = "interview"
	EventDeadline  = "deadline"
	EventSession   = "session"
	EventOther     = "other"
)

type Event struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string      `gorm:"size:150;not null" json:"title"`
	Description  *string     `gorm:"type:text" json:"description,omitempty"`
	Type         string      `gorm:"size:20;not null;default:other" json:"type"`
	Location     *string     `gorm:"size:150" json:"location,omitempty"`
	StartsAt     time.Time   `gorm:"not null;index" json:"starts_at"`
	EndsAt       *time.Time  `json:"ends_at,omitempty"`
	CreatedBy    uuid.UUID   `gorm:"type:uuid;not null" json:"created_by"`
	Participants []uuid.UUID `gorm:"serializer:json" json:"participants"`
	ReminderSent bool        `gorm:"default:false" json:"-"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

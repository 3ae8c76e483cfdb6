package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AnnouncementInfo    = "info"
	AnnouncementWarning = "warning"
	AnnouncementSuccess = "success"
	AnnouncementError   = "error"
)

const (
	AudienceAll       = "all"
	AudienceStudent   = "student"
	AudienceInstitute = "institute"
	AudienceCompany   = "company"
)

type Announcement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string    `gorm:"size:150;not null" json:"title"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	Type           string    `gorm:"size:20;not null;default:info" json:"type"`
	TargetAudience string    `gorm:"size:20;not null;default:all" json:"target_audience"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
	ApplicationAccepted    = "accepted"
)

type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_student" json:"job_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_student" json:"student_id"`
	Status    string    `gorm:"size:20;not null;default:pending" json:"status"`
	CoverNote *string   `gorm:"type:text" json:"cover_note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Job     *JobPosting `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Student *User       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

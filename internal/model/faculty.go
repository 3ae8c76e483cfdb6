package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Faculty struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InstituteID uuid.UUID `gorm:"type:uuid;not null;index" json:"institute_id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Courses []Course `gorm:"constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}

func (f *Faculty) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type Course struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FacultyID      uuid.UUID `gorm:"type:uuid;not null;index" json:"faculty_id"`
	Name           string    `gorm:"size:150;not null" json:"name"`
	Description    *string   `gorm:"type:text" json:"description,omitempty"`
	DurationMonths *int      `json:"duration_months,omitempty"`
	Level          *string   `gorm:"size:50" json:"level,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

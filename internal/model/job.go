package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobPosting struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Title           string     `gorm:"size:150;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Skills          []string   `gorm:"serializer:json" json:"skills"`
	ExperienceLevel string     `gorm:"size:20" json:"experience_level"`
	Location        *string    `gorm:"size:150" json:"location,omitempty"`
	SalaryMin       *int       `json:"salary_min,omitempty"`
	SalaryMax       *int       `json:"salary_max,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	Views           int        `gorm:"default:0" json:"views"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Company *User `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (j *JobPosting) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

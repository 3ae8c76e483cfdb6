package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExperienceEntry  = "Entry"
	ExperienceMid    = "Mid Level"
	ExperienceSenior = "Senior Level"
)

// CandidateProfile is owned and edited by the student only.
type CandidateProfile struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Headline        *string   `gorm:"size:150" json:"headline,omitempty"`
	Bio             *string   `gorm:"type:text" json:"bio,omitempty"`
	Skills          []string  `gorm:"serializer:json" json:"skills"`
	ExperienceLevel string    `gorm:"size:20" json:"experience_level"`
	Education       *string   `gorm:"size:150" json:"education,omitempty"`
	ResumeURL       *string   `gorm:"type:text" json:"resume_url,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrgProfile is the shared profile shape for institute and company accounts.
type OrgProfile struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	OrgName         string    `gorm:"size:150;not null" json:"org_name"`
	Website         *string   `gorm:"size:255" json:"website,omitempty"`
	About           *string   `gorm:"type:text" json:"about,omitempty"`
	Address         *string   `gorm:"size:255" json:"address,omitempty"`
	LogoURL         *string   `gorm:"type:text" json:"logo_url,omitempty"`
	VerificationURL *string   `gorm:"type:text" json:"verification_url,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

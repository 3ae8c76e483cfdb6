package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventInput struct {
	Title        string      `json:"title" binding:"required,min=3,max=150"`
	Description  *string     `json:"description" binding:"omitempty,max=5000"`
	Type         string      `json:"type" binding:"required,oneof=interview deadline session other"`
	Location     *string     `json:"location" binding:"omitempty,max=150"`
	StartsAt     time.Time   `json:"starts_at" binding:"required"`
	EndsAt       *time.Time  `json:"ends_at" binding:"omitempty"`
	Participants []uuid.UUID `json:"participants" binding:"omitempty,max=100"`
}

type UpdateEventInput struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=150"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Type        *string    `json:"type" binding:"omitempty,oneof=interview deadline session other"`
	Location    *string    `json:"location" binding:"omitempty,max=150"`
	StartsAt    *time.Time `json:"starts_at" binding:"omitempty"`
	EndsAt      *time.Time `json:"ends_at" binding:"omitempty"`
}

package dto

import (
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	pkgdto "github.com/careerfindr/careerfindr-api/pkg/dto"
)

type CreateJobInput struct {
	Title           string     `json:"title" binding:"required,min=3,max=150"`
	Description     string     `json:"description" binding:"required"`
	Skills          []string   `json:"skills" binding:"required,min=1,dive,min=1"`
	ExperienceLevel string     `json:"experience_level" binding:"required,oneof='Entry' 'Mid Level' 'Senior Level'"`
	Location        *string    `json:"location"`
	SalaryMin       *int       `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax       *int       `json:"salary_max" binding:"omitempty,min=0"`
	Deadline        *time.Time `json:"deadline"`
}

type UpdateJobInput struct {
	Title           *string    `json:"title" binding:"omitempty,min=3,max=150"`
	Description     *string    `json:"description"`
	Skills          []string   `json:"skills" binding:"omitempty,min=1,dive,min=1"`
	ExperienceLevel *string    `json:"experience_level" binding:"omitempty,oneof='Entry' 'Mid Level' 'Senior Level'"`
	Location        *string    `json:"location"`
	SalaryMin       *int       `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax       *int       `json:"salary_max" binding:"omitempty,min=0"`
	Deadline        *time.Time `json:"deadline"`
	IsActive        *bool      `json:"is_active"`
}

type JobListFilter struct {
	ExperienceLevel string `form:"experience_level"`
	Location        string `form:"location"`
	Page            int    `form:"page,default=1" binding:"min=1"`
	Limit           int    `form:"limit,default=20" binding:"min=1,max=50"`
}

type MatchResponse struct {
	JobID string `json:"job_id"`
	Score int    `json:"score"`
}

type JobListResponse struct {
	Data []model.JobPosting    `json:"data"`
	Meta pkgdto.PaginationMeta `json:"meta"`
}

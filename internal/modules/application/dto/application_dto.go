package dto

import "github.com/careerfindr/careerfindr-api/internal/model"

type ApplyInput struct {
	CoverNote *string `json:"cover_note" binding:"omitempty,max=2000"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending shortlisted rejected accepted"`
}

// ApplicantResponse pairs an application with the candidate's live match
// score against the job.
type ApplicantResponse struct {
	Application model.Application `json:"application"`
	MatchScore  int               `json:"match_score"`
}

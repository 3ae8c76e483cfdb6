package dto

type CreateAnnouncementInput struct {
	Title          string `json:"title" binding:"required,min=3,max=150"`
	Message        string `json:"message" binding:"required"`
	Type           string `json:"type" binding:"required,oneof=info warning success error"`
	TargetAudience string `json:"target_audience" binding:"required,oneof=all student institute company"`
	IsActive       *bool  `json:"is_active"`
}

type UpdateAnnouncementInput struct {
	Title          *string `json:"title" binding:"omitempty,min=3,max=150"`
	Message        *string `json:"message"`
	Type           *string `json:"type" binding:"omitempty,oneof=info warning success error"`
	TargetAudience *string `json:"target_audience" binding:"omitempty,oneof=all student institute company"`
	IsActive       *bool   `json:"is_active"`
}

package dto

type CreateFacultyInput struct {
	Name        string  `json:"name" binding:"required,min=2,max=150"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

type UpdateFacultyInput struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=150"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

type CreateCourseInput struct {
	Name           string  `json:"name" binding:"required,min=2,max=150"`
	Description    *string `json:"description" binding:"omitempty,max=5000"`
	DurationMonths *int    `json:"duration_months" binding:"omitempty,min=1,max=120"`
	Level          *string `json:"level" binding:"omitempty,max=50"`
}

type UpdateCourseInput struct {
	Name           *string `json:"name" binding:"omitempty,min=2,max=150"`
	Description    *string `json:"description" binding:"omitempty,max=5000"`
	DurationMonths *int    `json:"duration_months" binding:"omitempty,min=1,max=120"`
	Level          *string `json:"level" binding:"omitempty,max=50"`
}

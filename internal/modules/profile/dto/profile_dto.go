package dto

type UpdateCandidateInput struct {
	Headline        *string  `json:"headline" binding:"omitempty,max=150"`
	Bio             *string  `json:"bio" binding:"omitempty,max=5000"`
	Skills          []string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50"`
	ExperienceLevel *string  `json:"experience_level" binding:"omitempty,oneof='Entry' 'Mid Level' 'Senior Level'"`
	Education       *string  `json:"education" binding:"omitempty,max=150"`
}

type UpdateOrgInput struct {
	OrgName *string `json:"org_name" binding:"omitempty,min=2,max=150"`
	Website *string `json:"website" binding:"omitempty,url,max=255"`
	About   *string `json:"about" binding:"omitempty,max=5000"`
	Address *string `json:"address" binding:"omitempty,max=255"`
}

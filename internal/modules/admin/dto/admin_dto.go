package dto

import "github.com/google/uuid"

type UserListFilter struct {
	Role   string `form:"role" binding:"omitempty,oneof=admin student institute company"`
	Status string `form:"status" binding:"omitempty,oneof=active pending rejected"`
}

type ImpersonateInput struct {
	TargetID uuid.UUID `json:"target_id" binding:"required"`
}

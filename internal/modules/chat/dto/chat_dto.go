package dto

import "github.com/google/uuid"

type StartChatInput struct {
	PartnerID uuid.UUID `json:"partner_id" binding:"required"`
}

type SendMessageInput struct {
	Text string `json:"text" binding:"required,max=4000"`
}

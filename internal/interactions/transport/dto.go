package transport

import (
	"time"

	"github.com/google/uuid"
)

type RecordInteractionRequest struct {
	Type            string   `json:"type" validate:"required,oneof=call whatsapp email meeting sms instagram_dm note other"`
	Direction       *string  `json:"direction,omitempty" validate:"omitempty,oneof=inbound outbound"`
	Summary         string   `json:"summary" validate:"required,min=1,max=5000"`
	Outcome         *string  `json:"outcome,omitempty" validate:"omitempty,max=500"`
	DurationMinutes *int     `json:"durationMinutes,omitempty" validate:"omitempty,min=0,max=1440"`
	MeetingLocation *string  `json:"meetingLocation,omitempty" validate:"omitempty,max=500"`
	MeetingLink     *string  `json:"meetingLink,omitempty" validate:"omitempty,url"`
	Attachments     []string `json:"attachments,omitempty" validate:"omitempty,max=20,dive,min=1,max=2048"`
}

type ListInteractionsRequest struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type InteractionResponse struct {
	ID              uuid.UUID `json:"id"`
	LeadID          uuid.UUID `json:"leadId"`
	UserID          uuid.UUID `json:"userId"`
	Type            string    `json:"type"`
	Direction       *string   `json:"direction,omitempty"`
	Summary         string    `json:"summary"`
	Outcome         *string   `json:"outcome,omitempty"`
	StatusBefore    string    `json:"statusBefore"`
	StatusAfter     string    `json:"statusAfter"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	MeetingLocation *string   `json:"meetingLocation,omitempty"`
	MeetingLink     *string   `json:"meetingLink,omitempty"`
	Attachments     []string  `json:"attachments"`
	CreatedAt       time.Time `json:"createdAt"`
}

type InteractionListResponse struct {
	Items      []InteractionResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

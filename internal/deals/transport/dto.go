package transport

import (
	"time"

	"leadflow_backend/platform/jsontype"

	"github.com/google/uuid"
)

// Request DTOs
type CreateDealRequest struct {
	LeadID            *uuid.UUID     `json:"leadId,omitempty"`
	Title             string         `json:"title" validate:"required,min=1,max=200"`
	Description       *string        `json:"description,omitempty" validate:"omitempty,max=5000"`
	DealValue         float64        `json:"dealValue" validate:"gte=0"`
	Currency          string         `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	Stage             string         `json:"stage,omitempty" validate:"omitempty,oneof=proposal negotiation contract_sent won lost"`
	Probability       *int           `json:"probability,omitempty" validate:"omitempty,min=0,max=100"`
	ExpectedCloseDate *jsontype.Date `json:"expectedCloseDate,omitempty"`
	OwnerID           *uuid.UUID     `json:"ownerId,omitempty"`
	LostReason        *string        `json:"lostReason,omitempty" validate:"omitempty,max=500"`
}

type UpdateDealStageRequest struct {
	Stage      string  `json:"stage" validate:"required,oneof=proposal negotiation contract_sent won lost"`
	LostReason *string `json:"lostReason,omitempty" validate:"omitempty,max=500"`
}

type UpdateDealRequest struct {
	Title             *string                          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description       jsontype.Optional[string]        `json:"description,omitempty" validate:"-"`
	DealValue         *float64                         `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
	Currency          *string                          `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	Probability       *int                             `json:"probability,omitempty" validate:"omitempty,min=0,max=100"`
	ExpectedCloseDate jsontype.Optional[jsontype.Date] `json:"expectedCloseDate,omitempty" validate:"-"`
	OwnerID           *uuid.UUID                       `json:"ownerId,omitempty"`
}

type ListDealsRequest struct {
	Stage     string     `form:"stage" validate:"omitempty,oneof=proposal negotiation contract_sent won lost"`
	LeadID    *uuid.UUID `form:"leadId"`
	OwnerID   *uuid.UUID `form:"ownerId"`
	Search    string     `form:"search" validate:"max=100"`
	SortBy    string     `form:"sortBy" validate:"omitempty,oneof=title dealValue stage expectedCloseDate createdAt updatedAt"`
	SortOrder string     `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	PageSize  int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Response DTOs
type DealResponse struct {
	ID                uuid.UUID      `json:"id"`
	LeadID            *uuid.UUID     `json:"leadId,omitempty"`
	Title             string         `json:"title"`
	Description       *string        `json:"description,omitempty"`
	DealValue         float64        `json:"dealValue"`
	Currency          string         `json:"currency"`
	Stage             string         `json:"stage"`
	Probability       int            `json:"probability"`
	ExpectedCloseDate *jsontype.Date `json:"expectedCloseDate,omitempty"`
	OwnerID           *uuid.UUID     `json:"ownerId,omitempty"`
	WonDate           *jsontype.Date `json:"wonDate,omitempty"`
	LostDate          *jsontype.Date `json:"lostDate,omitempty"`
	LostReason        *string        `json:"lostReason,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// DealResult is returned by every deal write. Warnings name linked-lead
// writes that failed after the deal itself was stored.
type DealResult struct {
	Deal     DealResponse `json:"deal"`
	Warnings []string     `json:"warnings,omitempty"`
}

type DealListResponse struct {
	Items      []DealResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

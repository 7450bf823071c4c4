package transport

import (
	"time"

	"leadflow_backend/platform/jsontype"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	Name             string         `json:"name" validate:"required,min=1,max=200"`
	Company          *string        `json:"company,omitempty" validate:"omitempty,max=200"`
	Phone            *string        `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email            *string        `json:"email,omitempty" validate:"omitempty,max=320"`
	InstagramHandle  *string        `json:"instagramHandle,omitempty" validate:"omitempty,max=100"`
	WhatsAppNumber   *string        `json:"whatsappNumber,omitempty" validate:"omitempty,max=32"`
	Website          *string        `json:"website,omitempty" validate:"omitempty,url"`
	LinkedInURL      *string        `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	FacebookURL      *string        `json:"facebookUrl,omitempty" validate:"omitempty,url"`
	Notes            *string        `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Source           *string        `json:"source,omitempty" validate:"omitempty,max=100"`
	Status           string         `json:"status,omitempty" validate:"omitempty,oneof=new contacted interested negotiating converted lost"`
	Priority         string         `json:"priority,omitempty" validate:"omitempty,oneof=hot warm cold"`
	AssignedTo       *uuid.UUID     `json:"assignedTo,omitempty"`
	NextFollowUpDate *jsontype.Date `json:"nextFollowUpDate,omitempty"`
	LostReason       *string        `json:"lostReason,omitempty" validate:"omitempty,max=500"`
	DealValue        *float64       `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
}

type UpdateLeadRequest struct {
	Name             *string                          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Company          jsontype.Optional[string]        `json:"company,omitempty" validate:"-"`
	Phone            jsontype.Optional[string]        `json:"phone,omitempty" validate:"-"`
	Email            jsontype.Optional[string]        `json:"email,omitempty" validate:"-"`
	InstagramHandle  jsontype.Optional[string]        `json:"instagramHandle,omitempty" validate:"-"`
	WhatsAppNumber   jsontype.Optional[string]        `json:"whatsappNumber,omitempty" validate:"-"`
	Website          jsontype.Optional[string]        `json:"website,omitempty" validate:"-"`
	LinkedInURL      jsontype.Optional[string]        `json:"linkedinUrl,omitempty" validate:"-"`
	FacebookURL      jsontype.Optional[string]        `json:"facebookUrl,omitempty" validate:"-"`
	Notes            jsontype.Optional[string]        `json:"notes,omitempty" validate:"-"`
	Source           jsontype.Optional[string]        `json:"source,omitempty" validate:"-"`
	Status           *string                          `json:"status,omitempty" validate:"omitempty,oneof=new contacted interested negotiating converted lost"`
	Priority         *string                          `json:"priority,omitempty" validate:"omitempty,oneof=hot warm cold"`
	AssignedTo       jsontype.Optional[uuid.UUID]     `json:"assignedTo,omitempty" validate:"-"`
	NextFollowUpDate jsontype.Optional[jsontype.Date] `json:"nextFollowUpDate,omitempty" validate:"-"`
	LostReason       jsontype.Optional[string]        `json:"lostReason,omitempty" validate:"-"`
	DealValue        jsontype.Optional[float64]       `json:"dealValue,omitempty" validate:"-"`

	// ContactTriggering marks quick actions such as "called just now".
	ContactTriggering bool `json:"contactTriggering,omitempty"`
}

type BulkDeleteLeadsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=500,dive,required"`
}

type CheckDuplicateRequest struct {
	Phone           string     `form:"phone" json:"phone,omitempty"`
	Email           string     `form:"email" json:"email,omitempty"`
	InstagramHandle string     `form:"instagramHandle" json:"instagramHandle,omitempty"`
	WhatsAppNumber  string     `form:"whatsappNumber" json:"whatsappNumber,omitempty"`
	ExcludeID       *uuid.UUID `form:"excludeId" json:"excludeId,omitempty"`
}

type ListLeadsRequest struct {
	Status     string     `form:"status" validate:"omitempty,oneof=new contacted interested negotiating converted lost"`
	Priority   string     `form:"priority" validate:"omitempty,oneof=hot warm cold"`
	Source     string     `form:"source" validate:"omitempty,max=100"`
	AssignedTo *uuid.UUID `form:"assignedTo"`
	Search     string     `form:"search" validate:"omitempty,max=100"`
	SortBy     string     `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt name status priority lastContactedAt nextFollowUpDate"`
	SortOrder  string     `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page       int        `form:"page" validate:"omitempty,min=1"`
	PageSize   int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Response DTOs
type LeadResponse struct {
	ID               uuid.UUID      `json:"id"`
	Name             string         `json:"name"`
	Company          *string        `json:"company,omitempty"`
	Phone            *string        `json:"phone,omitempty"`
	Email            *string        `json:"email,omitempty"`
	InstagramHandle  *string        `json:"instagramHandle,omitempty"`
	WhatsAppNumber   *string        `json:"whatsappNumber,omitempty"`
	Website          *string        `json:"website,omitempty"`
	LinkedInURL      *string        `json:"linkedinUrl,omitempty"`
	FacebookURL      *string        `json:"facebookUrl,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	Source           *string        `json:"source,omitempty"`
	Status           string         `json:"status"`
	Priority         string         `json:"priority"`
	AssignedTo       *uuid.UUID     `json:"assignedTo,omitempty"`
	AssignedAt       *time.Time     `json:"assignedAt,omitempty"`
	CreatedBy        *uuid.UUID     `json:"createdBy,omitempty"`
	LastContactedAt  *time.Time     `json:"lastContactedAt,omitempty"`
	NextFollowUpDate *jsontype.Date `json:"nextFollowUpDate,omitempty"`
	FollowUpCount    int            `json:"followUpCount"`
	ConvertedAt      *time.Time     `json:"convertedAt,omitempty"`
	LostReason       *string        `json:"lostReason,omitempty"`
	DealValue        *float64       `json:"dealValue,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type BulkDeleteLeadsResponse struct {
	DeletedCount int `json:"deletedCount"`
}

type AssigneeSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type DuplicateLeadSummary struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Status   string           `json:"status"`
	Company  *string          `json:"company,omitempty"`
	Assignee *AssigneeSummary `json:"assignee,omitempty"`
}

// DuplicateReport is the result of a duplicate check.
type DuplicateReport struct {
	IsDuplicate  bool                  `json:"isDuplicate"`
	MatchedField string                `json:"matchedField,omitempty"`
	ExistingLead *DuplicateLeadSummary `json:"existingLead,omitempty"`
	Message      string                `json:"message,omitempty"`
}

// ConflictDetails is attached to Conflict errors raised by create and update.
type ConflictDetails struct {
	MatchedField     string    `json:"matchedField"`
	ExistingLeadID   uuid.UUID `json:"existingLeadId"`
	ExistingLeadName string    `json:"existingLeadName"`
}

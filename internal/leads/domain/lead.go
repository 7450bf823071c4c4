// Package domain holds the lead entity and the pure rules that govern it:
// identifier normalization for duplicate detection and the status
// transition side effects. Nothing here touches storage.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is a lead's position in the acquisition funnel.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusInterested  Status = "interested"
	StatusNegotiating Status = "negotiating"
	StatusConverted   Status = "converted"
	StatusLost        Status = "lost"
)

// FunnelStatuses is the fixed stage order used by funnel reports.
var FunnelStatuses = []Status{
	StatusNew,
	StatusContacted,
	StatusInterested,
	StatusNegotiating,
	StatusConverted,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusInterested, StatusNegotiating, StatusConverted, StatusLost:
		return true
	}
	return false
}

// IsTerminal reports whether s ends the lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusConverted || s == StatusLost
}

// Priority ranks how warm a lead is.
type Priority string

const (
	PriorityHot  Priority = "hot"
	PriorityWarm Priority = "warm"
	PriorityCold Priority = "cold"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityHot || p == PriorityWarm || p == PriorityCold
}

var (
	ErrNameRequired       = errors.New("lead name is required")
	ErrInvalidStatus      = errors.New("invalid lead status")
	ErrInvalidPriority    = errors.New("invalid lead priority")
	ErrLostReasonRequired = errors.New("lost reason is required when marking a lead as lost")
)

// Lead is a prospective customer contact.
type Lead struct {
	ID               uuid.UUID
	Name             string
	Company          *string
	Phone            *string
	Email            *string
	InstagramHandle  *string
	WhatsAppNumber   *string
	Website          *string
	LinkedInURL      *string
	FacebookURL      *string
	Notes            *string
	Source           *string
	Status           Status
	Priority         Priority
	AssignedTo       *uuid.UUID
	AssignedAt       *time.Time
	CreatedBy        *uuid.UUID
	LastContactedAt  *time.Time
	NextFollowUpDate *time.Time
	FollowUpCount    int
	ConvertedAt      *time.Time
	LostReason       *string
	DealValue        *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Identifiers returns the lead's contact identifiers.
func (l Lead) Identifiers() Identifiers {
	return Identifiers{
		Phone:           l.Phone,
		Email:           l.Email,
		InstagramHandle: l.InstagramHandle,
		WhatsAppNumber:  l.WhatsAppNumber,
	}
}

// Assignee is the display summary of the user a lead is assigned to.
type Assignee struct {
	ID   uuid.UUID
	Name string
}

// Summary is the conflicting lead reported by duplicate detection.
type Summary struct {
	ID       uuid.UUID
	Name     string
	Status   Status
	Company  *string
	Assignee *Assignee
	Identifiers
}

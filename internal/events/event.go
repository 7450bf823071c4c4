// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEventAt = events.NewBaseEventAt
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	Name       string     `json:"name"`
	Source     string     `json:"source,omitempty"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	CreatedBy  uuid.UUID  `json:"createdBy"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadAssigned is published when a lead gets a new assignee.
type LeadAssigned struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	LeadName   string    `json:"leadName"`
	AssigneeID uuid.UUID `json:"assigneeId"`
	AssignedBy uuid.UUID `json:"assignedBy"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadStatusChanged is published whenever a lead's status changes,
// including changes driven by a deal stage.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedBy uuid.UUID `json:"changedBy"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// =============================================================================
// Deals Domain Events
// =============================================================================

// DealStageChanged is published after a deal's stage is stored.
type DealStageChanged struct {
	BaseEvent
	DealID     uuid.UUID  `json:"dealId"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	OwnerID    *uuid.UUID `json:"ownerId,omitempty"`
	Title      string     `json:"title"`
	OldStage   string     `json:"oldStage"`
	NewStage   string     `json:"newStage"`
	DealValue  float64    `json:"dealValue"`
	Currency   string     `json:"currency"`
	LostReason *string    `json:"lostReason,omitempty"`
	ChangedBy  uuid.UUID  `json:"changedBy"`
}

func (e DealStageChanged) EventName() string { return "deals.deal.stage_changed" }

// =============================================================================
// Tasks Domain Events
// =============================================================================

// TaskScheduled is published when a task is created or its due date moves.
type TaskScheduled struct {
	BaseEvent
	TaskID     uuid.UUID  `json:"taskId"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	Title      string     `json:"title"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty"`
	DueDate    time.Time  `json:"dueDate"`
	DueTime    *string    `json:"dueTime,omitempty"`
	Created    bool       `json:"created"`
}

func (e TaskScheduled) EventName() string { return "tasks.task.scheduled" }

// =============================================================================
// Interactions Domain Events
// =============================================================================

// InteractionRecorded is published after an interaction is stored.
type InteractionRecorded struct {
	BaseEvent
	InteractionID uuid.UUID `json:"interactionId"`
	LeadID        uuid.UUID `json:"leadId"`
	UserID        uuid.UUID `json:"userId"`
	Type          string    `json:"type"`
}

func (e InteractionRecorded) EventName() string { return "interactions.interaction.recorded" }

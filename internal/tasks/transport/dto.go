package transport

import (
	"time"

	"leadflow_backend/platform/jsontype"

	"github.com/google/uuid"
)

// Request DTOs
type CreateTaskRequest struct {
	LeadID      *uuid.UUID    `json:"leadId,omitempty"`
	Type        string        `json:"type" validate:"required,oneof=follow_up_call follow_up_message meeting demo send_proposal send_contract other"`
	Title       string        `json:"title" validate:"required,min=1,max=200"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	DueDate     jsontype.Date `json:"dueDate"`
	DueTime     *string       `json:"dueTime,omitempty" validate:"omitempty,hhmm"`
	Priority    string        `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  *uuid.UUID    `json:"assignedTo,omitempty"`
}

type UpdateTaskRequest struct {
	LeadID      jsontype.Optional[uuid.UUID] `json:"leadId,omitempty" validate:"-"`
	Type        *string                      `json:"type,omitempty" validate:"omitempty,oneof=follow_up_call follow_up_message meeting demo send_proposal send_contract other"`
	Title       *string                      `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description jsontype.Optional[string]    `json:"description,omitempty" validate:"-"`
	DueDate     *jsontype.Date               `json:"dueDate,omitempty"`
	DueTime     jsontype.Optional[string]    `json:"dueTime,omitempty" validate:"-"`
	Priority    *string                      `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  jsontype.Optional[uuid.UUID] `json:"assignedTo,omitempty" validate:"-"`
}

type ListTasksRequest struct {
	View       string     `form:"view" validate:"omitempty,oneof=today overdue upcoming all"`
	LeadID     *uuid.UUID `form:"leadId"`
	AssignedTo *uuid.UUID `form:"assignedTo"`
	Type       string     `form:"type" validate:"omitempty,oneof=follow_up_call follow_up_message meeting demo send_proposal send_contract other"`
}

// Response DTOs
type TaskResponse struct {
	ID          uuid.UUID     `json:"id"`
	LeadID      *uuid.UUID    `json:"leadId,omitempty"`
	Type        string        `json:"type"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	DueDate     jsontype.Date `json:"dueDate"`
	DueTime     *string       `json:"dueTime,omitempty"`
	Priority    string        `json:"priority"`
	Status      string        `json:"status"`
	Bucket      string        `json:"bucket,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	AssignedTo  *uuid.UUID    `json:"assignedTo,omitempty"`
	CreatedBy   *uuid.UUID    `json:"createdBy,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type TaskListResponse struct {
	View  string         `json:"view"`
	Items []TaskResponse `json:"items"`
}

// TaskSummaryResponse counts pending tasks per time bucket.
type TaskSummaryResponse struct {
	Overdue  int `json:"overdue"`
	DueToday int `json:"dueToday"`
	Upcoming int `json:"upcoming"`
}

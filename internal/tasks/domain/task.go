// Package domain holds the task entity and the pure classification of
// pending tasks into overdue, due-today and upcoming buckets.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeFollowUpCall    Type = "follow_up_call"
	TypeFollowUpMessage Type = "follow_up_message"
	TypeMeeting         Type = "meeting"
	TypeDemo            Type = "demo"
	TypeSendProposal    Type = "send_proposal"
	TypeSendContract    Type = "send_contract"
	TypeOther           Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeFollowUpCall, TypeFollowUpMessage, TypeMeeting, TypeDemo, TypeSendProposal, TypeSendContract, TypeOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank orders priorities; higher is more pressing. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var (
	ErrTitleRequired   = errors.New("task title is required")
	ErrInvalidType     = errors.New("invalid task type")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidDueTime  = errors.New("due time must be HH:MM")
	ErrDueDateRequired = errors.New("due date is required")
)

// Task is a scheduled follow-up action. CompletedAt is set exactly when
// Status is completed.
type Task struct {
	ID          uuid.UUID
	LeadID      *uuid.UUID
	Type        Type
	Title       string
	Description *string
	DueDate     time.Time
	DueTime     *string
	Priority    Priority
	Status      Status
	CompletedAt *time.Time
	AssignedTo  *uuid.UUID
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields are the caller-supplied values for a new task.
type Fields struct {
	LeadID      *uuid.UUID
	Type        Type
	Title       string
	Description *string
	DueDate     time.Time
	DueTime     *string
	Priority    Priority
	AssignedTo  *uuid.UUID
}

// NewTask builds a pending task. Priority defaults to medium.
func NewTask(f Fields, createdBy uuid.UUID, now time.Time) (Task, error) {
	task := Task{
		ID:          uuid.New(),
		LeadID:      f.LeadID,
		Type:        f.Type,
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		DueDate:     f.DueDate,
		DueTime:     f.DueTime,
		Priority:    f.Priority,
		Status:      StatusPending,
		AssignedTo:  f.AssignedTo,
		CreatedBy:   &createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if task.AssignedTo == nil {
		task.AssignedTo = &createdBy
	}
	return task, validate(task)
}

func validate(t Task) error {
	if t.Title == "" {
		return ErrTitleRequired
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Priority.Rank() == 0 {
		return ErrInvalidPriority
	}
	if t.DueDate.IsZero() {
		return ErrDueDateRequired
	}
	if t.DueTime != nil && !ValidDueTime(*t.DueTime) {
		return ErrInvalidDueTime
	}
	return nil
}

// ValidDueTime reports whether s is a 24-hour HH:MM time.
func ValidDueTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

// Complete marks t completed at now. Completing a completed task keeps
// the first completion time.
func Complete(t Task, now time.Time) (Task, bool) {
	if t.Status == StatusCompleted {
		return t, false
	}
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	return t, true
}

// Reopen moves t back to pending and clears its completion time.
func Reopen(t Task, now time.Time) (Task, bool) {
	if t.Status == StatusPending {
		return t, false
	}
	t.Status = StatusPending
	t.CompletedAt = nil
	t.UpdatedAt = now
	return t, true
}

// Patch lists the editable fields of a task.
type Patch struct {
	Type          *Type
	Title         *string
	Description   *string
	ClearDesc     bool
	DueDate       *time.Time
	DueTime       *string
	ClearDueTime  bool
	Priority      *Priority
	AssignedTo    *uuid.UUID
	ClearAssignee bool
	LeadID        *uuid.UUID
	ClearLead     bool
}

// ApplyPatch edits t. rescheduled reports a change of due date or time on
// a pending task.
func ApplyPatch(t Task, p Patch, now time.Time) (updated Task, rescheduled bool, err error) {
	updated = t
	if p.Type != nil {
		updated.Type = *p.Type
	}
	if p.Title != nil {
		updated.Title = strings.TrimSpace(*p.Title)
	}
	if p.ClearDesc {
		updated.Description = nil
	} else if p.Description != nil {
		updated.Description = p.Description
	}
	if p.DueDate != nil {
		updated.DueDate = *p.DueDate
	}
	if p.ClearDueTime {
		updated.DueTime = nil
	} else if p.DueTime != nil {
		updated.DueTime = p.DueTime
	}
	if p.Priority != nil {
		updated.Priority = *p.Priority
	}
	if p.ClearAssignee {
		updated.AssignedTo = nil
	} else if p.AssignedTo != nil {
		updated.AssignedTo = p.AssignedTo
	}
	if p.ClearLead {
		updated.LeadID = nil
	} else if p.LeadID != nil {
		updated.LeadID = p.LeadID
	}
	if err := validate(updated); err != nil {
		return Task{}, false, err
	}

	updated.UpdatedAt = now
	rescheduled = updated.Status == StatusPending &&
		(!updated.DueDate.Equal(t.DueDate) || deref(updated.DueTime) != deref(t.DueTime))
	return updated, rescheduled, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

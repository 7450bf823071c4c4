package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadAssignedEmail = "notification.lead_assigned"

const TaskDealClosedEmail = "notification.deal_closed"

const TaskDueReminder = "tasks.due_reminder"

type LeadAssignedPayload struct {
	LeadID     string `json:"leadId"`
	LeadName   string `json:"leadName"`
	AssigneeID string `json:"assigneeId"`
	AssignedAt int64  `json:"assignedAt"`
}

type DealClosedPayload struct {
	DealID     string  `json:"dealId"`
	OwnerID    string  `json:"ownerId"`
	Title      string  `json:"title"`
	Stage      string  `json:"stage"`
	DealValue  float64 `json:"dealValue"`
	Currency   string  `json:"currency"`
	LostReason string  `json:"lostReason,omitempty"`
}

// DueReminderPayload pins the schedule the reminder was created for; a
// task that has moved since is not reminded by it.
type DueReminderPayload struct {
	TaskID  string `json:"taskId"`
	DueDate string `json:"dueDate"`
	DueTime string `json:"dueTime,omitempty"`
}

func NewLeadAssignedTask(payload LeadAssignedPayload) (*asynq.Task, error) {
	return newTask(TaskLeadAssignedEmail, payload)
}

func ParseLeadAssignedPayload(task *asynq.Task) (LeadAssignedPayload, error) {
	var payload LeadAssignedPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

func NewDealClosedTask(payload DealClosedPayload) (*asynq.Task, error) {
	return newTask(TaskDealClosedEmail, payload)
}

func ParseDealClosedPayload(task *asynq.Task) (DealClosedPayload, error) {
	var payload DealClosedPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

func NewDueReminderTask(payload DueReminderPayload) (*asynq.Task, error) {
	return newTask(TaskDueReminder, payload)
}

func ParseDueReminderPayload(task *asynq.Task) (DueReminderPayload, error) {
	var payload DueReminderPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}

func newTask(typename string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, data), nil
}

// Dedupe keys identify one logical notification across retries and
// re-published events.

func (p LeadAssignedPayload) DedupeKey() string {
	return "lead_assigned:" + p.LeadID + ":" + p.AssigneeID + ":" + formatInt(p.AssignedAt)
}

func (p DealClosedPayload) DedupeKey() string {
	return "deal_closed:" + p.DealID + ":" + p.Stage
}

func (p DueReminderPayload) DedupeKey() string {
	return "due_reminder:" + p.TaskID + ":" + p.DueDate + ":" + p.DueTime
}

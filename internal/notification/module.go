// Package notification subscribes to domain events and hands the resulting
// e-mails and reminders to the scheduler queue. Domain modules never talk to
// the queue or to e-mail themselves.
package notification

import (
	"context"
	"fmt"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/scheduler"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"
)

const (
	stageWon  = "won"
	stageLost = "lost"
)

type Module struct {
	scheduler    scheduler.NotificationScheduler
	clock        clock.Clock
	location     *time.Location
	reminderHour int
	log          *logger.Logger
}

func New(sched scheduler.NotificationScheduler, clk clock.Clock, cfg config.NotificationConfig, location *time.Location, log *logger.Logger) *Module {
	if location == nil {
		location = time.UTC
	}
	return &Module{
		scheduler:    sched,
		clock:        clk,
		location:     location,
		reminderHour: cfg.GetTaskReminderHour(),
		log:          log,
	}
}

// RegisterHandlers subscribes the module to the events it notifies on.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.handleLeadAssigned))
	bus.Subscribe(events.DealStageChanged{}.EventName(), events.HandlerFunc(m.handleDealStageChanged))
	bus.Subscribe(events.TaskScheduled{}.EventName(), events.HandlerFunc(m.handleTaskScheduled))
	m.log.Info("notification handlers registered")
}

func (m *Module) handleLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.AssigneeID == e.AssignedBy {
		return nil
	}

	err := m.scheduler.EnqueueLeadAssigned(ctx, scheduler.LeadAssignedPayload{
		LeadID:     e.LeadID.String(),
		LeadName:   e.LeadName,
		AssigneeID: e.AssigneeID.String(),
		AssignedAt: e.OccurredAt().Unix(),
	})
	if err != nil {
		m.log.Error("failed to enqueue lead assignment e-mail", "lead_id", e.LeadID, "error", err)
	}
	return err
}

func (m *Module) handleDealStageChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.DealStageChanged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.NewStage != stageWon && e.NewStage != stageLost {
		return nil
	}
	if e.OwnerID == nil {
		return nil
	}

	payload := scheduler.DealClosedPayload{
		DealID:    e.DealID.String(),
		OwnerID:   e.OwnerID.String(),
		Title:     e.Title,
		Stage:     e.NewStage,
		DealValue: e.DealValue,
		Currency:  e.Currency,
	}
	if e.LostReason != nil {
		payload.LostReason = *e.LostReason
	}
	if err := m.scheduler.EnqueueDealClosed(ctx, payload); err != nil {
		m.log.Error("failed to enqueue deal closed e-mail", "deal_id", e.DealID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleTaskScheduled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.TaskScheduled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.AssigneeID == nil {
		return nil
	}

	now := m.clock.Now()
	if e.DueDate.Before(clock.Today(now, m.location)) {
		return nil
	}
	runAt := ReminderAt(e.DueDate, e.DueTime, m.reminderHour, m.location)
	if runAt.Before(now) {
		runAt = now
	}

	payload := scheduler.DueReminderPayload{
		TaskID:  e.TaskID.String(),
		DueDate: e.DueDate.Format(time.DateOnly),
	}
	if e.DueTime != nil {
		payload.DueTime = *e.DueTime
	}
	if err := m.scheduler.ScheduleDueReminder(ctx, payload, runAt); err != nil {
		m.log.Error("failed to schedule task reminder", "task_id", e.TaskID, "error", err)
		return err
	}
	return nil
}

// ReminderAt is the instant a task due on dueDate is reminded: its due time
// when set, otherwise hour:00, both in loc.
func ReminderAt(dueDate time.Time, dueTime *string, hour int, loc *time.Location) time.Time {
	h, minute := hour, 0
	if dueTime != nil {
		if parsed, err := time.Parse("15:04", *dueTime); err == nil {
			h, minute = parsed.Hour(), parsed.Minute()
		}
	}
	return time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), h, minute, 0, 0, loc)
}

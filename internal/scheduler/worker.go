package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow_backend/internal/email"
	leadsdomain "leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/notification/dedupe"
	tasksdomain "leadflow_backend/internal/tasks/domain"
	tasksrepo "leadflow_backend/internal/tasks/repository"
	usersrepo "leadflow_backend/internal/users/repository"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (usersrepo.User, error)
}

type TaskReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (tasksdomain.Task, error)
}

type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadsdomain.Lead, error)
}

// Deps are the collaborators a Dispatcher delivers notifications with.
type Deps struct {
	Users      UserReader
	Tasks      TaskReader
	Leads      LeadReader
	Sender     email.Sender
	Deduper    dedupe.Deduper
	AppBaseURL string
	Log        *logger.Logger
}

// Dispatcher turns queued tasks into e-mails.
type Dispatcher struct {
	deps Deps
}

func NewDispatcher(deps Deps) *Dispatcher {
	if deps.Sender == nil {
		deps.Sender = email.NoopSender{}
	}
	if deps.Deduper == nil {
		deps.Deduper = dedupe.Noop{}
	}
	deps.AppBaseURL = strings.TrimRight(deps.AppBaseURL, "/")
	return &Dispatcher{deps: deps}
}

// Register mounts the dispatcher's handlers on mux.
func (d *Dispatcher) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskLeadAssignedEmail, d.HandleLeadAssigned)
	mux.HandleFunc(TaskDealClosedEmail, d.HandleDealClosed)
	mux.HandleFunc(TaskDueReminder, d.HandleDueReminder)
}

func (d *Dispatcher) HandleLeadAssigned(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadAssignedPayload(task)
	if err != nil {
		return fmt.Errorf("parse lead assigned payload: %v: %w", err, asynq.SkipRetry)
	}
	recipient, ok, err := d.recipient(ctx, payload.AssigneeID)
	if err != nil || !ok {
		return err
	}

	url := d.deps.AppBaseURL + "/leads/" + payload.LeadID
	return d.deliver(ctx, payload.DedupeKey(), func() error {
		return d.deps.Sender.SendLeadAssignedEmail(ctx, recipient.Email, recipient.FullName, payload.LeadName, url)
	})
}

func (d *Dispatcher) HandleDealClosed(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDealClosedPayload(task)
	if err != nil {
		return fmt.Errorf("parse deal closed payload: %v: %w", err, asynq.SkipRetry)
	}
	recipient, ok, err := d.recipient(ctx, payload.OwnerID)
	if err != nil || !ok {
		return err
	}

	summary := email.DealSummary{
		Title:      payload.Title,
		Stage:      payload.Stage,
		DealValue:  payload.DealValue,
		Currency:   payload.Currency,
		LostReason: payload.LostReason,
		URL:        d.deps.AppBaseURL + "/deals/" + payload.DealID,
	}
	return d.deliver(ctx, payload.DedupeKey(), func() error {
		return d.deps.Sender.SendDealClosedEmail(ctx, recipient.Email, summary)
	})
}

// HandleDueReminder reminds the current assignee of a pending task whose
// schedule still matches the payload.
func (d *Dispatcher) HandleDueReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDueReminderPayload(task)
	if err != nil {
		return fmt.Errorf("parse due reminder payload: %v: %w", err, asynq.SkipRetry)
	}
	taskID, err := uuid.Parse(payload.TaskID)
	if err != nil {
		return fmt.Errorf("parse task id: %v: %w", err, asynq.SkipRetry)
	}

	current, err := d.deps.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, tasksrepo.ErrNotFound) {
			return nil
		}
		return err
	}
	if !reminderApplies(current, payload) || current.AssignedTo == nil {
		d.deps.Log.Debug("stale task reminder skipped", "task_id", payload.TaskID)
		return nil
	}

	recipient, ok, err := d.recipient(ctx, current.AssignedTo.String())
	if err != nil || !ok {
		return err
	}

	summary := email.TaskSummary{
		Title:    current.Title,
		DueDate:  payload.DueDate,
		DueTime:  payload.DueTime,
		Priority: string(current.Priority),
		URL:      d.deps.AppBaseURL + "/tasks",
	}
	if current.LeadID != nil && d.deps.Leads != nil {
		if lead, err := d.deps.Leads.GetByID(ctx, *current.LeadID); err == nil {
			summary.LeadName = lead.Name
		}
	}
	return d.deliver(ctx, payload.DedupeKey(), func() error {
		return d.deps.Sender.SendTaskReminderEmail(ctx, recipient.Email, summary)
	})
}

func reminderApplies(task tasksdomain.Task, payload DueReminderPayload) bool {
	if task.Status != tasksdomain.StatusPending {
		return false
	}
	if task.DueDate.Format(time.DateOnly) != payload.DueDate {
		return false
	}
	dueTime := ""
	if task.DueTime != nil {
		dueTime = *task.DueTime
	}
	return dueTime == payload.DueTime
}

// recipient resolves an active user. ok is false when there is nobody to
// notify.
func (d *Dispatcher) recipient(ctx context.Context, rawID string) (usersrepo.User, bool, error) {
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return usersrepo.User{}, false, fmt.Errorf("parse user id: %v: %w", err, asynq.SkipRetry)
	}
	user, err := d.deps.Users.GetByID(ctx, userID)
	if errors.Is(err, usersrepo.ErrNotFound) {
		return usersrepo.User{}, false, nil
	}
	if err != nil {
		return usersrepo.User{}, false, err
	}
	if !user.IsActive || user.Email == "" {
		return usersrepo.User{}, false, nil
	}
	return user, true, nil
}

func (d *Dispatcher) deliver(ctx context.Context, key string, send func() error) error {
	claimed, err := d.deps.Deduper.Claim(ctx, key)
	if err != nil {
		return fmt.Errorf("claim notification %s: %w", key, err)
	}
	if !claimed {
		d.deps.Log.Info("duplicate notification skipped", "key", key)
		return nil
	}

	if err := send(); err != nil {
		if releaseErr := d.deps.Deduper.Release(ctx, key); releaseErr != nil {
			d.deps.Log.Warn("failed to release notification claim", "key", key, "error", releaseErr)
		}
		d.deps.Log.Error("notification delivery failed", "key", key, "error", err)
		return err
	}
	return nil
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, dispatcher *Dispatcher, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	dispatcher.Register(mux)

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start scheduler worker: %w", err)
	}
	w.log.Info("scheduler worker started")

	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info("scheduler worker stopped")
	return nil
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadflow_backend/internal/email"
	leadsdomain "leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/notification/dedupe"
	tasksdomain "leadflow_backend/internal/tasks/domain"
	tasksrepo "leadflow_backend/internal/tasks/repository"
	usersrepo "leadflow_backend/internal/users/repository"
	"leadflow_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeUsers map[uuid.UUID]usersrepo.User

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (usersrepo.User, error) {
	user, ok := f[id]
	if !ok {
		return usersrepo.User{}, usersrepo.ErrNotFound
	}
	return user, nil
}

type fakeTasks map[uuid.UUID]tasksdomain.Task

func (f fakeTasks) GetByID(_ context.Context, id uuid.UUID) (tasksdomain.Task, error) {
	task, ok := f[id]
	if !ok {
		return tasksdomain.Task{}, tasksrepo.ErrNotFound
	}
	return task, nil
}

type fakeLeads map[uuid.UUID]leadsdomain.Lead

func (f fakeLeads) GetByID(_ context.Context, id uuid.UUID) (leadsdomain.Lead, error) {
	lead, ok := f[id]
	if !ok {
		return leadsdomain.Lead{}, errors.New("lead not found")
	}
	return lead, nil
}

type sentMail struct {
	to   string
	kind string
	deal email.DealSummary
	task email.TaskSummary
	lead string
}

type recordingSender struct {
	sent []sentMail
	err  error
}

func (s *recordingSender) SendLeadAssignedEmail(_ context.Context, toEmail, _ string, leadName, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: toEmail, kind: "lead_assigned", lead: leadName})
	return nil
}

func (s *recordingSender) SendDealClosedEmail(_ context.Context, toEmail string, deal email.DealSummary) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: toEmail, kind: "deal_closed", deal: deal})
	return nil
}

func (s *recordingSender) SendTaskReminderEmail(_ context.Context, toEmail string, task email.TaskSummary) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: toEmail, kind: "task_reminder", task: task})
	return nil
}

type fixture struct {
	dispatcher *Dispatcher
	sender     *recordingSender
	users      fakeUsers
	tasks      fakeTasks
	userID     uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	userID := uuid.New()
	users := fakeUsers{userID: {ID: userID, Email: "rep@example.com", FullName: "Asha", IsActive: true}}
	tasks := fakeTasks{}
	sender := &recordingSender{}
	d := NewDispatcher(Deps{
		Users:      users,
		Tasks:      tasks,
		Leads:      fakeLeads{},
		Sender:     sender,
		Deduper:    dedupe.NewRedisDeduper(client, time.Hour),
		AppBaseURL: "https://app.example.com/",
		Log:        logger.Discard(),
	})
	return fixture{dispatcher: d, sender: sender, users: users, tasks: tasks, userID: userID}
}

func TestDealClosedSentOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dealID := uuid.New()
	task, err := NewDealClosedTask(DealClosedPayload{
		DealID: dealID.String(), OwnerID: f.userID.String(), Title: "Website", Stage: "won", DealValue: 1000, Currency: "INR",
	})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := f.dispatcher.HandleDealClosed(ctx, task); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("expected one e-mail, got %d", len(f.sender.sent))
	}
	if got := f.sender.sent[0].deal.URL; got != "https://app.example.com/deals/"+dealID.String() {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestFailedDeliveryCanBeRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, _ := NewLeadAssignedTask(LeadAssignedPayload{
		LeadID: uuid.NewString(), LeadName: "Acme", AssigneeID: f.userID.String(), AssignedAt: 1718000000,
	})

	f.sender.err = errors.New("smtp down")
	if err := f.dispatcher.HandleLeadAssigned(ctx, task); err == nil {
		t.Fatalf("expected delivery error")
	}

	f.sender.err = nil
	if err := f.dispatcher.HandleLeadAssigned(ctx, task); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(f.sender.sent) != 1 || f.sender.sent[0].lead != "Acme" {
		t.Fatalf("expected retry to deliver, got %+v", f.sender.sent)
	}
}

func TestInactiveOrUnknownRecipientIsSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.users[f.userID]
	user.IsActive = false
	f.users[f.userID] = user

	for _, assignee := range []string{f.userID.String(), uuid.NewString()} {
		task, _ := NewLeadAssignedTask(LeadAssignedPayload{LeadID: uuid.NewString(), AssigneeID: assignee})
		if err := f.dispatcher.HandleLeadAssigned(ctx, task); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("expected nothing sent, got %d", len(f.sender.sent))
	}
}

func TestDueReminderSkipsStaleSchedules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	taskID := uuid.New()
	nineThirty := "09:30"
	f.tasks[taskID] = tasksdomain.Task{
		ID:         taskID,
		Title:      "Call back",
		DueDate:    time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
		DueTime:    &nineThirty,
		Priority:   tasksdomain.PriorityHigh,
		Status:     tasksdomain.StatusPending,
		AssignedTo: &f.userID,
	}

	stale, _ := NewDueReminderTask(DueReminderPayload{TaskID: taskID.String(), DueDate: "2024-06-10"})
	if err := f.dispatcher.HandleDueReminder(ctx, stale); err != nil {
		t.Fatalf("stale: %v", err)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("expected stale reminder to be skipped")
	}

	current, _ := NewDueReminderTask(DueReminderPayload{TaskID: taskID.String(), DueDate: "2024-06-11", DueTime: "09:30"})
	if err := f.dispatcher.HandleDueReminder(ctx, current); err != nil {
		t.Fatalf("current: %v", err)
	}
	if len(f.sender.sent) != 1 || f.sender.sent[0].task.DueTime != "09:30" {
		t.Fatalf("expected reminder, got %+v", f.sender.sent)
	}

	done := f.tasks[taskID]
	done.Status = tasksdomain.StatusCompleted
	f.tasks[taskID] = done
	again, _ := NewDueReminderTask(DueReminderPayload{TaskID: taskID.String(), DueDate: "2024-06-11", DueTime: "09:30"})
	if err := f.dispatcher.HandleDueReminder(ctx, again); err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(f.sender.sent) != 1 {
		t.Fatalf("expected no reminder for completed task")
	}
}

func TestDueReminderForDeletedTask(t *testing.T) {
	f := newFixture(t)
	task, _ := NewDueReminderTask(DueReminderPayload{TaskID: uuid.NewString(), DueDate: "2024-06-10"})
	if err := f.dispatcher.HandleDueReminder(context.Background(), task); err != nil {
		t.Fatalf("expected deleted task to be ignored, got %v", err)
	}
}

// Package service implements task scheduling operations.
package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/tasks/domain"
	"leadflow_backend/internal/tasks/repository"
	"leadflow_backend/internal/tasks/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/jsontype"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	// completedLimit caps the completed history appended to the all view.
	completedLimit = 500

	msgTaskNotFound = "task not found"
)

// LeadChecker confirms that a linked lead exists.
type LeadChecker interface {
	LeadExists(ctx context.Context, leadID uuid.UUID) (bool, error)
}

type Service struct {
	repo     repository.TaskRepository
	leads    LeadChecker
	eventBus events.Bus
	clock    clock.Clock
	location *time.Location
	log      *logger.Logger
}

func New(repo repository.TaskRepository, leads LeadChecker, eventBus events.Bus, clk clock.Clock, location *time.Location, log *logger.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{repo: repo, leads: leads, eventBus: eventBus, clock: clk, location: location, log: log}
}

func (s *Service) today() time.Time {
	return clock.Today(s.clock.Now(), s.location)
}

func (s *Service) CreateTask(ctx context.Context, id identity.Identity, req transport.CreateTaskRequest) (transport.TaskResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.TaskResponse{}, err
	}
	if err := s.checkLead(ctx, req.LeadID); err != nil {
		return transport.TaskResponse{}, err
	}

	task, err := domain.NewTask(domain.Fields{
		LeadID:      req.LeadID,
		Type:        domain.Type(req.Type),
		Title:       sanitize.Text(req.Title),
		Description: sanitize.OptionalText(req.Description),
		DueDate:     clock.AsDate(req.DueDate.Time),
		DueTime:     req.DueTime,
		Priority:    domain.Priority(req.Priority),
		AssignedTo:  req.AssignedTo,
	}, id.UserID(), s.clock.Now())
	if err != nil {
		return transport.TaskResponse{}, apperr.Validation(err.Error())
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	s.publishScheduled(ctx, created, true)
	return s.toResponse(created), nil
}

func (s *Service) UpdateTask(ctx context.Context, id identity.Identity, taskID uuid.UUID, req transport.UpdateTaskRequest) (transport.TaskResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.TaskResponse{}, err
	}
	current, err := s.get(ctx, taskID)
	if err != nil {
		return transport.TaskResponse{}, err
	}

	patch := domain.Patch{
		Title:         sanitizedPtr(req.Title),
		ClearLead:     req.LeadID.Set && req.LeadID.Value == nil,
		LeadID:        req.LeadID.Value,
		ClearDesc:     req.Description.Set && req.Description.Value == nil,
		Description:   sanitize.OptionalText(req.Description.Value),
		ClearDueTime:  req.DueTime.Set && req.DueTime.Value == nil,
		DueTime:       req.DueTime.Value,
		ClearAssignee: req.AssignedTo.Set && req.AssignedTo.Value == nil,
		AssignedTo:    req.AssignedTo.Value,
	}
	if req.Type != nil {
		taskType := domain.Type(*req.Type)
		patch.Type = &taskType
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		patch.Priority = &priority
	}
	if req.DueDate != nil {
		due := clock.AsDate(req.DueDate.Time)
		patch.DueDate = &due
	}
	if patch.LeadID != nil {
		if err := s.checkLead(ctx, patch.LeadID); err != nil {
			return transport.TaskResponse{}, err
		}
	}

	next, rescheduled, err := domain.ApplyPatch(current, patch, s.clock.Now())
	if err != nil {
		return transport.TaskResponse{}, apperr.Validation(err.Error())
	}
	updated, err := s.save(ctx, next)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	if rescheduled {
		s.publishScheduled(ctx, updated, false)
	}
	return s.toResponse(updated), nil
}

// CompleteTask marks a task completed. Completing it twice is a no-op.
func (s *Service) CompleteTask(ctx context.Context, id identity.Identity, taskID uuid.UUID) (transport.TaskResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.TaskResponse{}, err
	}
	current, err := s.get(ctx, taskID)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	next, changed := domain.Complete(current, s.clock.Now())
	if !changed {
		return s.toResponse(current), nil
	}
	updated, err := s.save(ctx, next)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	return s.toResponse(updated), nil
}

// ReopenTask moves a completed task back to pending and clears its
// completion time.
func (s *Service) ReopenTask(ctx context.Context, id identity.Identity, taskID uuid.UUID) (transport.TaskResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.TaskResponse{}, err
	}
	current, err := s.get(ctx, taskID)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	next, changed := domain.Reopen(current, s.clock.Now())
	if !changed {
		return s.toResponse(current), nil
	}
	updated, err := s.save(ctx, next)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	s.publishScheduled(ctx, updated, false)
	return s.toResponse(updated), nil
}

func (s *Service) DeleteTask(ctx context.Context, id identity.Identity, taskID uuid.UUID) error {
	if err := identity.Require(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgTaskNotFound)
		}
		return err
	}
	return nil
}

func (s *Service) GetTask(ctx context.Context, id identity.Identity, taskID uuid.UUID) (transport.TaskResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.TaskResponse{}, err
	}
	task, err := s.get(ctx, taskID)
	if err != nil {
		return transport.TaskResponse{}, err
	}
	return s.toResponse(task), nil
}

// ListTasks returns the tasks of view in schedule order.
func (s *Service) ListTasks(ctx context.Context, id identity.Identity, req transport.ListTasksRequest) (transport.TaskListResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.TaskListResponse{}, err
	}

	view := domain.View(req.View)
	if view == "" {
		view = domain.ViewAll
	}
	if !view.Valid() {
		return transport.TaskListResponse{}, apperr.Validation("invalid task view")
	}

	today := s.today()
	params := viewParams(view, today)
	params.LeadID = req.LeadID
	params.AssignedTo = req.AssignedTo
	if req.Type != "" {
		params.Type = &req.Type
	}

	tasks, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.TaskListResponse{}, err
	}
	if view == domain.ViewAll {
		completedParams := params
		completedParams.PendingOnly = false
		completedParams.CompletedOnly = true
		completedParams.Limit = completedLimit
		completed, err := s.repo.List(ctx, completedParams)
		if err != nil {
			return transport.TaskListResponse{}, err
		}
		tasks = append(tasks, completed...)
	}

	ordered := domain.ForView(tasks, view, today)
	items := make([]transport.TaskResponse, 0, len(ordered))
	for _, task := range ordered {
		items = append(items, s.toResponseAt(task, today))
	}
	return transport.TaskListResponse{View: string(view), Items: items}, nil
}

// Summary counts the caller's pending tasks per bucket.
func (s *Service) Summary(ctx context.Context, id identity.Identity) (transport.TaskSummaryResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.TaskSummaryResponse{}, err
	}
	counts, err := s.repo.CountPending(ctx, id.UserID(), s.today())
	if err != nil {
		return transport.TaskSummaryResponse{}, err
	}
	return transport.TaskSummaryResponse{
		Overdue:  counts.Overdue,
		DueToday: counts.DueToday,
		Upcoming: counts.Upcoming,
	}, nil
}

func viewParams(view domain.View, today time.Time) repository.ListParams {
	tomorrow := today.AddDate(0, 0, 1)
	params := repository.ListParams{PendingOnly: true}
	switch view {
	case domain.ViewOverdue:
		params.DueBefore = &today
	case domain.ViewToday:
		params.DueFrom = &today
		params.DueBefore = &tomorrow
	case domain.ViewUpcoming:
		params.DueFrom = &tomorrow
	}
	return params
}

func (s *Service) get(ctx context.Context, taskID uuid.UUID) (domain.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Task{}, apperr.NotFound(msgTaskNotFound)
	}
	return task, err
}

func (s *Service) save(ctx context.Context, task domain.Task) (domain.Task, error) {
	updated, err := s.repo.Update(ctx, task)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Task{}, apperr.NotFound(msgTaskNotFound)
	}
	return updated, err
}

func (s *Service) checkLead(ctx context.Context, leadID *uuid.UUID) error {
	if leadID == nil {
		return nil
	}
	exists, err := s.leads.LeadExists(ctx, *leadID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Validation("linked lead does not exist")
	}
	return nil
}

func (s *Service) publishScheduled(ctx context.Context, task domain.Task, created bool) {
	s.eventBus.Publish(ctx, events.TaskScheduled{
		BaseEvent:  events.NewBaseEventAt(task.UpdatedAt),
		TaskID:     task.ID,
		LeadID:     task.LeadID,
		Title:      task.Title,
		AssigneeID: task.AssignedTo,
		DueDate:    task.DueDate,
		DueTime:    task.DueTime,
		Created:    created,
	})
}

func (s *Service) toResponse(task domain.Task) transport.TaskResponse {
	return s.toResponseAt(task, s.today())
}

func (s *Service) toResponseAt(task domain.Task, today time.Time) transport.TaskResponse {
	bucket, _ := domain.Classify(task, today)
	return transport.TaskResponse{
		ID:          task.ID,
		LeadID:      task.LeadID,
		Type:        string(task.Type),
		Title:       task.Title,
		Description: task.Description,
		DueDate:     jsontype.NewDate(task.DueDate),
		DueTime:     task.DueTime,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		Bucket:      string(bucket),
		CompletedAt: task.CompletedAt,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func sanitizedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	text := sanitize.Text(*value)
	return &text
}

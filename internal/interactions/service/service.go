// Package service records interactions and lists a lead's contact history.
package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/interactions/domain"
	"leadflow_backend/internal/interactions/repository"
	"leadflow_backend/internal/interactions/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repo     repository.InteractionRepository
	eventBus events.Bus
	clock    clock.Clock
	log      *logger.Logger
}

func New(repo repository.InteractionRepository, eventBus events.Bus, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, clock: clk, log: log}
}

// RecordInteraction appends an interaction to a lead and, in the same
// transaction, sets the lead's last contact time and bumps its follow-up
// count.
func (s *Service) RecordInteraction(ctx context.Context, id identity.Identity, leadID uuid.UUID, req transport.RecordInteractionRequest) (transport.InteractionResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.InteractionResponse{}, err
	}

	fields := domain.Fields{
		Type:            domain.Type(req.Type),
		Summary:         sanitize.Text(req.Summary),
		Outcome:         sanitize.OptionalText(req.Outcome),
		DurationMinutes: req.DurationMinutes,
		MeetingLocation: sanitize.OptionalText(req.MeetingLocation),
		MeetingLink:     req.MeetingLink,
		Attachments:     req.Attachments,
	}
	if req.Direction != nil {
		direction := domain.Direction(*req.Direction)
		fields.Direction = &direction
	}

	interaction, err := domain.NewInteraction(leadID, id.UserID(), fields, s.clock.Now())
	if err != nil {
		return transport.InteractionResponse{}, apperr.Validation(err.Error())
	}

	stored, err := s.repo.Record(ctx, interaction)
	if errors.Is(err, repository.ErrLeadNotFound) {
		return transport.InteractionResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("record_interaction", err)
		return transport.InteractionResponse{}, err
	}

	s.eventBus.Publish(ctx, events.InteractionRecorded{
		BaseEvent:     events.NewBaseEventAt(stored.CreatedAt),
		InteractionID: stored.ID,
		LeadID:        stored.LeadID,
		UserID:        stored.UserID,
		Type:          string(stored.Type),
	})
	return toResponse(stored), nil
}

func (s *Service) GetInteraction(ctx context.Context, id identity.Identity, interactionID uuid.UUID) (transport.InteractionResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.InteractionResponse{}, err
	}
	interaction, err := s.repo.GetByID(ctx, interactionID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.InteractionResponse{}, apperr.NotFound("interaction not found")
	}
	if err != nil {
		return transport.InteractionResponse{}, err
	}
	return toResponse(interaction), nil
}

// ListInteractions returns a lead's interactions, newest first.
func (s *Service) ListInteractions(ctx context.Context, id identity.Identity, leadID uuid.UUID, req transport.ListInteractionsRequest) (transport.InteractionListResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.InteractionListResponse{}, err
	}

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	interactions, total, err := s.repo.ListByLead(ctx, leadID, pageSize, (page-1)*pageSize)
	if err != nil {
		return transport.InteractionListResponse{}, err
	}
	items := make([]transport.InteractionResponse, 0, len(interactions))
	for _, interaction := range interactions {
		items = append(items, toResponse(interaction))
	}
	return transport.InteractionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func toResponse(i domain.Interaction) transport.InteractionResponse {
	var direction *string
	if i.Direction != nil {
		d := string(*i.Direction)
		direction = &d
	}
	attachments := i.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return transport.InteractionResponse{
		ID:              i.ID,
		LeadID:          i.LeadID,
		UserID:          i.UserID,
		Type:            string(i.Type),
		Direction:       direction,
		Summary:         i.Summary,
		Outcome:         i.Outcome,
		StatusBefore:    i.StatusBefore,
		StatusAfter:     i.StatusAfter,
		DurationMinutes: i.DurationMinutes,
		MeetingLocation: i.MeetingLocation,
		MeetingLink:     i.MeetingLink,
		Attachments:     attachments,
		CreatedAt:       i.CreatedAt,
	}
}

// Package service implements the lead operations of the lifecycle engine:
// duplicate-checked creation and edits, status transitions and deletion.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/sanitize"
	"leadflow_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	msgLeadNotFound = "lead not found"
)

var emailValidator = validator.New()

type Service struct {
	repo       repository.LeadRepository
	eventBus   events.Bus
	clock      clock.Clock
	normalizer domain.Normalizer
	log        *logger.Logger
}

func New(repo repository.LeadRepository, eventBus events.Bus, clk clock.Clock, normalizer domain.Normalizer, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		eventBus:   eventBus,
		clock:      clk,
		normalizer: normalizer,
		log:        log,
	}
}

// Create runs duplicate detection, then stores a new lead.
func (s *Service) Create(ctx context.Context, id identity.Identity, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.LeadResponse{}, err
	}

	ids := s.normalizer.Identifiers(domain.Identifiers{
		Phone:           req.Phone,
		Email:           req.Email,
		InstagramHandle: req.InstagramHandle,
		WhatsAppNumber:  req.WhatsAppNumber,
	})
	if err := checkEmail(ids.Email); err != nil {
		return transport.LeadResponse{}, err
	}
	if err := s.rejectDuplicate(ctx, ids, nil); err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := domain.NewLead(domain.Fields{
		Name:             sanitize.Text(req.Name),
		Company:          sanitize.OptionalText(req.Company),
		Phone:            ids.Phone,
		Email:            ids.Email,
		InstagramHandle:  ids.InstagramHandle,
		WhatsAppNumber:   ids.WhatsAppNumber,
		Website:          trimOptional(req.Website),
		LinkedInURL:      trimOptional(req.LinkedInURL),
		FacebookURL:      trimOptional(req.FacebookURL),
		Notes:            sanitize.OptionalText(req.Notes),
		Source:           sanitize.OptionalText(req.Source),
		Status:           domain.Status(req.Status),
		Priority:         domain.Priority(req.Priority),
		AssignedTo:       req.AssignedTo,
		NextFollowUpDate: req.NextFollowUpDate.TimePtr(),
		LostReason:       sanitize.OptionalText(req.LostReason),
		DealValue:        req.DealValue,
	}, id.UserID(), s.clock.Now())
	if err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, s.mapWriteError(ctx, err, ids, nil)
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEventAt(created.CreatedAt),
		LeadID:     created.ID,
		Name:       created.Name,
		Source:     deref(created.Source),
		AssignedTo: created.AssignedTo,
		CreatedBy:  id.UserID(),
	})
	if created.AssignedTo != nil {
		s.publishAssigned(ctx, created, id.UserID())
	}

	return toLeadResponse(created), nil
}

// Update applies a patch. Identifier edits are duplicate-checked first.
func (s *Service) Update(ctx context.Context, id identity.Identity, leadID uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.LeadResponse{}, err
	}

	patch, err := s.patchFromRequest(req)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}

	var edited domain.Identifiers
	if patch.TouchesIdentifiers() {
		edited = patchedIdentifiers(patch)
		if err := s.rejectDuplicate(ctx, edited, &leadID); err != nil {
			return transport.LeadResponse{}, err
		}
	}

	updated, err := s.apply(ctx, id.UserID(), current, patch, domain.UpdateOptions{
		ContactTriggering: req.ContactTriggering,
		Now:               s.clock.Now(),
	})
	if err != nil {
		return transport.LeadResponse{}, s.mapWriteError(ctx, err, edited, &leadID)
	}
	return toLeadResponse(updated), nil
}

// ApplyDealEffect writes a deal-driven status change onto a lead. It is
// invoked by the deals module only and never calls back into it.
func (s *Service) ApplyDealEffect(ctx context.Context, actorID uuid.UUID, leadID uuid.UUID, patch domain.Patch) (domain.Lead, error) {
	current, err := s.repo.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return domain.Lead{}, err
	}
	return s.apply(ctx, actorID, current, patch, domain.UpdateOptions{Now: s.clock.Now()})
}

// Exists reports whether a lead with leadID is stored.
func (s *Service) Exists(ctx context.Context, leadID uuid.UUID) (bool, error) {
	_, err := s.repo.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) apply(ctx context.Context, actorID uuid.UUID, current domain.Lead, patch domain.Patch, opts domain.UpdateOptions) (domain.Lead, error) {
	transition, err := domain.ApplyPatch(current, patch, opts)
	if err != nil {
		return domain.Lead{}, apperr.Validation(err.Error())
	}

	updated, err := s.repo.Update(ctx, transition)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return domain.Lead{}, err
	}

	if transition.StatusChanged {
		s.eventBus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEventAt(opts.Now),
			LeadID:    updated.ID,
			OldStatus: string(current.Status),
			NewStatus: string(updated.Status),
			ChangedBy: actorID,
		})
	}
	if transition.AssigneeChanged && updated.AssignedTo != nil {
		s.publishAssigned(ctx, updated, actorID)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id identity.Identity, leadID uuid.UUID) error {
	if err := identity.Require(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return err
	}
	return nil
}

func (s *Service) BulkDelete(ctx context.Context, id identity.Identity, req transport.BulkDeleteLeadsRequest) (transport.BulkDeleteLeadsResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.BulkDeleteLeadsResponse{}, err
	}
	deleted, err := s.repo.BulkDelete(ctx, req.IDs)
	if err != nil {
		return transport.BulkDeleteLeadsResponse{}, err
	}
	return transport.BulkDeleteLeadsResponse{DeletedCount: deleted}, nil
}

func (s *Service) GetByID(ctx context.Context, id identity.Identity, leadID uuid.UUID) (transport.LeadResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.LeadResponse{}, err
	}
	lead, err := s.repo.GetByID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

func (s *Service) List(ctx context.Context, id identity.Identity, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.LeadListResponse{}, err
	}

	page, pageSize := normalizePaging(req.Page, req.PageSize)
	leads, total, err := s.repo.List(ctx, repository.ListParams{
		Status:     optionalString(req.Status),
		Priority:   optionalString(req.Priority),
		Source:     optionalString(req.Source),
		AssignedTo: req.AssignedTo,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) publishAssigned(ctx context.Context, lead domain.Lead, actorID uuid.UUID) {
	s.eventBus.Publish(ctx, events.LeadAssigned{
		BaseEvent:  events.NewBaseEventAt(s.clock.Now()),
		LeadID:     lead.ID,
		LeadName:   lead.Name,
		AssigneeID: *lead.AssignedTo,
		AssignedBy: actorID,
	})
}

func (s *Service) patchFromRequest(req transport.UpdateLeadRequest) (domain.Patch, error) {
	patch := domain.Patch{
		Company:         optionalText(req.Company.Value, req.Company.Set),
		Phone:           normalized(req.Phone.Value, req.Phone.Set, s.normalizer.Phone),
		Email:           normalized(req.Email.Value, req.Email.Set, s.normalizer.Email),
		InstagramHandle: normalized(req.InstagramHandle.Value, req.InstagramHandle.Set, s.normalizer.InstagramHandle),
		WhatsAppNumber:  normalized(req.WhatsAppNumber.Value, req.WhatsAppNumber.Set, s.normalizer.Phone),
		Website:         normalized(req.Website.Value, req.Website.Set, strings.TrimSpace),
		LinkedInURL:     normalized(req.LinkedInURL.Value, req.LinkedInURL.Set, strings.TrimSpace),
		FacebookURL:     normalized(req.FacebookURL.Value, req.FacebookURL.Set, strings.TrimSpace),
		Notes:           optionalText(req.Notes.Value, req.Notes.Set),
		Source:          optionalText(req.Source.Value, req.Source.Set),
		LostReason:      optionalText(req.LostReason.Value, req.LostReason.Set),
		AssignedTo:      domain.Optional[uuid.UUID]{Value: req.AssignedTo.Value, Set: req.AssignedTo.Set},
		DealValue:       domain.Optional[float64]{Value: req.DealValue.Value, Set: req.DealValue.Set},
	}
	if req.NextFollowUpDate.Set {
		patch.NextFollowUpDate = domain.Optional[time.Time]{Value: req.NextFollowUpDate.Value.TimePtr(), Set: true}
	}
	if req.Name != nil {
		name := sanitize.Text(*req.Name)
		patch.Name = &name
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		patch.Priority = &priority
	}
	if err := checkEmail(patch.Email.Value); err != nil {
		return domain.Patch{}, err
	}
	if patch.DealValue.Value != nil && *patch.DealValue.Value < 0 {
		return domain.Patch{}, apperr.Validation("deal value cannot be negative")
	}
	return patch, nil
}

// checkEmail validates an already normalized email address.
func checkEmail(email *string) error {
	if email == nil {
		return nil
	}
	if err := emailValidator.Var(*email, "email"); err != nil {
		return apperr.Validation("invalid email")
	}
	return nil
}

func patchedIdentifiers(p domain.Patch) domain.Identifiers {
	var ids domain.Identifiers
	if p.Phone.Set {
		ids.Phone = p.Phone.Value
	}
	if p.Email.Set {
		ids.Email = p.Email.Value
	}
	if p.InstagramHandle.Set {
		ids.InstagramHandle = p.InstagramHandle.Value
	}
	if p.WhatsAppNumber.Set {
		ids.WhatsAppNumber = p.WhatsAppNumber.Value
	}
	return ids
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

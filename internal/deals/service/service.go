// Package service implements deal operations. Closing a deal drives its
// linked lead; that second write never rolls back the deal.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow_backend/internal/deals/domain"
	"leadflow_backend/internal/deals/repository"
	"leadflow_backend/internal/deals/transport"
	"leadflow_backend/internal/events"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/clock"
	"leadflow_backend/platform/identity"
	"leadflow_backend/platform/jsontype"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	msgDealNotFound = "deal not found"
)

// LeadWriter is the slice of the leads module a deal needs.
type LeadWriter interface {
	LeadExists(ctx context.Context, leadID uuid.UUID) (bool, error)
	ApplyDealEffect(ctx context.Context, actorID uuid.UUID, effect domain.LeadEffect) error
}

type Service struct {
	repo            repository.DealRepository
	leads           LeadWriter
	eventBus        events.Bus
	clock           clock.Clock
	location        *time.Location
	defaultCurrency string
	log             *logger.Logger
}

func New(repo repository.DealRepository, leads LeadWriter, eventBus events.Bus, clk clock.Clock, location *time.Location, defaultCurrency string, log *logger.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:            repo,
		leads:           leads,
		eventBus:        eventBus,
		clock:           clk,
		location:        location,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// CreateDeal stores a deal. A linked lead moves to negotiating and takes
// the deal value.
func (s *Service) CreateDeal(ctx context.Context, id identity.Identity, req transport.CreateDealRequest) (transport.DealResult, error) {
	if err := identity.Require(id); err != nil {
		return transport.DealResult{}, err
	}

	if req.LeadID != nil {
		exists, err := s.leads.LeadExists(ctx, *req.LeadID)
		if err != nil {
			return transport.DealResult{}, err
		}
		if !exists {
			return transport.DealResult{}, apperr.Validation("linked lead does not exist")
		}
	}

	currency := req.Currency
	if strings.TrimSpace(currency) == "" {
		currency = s.defaultCurrency
	}
	probability := 0
	if req.Probability != nil {
		probability = *req.Probability
	}

	now := s.clock.Now()
	ws, err := domain.NewDeal(domain.Fields{
		LeadID:            req.LeadID,
		Title:             sanitize.Text(req.Title),
		Description:       sanitize.OptionalText(req.Description),
		DealValue:         req.DealValue,
		Currency:          currency,
		Stage:             domain.Stage(req.Stage),
		Probability:       probability,
		ExpectedCloseDate: req.ExpectedCloseDate.TimePtr(),
		OwnerID:           ownerOrActor(req.OwnerID, id),
		LostReason:        sanitize.OptionalText(req.LostReason),
	}, clock.Today(now, s.location), now)
	if err != nil {
		return transport.DealResult{}, apperr.Validation(err.Error())
	}

	created, err := s.repo.Create(ctx, ws.Deal)
	if err != nil {
		return transport.DealResult{}, err
	}

	s.publishStageChanged(ctx, created, "", id.UserID())
	return s.finish(ctx, id.UserID(), created, ws.Lead, "create_deal"), nil
}

// UpdateDealStage moves a deal to stage. Re-sending the current stage is a
// no-op that returns the stored deal unchanged.
func (s *Service) UpdateDealStage(ctx context.Context, id identity.Identity, dealID uuid.UUID, req transport.UpdateDealStageRequest) (transport.DealResult, error) {
	if err := identity.Require(id); err != nil {
		return transport.DealResult{}, err
	}

	current, err := s.get(ctx, dealID)
	if err != nil {
		return transport.DealResult{}, err
	}

	now := s.clock.Now()
	ws, err := domain.ChangeStage(current, domain.Stage(req.Stage), sanitize.OptionalText(req.LostReason), clock.Today(now, s.location), now)
	if err != nil {
		return transport.DealResult{}, apperr.Validation(err.Error())
	}
	if !ws.DealChanged {
		return transport.DealResult{Deal: toDealResponse(current)}, nil
	}

	updated, err := s.repo.Update(ctx, ws.Deal)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.DealResult{}, apperr.NotFound(msgDealNotFound)
	}
	if err != nil {
		return transport.DealResult{}, err
	}

	s.publishStageChanged(ctx, updated, ws.PreviousStage, id.UserID())
	return s.finish(ctx, id.UserID(), updated, ws.Lead, "update_deal_stage"), nil
}

// UpdateDeal edits non-stage fields.
func (s *Service) UpdateDeal(ctx context.Context, id identity.Identity, dealID uuid.UUID, req transport.UpdateDealRequest) (transport.DealResult, error) {
	if err := identity.Require(id); err != nil {
		return transport.DealResult{}, err
	}

	current, err := s.get(ctx, dealID)
	if err != nil {
		return transport.DealResult{}, err
	}

	patch := domain.Patch{
		DealValue:   req.DealValue,
		Currency:    req.Currency,
		Probability: req.Probability,
		OwnerID:     req.OwnerID,
	}
	if req.Title != nil {
		title := sanitize.Text(*req.Title)
		patch.Title = &title
	}
	if req.Description.Set {
		patch.Description = sanitize.OptionalText(req.Description.Value)
		patch.ClearDescription = patch.Description == nil
	}
	if req.ExpectedCloseDate.Set {
		patch.ExpectedCloseDate = req.ExpectedCloseDate.Value.TimePtr()
		patch.ClearCloseDate = patch.ExpectedCloseDate == nil
	}

	ws, err := domain.ApplyUpdate(current, patch, s.clock.Now())
	if err != nil {
		return transport.DealResult{}, apperr.Validation(err.Error())
	}

	updated, err := s.repo.Update(ctx, ws.Deal)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.DealResult{}, apperr.NotFound(msgDealNotFound)
	}
	if err != nil {
		return transport.DealResult{}, err
	}
	return s.finish(ctx, id.UserID(), updated, ws.Lead, "update_deal"), nil
}

func (s *Service) DeleteDeal(ctx context.Context, id identity.Identity, dealID uuid.UUID) error {
	if err := identity.Require(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, dealID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgDealNotFound)
		}
		return err
	}
	return nil
}

func (s *Service) GetDeal(ctx context.Context, id identity.Identity, dealID uuid.UUID) (transport.DealResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.DealResponse{}, err
	}
	deal, err := s.get(ctx, dealID)
	if err != nil {
		return transport.DealResponse{}, err
	}
	return toDealResponse(deal), nil
}

func (s *Service) ListDeals(ctx context.Context, id identity.Identity, req transport.ListDealsRequest) (transport.DealListResponse, error) {
	if err := identity.Require(id); err != nil {
		return transport.DealListResponse{}, err
	}

	page, pageSize := normalizePaging(req.Page, req.PageSize)
	params := repository.ListParams{
		LeadID:    req.LeadID,
		OwnerID:   req.OwnerID,
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	if req.Stage != "" {
		params.Stage = &req.Stage
	}

	deals, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.DealListResponse{}, err
	}

	items := make([]transport.DealResponse, 0, len(deals))
	for _, deal := range deals {
		items = append(items, toDealResponse(deal))
	}
	return transport.DealListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *Service) get(ctx context.Context, dealID uuid.UUID) (domain.Deal, error) {
	deal, err := s.repo.GetByID(ctx, dealID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Deal{}, apperr.NotFound(msgDealNotFound)
	}
	return deal, err
}

// finish applies the lead effect of a stored deal. A failure is logged and
// reported as a warning; the deal write stands.
func (s *Service) finish(ctx context.Context, actorID uuid.UUID, deal domain.Deal, effect *domain.LeadEffect, op string) transport.DealResult {
	result := transport.DealResult{Deal: toDealResponse(deal)}
	if effect == nil {
		return result
	}
	if err := s.leads.ApplyDealEffect(ctx, actorID, *effect); err != nil {
		s.log.WithContext(ctx).DependencyFailure(op, deal.ID.String(), err)
		depErr := apperr.DependencyFailure(fmt.Sprintf("linked lead %s was not updated", effect.LeadID), err)
		result.Warnings = append(result.Warnings, depErr.Message)
	}
	return result
}

func (s *Service) publishStageChanged(ctx context.Context, deal domain.Deal, previous domain.Stage, actorID uuid.UUID) {
	s.eventBus.Publish(ctx, events.DealStageChanged{
		BaseEvent:  events.NewBaseEventAt(deal.UpdatedAt),
		DealID:     deal.ID,
		LeadID:     deal.LeadID,
		OwnerID:    deal.OwnerID,
		Title:      deal.Title,
		OldStage:   string(previous),
		NewStage:   string(deal.Stage),
		DealValue:  deal.DealValue,
		Currency:   deal.Currency,
		LostReason: deal.LostReason,
		ChangedBy:  actorID,
	})
}

func ownerOrActor(owner *uuid.UUID, id identity.Identity) *uuid.UUID {
	if owner != nil {
		return owner
	}
	actor := id.UserID()
	return &actor
}

func toDealResponse(deal domain.Deal) transport.DealResponse {
	return transport.DealResponse{
		ID:                deal.ID,
		LeadID:            deal.LeadID,
		Title:             deal.Title,
		Description:       deal.Description,
		DealValue:         deal.DealValue,
		Currency:          deal.Currency,
		Stage:             string(deal.Stage),
		Probability:       deal.Probability,
		ExpectedCloseDate: jsontype.DatePtr(deal.ExpectedCloseDate),
		OwnerID:           deal.OwnerID,
		WonDate:           jsontype.DatePtr(deal.WonDate),
		LostDate:          jsontype.DatePtr(deal.LostDate),
		LostReason:        deal.LostReason,
		CreatedAt:         deal.CreatedAt,
		UpdatedAt:         deal.UpdatedAt,
	}
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

package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/identity"

	"github.com/google/uuid"
)

// CheckDuplicate reports whether another lead already carries one of the
// supplied identifiers. With no identifiers it answers without a query.
func (s *Service) CheckDuplicate(ctx context.Context, id identity.Identity, req transport.CheckDuplicateRequest) (transport.DuplicateReport, error) {
	if err := identity.Require(id); err != nil {
		return transport.DuplicateReport{}, err
	}

	ids := s.normalizer.Identifiers(domain.Identifiers{
		Phone:           &req.Phone,
		Email:           &req.Email,
		InstagramHandle: &req.InstagramHandle,
		WhatsAppNumber:  &req.WhatsAppNumber,
	})
	report, _, err := s.detect(ctx, ids, req.ExcludeID)
	return report, err
}

func (s *Service) detect(ctx context.Context, ids domain.Identifiers, excludeID *uuid.UUID) (transport.DuplicateReport, *domain.Summary, error) {
	if ids.Empty() {
		return transport.DuplicateReport{IsDuplicate: false}, nil, nil
	}

	existing, err := s.repo.FindDuplicate(ctx, ids, excludeID)
	if err != nil {
		return transport.DuplicateReport{}, nil, err
	}
	if existing == nil {
		return transport.DuplicateReport{IsDuplicate: false}, nil, nil
	}

	field, ok := domain.MatchedField(existing.Identifiers, ids)
	if !ok {
		// The store matched on a value the summary did not echo back; fall
		// back to the first supplied identifier.
		field = firstSupplied(ids)
	}

	report := transport.DuplicateReport{
		IsDuplicate:  true,
		MatchedField: field.Label(),
		ExistingLead: toDuplicateSummary(*existing),
		Message:      domain.DuplicateMessage(field, existing.Name),
	}
	return report, existing, nil
}

func (s *Service) rejectDuplicate(ctx context.Context, ids domain.Identifiers, excludeID *uuid.UUID) error {
	report, existing, err := s.detect(ctx, ids, excludeID)
	if err != nil {
		return err
	}
	if !report.IsDuplicate {
		return nil
	}
	return conflictError(report, existing)
}

// mapWriteError turns a unique-index violation into the same Conflict the
// detector would have produced. The detector runs first; this covers the
// race between the check and the write.
func (s *Service) mapWriteError(ctx context.Context, err error, ids domain.Identifiers, excludeID *uuid.UUID) error {
	var dupErr *repository.DuplicateKeyError
	if !errors.As(err, &dupErr) {
		return err
	}

	field := dupErr.Field
	lookup := domain.Identifiers{}
	switch field {
	case domain.FieldPhone:
		lookup.Phone = ids.Phone
	case domain.FieldEmail:
		lookup.Email = ids.Email
	case domain.FieldInstagramHandle:
		lookup.InstagramHandle = ids.InstagramHandle
	case domain.FieldWhatsAppNumber:
		lookup.WhatsAppNumber = ids.WhatsAppNumber
	}

	existing, findErr := s.repo.FindDuplicate(ctx, lookup, excludeID)
	if findErr != nil || existing == nil {
		return apperr.Conflict(domain.DuplicateMessage(field, "another lead")).
			WithDetails(map[string]string{"matchedField": field.Label()})
	}

	return conflictError(transport.DuplicateReport{
		IsDuplicate:  true,
		MatchedField: field.Label(),
		Message:      domain.DuplicateMessage(field, existing.Name),
	}, existing)
}

func conflictError(report transport.DuplicateReport, existing *domain.Summary) error {
	return apperr.Conflict(report.Message).WithDetails(transport.ConflictDetails{
		MatchedField:     report.MatchedField,
		ExistingLeadID:   existing.ID,
		ExistingLeadName: existing.Name,
	})
}

func firstSupplied(ids domain.Identifiers) domain.Field {
	for _, f := range domain.FieldPrecedence {
		if ids.Value(f) != nil {
			return f
		}
	}
	return domain.FieldPhone
}

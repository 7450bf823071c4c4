package service

import (
	"strings"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/jsontype"
	"leadflow_backend/platform/sanitize"
)

func toLeadResponse(lead domain.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:               lead.ID,
		Name:             lead.Name,
		Company:          lead.Company,
		Phone:            lead.Phone,
		Email:            lead.Email,
		InstagramHandle:  lead.InstagramHandle,
		WhatsAppNumber:   lead.WhatsAppNumber,
		Website:          lead.Website,
		LinkedInURL:      lead.LinkedInURL,
		FacebookURL:      lead.FacebookURL,
		Notes:            lead.Notes,
		Source:           lead.Source,
		Status:           string(lead.Status),
		Priority:         string(lead.Priority),
		AssignedTo:       lead.AssignedTo,
		AssignedAt:       lead.AssignedAt,
		CreatedBy:        lead.CreatedBy,
		LastContactedAt:  lead.LastContactedAt,
		NextFollowUpDate: jsontype.DatePtr(lead.NextFollowUpDate),
		FollowUpCount:    lead.FollowUpCount,
		ConvertedAt:      lead.ConvertedAt,
		LostReason:       lead.LostReason,
		DealValue:        lead.DealValue,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

func toDuplicateSummary(summary domain.Summary) *transport.DuplicateLeadSummary {
	out := &transport.DuplicateLeadSummary{
		ID:      summary.ID,
		Name:    summary.Name,
		Status:  string(summary.Status),
		Company: summary.Company,
	}
	if summary.Assignee != nil {
		out.Assignee = &transport.AssigneeSummary{ID: summary.Assignee.ID, Name: summary.Assignee.Name}
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optionalText(value *string, set bool) domain.Optional[string] {
	return domain.Optional[string]{Value: sanitize.OptionalText(value), Set: set}
}

func normalized(value *string, set bool, fn func(string) string) domain.Optional[string] {
	if !set {
		return domain.Optional[string]{}
	}
	if value == nil {
		return domain.Cleared[string]()
	}
	out := fn(*value)
	if out == "" {
		return domain.Cleared[string]()
	}
	return domain.SetTo(out)
}

package adapters

import (
	"context"

	dealsdomain "leadflow_backend/internal/deals/domain"
	dealsservice "leadflow_backend/internal/deals/service"
	leadsdomain "leadflow_backend/internal/leads/domain"
	leadsservice "leadflow_backend/internal/leads/service"

	"github.com/google/uuid"
)

// DealsLeadWriter adapts the leads service for deal-driven lead writes.
type DealsLeadWriter struct {
	*LeadDirectory
	leads *leadsservice.Service
}

func NewDealsLeadWriter(leads *leadsservice.Service) *DealsLeadWriter {
	return &DealsLeadWriter{LeadDirectory: NewLeadDirectory(leads), leads: leads}
}

func (a *DealsLeadWriter) ApplyDealEffect(ctx context.Context, actorID uuid.UUID, effect dealsdomain.LeadEffect) error {
	_, err := a.leads.ApplyDealEffect(ctx, actorID, effect.LeadID, LeadPatchForDeal(effect))
	return err
}

// LeadPatchForDeal translates a deal outcome into a lead patch.
func LeadPatchForDeal(effect dealsdomain.LeadEffect) leadsdomain.Patch {
	var patch leadsdomain.Patch
	if effect.DealValue != nil {
		patch.DealValue = leadsdomain.SetTo(*effect.DealValue)
	}

	var status leadsdomain.Status
	switch effect.Outcome {
	case dealsdomain.LeadNegotiating:
		status = leadsdomain.StatusNegotiating
	case dealsdomain.LeadConverted:
		status = leadsdomain.StatusConverted
	case dealsdomain.LeadLost:
		status = leadsdomain.StatusLost
		if effect.LostReason != nil {
			patch.LostReason = leadsdomain.SetTo(*effect.LostReason)
		}
	default:
		return patch
	}
	patch.Status = &status
	return patch
}

var _ dealsservice.LeadWriter = (*DealsLeadWriter)(nil)

package adapters

import (
	"context"

	leadsservice "leadflow_backend/internal/leads/service"
	tasksservice "leadflow_backend/internal/tasks/service"

	"github.com/google/uuid"
)

// LeadDirectory answers lead existence checks for modules that link to leads.
type LeadDirectory struct {
	leads *leadsservice.Service
}

func NewLeadDirectory(leads *leadsservice.Service) *LeadDirectory {
	return &LeadDirectory{leads: leads}
}

func (a *LeadDirectory) LeadExists(ctx context.Context, leadID uuid.UUID) (bool, error) {
	return a.leads.Exists(ctx, leadID)
}

var _ tasksservice.LeadChecker = (*LeadDirectory)(nil)

package repository

import (
	"context"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, int, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Update(ctx context.Context, t domain.Transition) (domain.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

// DuplicateFinder looks up leads by contact identifier.
type DuplicateFinder interface {
	FindDuplicate(ctx context.Context, ids domain.Identifiers, excludeID *uuid.UUID) (*domain.Summary, error)
}

// LeadRepository composes every lead store capability.
type LeadRepository interface {
	LeadReader
	LeadWriter
	DuplicateFinder
}

var _ LeadRepository = (*Repository)(nil)

package repository

import (
	"context"

	"leadflow_backend/internal/deals/domain"

	"github.com/google/uuid"
)

// DealReader provides read-only access to deal data.
type DealReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Deal, error)
	List(ctx context.Context, params ListParams) ([]domain.Deal, int, error)
}

// DealWriter persists deal write-sets.
type DealWriter interface {
	Create(ctx context.Context, deal domain.Deal) (domain.Deal, error)
	Update(ctx context.Context, deal domain.Deal) (domain.Deal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DealRepository composes every deal store capability.
type DealRepository interface {
	DealReader
	DealWriter
}

var _ DealRepository = (*Repository)(nil)

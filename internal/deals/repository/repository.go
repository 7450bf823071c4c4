package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leadflow_backend/internal/deals/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("deal not found")

const dealColumns = `id, lead_id, title, description, deal_value, currency, stage, probability,
	expected_close_date, owner_id, won_date, lost_date, lost_reason, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanDeal(row pgx.Row) (domain.Deal, error) {
	var deal domain.Deal
	var stage string
	err := row.Scan(
		&deal.ID, &deal.LeadID, &deal.Title, &deal.Description, &deal.DealValue, &deal.Currency, &stage, &deal.Probability,
		&deal.ExpectedCloseDate, &deal.OwnerID, &deal.WonDate, &deal.LostDate, &deal.LostReason, &deal.CreatedAt, &deal.UpdatedAt,
	)
	deal.Stage = domain.Stage(stage)
	return deal, err
}

func (r *Repository) Create(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	return scanDeal(r.pool.QueryRow(ctx, `
		INSERT INTO deals (
			id, lead_id, title, description, deal_value, currency, stage, probability,
			expected_close_date, owner_id, won_date, lost_date, lost_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+dealColumns,
		deal.ID, deal.LeadID, deal.Title, deal.Description, deal.DealValue, deal.Currency, string(deal.Stage), deal.Probability,
		deal.ExpectedCloseDate, deal.OwnerID, deal.WonDate, deal.LostDate, deal.LostReason, deal.CreatedAt, deal.UpdatedAt,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Deal, error) {
	deal, err := scanDeal(r.pool.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Deal{}, ErrNotFound
	}
	return deal, err
}

// Update stores deal. won_date and lost_date are only ever filled, so a
// concurrent close keeps the first date.
func (r *Repository) Update(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	updated, err := scanDeal(r.pool.QueryRow(ctx, `
		UPDATE deals SET
			title = $2,
			description = $3,
			deal_value = $4,
			currency = $5,
			stage = $6,
			probability = $7,
			expected_close_date = $8,
			owner_id = $9,
			won_date = COALESCE(won_date, $10),
			lost_date = COALESCE(lost_date, $11),
			lost_reason = $12,
			updated_at = $13
		WHERE id = $1
		RETURNING `+dealColumns,
		deal.ID, deal.Title, deal.Description, deal.DealValue, deal.Currency, string(deal.Stage), deal.Probability,
		deal.ExpectedCloseDate, deal.OwnerID, deal.WonDate, deal.LostDate, deal.LostReason, deal.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Deal{}, ErrNotFound
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM deals WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListParams filters, sorts and pages a deal listing.
type ListParams struct {
	Stage     *string
	LeadID    *uuid.UUID
	OwnerID   *uuid.UUID
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Deal, int, error) {
	whereClause, args, argIdx := buildDealListWhere(params)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM deals WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM deals
		WHERE %s
		ORDER BY %s %s NULLS LAST, id
		LIMIT $%d OFFSET $%d
	`, dealColumns, whereClause, mapDealSortColumn(params.SortBy), sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, 0, err
		}
		deals = append(deals, deal)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return deals, total, nil
}

func buildDealListWhere(params ListParams) (string, []any, int) {
	whereClauses := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if params.Stage != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("stage = $%d", argIdx))
		args = append(args, *params.Stage)
		argIdx++
	}
	if params.LeadID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lead_id = $%d", argIdx))
		args = append(args, *params.LeadID)
		argIdx++
	}
	if params.OwnerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("owner_id = $%d", argIdx))
		args = append(args, *params.OwnerID)
		argIdx++
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("title ILIKE $%d", argIdx))
		args = append(args, "%"+search+"%")
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapDealSortColumn(sortBy string) string {
	switch sortBy {
	case "title":
		return "title"
	case "dealValue":
		return "deal_value"
	case "stage":
		return "stage"
	case "expectedCloseDate":
		return "expected_close_date"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

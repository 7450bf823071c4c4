package exports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClosedDeal is one won or lost deal with its lead and owner.
type ClosedDeal struct {
	DealID      uuid.UUID
	Title       string
	Stage       string
	ClosedDate  time.Time
	DealValue   float64
	Currency    string
	LostReason  *string
	LeadName    *string
	LeadCompany *string
	OwnerEmail  *string
}

// DealSource lists closed deals for export.
type DealSource interface {
	ListClosedDeals(ctx context.Context, from, to time.Time, stages []string, limit int) ([]ClosedDeal, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ DealSource = (*Repository)(nil)

// ListClosedDeals returns deals in stages whose won or lost date falls in
// [from, to], oldest first.
func (r *Repository) ListClosedDeals(ctx context.Context, from, to time.Time, stages []string, limit int) ([]ClosedDeal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.title, d.stage, COALESCE(d.won_date, d.lost_date) AS closed_date,
			d.deal_value, d.currency, d.lost_reason,
			l.name, l.company, u.email
		FROM deals d
		LEFT JOIN leads l ON l.id = d.lead_id
		LEFT JOIN users u ON u.id = d.owner_id
		WHERE d.stage = ANY($3)
			AND COALESCE(d.won_date, d.lost_date) BETWEEN $1 AND $2
		ORDER BY closed_date ASC, d.created_at ASC
		LIMIT $4
	`, from, to, stages, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ClosedDeal, 0)
	for rows.Next() {
		var item ClosedDeal
		if err := rows.Scan(
			&item.DealID,
			&item.Title,
			&item.Stage,
			&item.ClosedDate,
			&item.DealValue,
			&item.Currency,
			&item.LostReason,
			&item.LeadName,
			&item.LeadCompany,
			&item.OwnerEmail,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Reader runs the aggregate queries behind the funnel and period stats.
type Reader interface {
	CountLeadsByStatus(ctx context.Context) (map[string]int, error)
	PipelineValue(ctx context.Context) (float64, error)
	CountLeadsCreated(ctx context.Context, from, to time.Time) (int, error)
	CountLeadsConverted(ctx context.Context, from, to time.Time) (int, error)
	SumWonDealValue(ctx context.Context, fromDate, toDate time.Time) (float64, error)
	CountInteractions(ctx context.Context, from, to time.Time) (int, error)
}

var _ Reader = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CountLeadsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// PipelineValue sums deal_value over deals that are neither won nor lost.
func (r *Repository) PipelineValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(deal_value), 0)::float8
		FROM deals
		WHERE stage NOT IN ('won', 'lost')
	`).Scan(&total)
	return total, err
}

func (r *Repository) CountLeadsCreated(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM leads WHERE created_at >= $1 AND created_at < $2`, from, to)
}

func (r *Repository) CountLeadsConverted(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM leads WHERE converted_at >= $1 AND converted_at < $2`, from, to)
}

func (r *Repository) CountInteractions(ctx context.Context, from, to time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM interactions WHERE created_at >= $1 AND created_at < $2`, from, to)
}

// SumWonDealValue sums deals whose won_date falls in [fromDate, toDate).
// Only the calendar date of each bound is used.
func (r *Repository) SumWonDealValue(ctx context.Context, fromDate, toDate time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(deal_value), 0)::float8
		FROM deals
		WHERE stage = 'won' AND won_date >= $1::date AND won_date < $2::date
	`, fromDate.Format(time.DateOnly), toDate.Format(time.DateOnly)).Scan(&total)
	return total, err
}

func (r *Repository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

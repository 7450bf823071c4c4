package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Searcher runs a ranked search over leads, deals and tasks.
type Searcher interface {
	GlobalSearch(ctx context.Context, pattern, query string, limit int) ([]SearchResult, error)
}

var _ Searcher = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type SearchResult struct {
	ID           uuid.UUID
	Type         string
	Title        string
	Subtitle     string
	Status       string
	MatchedField string
	Score        float32
	CreatedAt    time.Time
	Total        int64
}

// GlobalSearch matches pattern (an ILIKE pattern) against the searchable
// columns and ranks hits by full-text relevance of query.
func (r *Repository) GlobalSearch(ctx context.Context, pattern, query string, limit int) ([]SearchResult, error) {
	querySQL := `
		WITH search_query AS (
			SELECT plainto_tsquery('simple', $2) AS q
		),
		results AS (
			SELECT
				l.id,
				'lead' AS type,
				l.name AS title,
				coalesce(l.company, '') AS subtitle,
				l.status,
				CASE
					WHEN l.name ILIKE $1 THEN 'name'
					WHEN l.company ILIKE $1 THEN 'company'
					WHEN l.email ILIKE $1 THEN 'email'
					WHEN l.phone ILIKE $1 THEN 'phone'
					ELSE 'instagram_handle'
				END AS matched_field,
				ts_rank(
					setweight(to_tsvector('simple', l.name), 'A') ||
					setweight(to_tsvector('simple', coalesce(l.company, '')), 'B') ||
					setweight(to_tsvector('simple', coalesce(l.email, '')), 'C'),
					sq.q
				) + 0.3 AS rank,
				l.created_at
			FROM leads l, search_query sq
			WHERE l.name ILIKE $1 OR l.company ILIKE $1 OR l.email ILIKE $1
				OR l.phone ILIKE $1 OR l.instagram_handle ILIKE $1

			UNION ALL

			SELECT
				d.id,
				'deal' AS type,
				d.title,
				coalesce(l.name, '') AS subtitle,
				d.stage AS status,
				CASE WHEN d.title ILIKE $1 THEN 'title' ELSE 'description' END AS matched_field,
				ts_rank(
					setweight(to_tsvector('simple', d.title), 'A') ||
					setweight(to_tsvector('simple', coalesce(d.description, '')), 'C'),
					sq.q
				) + 0.2 AS rank,
				d.created_at
			FROM deals d
			LEFT JOIN leads l ON l.id = d.lead_id
			CROSS JOIN search_query sq
			WHERE d.title ILIKE $1 OR d.description ILIKE $1

			UNION ALL

			SELECT
				t.id,
				'task' AS type,
				t.title,
				coalesce(l.name, '') AS subtitle,
				t.status,
				CASE WHEN t.title ILIKE $1 THEN 'title' ELSE 'description' END AS matched_field,
				ts_rank(
					setweight(to_tsvector('simple', t.title), 'A') ||
					setweight(to_tsvector('simple', coalesce(t.description, '')), 'C'),
					sq.q
				) + 0.1 AS rank,
				t.created_at
			FROM tasks t
			LEFT JOIN leads l ON l.id = t.lead_id
			CROSS JOIN search_query sq
			WHERE t.title ILIKE $1 OR t.description ILIKE $1
		)
		SELECT
			id, type, title, subtitle, status, matched_field, rank, created_at,
			COUNT(*) OVER() AS total
		FROM results
		ORDER BY rank DESC, created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, querySQL, pattern, query, limit)
	if err != nil {
		return nil, fmt.Errorf("global search query failed: %w", err)
	}
	defer rows.Close()

	items := make([]SearchResult, 0)
	for rows.Next() {
		var item SearchResult
		if err := rows.Scan(
			&item.ID,
			&item.Type,
			&item.Title,
			&item.Subtitle,
			&item.Status,
			&item.MatchedField,
			&item.Score,
			&item.CreatedAt,
			&item.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"leadflow_backend/internal/interactions/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("interaction not found")
	ErrLeadNotFound = errors.New("lead not found")
)

// InteractionRepository stores write-once interactions: it has no update
// or delete.
type InteractionRepository interface {
	Record(ctx context.Context, interaction domain.Interaction) (domain.Interaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Interaction, error)
	ListByLead(ctx context.Context, leadID uuid.UUID, limit, offset int) ([]domain.Interaction, int, error)
}

var _ InteractionRepository = (*Repository)(nil)

const interactionColumns = `id, lead_id, user_id, type, direction, summary, outcome, status_before, status_after,
	duration_minutes, meeting_location, meeting_link, attachments, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanInteraction(row pgx.Row) (domain.Interaction, error) {
	var i domain.Interaction
	var interactionType string
	var direction *string
	err := row.Scan(
		&i.ID, &i.LeadID, &i.UserID, &interactionType, &direction, &i.Summary, &i.Outcome, &i.StatusBefore, &i.StatusAfter,
		&i.DurationMinutes, &i.MeetingLocation, &i.MeetingLink, &i.Attachments, &i.CreatedAt,
	)
	i.Type = domain.Type(interactionType)
	if direction != nil {
		d := domain.Direction(*direction)
		i.Direction = &d
	}
	return i, err
}

// Record appends interaction and refreshes the lead's contact counters in
// one transaction. The lead row is locked so concurrent recordings each
// see the status in effect when they were written.
func (r *Repository) Record(ctx context.Context, interaction domain.Interaction) (domain.Interaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Interaction{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM leads WHERE id = $1 FOR UPDATE`, interaction.LeadID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Interaction{}, ErrLeadNotFound
	}
	if err != nil {
		return domain.Interaction{}, fmt.Errorf("failed to lock lead: %w", err)
	}
	interaction.StatusBefore = status
	interaction.StatusAfter = status

	var direction *string
	if interaction.Direction != nil {
		d := string(*interaction.Direction)
		direction = &d
	}

	stored, err := scanInteraction(tx.QueryRow(ctx, `
		INSERT INTO interactions (
			id, lead_id, user_id, type, direction, summary, outcome, status_before, status_after,
			duration_minutes, meeting_location, meeting_link, attachments, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+interactionColumns,
		interaction.ID, interaction.LeadID, interaction.UserID, string(interaction.Type), direction, interaction.Summary,
		interaction.Outcome, interaction.StatusBefore, interaction.StatusAfter, interaction.DurationMinutes,
		interaction.MeetingLocation, interaction.MeetingLink, interaction.Attachments, interaction.CreatedAt,
	))
	if err != nil {
		return domain.Interaction{}, fmt.Errorf("failed to insert interaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE leads SET
			last_contacted_at = $2,
			follow_up_count = follow_up_count + 1,
			updated_at = $2
		WHERE id = $1
	`, interaction.LeadID, interaction.CreatedAt); err != nil {
		return domain.Interaction{}, fmt.Errorf("failed to touch lead: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Interaction{}, err
	}
	return stored, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Interaction, error) {
	interaction, err := scanInteraction(r.pool.QueryRow(ctx, `SELECT `+interactionColumns+` FROM interactions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Interaction{}, ErrNotFound
	}
	return interaction, err
}

// ListByLead returns a lead's interactions, newest first.
func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID, limit, offset int) ([]domain.Interaction, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM interactions WHERE lead_id = $1`, leadID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+interactionColumns+`
		FROM interactions
		WHERE lead_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, leadID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]domain.Interaction, 0)
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, interaction)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return items, total, nil
}

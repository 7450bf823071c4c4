package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, name, company, phone, email, instagram_handle, whatsapp_number,
	website, linkedin_url, facebook_url, notes, source, status, priority,
	assigned_to, assigned_at, created_by, last_contacted_at, next_follow_up_date,
	follow_up_count, converted_at, lost_reason, deal_value, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var status, priority string
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Company, &lead.Phone, &lead.Email, &lead.InstagramHandle, &lead.WhatsAppNumber,
		&lead.Website, &lead.LinkedInURL, &lead.FacebookURL, &lead.Notes, &lead.Source, &status, &priority,
		&lead.AssignedTo, &lead.AssignedAt, &lead.CreatedBy, &lead.LastContactedAt, &lead.NextFollowUpDate,
		&lead.FollowUpCount, &lead.ConvertedAt, &lead.LostReason, &lead.DealValue, &lead.CreatedAt, &lead.UpdatedAt,
	)
	lead.Status = domain.Status(status)
	lead.Priority = domain.Priority(priority)
	return lead, err
}

func (r *Repository) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			id, name, company, phone, email, instagram_handle, whatsapp_number,
			website, linkedin_url, facebook_url, notes, source, status, priority,
			assigned_to, assigned_at, created_by, next_follow_up_date,
			converted_at, lost_reason, deal_value, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING `+leadColumns,
		lead.ID, lead.Name, lead.Company, lead.Phone, lead.Email, lead.InstagramHandle, lead.WhatsAppNumber,
		lead.Website, lead.LinkedInURL, lead.FacebookURL, lead.Notes, lead.Source, string(lead.Status), string(lead.Priority),
		lead.AssignedTo, lead.AssignedAt, lead.CreatedBy, lead.NextFollowUpDate,
		lead.ConvertedAt, lead.LostReason, lead.DealValue, lead.CreatedAt, lead.UpdatedAt,
	)
	created, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, asDuplicateKey(err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// Update writes the columns that differ between t.Before and t.After.
// converted_at is only ever filled, never overwritten, so a concurrent
// conversion keeps the first timestamp.
func (r *Repository) Update(ctx context.Context, t domain.Transition) (domain.Lead, error) {
	setClauses, args := buildUpdateSet(t)
	if len(setClauses) == 0 {
		return r.GetByID(ctx, t.After.ID)
	}

	argIdx := len(args) + 1
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, t.After.UpdatedAt, t.After.ID)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx+1, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, asDuplicateKey(err)
	}
	return lead, nil
}

func buildUpdateSet(t domain.Transition) ([]string, []any) {
	before, after := t.Before, t.After
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   any
		expr    string
	}{
		{before.Name != after.Name, "name", after.Name, ""},
		{changedString(before.Company, after.Company), "company", after.Company, ""},
		{changedString(before.Phone, after.Phone), "phone", after.Phone, ""},
		{changedString(before.Email, after.Email), "email", after.Email, ""},
		{changedString(before.InstagramHandle, after.InstagramHandle), "instagram_handle", after.InstagramHandle, ""},
		{changedString(before.WhatsAppNumber, after.WhatsAppNumber), "whatsapp_number", after.WhatsAppNumber, ""},
		{changedString(before.Website, after.Website), "website", after.Website, ""},
		{changedString(before.LinkedInURL, after.LinkedInURL), "linkedin_url", after.LinkedInURL, ""},
		{changedString(before.FacebookURL, after.FacebookURL), "facebook_url", after.FacebookURL, ""},
		{changedString(before.Notes, after.Notes), "notes", after.Notes, ""},
		{changedString(before.Source, after.Source), "source", after.Source, ""},
		{before.Status != after.Status, "status", string(after.Status), ""},
		{before.Priority != after.Priority, "priority", string(after.Priority), ""},
		{t.AssigneeChanged, "assigned_to", after.AssignedTo, ""},
		{t.AssigneeChanged, "assigned_at", after.AssignedAt, ""},
		{changedTime(before.LastContactedAt, after.LastContactedAt), "last_contacted_at", after.LastContactedAt, ""},
		{changedTime(before.NextFollowUpDate, after.NextFollowUpDate), "next_follow_up_date", after.NextFollowUpDate, ""},
		{before.ConvertedAt == nil && after.ConvertedAt != nil, "converted_at", after.ConvertedAt, "COALESCE(converted_at, $%d)"},
		{changedString(before.LostReason, after.LostReason), "lost_reason", after.LostReason, ""},
		{changedFloat(before.DealValue, after.DealValue), "deal_value", after.DealValue, ""},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		placeholder := fmt.Sprintf("$%d", argIdx)
		if field.expr != "" {
			placeholder = fmt.Sprintf(field.expr, argIdx)
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", field.column, placeholder))
		args = append(args, field.value)
		argIdx++
	}

	return setClauses, args
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	result, err := r.pool.Exec(ctx, "DELETE FROM leads WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func changedString(a, b *string) bool {
	if a == nil || b == nil {
		return a != b
	}
	return *a != *b
}

func changedTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a != b
	}
	return !a.Equal(*b)
}

func changedFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a != b
	}
	return *a != *b
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DuplicateKeyError reports a unique identifier index violated at write time.
type DuplicateKeyError struct {
	Field domain.Field
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate lead %s", e.Field)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// constraintFields maps the partial unique indexes on leads to identifier fields.
var constraintFields = map[string]domain.Field{
	"leads_phone_key":            domain.FieldPhone,
	"leads_email_key":            domain.FieldEmail,
	"leads_instagram_handle_key": domain.FieldInstagramHandle,
	"leads_whatsapp_number_key":  domain.FieldWhatsAppNumber,
}

func asDuplicateKey(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if field, ok := constraintFields[pgErr.ConstraintName]; ok {
		return &DuplicateKeyError{Field: field, Err: err}
	}
	return err
}

// FindDuplicate returns at most one other lead carrying any of the given
// identifiers, or nil when there is none. ids must already be normalized.
func (r *Repository) FindDuplicate(ctx context.Context, ids domain.Identifiers, excludeID *uuid.UUID) (*domain.Summary, error) {
	predicate, args := buildDuplicatePredicate(ids, excludeID)
	if predicate == "" {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.name, l.status, l.company,
			l.phone, l.email, l.instagram_handle, l.whatsapp_number,
			l.assigned_to, u.full_name
		FROM leads l
		LEFT JOIN users u ON u.id = l.assigned_to
		WHERE %s
		LIMIT 1
	`, predicate)

	var (
		summary      domain.Summary
		status       string
		assigneeID   *uuid.UUID
		assigneeName *string
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&summary.ID, &summary.Name, &status, &summary.Company,
		&summary.Phone, &summary.Email, &summary.InstagramHandle, &summary.WhatsAppNumber,
		&assigneeID, &assigneeName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary.Status = domain.Status(status)
	if assigneeID != nil {
		summary.Assignee = &domain.Assignee{ID: *assigneeID}
		if assigneeName != nil {
			summary.Assignee.Name = *assigneeName
		}
	}
	return &summary, nil
}

// buildDuplicatePredicate ORs the supplied identifiers together. It returns
// an empty predicate when no identifier is supplied.
func buildDuplicatePredicate(ids domain.Identifiers, excludeID *uuid.UUID) (string, []any) {
	orClauses := []string{}
	args := []any{}
	argIdx := 1

	for _, field := range domain.FieldPrecedence {
		value := ids.Value(field)
		if value == nil || *value == "" {
			continue
		}
		orClauses = append(orClauses, fmt.Sprintf("l.%s = $%d", field.Column(), argIdx))
		args = append(args, *value)
		argIdx++
	}

	if len(orClauses) == 0 {
		return "", nil
	}

	predicate := "(" + strings.Join(orClauses, " OR ") + ")"
	if excludeID != nil {
		predicate += fmt.Sprintf(" AND l.id <> $%d", argIdx)
		args = append(args, *excludeID)
	}
	return predicate, args
}

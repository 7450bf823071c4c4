package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Role      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRepository reads users and changes their role and active flag.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context, includeInactive bool) ([]User, error)
	UpdateAccess(ctx context.Context, id uuid.UUID, role *string, isActive *bool, now time.Time) (User, error)
}

var _ UserRepository = (*Repository)(nil)

const userColumns = `id, email, full_name, role, is_active, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *Repository) List(ctx context.Context, includeInactive bool) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE is_active OR $1
		ORDER BY full_name, email
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return users, nil
}

// UpdateAccess sets the role and/or active flag; nil leaves a column as is.
func (r *Repository) UpdateAccess(ctx context.Context, id uuid.UUID, role *string, isActive *bool, now time.Time) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			role = COALESCE($2, role),
			is_active = COALESCE($3, is_active),
			updated_at = $4
		WHERE id = $1
		RETURNING `+userColumns,
		id, role, isActive, now,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

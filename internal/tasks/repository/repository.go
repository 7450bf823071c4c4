package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow_backend/internal/tasks/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("task not found")

// TaskRepository is the task store.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error)
	Update(ctx context.Context, task domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListParams) ([]domain.Task, error)
	CountPending(ctx context.Context, assignedTo uuid.UUID, today time.Time) (PendingCounts, error)
}

var _ TaskRepository = (*Repository)(nil)

const taskColumns = `id, lead_id, type, title, description, due_date, due_time, priority,
	status, completed_at, assigned_to, created_by, created_at, updated_at`

// priorityRank mirrors domain.Priority.Rank for ORDER BY.
const priorityRank = `CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	var taskType, priority, status string
	err := row.Scan(
		&task.ID, &task.LeadID, &taskType, &task.Title, &task.Description, &task.DueDate, &task.DueTime, &priority,
		&status, &task.CompletedAt, &task.AssignedTo, &task.CreatedBy, &task.CreatedAt, &task.UpdatedAt,
	)
	task.Type = domain.Type(taskType)
	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	return task, err
}

func (r *Repository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (
			id, lead_id, type, title, description, due_date, due_time, priority,
			status, completed_at, assigned_to, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+taskColumns,
		task.ID, task.LeadID, string(task.Type), task.Title, task.Description, task.DueDate, task.DueTime, string(task.Priority),
		string(task.Status), task.CompletedAt, task.AssignedTo, task.CreatedBy, task.CreatedAt, task.UpdatedAt,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	task, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return task, err
}

func (r *Repository) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks SET
			lead_id = $2,
			type = $3,
			title = $4,
			description = $5,
			due_date = $6,
			due_time = $7,
			priority = $8,
			status = $9,
			completed_at = $10,
			assigned_to = $11,
			updated_at = $12
		WHERE id = $1
		RETURNING `+taskColumns,
		task.ID, task.LeadID, string(task.Type), task.Title, task.Description, task.DueDate, task.DueTime,
		string(task.Priority), string(task.Status), task.CompletedAt, task.AssignedTo, task.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListParams narrows a task listing. DueBefore is exclusive, DueFrom
// inclusive. A Limit of zero lists every match.
type ListParams struct {
	LeadID        *uuid.UUID
	AssignedTo    *uuid.UUID
	Type          *string
	PendingOnly   bool
	CompletedOnly bool
	DueFrom       *time.Time
	DueBefore     *time.Time
	Limit         int
}

// PendingCounts is the number of pending tasks per schedule bucket.
type PendingCounts struct {
	Overdue  int
	DueToday int
	Upcoming int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Task, error) {
	whereClause, args, argIdx := buildTaskListWhere(params)

	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY %s
	`, taskColumns, whereClause, taskListOrder(params))
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, params.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return tasks, nil
}

func taskListOrder(params ListParams) string {
	if params.CompletedOnly {
		return "completed_at DESC, created_at ASC"
	}
	return fmt.Sprintf("due_date ASC, %s DESC, due_time ASC NULLS LAST, created_at ASC", priorityRank)
}

func (r *Repository) CountPending(ctx context.Context, assignedTo uuid.UUID, today time.Time) (PendingCounts, error) {
	var counts PendingCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE due_date < $2::date),
			COUNT(*) FILTER (WHERE due_date = $2::date),
			COUNT(*) FILTER (WHERE due_date > $2::date)
		FROM tasks
		WHERE assigned_to = $1 AND status = 'pending'
	`, assignedTo, today.Format(time.DateOnly)).Scan(&counts.Overdue, &counts.DueToday, &counts.Upcoming)
	return counts, err
}

func buildTaskListWhere(params ListParams) (string, []any, int) {
	whereClauses := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	add := func(clause string, value any) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.PendingOnly {
		whereClauses = append(whereClauses, "status = 'pending'")
	}
	if params.CompletedOnly {
		whereClauses = append(whereClauses, "status = 'completed'")
	}
	if params.LeadID != nil {
		add("lead_id = $%d", *params.LeadID)
	}
	if params.AssignedTo != nil {
		add("assigned_to = $%d", *params.AssignedTo)
	}
	if params.Type != nil {
		add("type = $%d", *params.Type)
	}
	if params.DueFrom != nil {
		add("due_date >= $%d", *params.DueFrom)
	}
	if params.DueBefore != nil {
		add("due_date < $%d", *params.DueBefore)
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

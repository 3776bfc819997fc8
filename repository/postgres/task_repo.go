package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const taskColumns = `id, owner_id, assignee_id, title, description, status, due_date, shared_with, attachments, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) ListVisible(ctx context.Context, userID string) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ` + visibleWhere + `
	ORDER BY created_at ASC
	`
	return r.list(ctx, query, userID)
}

func (r *taskRepository) ListShared(ctx context.Context, userID string) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE $1 = ANY(shared_with)
	ORDER BY created_at ASC
	`
	return r.list(ctx, query, userID)
}

func (r *taskRepository) list(ctx context.Context, query, userID string) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.SharedWith == nil {
		task.SharedWith = []string{}
	}

	const query = `
	INSERT INTO tasks (id, owner_id, assignee_id, title, description, status, due_date, shared_with, attachments)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.OwnerID,
		task.AssigneeID,
		task.Title,
		task.Description,
		string(task.Status),
		nullTime(task.DueDate),
		task.SharedWith,
		marshalAttachments(task.Attachments),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

// Update applies the patch in a single statement. NULLIF keeps the
// stored value whenever the incoming field is empty, preserving the
// falsy-skip partial-update contract, and the locked self-join returns
// the pre-update status so callers can detect transitions.
func (r *taskRepository) Update(ctx context.Context, id string, patch repository.TaskPatch) (*domain.Task, domain.Status, error) {
	query := `
	UPDATE tasks t
	SET title       = COALESCE(NULLIF($2, ''), t.title),
		description = COALESCE(NULLIF($3, ''), t.description),
		status      = COALESCE(NULLIF($4, ''), t.status),
		due_date    = COALESCE($5, t.due_date),
		updated_at  = NOW()
	FROM (SELECT id, status AS prev_status FROM tasks WHERE id = $1 FOR UPDATE) old
	WHERE t.id = old.id
	RETURNING old.prev_status, ` + taskQualified("t") + `
	`

	row := r.pool.QueryRow(ctx, query,
		id,
		patch.Title,
		patch.Description,
		string(patch.Status),
		nullTime(patch.DueDate),
	)

	var prev string
	task, err := scanTaskWith(row, &prev)
	if err != nil {
		return nil, "", err
	}
	return task, domain.Status(prev), nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// AppendShared performs the share union as one conditional write. The
// FOR UPDATE self-join takes the row lock before reading the previous
// list, so concurrent shares serialize and each sees exactly the ids
// it added. The union also drops the owner, enforcing the invariant at
// the store, and the EXISTS guard keeps the write from firing at all
// when every target is already present: a rejected re-share must not
// touch updated_at.
func (r *taskRepository) AppendShared(ctx context.Context, id string, targets []string) (*domain.Task, []string, error) {
	query := `
	UPDATE tasks t
	SET shared_with = (
			SELECT COALESCE(array_agg(DISTINCT v), '{}'::text[])
			FROM unnest(t.shared_with || $2::text[]) AS v
			WHERE v <> t.owner_id
		),
		updated_at = NOW()
	FROM (SELECT id, shared_with AS prev_shared FROM tasks WHERE id = $1 FOR UPDATE) old
	WHERE t.id = old.id
	  AND EXISTS (
			SELECT 1 FROM unnest($2::text[]) AS v
			WHERE v <> t.owner_id AND NOT (v = ANY(t.shared_with))
		)
	RETURNING old.prev_shared, ` + taskQualified("t") + `
	`

	row := r.pool.QueryRow(ctx, query, id, targets)

	var prev []string
	task, err := scanTaskWith(row, &prev)
	if err != nil {
		// No row updated: either the task is gone or there was nothing
		// to add. Reread to tell the two apart and hand back the
		// untouched row in the no-op case.
		if errors.Is(err, domain.ErrTaskNotFound) {
			task, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return nil, nil, getErr
			}
			return task, nil, nil
		}
		return nil, nil, err
	}
	return task, diffNew(prev, task.SharedWith), nil
}

func (r *taskRepository) AppendAttachment(ctx context.Context, id string, att domain.Attachment) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET attachments = attachments || $2::jsonb,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + taskColumns + `
	`
	row := r.pool.QueryRow(ctx, query, id, marshalAttachments([]domain.Attachment{att}))
	return scanTask(row)
}

func taskQualified(alias string) string {
	return alias + `.id, ` + alias + `.owner_id, ` + alias + `.assignee_id, ` +
		alias + `.title, ` + alias + `.description, ` + alias + `.status, ` +
		alias + `.due_date, ` + alias + `.shared_with, ` + alias + `.attachments, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	return scanTaskWith(row)
}

// scanTaskWith scans any leading extra columns into extras, then the
// full task column set.
func scanTaskWith(row pgx.Row, extras ...interface{}) (*domain.Task, error) {
	var task domain.Task
	var (
		status      string
		due         *time.Time
		attachments []byte
	)

	dest := append(extras,
		&task.ID,
		&task.OwnerID,
		&task.AssigneeID,
		&task.Title,
		&task.Description,
		&status,
		&due,
		&task.SharedWith,
		&attachments,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.Status(status)
	task.DueDate = due
	task.Attachments = unmarshalAttachments(attachments)
	if task.SharedWith == nil {
		task.SharedWith = []string{}
	}

	return &task, nil
}

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

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed notification inbox.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	const query = `
	SELECT id, recipient_id, sender_id, type, message, task_id, read, created_at
	FROM notifications
	WHERE id = $1
	`
	var n domain.Notification
	var typ string
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID,
		&n.RecipientID,
		&n.SenderID,
		&typ,
		&n.Message,
		&n.TaskID,
		&n.Read,
		&n.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	n.Type = domain.NotificationType(typ)
	return &n, nil
}

// ListByRecipient joins sender and task display fields through LEFT
// JOINs so a deleted sender or task yields empty placeholders instead
// of dropping the row.
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
	SELECT n.id, n.recipient_id, n.sender_id, n.type, n.message, n.task_id, n.read, n.created_at,
		COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(t.title, '')
	FROM notifications n
	LEFT JOIN users u ON u.id = n.sender_id
	LEFT JOIN tasks t ON t.id = n.task_id
	WHERE n.recipient_id = $1
	ORDER BY n.created_at DESC
	LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		if err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&typ,
			&n.Message,
			&n.TaskID,
			&n.Read,
			&n.CreatedAt,
			&n.SenderName,
			&n.SenderEmail,
			&n.TaskTitle,
		); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// InsertBatch queues one insert per notification and sends them in a
// single round trip. The batch is independent of the task write that
// triggered it; a failure here leaves the task mutated and the inbox
// untouched.
func (r *notificationRepository) InsertBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	const query = `
	INSERT INTO notifications (id, recipient_id, sender_id, type, message, task_id, read)
	VALUES ($1, $2, $3, $4, $5, $6, FALSE)
	`

	batch := &pgx.Batch{}
	for i := range notifications {
		n := &notifications[i]
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		batch.Queue(query, n.ID, n.RecipientID, n.SenderID, string(n.Type), n.Message, n.TaskID)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range notifications {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// MarkRead is idempotent: flipping an already-read notification is a
// successful no-op.
func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	const query = `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`
	_, err := r.pool.Exec(ctx, query, recipientID)
	return err
}

func (r *notificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM notifications WHERE read = TRUE AND created_at < $1`
	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

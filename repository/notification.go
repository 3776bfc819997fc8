package repository

import (
	"context"
	"time"

	"github.com/taskhive/backend/domain"
)

type NotificationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	// ListByRecipient returns the newest notifications first, joined
	// with sender and task display fields where those still exist.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error)
	// InsertBatch persists the fan-out as one batch write. It is not
	// transactional with the task mutation that triggered it.
	InsertBatch(ctx context.Context, notifications []domain.Notification) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	// DeleteReadBefore removes read notifications created before the
	// cutoff, returning how many were deleted.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

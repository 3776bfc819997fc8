package repository

import (
	"context"
	"time"

	"github.com/taskhive/backend/domain"
)

// TaskPatch carries a partial update. Empty string / nil fields are
// skipped: the store keeps the current value. Clearing a field to
// empty is therefore not expressible through this contract.
type TaskPatch struct {
	Title       string
	Description string
	Status      domain.Status
	DueDate     *time.Time
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListVisible returns every task the user owns, is the legacy
	// assignee of, or is shared into, in insertion order.
	ListVisible(ctx context.Context, userID string) ([]domain.Task, error)
	// ListShared returns only tasks where the user is a shared member.
	ListShared(ctx context.Context, userID string) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Update applies the patch atomically and returns the updated task
	// together with the status the row held before the write.
	Update(ctx context.Context, id string, patch TaskPatch) (*domain.Task, domain.Status, error)
	Delete(ctx context.Context, id string) error
	// AppendShared unions targets into shared_with as a single
	// conditional write; concurrent calls serialize on the row. It
	// returns the updated task and the ids that were actually new.
	AppendShared(ctx context.Context, id string, targets []string) (*domain.Task, []string, error)
	AppendAttachment(ctx context.Context, id string, att domain.Attachment) (*domain.Task, error)
}

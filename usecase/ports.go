package usecase

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// Pusher delivers a transient event to every live connection of a
// user. Push never blocks and gives no delivery feedback; callers must
// treat it as a hint next to the durable notification record.
type Pusher interface {
	Push(userID string, event domain.PushEvent)
}

// Fanout persists one notification per recipient and pushes the
// matching real-time event, keeping task use cases storage-agnostic.
type Fanout interface {
	Deliver(ctx context.Context, sender *domain.User, task *domain.Task, typ domain.NotificationType, message string, recipients []string) error
}

// BlobStore holds attachment bytes outside the task document.
type BlobStore interface {
	Put(id string, meta domain.Attachment, data []byte) error
	Get(id string) (domain.Attachment, []byte, error)
	Delete(id string) error
}

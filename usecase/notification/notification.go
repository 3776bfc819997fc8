package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
)

// inboxLimit caps the inbox list at the 50 most recent records.
const inboxLimit = 50

type UseCase struct {
	notifications repository.NotificationRepository
	pusher        usecase.Pusher
	logger        *zap.Logger
}

func New(notifications repository.NotificationRepository, pusher usecase.Pusher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		notifications: notifications,
		pusher:        pusher,
		logger:        logger,
	}
}

func (uc *UseCase) List(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	return uc.notifications.ListByRecipient(ctx, recipientID, inboxLimit)
}

func (uc *UseCase) MarkRead(ctx context.Context, id, recipientID string) (*domain.Notification, error) {
	n, err := uc.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != recipientID {
		return nil, domain.ErrForbidden
	}
	if err := uc.notifications.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

func (uc *UseCase) MarkAllRead(ctx context.Context, recipientID string) error {
	return uc.notifications.MarkAllRead(ctx, recipientID)
}

// Deliver persists one notification per recipient as a single batch,
// then pushes the transient event to each recipient's channel. The
// inserts are the durable truth; a failed batch delivers nothing and
// is reported to the caller, while push failures are invisible here
// because Push cannot fail.
func (uc *UseCase) Deliver(ctx context.Context, sender *domain.User, task *domain.Task, typ domain.NotificationType, message string, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}

	batch := make([]domain.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		batch = append(batch, domain.Notification{
			RecipientID: recipientID,
			SenderID:    sender.ID,
			Type:        typ,
			Message:     message,
			TaskID:      task.ID,
		})
	}

	if err := uc.notifications.InsertBatch(ctx, batch); err != nil {
		return err
	}

	event := domain.PushEvent{Type: typ, Message: message, TaskID: task.ID}
	for _, recipientID := range recipients {
		uc.pusher.Push(recipientID, event)
	}

	uc.logger.Debug("notifications delivered",
		zap.String("task_id", task.ID),
		zap.String("type", string(typ)),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

var _ usecase.Fanout = (*UseCase)(nil)

package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
)

type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	fanout usecase.Fanout
	blobs  usecase.BlobStore
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, users repository.UserRepository, fanout usecase.Fanout, blobs usecase.BlobStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		users:  users,
		fanout: fanout,
		blobs:  blobs,
		logger: logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, requesterID string) ([]domain.Task, error) {
	return uc.tasks.ListVisible(ctx, requesterID)
}

func (uc *UseCase) ListSharedTasks(ctx context.Context, requesterID string) ([]domain.Task, error) {
	return uc.tasks.ListShared(ctx, requesterID)
}

// GetTask returns NotFound for both missing tasks and tasks the
// requester is not entitled to see; entitlement is hidden as absence.
func (uc *UseCase) GetTask(ctx context.Context, id, requesterID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.VisibleTo(requesterID) {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, requesterID string, task *domain.Task) (*domain.Task, error) {
	if task == nil || strings.TrimSpace(task.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if !domain.ValidStatus(task.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "status must be Pending, In Progress, or Completed")
	}

	task.OwnerID = requesterID
	task.AssigneeID = requesterID
	task.SharedWith = []string{}
	task.Attachments = nil

	return uc.tasks.Create(ctx, task)
}

// UpdateTask applies a partial patch. When the patch changed the status
// to a new value, the current shared members (minus the actor) get a
// notification; the push and the inserts are side effects that never
// fail the update itself.
func (uc *UseCase) UpdateTask(ctx context.Context, id, requesterID string, patch repository.TaskPatch) (*domain.Task, error) {
	if patch.Status != "" && !domain.ValidStatus(patch.Status) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "status must be Pending, In Progress, or Completed")
	}

	if _, err := uc.GetTask(ctx, id, requesterID); err != nil {
		return nil, err
	}

	task, prevStatus, err := uc.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status != "" && task.Status != prevStatus {
		uc.notifyStatusChange(ctx, requesterID, task)
	}
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id, requesterID string) error {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Non-owners get NotFound, shared members included: deletion rights
	// are not hinted at through a 403.
	if !task.IsOwner(requesterID) {
		return domain.ErrTaskNotFound
	}
	return uc.tasks.Delete(ctx, id)
}

// ShareTask validates the target list, appends the new members through
// the repository's atomic union, and fans out one task_shared
// notification per member that was actually added.
func (uc *UseCase) ShareTask(ctx context.Context, id, requesterID string, targetIDs []string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsOwner(requesterID) {
		return nil, domain.ErrForbidden
	}

	targets := dedupe(targetIDs)
	if len(targets) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "userIds array is required")
	}
	for _, target := range targets {
		if target == requesterID {
			return nil, domain.NewError(domain.ErrCodeInvalid, "cannot share a task with yourself")
		}
	}

	existing, err := uc.users.FilterExisting(ctx, targets)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(targets) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "one or more users do not exist")
	}

	updated, added, err := uc.tasks.AppendShared(ctx, id, targets)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task is already shared with these users")
	}

	uc.notifyShared(ctx, requesterID, updated, added)
	return updated, nil
}

// AttachFile stores the upload in the blob store and appends its
// metadata to the task document. Only the owner may attach.
func (uc *UseCase) AttachFile(ctx context.Context, id, requesterID, originalName, mimetype string, data []byte) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsOwner(requesterID) {
		return nil, domain.ErrForbidden
	}
	if len(data) == 0 || originalName == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "file is required")
	}

	att := domain.Attachment{
		ID:           uuid.NewString(),
		Filename:     fmt.Sprintf("%s-%s", id, originalName),
		OriginalName: originalName,
		Mimetype:     mimetype,
		Size:         int64(len(data)),
	}
	att.URL = "/api/v1/attachments/" + att.ID

	if err := uc.blobs.Put(att.ID, att, data); err != nil {
		return nil, err
	}

	updated, err := uc.tasks.AppendAttachment(ctx, id, att)
	if err != nil {
		if delErr := uc.blobs.Delete(att.ID); delErr != nil {
			uc.logger.Warn("orphaned attachment blob", zap.String("attachment_id", att.ID), zap.Error(delErr))
		}
		return nil, err
	}
	return updated, nil
}

func (uc *UseCase) Attachment(ctx context.Context, attachmentID, requesterID string) (domain.Attachment, []byte, error) {
	return uc.blobs.Get(attachmentID)
}

func (uc *UseCase) notifyShared(ctx context.Context, actorID string, task *domain.Task, recipients []string) {
	sender, err := uc.users.GetByID(ctx, actorID)
	if err != nil {
		uc.logger.Warn("fan-out skipped, sender lookup failed", zap.String("user_id", actorID), zap.Error(err))
		return
	}
	message := fmt.Sprintf("%s shared the task %q with you", sender.Name, task.Title)
	if err := uc.fanout.Deliver(ctx, sender, task, domain.NotificationTaskShared, message, recipients); err != nil {
		uc.logger.Warn("share fan-out failed", zap.String("task_id", task.ID), zap.Error(err))
	}
}

func (uc *UseCase) notifyStatusChange(ctx context.Context, actorID string, task *domain.Task) {
	recipients := make([]string, 0, len(task.SharedWith))
	for _, id := range task.SharedWith {
		if id != actorID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}

	sender, err := uc.users.GetByID(ctx, actorID)
	if err != nil {
		uc.logger.Warn("fan-out skipped, sender lookup failed", zap.String("user_id", actorID), zap.Error(err))
		return
	}

	typ := domain.NotificationTaskUpdated
	if task.IsCompleted() {
		typ = domain.NotificationTaskCompleted
	}
	message := fmt.Sprintf("%s updated the task %q status to %s", sender.Name, task.Title, task.Status)
	if err := uc.fanout.Deliver(ctx, sender, task, typ, message, recipients); err != nil {
		uc.logger.Warn("status fan-out failed", zap.String("task_id", task.ID), zap.Error(err))
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

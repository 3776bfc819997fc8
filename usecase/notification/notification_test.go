package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

type fakeNotificationRepo struct {
	records   map[string]*domain.Notification
	seq       int
	insertErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{records: make(map[string]*domain.Notification)}
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	n, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.records {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) InsertBatch(_ context.Context, notifications []domain.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, n := range notifications {
		r.seq++
		n.ID = fmt.Sprintf("n-%d", r.seq)
		n.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
		clone := n
		r.records[n.ID] = &clone
	}
	return nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := r.records[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	for _, n := range r.records {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, n := range r.records {
		if n.Read && n.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakePusher struct {
	pushed map[string][]domain.PushEvent
}

func newFakePusher() *fakePusher {
	return &fakePusher{pushed: make(map[string][]domain.PushEvent)}
}

func (p *fakePusher) Push(userID string, event domain.PushEvent) {
	p.pushed[userID] = append(p.pushed[userID], event)
}

func TestDeliver(t *testing.T) {
	ctx := context.Background()
	sender := &domain.User{ID: "alice", Name: "Alice"}
	task := &domain.Task{ID: "task-1", Title: "Draft"}

	t.Run("one record and one push per recipient", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		pusher := newFakePusher()
		uc := New(repo, pusher, nil)

		err := uc.Deliver(ctx, sender, task, domain.NotificationTaskShared, "Alice shared the task \"Draft\" with you", []string{"bob", "carol"})
		require.NoError(t, err)

		assert.Len(t, repo.records, 2)
		for _, n := range repo.records {
			assert.Equal(t, "alice", n.SenderID)
			assert.Equal(t, "task-1", n.TaskID)
			assert.Equal(t, domain.NotificationTaskShared, n.Type)
			assert.False(t, n.Read)
		}

		require.Len(t, pusher.pushed["bob"], 1)
		require.Len(t, pusher.pushed["carol"], 1)
		event := pusher.pushed["bob"][0]
		assert.Equal(t, domain.NotificationTaskShared, event.Type)
		assert.Equal(t, "task-1", event.TaskID)
	})

	t.Run("empty recipient list is a no-op", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		pusher := newFakePusher()
		uc := New(repo, pusher, nil)

		require.NoError(t, uc.Deliver(ctx, sender, task, domain.NotificationTaskUpdated, "msg", nil))
		assert.Empty(t, repo.records)
		assert.Empty(t, pusher.pushed)
	})

	t.Run("failed batch pushes nothing", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		repo.insertErr = errors.New("connection reset")
		pusher := newFakePusher()
		uc := New(repo, pusher, nil)

		err := uc.Deliver(ctx, sender, task, domain.NotificationTaskShared, "msg", []string{"bob"})
		require.Error(t, err)
		assert.Empty(t, pusher.pushed)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	uc := New(repo, newFakePusher(), nil)

	sender := &domain.User{ID: "alice", Name: "Alice"}
	for i := 0; i < 60; i++ {
		task := &domain.Task{ID: fmt.Sprintf("task-%d", i), Title: "t"}
		require.NoError(t, uc.Deliver(ctx, sender, task, domain.NotificationTaskUpdated, "msg", []string{"bob"}))
	}

	inbox, err := uc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, inbox, 50)
	// Newest first.
	assert.Equal(t, "task-59", inbox[0].TaskID)

	other, err := uc.List(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	uc := New(repo, newFakePusher(), nil)

	sender := &domain.User{ID: "alice", Name: "Alice"}
	task := &domain.Task{ID: "task-1", Title: "Draft"}
	require.NoError(t, uc.Deliver(ctx, sender, task, domain.NotificationTaskShared, "msg", []string{"bob"}))

	var id string
	for k := range repo.records {
		id = k
	}

	t.Run("recipient marks read", func(t *testing.T) {
		n, err := uc.MarkRead(ctx, id, "bob")
		require.NoError(t, err)
		assert.True(t, n.Read)
		assert.True(t, repo.records[id].Read)
	})

	t.Run("idempotent", func(t *testing.T) {
		n, err := uc.MarkRead(ctx, id, "bob")
		require.NoError(t, err)
		assert.True(t, n.Read)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		_, err := uc.MarkRead(ctx, id, "carol")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := uc.MarkRead(ctx, "nope", "bob")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})
}

func TestMarkAllRead(t *testing.T) {
	ctx := context.Background()
	repo := newFakeNotificationRepo()
	uc := New(repo, newFakePusher(), nil)

	sender := &domain.User{ID: "alice", Name: "Alice"}
	task := &domain.Task{ID: "task-1", Title: "Draft"}
	require.NoError(t, uc.Deliver(ctx, sender, task, domain.NotificationTaskShared, "msg", []string{"bob", "carol"}))

	require.NoError(t, uc.MarkAllRead(ctx, "bob"))

	for _, n := range repo.records {
		if n.RecipientID == "bob" {
			assert.True(t, n.Read)
		} else {
			assert.False(t, n.Read)
		}
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

type sweepRecorder struct {
	cutoffs []time.Time
	deleted int64
	err     error
}

func (r *sweepRecorder) GetByID(context.Context, string) (*domain.Notification, error) {
	return nil, domain.ErrNotificationNotFound
}

func (r *sweepRecorder) ListByRecipient(context.Context, string, int) ([]domain.Notification, error) {
	return nil, nil
}

func (r *sweepRecorder) InsertBatch(context.Context, []domain.Notification) error { return nil }

func (r *sweepRecorder) MarkRead(context.Context, string) error { return nil }

func (r *sweepRecorder) MarkAllRead(context.Context, string) error { return nil }

func (r *sweepRecorder) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoffs = append(r.cutoffs, cutoff)
	return r.deleted, r.err
}

func TestSweepCutoff(t *testing.T) {
	repo := &sweepRecorder{deleted: 3}
	sweeper := NewRetentionSweeper(repo, RetentionConfig{Interval: time.Minute, MaxAge: 720 * time.Hour}, nil)

	require.NoError(t, sweeper.Sweep(context.Background()))

	require.Len(t, repo.cutoffs, 1)
	want := time.Now().Add(-720 * time.Hour)
	assert.WithinDuration(t, want, repo.cutoffs[0], time.Minute)
}

func TestSweepPropagatesError(t *testing.T) {
	repo := &sweepRecorder{err: errors.New("connection reset")}
	sweeper := NewRetentionSweeper(repo, RetentionConfig{Interval: time.Minute, MaxAge: time.Hour}, nil)

	assert.Error(t, sweeper.Sweep(context.Background()))
}

func TestDisabledSweeperNeverRuns(t *testing.T) {
	repo := &sweepRecorder{}
	sweeper := NewRetentionSweeper(repo, RetentionConfig{Interval: time.Second, MaxAge: 0}, nil)

	sweeper.Start()
	defer sweeper.Stop(context.Background())

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, repo.cutoffs)
}

package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

type fakeAnalyticsRepo struct {
	counts domain.StatusCounts

	createdSince   time.Time
	completedSince time.Time
	created        []domain.TrendPoint
	completed      []domain.TrendPoint
}

func (r *fakeAnalyticsRepo) StatusCounts(_ context.Context, _ string) (domain.StatusCounts, error) {
	return r.counts, nil
}

func (r *fakeAnalyticsRepo) CreatedPerDay(_ context.Context, _ string, since time.Time) ([]domain.TrendPoint, error) {
	r.createdSince = since
	return r.created, nil
}

func (r *fakeAnalyticsRepo) CompletedPerDay(_ context.Context, _ string, since time.Time) ([]domain.TrendPoint, error) {
	r.completedSince = since
	return r.completed, nil
}

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"no tasks", 0, 0, 0},
		{"negative total", 1, -1, 0},
		{"none done", 0, 4, 0},
		{"all done", 4, 4, 100},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"half up", 1, 2, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CompletionRate(tc.completed, tc.total))
		})
	}
}

func TestOverview(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		counts: domain.StatusCounts{Total: 6, Completed: 2, Pending: 3, InProgress: 1},
	}
	uc := New(repo, nil)

	overview, err := uc.Overview(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 6, overview.Total)
	assert.Equal(t, 33, overview.CompletionRate)
}

func TestTrends(t *testing.T) {
	fixed := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	newUC := func(repo *fakeAnalyticsRepo) *UseCase {
		uc := New(repo, nil)
		uc.now = func() time.Time { return fixed }
		return uc
	}

	t.Run("weekly window", func(t *testing.T) {
		repo := &fakeAnalyticsRepo{
			created:   []domain.TrendPoint{{Day: "2025-03-10", Count: 2}},
			completed: []domain.TrendPoint{{Day: "2025-03-11", Count: 1}},
		}
		uc := newUC(repo)

		trends, err := uc.Trends(context.Background(), "alice", PeriodWeekly)
		require.NoError(t, err)
		assert.Equal(t, PeriodWeekly, trends.Period)
		assert.Equal(t, fixed.AddDate(0, 0, -7), repo.createdSince)
		assert.Equal(t, repo.createdSince, repo.completedSince)
		assert.Equal(t, repo.created, trends.Created)
		assert.Equal(t, repo.completed, trends.Completed)
	})

	t.Run("monthly window", func(t *testing.T) {
		repo := &fakeAnalyticsRepo{}
		uc := newUC(repo)

		trends, err := uc.Trends(context.Background(), "alice", PeriodMonthly)
		require.NoError(t, err)
		assert.Equal(t, PeriodMonthly, trends.Period)
		assert.Equal(t, fixed.AddDate(0, 0, -30), repo.createdSince)
	})

	t.Run("unknown period falls back to monthly", func(t *testing.T) {
		repo := &fakeAnalyticsRepo{}
		uc := newUC(repo)

		trends, err := uc.Trends(context.Background(), "alice", "yearly")
		require.NoError(t, err)
		assert.Equal(t, PeriodMonthly, trends.Period)
		assert.Equal(t, fixed.AddDate(0, 0, -30), repo.createdSince)
	})
}

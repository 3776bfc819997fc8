package repository

import (
	"context"
	"time"

	"github.com/taskhive/backend/domain"
)

// AnalyticsRepository runs read-only aggregations over the tasks
// visible to a user (owner, legacy assignee, or shared member).
type AnalyticsRepository interface {
	StatusCounts(ctx context.Context, userID string) (domain.StatusCounts, error)
	CreatedPerDay(ctx context.Context, userID string, since time.Time) ([]domain.TrendPoint, error)
	CompletedPerDay(ctx context.Context, userID string, since time.Time) ([]domain.TrendPoint, error)
}

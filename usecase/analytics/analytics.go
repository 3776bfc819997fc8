package analytics

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

type UseCase struct {
	analytics repository.AnalyticsRepository
	logger    *zap.Logger
	now       func() time.Time
}

func New(analytics repository.AnalyticsRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		analytics: analytics,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *UseCase) Overview(ctx context.Context, requesterID string) (*domain.Overview, error) {
	counts, err := uc.analytics.StatusCounts(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return &domain.Overview{
		StatusCounts:   counts,
		CompletionRate: CompletionRate(counts.Completed, counts.Total),
	}, nil
}

// Trends returns the two independent series over the trailing 7 or 30
// days. Only "weekly" selects the 7-day window; anything else falls
// back to monthly, matching the query contract of the dashboard.
func (uc *UseCase) Trends(ctx context.Context, requesterID, period string) (*domain.Trends, error) {
	days := 30
	if period == PeriodWeekly {
		days = 7
	} else {
		period = PeriodMonthly
	}
	since := uc.now().AddDate(0, 0, -days)

	created, err := uc.analytics.CreatedPerDay(ctx, requesterID, since)
	if err != nil {
		return nil, err
	}
	completed, err := uc.analytics.CompletedPerDay(ctx, requesterID, since)
	if err != nil {
		return nil, err
	}

	return &domain.Trends{
		Period:    period,
		Created:   created,
		Completed: completed,
	}, nil
}

// CompletionRate is round(completed/total*100), defined as 0 when the
// user has no visible tasks.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

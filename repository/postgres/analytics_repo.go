package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository returns read-only aggregations over tasks.
func NewAnalyticsRepository(pool *pgxpool.Pool) repository.AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) StatusCounts(ctx context.Context, userID string) (domain.StatusCounts, error) {
	const query = `
	SELECT count(*),
		count(*) FILTER (WHERE status = 'Completed'),
		count(*) FILTER (WHERE status = 'Pending'),
		count(*) FILTER (WHERE status = 'In Progress')
	FROM tasks
	WHERE ` + visibleWhere + `
	`

	var counts domain.StatusCounts
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&counts.Total,
		&counts.Completed,
		&counts.Pending,
		&counts.InProgress,
	); err != nil {
		return domain.StatusCounts{}, err
	}
	return counts, nil
}

func (r *analyticsRepository) CreatedPerDay(ctx context.Context, userID string, since time.Time) ([]domain.TrendPoint, error) {
	const query = `
	SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, count(*)
	FROM tasks
	WHERE ` + visibleWhere + ` AND created_at >= $2
	GROUP BY day
	ORDER BY day ASC
	`
	return r.series(ctx, query, userID, since)
}

// CompletedPerDay buckets by updated_at, so a task completed inside the
// window appears here even when it was created outside it.
func (r *analyticsRepository) CompletedPerDay(ctx context.Context, userID string, since time.Time) ([]domain.TrendPoint, error) {
	const query = `
	SELECT to_char(date_trunc('day', updated_at), 'YYYY-MM-DD') AS day, count(*)
	FROM tasks
	WHERE ` + visibleWhere + ` AND status = 'Completed' AND updated_at >= $2
	GROUP BY day
	ORDER BY day ASC
	`
	return r.series(ctx, query, userID, since)
}

func (r *analyticsRepository) series(ctx context.Context, query, userID string, since time.Time) ([]domain.TrendPoint, error) {
	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.TrendPoint
	for rows.Next() {
		var p domain.TrendPoint
		if err := rows.Scan(&p.Day, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

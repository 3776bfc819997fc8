package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskhive/backend/repository"
)

// RetentionConfig controls the notification sweeper. MaxAge 0 disables
// sweeping entirely; unread notifications are never swept regardless.
type RetentionConfig struct {
	Interval time.Duration
	MaxAge   time.Duration
}

// RetentionSweeper periodically deletes read notifications that have
// aged out of the retention window.
type RetentionSweeper struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
	cron          *cron.Cron
	cfg           RetentionConfig
}

func NewRetentionSweeper(notifications repository.NotificationRepository, cfg RetentionConfig, logger *zap.Logger) *RetentionSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &RetentionSweeper{
		notifications: notifications,
		logger:        logger,
		cfg:           cfg,
		cron:          cron.New(cron.WithSeconds()),
	}

	if cfg.MaxAge > 0 {
		schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
		_, _ = rs.cron.AddFunc(schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
			defer cancel()
			if err := rs.Sweep(ctx); err != nil {
				rs.logger.Error("notification sweep failed", zap.Error(err))
			}
		})
	}

	return rs
}

// Start launches the cron scheduler.
func (rs *RetentionSweeper) Start() {
	if rs == nil || rs.cron == nil || rs.cfg.MaxAge <= 0 {
		return
	}
	rs.cron.Start()
	rs.logger.Info("notification retention sweeper started",
		zap.Duration("interval", rs.cfg.Interval),
		zap.Duration("max_age", rs.cfg.MaxAge),
	)
}

// Stop gracefully stops the scheduler.
func (rs *RetentionSweeper) Stop(ctx context.Context) {
	if rs == nil || rs.cron == nil {
		return
	}
	stopCtx := rs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

// Sweep deletes read notifications older than the retention window.
func (rs *RetentionSweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-rs.cfg.MaxAge)
	deleted, err := rs.notifications.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		rs.logger.Info("swept notifications", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lensfeed/core/internal/models"
	pkgcron "github.com/lensfeed/core/internal/pkg/cron"
)

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs() {
	cronLogger := a.logger.Named("cron")

	a.sched.Register(pkgcron.Job{
		Name:        "purge_deleted_comments",
		Description: "purge comment rows soft-deleted more than 90 days ago",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -90)
			result := a.db.WithContext(ctx).Unscoped().
				Where("state = ? AND deleted_at < ?", models.CommentDeleted, cutoff).
				Delete(&models.CommentModel{})
			if result.Error != nil {
				cronLogger.Warn("purge failed", zap.Error(result.Error))
				return result.Error
			}
			if result.RowsAffected > 0 {
				cronLogger.Info(fmt.Sprintf("purged %d deleted comments", result.RowsAffected))
			}
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "refresh_analytics",
		Description: "recompute the moderation analytics snapshot",
		Interval:    time.Minute,
		Fn: func(ctx context.Context) error {
			if err := a.analytics.Refresh(ctx); err != nil {
				cronLogger.Warn("analytics refresh failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}

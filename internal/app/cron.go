package app

import (
	"context"
	"time"

	"github.com/schoolboard/core/internal/modules/dashboard/workspace"
	pkgcron "github.com/schoolboard/core/internal/pkg/cron"
	sessionpkg "github.com/schoolboard/core/internal/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	staleSessionAge = 30 * 24 * time.Hour
	idleEditorAge   = 2 * time.Hour
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, workspaceSvc *workspace.Service, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "cleanup_sessions",
		Description: "drop admin sessions not seen for 30 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			removed, err := sessionpkg.Cleanup(db, staleSessionAge)
			if err != nil {
				cronLogger.Warn("session cleanup failed", zap.Error(err))
				return err
			}
			if removed > 0 {
				cronLogger.Info("session cleanup done", zap.Int64("removed", removed))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "cleanup_workspace_editors",
		Description: "release dashboard editors idle for over 2 hours",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			if removed := workspaceSvc.Cleanup(idleEditorAge); removed > 0 {
				cronLogger.Info("idle editors released", zap.Int("removed", removed))
			}
			return nil
		},
	})
}

package app

import (
	"context"
	"time"

	"github.com/edufund/core/internal/modules/campaign"
	pkgcron "github.com/edufund/core/internal/pkg/cron"
	"github.com/edufund/core/internal/pkg/session"
	"go.uber.org/zap"
)

// registerCronJobs wires all scheduled maintenance tasks.
func (a *App) registerCronJobs() {
	log := a.logger.Named("cron")
	campSvc := campaign.NewService(a.db)

	a.sched.Register(pkgcron.Job{
		Name:        "close_ended_campaigns",
		Description: "Mark published campaigns past their end date as completed",
		Every:       time.Hour,
		Run: func(ctx context.Context) error {
			n, err := campSvc.CloseEnded()
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("closed ended campaigns", zap.Int64("count", n))
			}
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "purge_expired_sessions",
		Description: "Delete sessions expired or revoked more than 30 days ago",
		Every:       24 * time.Hour,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -30)
			n, err := session.PurgeExpired(a.db, cutoff)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("purged expired sessions", zap.Int64("count", n))
			}
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "sweep_email_tasks",
		Description: "Remove finished queue tasks older than 7 days",
		Every:       6 * time.Hour,
		Run: func(ctx context.Context) error {
			n, err := a.queue.Sweep(ctx, time.Now().Add(-7*24*time.Hour))
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("swept queue tasks", zap.Int("count", n))
			}
			return nil
		},
	})
}

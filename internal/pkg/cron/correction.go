package cron

import (
	"context"
	"log/slog"
	"time"
)

// GrantSweeper expires correction grants whose edit window lapsed unused.
type GrantSweeper interface {
	ExpireStaleGrants(ctx context.Context) (int64, error)
}

// RegisterCorrectionJobs wires the grant sweep. Grant activity is always
// derived from approved_at, so the sweep is audit hygiene, not enforcement;
// a missed run never re-opens a window.
func RegisterCorrectionJobs(s *Scheduler, sweeper GrantSweeper) {
	s.AddJob("correction-grant-sweep", time.Minute, func(ctx context.Context) error {
		expired, err := sweeper.ExpireStaleGrants(ctx)
		if err != nil {
			return err
		}
		if expired > 0 {
			slog.Info("Expired stale correction grants", "count", expired)
		}
		return nil
	})
}

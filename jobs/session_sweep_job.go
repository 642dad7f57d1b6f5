package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = time.Minute

// StaleSessionExpirer cancels pending sessions whose start time has passed.
type StaleSessionExpirer interface {
	ExpireStalePending(ctx context.Context) (int, error)
}

// SweepStaleSessions runs one expiry pass and logs the outcome.
func SweepStaleSessions(ctx context.Context, expirer StaleSessionExpirer) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	n, err := expirer.ExpireStalePending(ctx)
	if err != nil {
		slog.Error("stale session sweep failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		slog.Info("cancelled stale pending sessions", slog.Int("count", n))
	}
}

// StartScheduler schedules the sweep on spec and starts the cron runner.
// The caller stops it with the returned *cron.Cron.
func StartScheduler(ctx context.Context, spec string, expirer StaleSessionExpirer) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() { SweepStaleSessions(ctx, expirer) })
	if err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

type windowObserver interface {
	Observe(ctx context.Context) (bool, error)
}

// startWindowMonitor polls the transfer window so open/close transitions are
// logged even when nobody trades.
func startWindowMonitor(observer windowObserver, interval time.Duration, logger *logging.Logger) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			observeWindow(context.Background(), observer, interval, logger)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("schedule transfer window monitor: %w", err)
	}

	scheduler.Start()
	logger.Info("transfer window monitor started", "interval", interval.String())
	return scheduler, nil
}

func observeWindow(ctx context.Context, observer windowObserver, timeout time.Duration, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := observer.Observe(ctx); err != nil {
		logger.WarnContext(ctx, "transfer window check failed", "error", err)
	}
}

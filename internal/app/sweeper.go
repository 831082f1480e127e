package app

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// startHoldSweeper schedules the periodic cleanup of expired seat holds.
// Expired rows are also purged lazily inside lock and commit transactions;
// the sweeper only keeps the table from accumulating rows for seats nobody
// touches again.
func (app *Application) startHoldSweeper() (func(), error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			deleted, err := app.holdRepo.DeleteExpired(ctx)
			if err != nil {
				app.logger.Error("failed to sweep expired seat holds", "error", err)
				return
			}

			if deleted > 0 {
				app.logger.Info("swept expired seat holds", "count", deleted)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()

	stop := func() {
		if err := scheduler.Shutdown(); err != nil {
			app.logger.Error("failed to shutdown hold sweeper", "error", err)
		}
	}

	return stop, nil
}

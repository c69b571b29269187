package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DispatchSweepJob is the matching backstop. Orders left waiting by a
// rejection or an empty courier pool are not retried inline; this job picks
// them up every second and tries the oldest one against whoever is
// available now.
type DispatchSweepJob struct {
	handler commands.MatchPendingCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDispatchSweepJob creates a new job matching waiting orders.
func NewDispatchSweepJob(handler commands.MatchPendingCommandHandler, logger *slog.Logger) *DispatchSweepJob {
	return &DispatchSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "dispatch_sweep_job"),
	}
}

// Start begins the dispatch sweep job to run every second.
func (j *DispatchSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewMatchPendingCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// Only log errors that are not expected business scenarios
			if !errors.Is(err, commands.ErrNothingQueued) && !errors.Is(err, commands.ErrNoCourierAvailable) {
				j.logger.ErrorContext(ctx, "Dispatch sweep job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch sweep job started (running every second)")
	return nil
}

// Stop stops the dispatch sweep job.
func (j *DispatchSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch sweep job stopped")
}

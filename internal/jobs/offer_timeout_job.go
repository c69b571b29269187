package jobs

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OfferTimeoutJob is the offer timeout supervisor. Every second it sweeps
// offers whose deadline passed back into the queue, then attempts one match
// so a just-requeued order does not sit idle until the next courier event.
type OfferTimeoutJob struct {
	expireHandler commands.ExpireOffersCommandHandler
	matchHandler  commands.MatchPendingCommandHandler
	cron          *cron.Cron
	logger        *slog.Logger
}

// NewOfferTimeoutJob creates a new job supervising offer deadlines.
func NewOfferTimeoutJob(
	expireHandler commands.ExpireOffersCommandHandler,
	matchHandler commands.MatchPendingCommandHandler,
	logger *slog.Logger,
) *OfferTimeoutJob {
	return &OfferTimeoutJob{
		expireHandler: expireHandler,
		matchHandler:  matchHandler,
		cron:          cron.New(cron.WithSeconds()),
		logger:        logger.With("component", "offer_timeout_job"),
	}
}

// Start begins the offer timeout job to run every second.
func (j *OfferTimeoutJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		expireCmd := commands.NewExpireOffersCommand()
		if err := j.expireHandler.Handle(ctx, expireCmd); err != nil {
			j.logger.ErrorContext(ctx, "Offer timeout sweep failed", "error", err)
			return
		}

		matchCmd := commands.NewMatchPendingCommand()
		if err := j.matchHandler.Handle(ctx, matchCmd); err != nil {
			// Only log errors that are not expected business scenarios
			if !errors.Is(err, commands.ErrNothingQueued) && !errors.Is(err, commands.ErrNoCourierAvailable) {
				j.logger.ErrorContext(ctx, "Rebroadcast after timeout failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer timeout job started (running every second)")
	return nil
}

// Stop stops the offer timeout job.
func (j *OfferTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Offer timeout job stopped")
}

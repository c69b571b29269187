package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	offerTimeoutJob  *OfferTimeoutJob
	dispatchSweepJob *DispatchSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	expireOffersHandler commands.ExpireOffersCommandHandler,
	matchPendingHandler commands.MatchPendingCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		offerTimeoutJob:  NewOfferTimeoutJob(expireOffersHandler, matchPendingHandler, logger),
		dispatchSweepJob: NewDispatchSweepJob(matchPendingHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.offerTimeoutJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer timeout job: %w", err)
	}

	if err := jm.dispatchSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.offerTimeoutJob.Stop()
		return fmt.Errorf("failed to start dispatch sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.offerTimeoutJob.Stop()
	jm.dispatchSweepJob.Stop()
}

// Package jobs provides scheduled background tasks for the dispatch core.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic triggers the dispatch protocol needs.
//
// # Available Jobs
//
// 1. OfferTimeoutJob - Runs every second to return expired offers to the queue and rebroadcast them
// 2. DispatchSweepJob - Runs every second to match the oldest waiting order against the courier pool
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(expireOffersHandler, matchPendingHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs use the cron expression "* * * * * *" which means they run every
// second. Offers time out with second-level precision and orders left waiting
// by a rejection get rebroadcast promptly.
//
// # Error Handling
//
// - The sweep job ignores expected business outcomes (nothing queued, no courier available)
// - The timeout job logs all errors as they indicate system issues
// - Both jobs are safe to run on multiple replicas at once: every contended
//   transition is guarded at the persistence layer, so a replica that loses a
//   race skips the work instead of double-applying it
package jobs

package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Business outcomes that are expected under normal operation. Callers (jobs
// and the HTTP layer) classify against these rather than parsing messages.
var (
	// ErrNoCourierAvailable means no courier could be offered the order.
	// The entry stays Queued; the next courier-online event or sweep retries.
	ErrNoCourierAvailable = errors.New("no courier available")

	// ErrNothingQueued means the dispatch queue holds no Queued entries.
	ErrNothingQueued = errors.New("no queued dispatch entries")

	// ErrOfferNoLongerValid means a courier acted on an offer that already
	// expired or was claimed elsewhere. Recoverable: the courier is told the
	// offer lapsed, nothing is mutated.
	ErrOfferNoLongerValid = errors.New("offer is no longer valid")

	// ErrCourierHasActiveOrder means the courier is already engaged on a
	// delivery and cannot receive offers.
	ErrCourierHasActiveOrder = errors.New("courier has an active order")
)

// txAttempts bounds the retries of one transactional closure when the
// failure is a raw persistence error rather than a business outcome.
const txAttempts = 3

// isBusinessOutcome reports whether err is an expected domain result that
// must be surfaced as-is instead of retried: contention outcomes, invariant
// violations and not-found lookups never heal by replaying the transaction.
func isBusinessOutcome(err error) bool {
	return errors.Is(err, ErrNoCourierAvailable) ||
		errors.Is(err, ErrNothingQueued) ||
		errors.Is(err, ErrOfferNoLongerValid) ||
		errors.Is(err, ErrCourierHasActiveOrder) ||
		errors.Is(err, ports.ErrAlreadyQueued) ||
		errors.Is(err, ports.ErrEntryNotAvailable) ||
		errors.Is(err, ports.ErrCourierEngaged) ||
		errors.Is(err, queue.ErrInvalidQueueTransition) ||
		errors.Is(err, queue.ErrOfferCourierMismatch) ||
		errors.Is(err, order.ErrCourierMismatch) ||
		errors.Is(err, services.ErrNoEligibleCourier) ||
		errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired)
}

// runWithRetry executes one transactional closure, retrying persistence
// failures a bounded number of times at the transaction boundary. Business
// outcomes and context cancellation return immediately.
func runWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || isBusinessOutcome(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

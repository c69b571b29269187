package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// MatchOutcome classifies the result of one matching attempt.
type MatchOutcome int

const (
	// MatchOffered means one courier now holds the offer for the entry.
	MatchOffered MatchOutcome = iota + 1

	// MatchNoCourier means no available courier could claim the entry.
	// The entry stays Queued; no further action until the next trigger.
	MatchNoCourier

	// MatchAlreadyOffered means a concurrent matcher claimed the entry
	// first. Treated as success: somebody holds the offer.
	MatchAlreadyOffered
)

// MatchResult carries the outcome of one matching attempt and, when an
// offer was placed, the refreshed entry and the courier holding it.
type MatchResult struct {
	Outcome   MatchOutcome
	Entry     *queue.Entry
	CourierID kernel.UUID
}

// MatcherConfig carries the externally configured dispatch timings.
type MatcherConfig struct {
	// OfferTimeout is how long a courier has to accept an offer.
	OfferTimeout time.Duration

	// CandidateRetries bounds how many candidates one matching attempt may
	// try after losing couriers to concurrent matchers.
	CandidateRetries int

	// MaxAttempts caps rebroadcasts per entry before it is exhausted.
	// Zero disables the cap.
	MaxAttempts int
}

// Matcher is the matching engine: given a live Queued entry inside an open
// transaction, it selects one available courier through the pluggable
// selection strategy and claims the entry for that courier with a single
// conditional update. Courier selection and the entry claim share the
// transaction, so either the offer is placed and the courier engaged
// together, or nothing changes.
//
// Concurrency is resolved at the claim, not by locks: losing the entry to a
// concurrent matcher yields MatchAlreadyOffered, losing a courier yields a
// bounded retry with the next candidate.
type Matcher struct {
	selector services.CourierSelector
	config   MatcherConfig
}

// NewMatcher creates a matching engine with the given selection strategy
// and dispatch timings.
func NewMatcher(selector services.CourierSelector, config MatcherConfig) Matcher {
	return Matcher{
		selector: selector,
		config:   config,
	}
}

// Config returns the matcher's dispatch timings.
func (m Matcher) Config() MatcherConfig {
	return m.config
}

// MatchEntry attempts to offer the entry's order to any available courier.
// Runs inside the caller's transaction.
func (m Matcher) MatchEntry(
	ctx context.Context,
	uow UoW,
	entry *queue.Entry,
	ord *order.Order,
) (MatchResult, error) {
	now := time.Now()

	candidates, err := uow.CourierRepository().GetAllAvailable(ctx, now)
	if err != nil {
		return MatchResult{}, err
	}

	ranked, err := m.selector.Select(ord, candidates)
	if errors.Is(err, services.ErrNoEligibleCourier) {
		return MatchResult{Outcome: MatchNoCourier}, nil
	}
	if err != nil {
		return MatchResult{}, err
	}

	tries := len(ranked)
	if m.config.CandidateRetries > 0 && tries > m.config.CandidateRetries {
		tries = m.config.CandidateRetries
	}

	for _, candidate := range ranked[:tries] {
		result, claimErr := m.claim(ctx, uow, entry, candidate.ID(), now)
		if errors.Is(claimErr, ports.ErrCourierEngaged) {
			// Lost this courier to a concurrent matcher; try the next one.
			continue
		}
		if claimErr != nil {
			return MatchResult{}, claimErr
		}
		return result, nil
	}

	return MatchResult{Outcome: MatchNoCourier}, nil
}

// MatchEntryToCourier attempts to offer the entry's order to one specific
// courier, used when that courier just came online. Runs inside the
// caller's transaction.
func (m Matcher) MatchEntryToCourier(
	ctx context.Context,
	uow UoW,
	entry *queue.Entry,
	courierID kernel.UUID,
) (MatchResult, error) {
	now := time.Now()

	available, err := uow.CourierRepository().IsAvailable(ctx, courierID, now)
	if err != nil {
		return MatchResult{}, err
	}
	if !available {
		return MatchResult{Outcome: MatchNoCourier}, nil
	}

	result, err := m.claim(ctx, uow, entry, courierID, now)
	if errors.Is(err, ports.ErrCourierEngaged) {
		return MatchResult{Outcome: MatchNoCourier}, nil
	}
	if err != nil {
		return MatchResult{}, err
	}

	return result, nil
}

// claim performs the conditional Queued -> Offered transition for one
// courier and maps the contention outcomes.
func (m Matcher) claim(
	ctx context.Context,
	uow UoW,
	entry *queue.Entry,
	courierID kernel.UUID,
	now time.Time,
) (MatchResult, error) {
	claimed, err := uow.QueueRepository().ClaimForOffer(
		ctx,
		entry.ID(),
		courierID,
		now.Add(m.config.OfferTimeout),
	)
	if errors.Is(err, ports.ErrEntryNotAvailable) {
		return MatchResult{Outcome: MatchAlreadyOffered}, nil
	}
	if err != nil {
		return MatchResult{}, err
	}

	return MatchResult{
		Outcome:   MatchOffered,
		Entry:     claimed,
		CourierID: courierID,
	}, nil
}

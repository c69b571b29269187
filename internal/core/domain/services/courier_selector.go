package services

import (
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// ErrNoEligibleCourier is returned when no courier in the candidate list is
// eligible for the order. Expected whenever the pool is empty or every
// candidate is gated out; callers treat it as "keep the order queued", not
// as a failure.
var ErrNoEligibleCourier = errors.New("no eligible courier")

// CourierSelector is the pluggable candidate-selection strategy of the
// matching engine. Implementations rank or filter the candidate couriers for
// an order; the concurrency and state-machine core never depends on how a
// candidate was chosen, so geo-ranking or load-based strategies can replace
// the default without touching dispatch correctness.
//
// Candidates arrive pre-filtered for availability (online, past cooldown,
// not engaged); Select orders them by preference.
type CourierSelector interface {
	// Select returns the candidates in offer order, best first.
	// Returns ErrNoEligibleCourier when the list is empty.
	Select(ord *order.Order, candidates []*courier.Courier) ([]*courier.Courier, error)
}

// FIFOSelector offers couriers in the order their availability was observed:
// the candidate list is already sorted oldest-available-first by the
// repository, so selection is pass-through: a simple eligibility filter,
// no distance scoring.
type FIFOSelector struct{}

// NewFIFOSelector creates the default first-in-first-out selection strategy.
func NewFIFOSelector() FIFOSelector {
	return FIFOSelector{}
}

// Select validates the order and candidates and returns them unchanged.
func (FIFOSelector) Select(ord *order.Order, candidates []*courier.Courier) ([]*courier.Courier, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}

	if err := ord.ValidateAssign(); err != nil {
		return nil, err
	}

	eligible := make([]*courier.Courier, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		eligible = append(eligible, c)
	}

	if len(eligible) == 0 {
		return nil, ErrNoEligibleCourier
	}

	return eligible, nil
}

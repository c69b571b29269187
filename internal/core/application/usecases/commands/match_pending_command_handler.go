package commands

import (
	"context"
	"errors"

	"dispatch/internal/pkg/errs"
)

// MatchPendingCommandHandler matches the oldest Queued entry against the
// available courier pool. Returns ErrNothingQueued when the queue is empty
// and ErrNoCourierAvailable when nobody can take the order; both are
// expected outcomes on an idle system, not failures.
type MatchPendingCommandHandler struct {
	uowFactory UoWFactory
	matcher    Matcher
}

// NewMatchPendingCommandHandler creates a handler for the periodic match sweep.
func NewMatchPendingCommandHandler(uowFactory UoWFactory, matcher Matcher) MatchPendingCommandHandler {
	return MatchPendingCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
	}
}

// Handle attempts one match for the oldest waiting order.
func (h MatchPendingCommandHandler) Handle(ctx context.Context, command MatchPendingCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx)
	})
}

func (h MatchPendingCommandHandler) handle(ctx context.Context) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry, err := uow.QueueRepository().GetOldestQueued(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNothingQueued
	}
	if err != nil {
		return err
	}

	ord, err := uow.OrderRepository().Get(ctx, entry.OrderID())
	if err != nil {
		return err
	}

	result, err := h.matcher.MatchEntry(ctx, uow, entry, ord)
	if err != nil {
		return err
	}

	if result.Outcome == MatchNoCourier {
		return ErrNoCourierAvailable
	}

	return uow.Commit(ctx)
}

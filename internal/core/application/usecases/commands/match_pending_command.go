package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrMatchPendingCommandIsNotConstructed = errors.New(
	"MatchPendingCommand must be created via NewMatchPendingCommand constructor",
)

// MatchPendingCommand triggers one matching attempt for the oldest Queued
// entry. Parameterless; the sweep job issues it periodically as the
// backstop for orders left waiting by rejections and empty courier pools.
type MatchPendingCommand struct {
	guard guard.ConstructorGuard
}

// NewMatchPendingCommand creates a command to match the oldest waiting order.
func NewMatchPendingCommand() MatchPendingCommand {
	return MatchPendingCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *MatchPendingCommand) Validate() error {
	return c.guard.Validate(ErrMatchPendingCommandIsNotConstructed)
}

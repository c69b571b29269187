package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCourierOfflineCommandIsNotConstructed = errors.New(
	"CourierOfflineCommand must be created via NewCourierOfflineCommand constructor",
)

// CourierOfflineCommand represents a courier ending a shift. Going offline
// stops new offers only; an in-flight delivery continues to completion.
type CourierOfflineCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCourierOfflineCommand creates a command announcing a courier went offline.
func NewCourierOfflineCommand(courierID kernel.UUID) (CourierOfflineCommand, error) {
	command := CourierOfflineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setCourierID(courierID); err != nil {
		return CourierOfflineCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CourierOfflineCommand) Validate() error {
	return c.guard.Validate(ErrCourierOfflineCommandIsNotConstructed)
}

// CourierID returns the courier's unique identifier.
func (c CourierOfflineCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *CourierOfflineCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

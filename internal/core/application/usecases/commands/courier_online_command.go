package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCourierOnlineCommandIsNotConstructed = errors.New(
	"CourierOnlineCommand must be created via NewCourierOnlineCommand constructor",
)

// CourierOnlineCommand represents a courier starting a shift. Coming online
// is also a matching trigger: a waiting order may be offered to this courier
// right away.
type CourierOnlineCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCourierOnlineCommand creates a command announcing a courier came online.
func NewCourierOnlineCommand(courierID kernel.UUID) (CourierOnlineCommand, error) {
	command := CourierOnlineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setCourierID(courierID); err != nil {
		return CourierOnlineCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CourierOnlineCommand) Validate() error {
	return c.guard.Validate(ErrCourierOnlineCommandIsNotConstructed)
}

// CourierID returns the courier's unique identifier.
func (c CourierOnlineCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *CourierOnlineCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

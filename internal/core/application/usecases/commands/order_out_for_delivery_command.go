package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrOrderOutForDeliveryCommandIsNotConstructed = errors.New(
	"OrderOutForDeliveryCommand must be created via NewOrderOutForDeliveryCommand constructor",
)

// OrderOutForDeliveryCommand represents the courier departing the vendor
// towards the customer.
type OrderOutForDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrderOutForDeliveryCommand creates a command announcing the order is
// on its way to the customer.
func NewOrderOutForDeliveryCommand(orderID kernel.UUID, courierID kernel.UUID) (OrderOutForDeliveryCommand, error) {
	command := OrderOutForDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCourierID(courierID),
	); err != nil {
		return OrderOutForDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c OrderOutForDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrOrderOutForDeliveryCommandIsNotConstructed)
}

// OrderID returns the order in transit.
func (c OrderOutForDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the delivering courier.
func (c OrderOutForDeliveryCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *OrderOutForDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *OrderOutForDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

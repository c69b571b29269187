package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrOrderReadyCommandIsNotConstructed = errors.New(
		"OrderReadyCommand must be created via NewOrderReadyCommand constructor",
	)
	ErrOrderNumberIsRequired = errors.New("order number is required")
)

// OrderReadyCommand represents the order-fulfillment event that hands an
// order over to dispatch: the vendor marked it ready for pickup. Carries
// the full order identity because dispatch is the system of record for the
// delivery-relevant slice of the order.
//
// Example:
//
//	cmd, err := NewOrderReadyCommand(orderID, "A-1042", vendorID, customerID)
//	if err != nil {
//	    return fmt.Errorf("invalid order ready event: %w", err)
//	}
//
//	handler := NewOrderReadyCommandHandler(uowFactory, matcher, notifier)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order ready failed: %w", err)
//	}
type OrderReadyCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	orderNumber string
	vendorID    kernel.UUID
	customerID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrderReadyCommand creates a command announcing an order is ready for
// pickup. Validates all identifiers and requires a non-empty order number.
func NewOrderReadyCommand(
	orderID kernel.UUID,
	orderNumber string,
	vendorID kernel.UUID,
	customerID kernel.UUID,
) (OrderReadyCommand, error) {
	command := OrderReadyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setOrderNumber(orderNumber),
		command.setVendorID(vendorID),
		command.setCustomerID(customerID),
	); err != nil {
		return OrderReadyCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrOrderReadyCommandIsNotConstructed if validation fails.
func (c OrderReadyCommand) Validate() error {
	return c.guard.Validate(ErrOrderReadyCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c OrderReadyCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OrderNumber returns the human-facing order reference.
func (c OrderReadyCommand) OrderNumber() string {
	return c.orderNumber
}

// VendorID returns the vendor preparing the order.
func (c OrderReadyCommand) VendorID() kernel.UUID {
	return c.vendorID
}

// CustomerID returns the customer awaiting the order.
func (c OrderReadyCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c *OrderReadyCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *OrderReadyCommand) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberIsRequired
	}

	c.orderNumber = orderNumber
	return nil
}

func (c *OrderReadyCommand) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}

	c.vendorID = vendorID
	return nil
}

func (c *OrderReadyCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

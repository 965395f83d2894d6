package commands

import (
	"errors"
	"strings"

	"github.com/GregTMJ/Orders-API/internal/pkg/errs"
	"github.com/GregTMJ/Orders-API/internal/pkg/guard"
)

var (
	ErrProcessOrderCommandIsNotConstructed = errors.New(
		"ProcessOrderCommand must be created via NewProcessOrderCommand constructor",
	)
	ErrOrderIDIsRequired = errs.NewValueIsRequiredError("order_id")
)

// ProcessOrderCommand is one job taken off the task queue. The order id is
// kept as received; the worker never looks the order up.
type ProcessOrderCommand struct {
	orderID string

	guard guard.ConstructorGuard
}

func NewProcessOrderCommand(orderID string) (ProcessOrderCommand, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ProcessOrderCommand{}, ErrOrderIDIsRequired
	}

	return ProcessOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessOrderCommand) Validate() error {
	return c.guard.Validate(ErrProcessOrderCommandIsNotConstructed)
}

func (c ProcessOrderCommand) OrderID() string {
	return c.orderID
}

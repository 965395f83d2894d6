package commands

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/core/domain/model/order"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"
	"github.com/GregTMJ/Orders-API/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOwnerIDIsRequired = errs.NewValueIsRequiredError("owner_id")
	ErrItemsAreRequired  = errs.NewValueIsRequiredError("items")
)

// CreateOrderCommand represents a request to create a new order on behalf of
// the authenticated user.
//
// Example:
//
//	price, _ := kernel.PriceFromString("1000.00")
//	cmd, err := NewCreateOrderCommand(userID, json.RawMessage(`[{"sku":"A1"}]`), price, order.Pending)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	ownerID    string
	items      json.RawMessage
	totalPrice kernel.Price
	status     order.Status

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request. An empty status is accepted and
// later defaults to PENDING.
func NewCreateOrderCommand(
	ownerID string,
	items json.RawMessage,
	totalPrice kernel.Price,
	status order.Status,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOwnerID(ownerID),
		cmd.setItems(items),
		cmd.setTotalPrice(totalPrice),
		cmd.setStatus(status),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OwnerID() string {
	return c.ownerID
}

func (c CreateOrderCommand) Items() json.RawMessage {
	return c.items
}

func (c CreateOrderCommand) TotalPrice() kernel.Price {
	return c.totalPrice
}

func (c CreateOrderCommand) Status() order.Status {
	return c.status
}

func (c *CreateOrderCommand) setOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrOwnerIDIsRequired
	}

	c.ownerID = ownerID
	return nil
}

func (c *CreateOrderCommand) setItems(items json.RawMessage) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setTotalPrice(totalPrice kernel.Price) error {
	if err := totalPrice.Validate(); err != nil {
		return err
	}

	c.totalPrice = totalPrice
	return nil
}

func (c *CreateOrderCommand) setStatus(status order.Status) error {
	if status == order.Unknown {
		return nil
	}
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

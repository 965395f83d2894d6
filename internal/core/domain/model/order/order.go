package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the order pipeline.
//
// Order follows these invariants:
//   - id and createdAt are assigned once and never change
//   - ownerID references a user and is never empty
//   - items is a JSON array; its elements are opaque to the domain
//   - totalPrice is positive with at most two fractional digits and cannot be changed
//   - status is one of the enumerated statuses and only changes through ChangeStatus
type Order struct {
	id         kernel.UUID
	ownerID    string
	items      json.RawMessage
	totalPrice kernel.Price
	status     Status
	createdAt  time.Time

	isConstructed bool
}

// NewOrder creates an order with a generated id and the current time as createdAt,
// truncated to the microsecond precision of the store.
//
// The status is caller supplied. An empty status defaults to Pending.
//
// Example:
//
//	price, _ := kernel.PriceFromString("1000.00")
//	o, err := order.NewOrder("u1", json.RawMessage(`[{"sku":"A1"}]`), price, order.Pending)
func NewOrder(ownerID string, items json.RawMessage, totalPrice kernel.Price, status Status) (*Order, error) {
	if status == Unknown {
		status = Pending
	}
	return build(kernel.NewUUID(), ownerID, items, totalPrice, status, time.Now().UTC().Truncate(time.Microsecond))
}

// RestoreOrder rebuilds an order from persisted state. It applies the same
// validation as NewOrder but keeps the stored id and timestamp.
func RestoreOrder(
	id kernel.UUID,
	ownerID string,
	items json.RawMessage,
	totalPrice kernel.Price,
	status Status,
	createdAt time.Time,
) (*Order, error) {
	return build(id, ownerID, items, totalPrice, status, createdAt)
}

func build(
	id kernel.UUID,
	ownerID string,
	items json.RawMessage,
	totalPrice kernel.Price,
	status Status,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setOwnerID(ownerID),
		o.setItems(items),
		o.setTotalPrice(totalPrice),
		o.setStatus(status),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) OwnerID() string {
	return o.ownerID
}

// Items returns a copy of the raw items payload.
func (o *Order) Items() json.RawMessage {
	return append(json.RawMessage(nil), o.items...)
}

func (o *Order) TotalPrice() kernel.Price {
	return o.totalPrice
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ChangeStatus moves the order to status if policy allows it.
// Concurrent updates of the same order resolve last-write-wins in the store.
func (o *Order) ChangeStatus(status Status, policy TransitionPolicy) error {
	if err := policy.Allows(o.status, status); err != nil {
		return err
	}

	o.status = status
	return nil
}

// Snapshot returns the externally visible view of the order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:         o.id,
		Items:      o.Items(),
		TotalPrice: o.totalPrice,
		Status:     o.status,
		CreatedAt:  o.createdAt,
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return errs.NewValueIsRequiredError("owner_id")
	}
	o.ownerID = ownerID
	return nil
}

func (o *Order) setItems(items json.RawMessage) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, items); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("items", err)
	}
	if compact.Bytes()[0] != '[' {
		return errs.NewValueIsInvalidErrorWithCause("items", errors.New("items must be a JSON array"))
	}
	o.items = compact.Bytes()
	return nil
}

func (o *Order) setTotalPrice(totalPrice kernel.Price) error {
	if err := totalPrice.Validate(); err != nil {
		return err
	}
	o.totalPrice = totalPrice
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created_at")
	}
	o.createdAt = createdAt
	return nil
}

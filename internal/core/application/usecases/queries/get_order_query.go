package queries

import (
	"errors"
	"strings"

	"github.com/GregTMJ/Orders-API/internal/core/domain/model/kernel"
	"github.com/GregTMJ/Orders-API/internal/pkg/errs"
	"github.com/GregTMJ/Orders-API/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrRequestingUserIsRequired = errs.NewValueIsRequiredError("requesting user")
)

// GetOrderQuery reads one order on behalf of a user. The pair (order, user)
// is the cache key, so two users reading the same order get separate entries.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, userID)
//	if err != nil {
//	    return err
//	}
//	snapshot, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID     kernel.UUID
	requestedBy string

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, requestedBy string) (GetOrderQuery, error) {
	if err := errors.Join(
		orderID.Validate(),
		validateRequestingUser(requestedBy),
	); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID:     orderID,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) RequestedBy() string {
	return q.requestedBy
}

func validateRequestingUser(requestedBy string) error {
	if strings.TrimSpace(requestedBy) == "" {
		return ErrRequestingUserIsRequired
	}
	return nil
}

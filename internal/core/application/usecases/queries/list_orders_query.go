package queries

import (
	"errors"
	"strings"

	"github.com/GregTMJ/Orders-API/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery or NewListAllOrdersQuery constructor",
	)
)

// ListOrdersQuery lists the orders of one owner, or all orders.
// Results are not paginated.
type ListOrdersQuery struct {
	ownerID string

	guard guard.ConstructorGuard
}

// NewListOrdersQuery lists the orders of ownerID. A blank owner lists every order.
func NewListOrdersQuery(ownerID string) ListOrdersQuery {
	return ListOrdersQuery{
		ownerID: strings.TrimSpace(ownerID),
		guard:   guard.NewConstructorGuard(),
	}
}

// NewListAllOrdersQuery lists every order in the store.
func NewListAllOrdersQuery() ListOrdersQuery {
	return NewListOrdersQuery("")
}

// Validate ensures the query was created through a constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// OwnerID is empty when every order is listed.
func (q ListOrdersQuery) OwnerID() string {
	return q.ownerID
}

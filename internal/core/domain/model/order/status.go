package order

import (
	"fmt"
	"strings"

	"github.com/GregTMJ/Orders-API/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Statuses are stored and transmitted by their upper-case name, so Status is a
// string type rather than an iota enum:
//
//	PENDING ──> PAID ──> SHIPPED
//	   │          │
//	   └──────────┴────> CANCELED
//
// The arrows show the Strict transition policy. Under the Unrestricted policy
// any status may follow any other.
type Status string

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = ""

	// Pending is the default status of a new order.
	Pending Status = "PENDING"

	// Paid indicates the order has been paid for.
	Paid Status = "PAID"

	// Shipped indicates the order has left the warehouse.
	Shipped Status = "SHIPPED"

	// Canceled indicates the order was abandoned.
	Canceled Status = "CANCELED"
)

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Paid, Shipped, Canceled}
}

// ParseStatus converts a status name into a Status. Matching is case-insensitive
// so "paid" and "PAID" are the same status.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(value)))
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	return s, nil
}

// Validate checks that s is one of the enumerated statuses.
func (s Status) Validate() error {
	switch s {
	case Pending, Paid, Shipped, Canceled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%q is not one of %v", string(s), AllStatuses()),
		)
	}
}

// IsTerminal reports whether no further transition is allowed under the Strict policy.
func (s Status) IsTerminal() bool {
	return s == Shipped || s == Canceled
}

func (s Status) String() string {
	if s == Unknown {
		return "UNKNOWN"
	}
	return string(s)
}

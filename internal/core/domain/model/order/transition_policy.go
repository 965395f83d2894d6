package order

import (
	"fmt"
	"strings"

	"github.com/GregTMJ/Orders-API/internal/pkg/errs"
)

// TransitionPolicy decides which status changes ChangeStatus accepts.
type TransitionPolicy int

const (
	// Unrestricted accepts any enumerated status from any status.
	Unrestricted TransitionPolicy = iota

	// Strict only accepts the forward edges of the order lifecycle:
	// PENDING -> PAID|CANCELED, PAID -> SHIPPED|CANCELED.
	// SHIPPED and CANCELED are terminal. Re-applying the current status is allowed.
	Strict
)

// strictTransitions lists the forward edges of the non-terminal statuses.
var strictTransitions = map[Status][]Status{
	Pending: {Paid, Canceled},
	Paid:    {Shipped, Canceled},
}

// ParseTransitionPolicy maps a configuration value onto a policy.
// An empty value selects Unrestricted.
func ParseTransitionPolicy(value string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "unrestricted":
		return Unrestricted, nil
	case "strict":
		return Strict, nil
	default:
		return Unrestricted, errs.NewValueIsInvalidErrorWithCause(
			"transition policy",
			fmt.Errorf("%q is not one of [unrestricted strict]", value),
		)
	}
}

// Allows validates the transition from -> to.
func (p TransitionPolicy) Allows(from, to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if p != Strict || from == to {
		return nil
	}
	if from.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("order is %s, no further transition is allowed", from),
		)
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("transition from %s to %s is not allowed", from, to),
	)
}

func (p TransitionPolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "unrestricted"
}

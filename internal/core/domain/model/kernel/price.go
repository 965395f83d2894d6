package kernel

import (
	"errors"
	"fmt"

	"github.com/GregTMJ/Orders-API/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits a price may carry.
const PriceScale = 2

var (
	// ErrPriceIsNotConstructed is returned when validating a zero-value Price.
	ErrPriceIsNotConstructed = errors.New("Price must be created via NewPrice or PriceFromString")

	// maxPrice is the first value that no longer fits numeric(12,2).
	maxPrice = decimal.New(1, 10)
)

// Price is a positive fixed-point amount with at most two fractional digits.
// Trailing zeros beyond the scale are accepted ("10.500" is 10.50).
type Price struct {
	amount        decimal.Decimal
	isConstructed bool
}

// NewPrice validates d and returns it as a Price.
func NewPrice(d decimal.Decimal) (Price, error) {
	if !d.IsPositive() {
		return Price{}, errs.NewValueIsInvalidErrorWithCause(
			"total_price", fmt.Errorf("%s is not greater than 0", d.String()))
	}
	if !d.Equal(d.Round(PriceScale)) {
		return Price{}, errs.NewValueIsInvalidErrorWithCause(
			"total_price", fmt.Errorf("%s has more than %d decimal places", d.String(), PriceScale))
	}
	if d.GreaterThanOrEqual(maxPrice) {
		return Price{}, errs.NewValueIsOutOfRangeError(
			"total_price", d.String(), "0.01", maxPrice.Sub(decimal.New(1, -PriceScale)).StringFixed(PriceScale))
	}
	return Price{amount: d.Round(PriceScale), isConstructed: true}, nil
}

// PriceFromString parses a decimal literal such as "1000.00".
func PriceFromString(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, errs.NewValueIsInvalidErrorWithCause("total_price", err)
	}
	return NewPrice(d)
}

// MustPrice is PriceFromString for literals known to be valid; it panics otherwise.
func MustPrice(s string) Price {
	p, err := PriceFromString(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) Validate() error {
	if !p.isConstructed {
		return ErrPriceIsNotConstructed
	}
	return nil
}

func (p Price) Decimal() decimal.Decimal {
	return p.amount
}

// String always renders two fractional digits.
func (p Price) String() string {
	return p.amount.StringFixed(PriceScale)
}

func (p Price) IsEqual(other Price) bool {
	return p.amount.Equal(other.amount)
}

// MarshalJSON renders the price as a quoted fixed-point string, e.g. "1000.00".
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted strings and bare JSON numbers.
func (p *Price) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("total_price", err)
	}
	parsed, err := NewPrice(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

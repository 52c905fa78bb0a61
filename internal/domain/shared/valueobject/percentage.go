package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percentage is a value object for rates expressed in percent.
// Discount rates are bounded to [0, 100]; tax rates only require >= 0.
type Percentage struct {
	value decimal.Decimal
}

// NewDiscountPercentage creates a discount rate, validating the [0, 100] range
func NewDiscountPercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return Percentage{}, fmt.Errorf("discount percentage must be between 0 and 100, got %s", value.String())
	}
	return Percentage{value: value}, nil
}

// NewTaxRatePercentage creates a tax rate, validating it is non-negative
func NewTaxRatePercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() {
		return Percentage{}, fmt.Errorf("tax rate percentage cannot be negative, got %s", value.String())
	}
	return Percentage{value: value}, nil
}

// ZeroPercent returns a zero percentage
func ZeroPercent() Percentage {
	return Percentage{value: decimal.Zero}
}

// Value returns the underlying decimal value
func (p Percentage) Value() decimal.Decimal {
	return p.value
}

// IsZero returns true if the rate is zero
func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

// ApplyTo returns base * p / 100, unrounded
func (p Percentage) ApplyTo(base decimal.Decimal) decimal.Decimal {
	return base.Mul(p.value).Div(decimal.NewFromInt(100))
}

// String returns the rate followed by a percent sign
func (p Percentage) String() string {
	return p.value.String() + "%"
}

package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// USDCDecimals is the fixed-point scale of the stablecoin the gate charges in.
const USDCDecimals = 6

var maxSmallestUnit = decimal.NewFromInt(math.MaxInt64)

// Price is a decimal currency amount such as "0.02".
type Price struct {
	decimal.Decimal
}

func NewPrice(amount string) (Price, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Price{}, err
	}
	if d.IsNegative() {
		return Price{}, errors.New("price cannot be negative")
	}
	if d.Shift(USDCDecimals).Floor().GreaterThan(maxSmallestUnit) {
		return Price{}, errors.New("price too large")
	}
	return Price{Decimal: d}, nil
}

func MustPrice(amount string) Price {
	p, err := NewPrice(amount)
	if err != nil {
		panic(err)
	}
	return p
}

// SmallestUnit converts to the asset's integer unit, truncating any sub-unit remainder.
// It never rounds up so a payer is never charged more than the advertised price.
func (p Price) SmallestUnit() int64 {
	return ToSmallestUnit(p.Decimal)
}

// ToSmallestUnit returns floor(amount * 10^6).
func ToSmallestUnit(amount decimal.Decimal) int64 {
	return amount.Shift(USDCDecimals).Floor().IntPart()
}

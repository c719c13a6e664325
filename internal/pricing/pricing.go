// Package pricing computes effective menu prices from a vendor's discount
// configuration. The computation is a pure function shared by the vendor
// dashboard preview and the public menu renderer, so both always show the
// same numbers.
package pricing

import (
	"github.com/shopspring/decimal"

	"menuqr-service/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ComputeEffectivePrice applies the discount configuration to a base price.
//
// A value of zero (or less) always yields the base price, whatever the type.
// Percentage discounts above 100 are intentionally not clamped and produce a
// negative result; fixed discounts floor at zero. An unrecognized type is a
// safe no-op.
func ComputeEffectivePrice(basePrice decimal.Decimal, discountType string, discountValue decimal.Decimal) decimal.Decimal {
	if discountValue.LessThanOrEqual(decimal.Zero) {
		return basePrice
	}

	switch discountType {
	case model.DiscountPercentage:
		return basePrice.Mul(decimal.NewFromInt(1).Sub(discountValue.Div(hundred)))
	case model.DiscountFixed:
		effective := basePrice.Sub(discountValue)
		if effective.IsNegative() {
			return decimal.Zero
		}
		return effective
	default:
		return basePrice
	}
}

// Quote is the priced view of a single item, computed once and rendered by
// every price-displaying call site.
type Quote struct {
	Price          float64 `json:"price"`
	EffectivePrice float64 `json:"effective_price"`
	Savings        float64 `json:"savings"`
}

// QuoteItem prices one item against a vendor's discount configuration.
// Amounts are rounded to two decimal places at this serialization boundary
// only; the underlying computation stays exact.
func QuoteItem(price float64, discountType string, discountValue float64) Quote {
	base := decimal.NewFromFloat(price)
	effective := ComputeEffectivePrice(base, discountType, decimal.NewFromFloat(discountValue))
	savings := base.Sub(effective)

	return Quote{
		Price:          round2(base),
		EffectivePrice: round2(effective),
		Savings:        round2(savings),
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"menuqr-service/internal/model"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestComputeEffectivePrice(t *testing.T) {
	tests := []struct {
		name         string
		basePrice    float64
		discountType string
		value        float64
		want         float64
	}{
		{"percentage discount", 100, model.DiscountPercentage, 20, 80},
		{"percentage half", 250, model.DiscountPercentage, 50, 125},
		{"fixed discount", 100, model.DiscountFixed, 30, 70},
		{"fixed larger than price floors at zero", 100, model.DiscountFixed, 150, 0},
		{"zero value is identity for percentage", 100, model.DiscountPercentage, 0, 100},
		{"zero value is identity for fixed", 100, model.DiscountFixed, 0, 100},
		{"zero value is identity for unknown type", 100, "bogus", 0, 100},
		{"negative value is identity", 100, model.DiscountPercentage, -5, 100},
		{"unknown type is identity", 100, "loyalty", 25, 100},
		{"full percentage", 80, model.DiscountPercentage, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEffectivePrice(dec(tt.basePrice), tt.discountType, dec(tt.value))
			assert.True(t, dec(tt.want).Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestComputeEffectivePrice_PercentageAboveHundredIsNotClamped(t *testing.T) {
	got := ComputeEffectivePrice(dec(100), model.DiscountPercentage, dec(150))
	assert.True(t, got.IsNegative(), "expected negative price, got %v", got)
	assert.True(t, dec(-50).Equal(got))
}

func TestComputeEffectivePrice_NeverAboveBase(t *testing.T) {
	prices := []float64{0, 1, 9.99, 42.5, 100, 9999.95}
	values := []float64{0, 1, 10, 33.3, 50, 99, 100}
	types := []string{model.DiscountPercentage, model.DiscountFixed, "other"}

	for _, p := range prices {
		for _, v := range values {
			for _, dt := range types {
				got := ComputeEffectivePrice(dec(p), dt, dec(v))
				assert.True(t, got.LessThanOrEqual(dec(p)),
					"price %v type %s value %v yielded %v above base", p, dt, v, got)
			}
		}
	}
}

func TestComputeEffectivePrice_FixedNeverNegative(t *testing.T) {
	prices := []float64{0, 1, 50, 100}
	values := []float64{0, 25, 100, 1000}

	for _, p := range prices {
		for _, v := range values {
			got := ComputeEffectivePrice(dec(p), model.DiscountFixed, dec(v))
			assert.False(t, got.IsNegative(),
				"price %v value %v yielded negative %v", p, v, got)
		}
	}
}

func TestQuoteItem(t *testing.T) {
	q := QuoteItem(100, model.DiscountFixed, 30)
	assert.Equal(t, 100.0, q.Price)
	assert.Equal(t, 70.0, q.EffectivePrice)
	assert.Equal(t, 30.0, q.Savings)
}

func TestQuoteItem_RoundsAtTheBoundaryOnly(t *testing.T) {
	// 1/3 off 10.00: the exact result is periodic, the quote carries two
	// decimal places
	q := QuoteItem(10, model.DiscountPercentage, 33.33)
	assert.Equal(t, 10.0, q.Price)
	assert.Equal(t, 6.67, q.EffectivePrice)
	assert.Equal(t, 3.33, q.Savings)
}

func TestQuoteItem_NoDiscount(t *testing.T) {
	q := QuoteItem(42.5, model.DiscountPercentage, 0)
	assert.Equal(t, 42.5, q.Price)
	assert.Equal(t, 42.5, q.EffectivePrice)
	assert.Equal(t, 0.0, q.Savings)
}

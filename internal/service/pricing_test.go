package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	t.Run("sums unit price times quantity per line", func(t *testing.T) {
		lines := []PricingLine{
			{UnitPriceCents: 5000, Quantity: 2},
			{UnitPriceCents: 2500, Quantity: 1},
		}
		assert.Equal(t, int64(12500), Subtotal(lines))
	})

	t.Run("empty selection is zero", func(t *testing.T) {
		assert.Equal(t, int64(0), Subtotal(nil))
	})
}

func TestServiceFee(t *testing.T) {
	t.Run("ten percent of 125 dollars is 12.50", func(t *testing.T) {
		assert.Equal(t, int64(1250), ServiceFee(12500, 1000))
	})

	t.Run("rounds half up to the nearest cent", func(t *testing.T) {
		// 10% of 105 cents is 10.5 cents.
		assert.Equal(t, int64(11), ServiceFee(105, 1000))
		// 10% of 104 cents is 10.4 cents.
		assert.Equal(t, int64(10), ServiceFee(104, 1000))
	})

	t.Run("zero rate charges nothing", func(t *testing.T) {
		assert.Equal(t, int64(0), ServiceFee(12500, 0))
	})

	t.Run("zero subtotal charges nothing", func(t *testing.T) {
		assert.Equal(t, int64(0), ServiceFee(0, 1000))
	})
}

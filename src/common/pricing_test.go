package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePrice(t *testing.T) {
	t.Run("Should apply discounts in order", func(t *testing.T) {
		addOns := []AddOnLine{
			{AddOnID: 1, Qty: 1, UnitPrice: 20},
		}
		bd := ComputePrice(100, 15, addOns, 5)

		assert.Equal(t, 85.0, bd.AfterOrgDiscount)
		assert.Equal(t, 20.0, bd.AddOnTotal)
		assert.Equal(t, 99.75, bd.Final)
	})

	t.Run("Should not discount add-ons with the org rate", func(t *testing.T) {
		addOns := []AddOnLine{
			{AddOnID: 1, Qty: 2, UnitPrice: 50},
		}
		bd := ComputePrice(200, 50, addOns, 0)

		assert.Equal(t, 100.0, bd.AfterOrgDiscount)
		assert.Equal(t, 100.0, bd.AddOnTotal)
		assert.Equal(t, 200.0, bd.Final)
	})

	t.Run("Should return base price when nothing applies", func(t *testing.T) {
		bd := ComputePrice(59.99, 0, nil, 0)

		assert.Equal(t, 59.99, bd.AfterOrgDiscount)
		assert.Equal(t, 0.0, bd.AddOnTotal)
		assert.Equal(t, 59.99, bd.Final)
	})

	t.Run("Should round the final amount to cents", func(t *testing.T) {
		bd := ComputePrice(100, 33.333, nil, 0)

		assert.Equal(t, 66.67, bd.Final)
	})

	t.Run("Should apply the package discount to add-ons too", func(t *testing.T) {
		addOns := []AddOnLine{
			{AddOnID: 3, Qty: 1, UnitPrice: 100},
		}
		bd := ComputePrice(100, 0, addOns, 10)

		assert.Equal(t, 180.0, bd.Final)
	})
}

func TestVATAmount(t *testing.T) {
	assert.Equal(t, 19.95, VATAmount(99.75, 20))
	assert.Equal(t, 0.0, VATAmount(99.75, 0))
	assert.Equal(t, 0.0, VATAmount(99.75, -5))
}

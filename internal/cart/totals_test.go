package cart

import (
	"testing"

	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/anpos/pos-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, Price: 5.0, Discount: 0.5, PurchasingType: enums.PurchasingTypeSingle},
		{Quantity: 1, Price: 12.345, PurchasingType: enums.PurchasingTypeBulk},
		{Quantity: 0, Price: 99, PurchasingType: enums.PurchasingTypeSingle},
	}

	totals := ComputeTotals(3, items, DefaultVATRate)
	assert.Equal(t, int64(3), totals.CartID)
	assert.Equal(t, 3, totals.LineCount)
	assert.Equal(t, 3, totals.ItemCount)
	assert.Equal(t, "22.35", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "1.00", totals.Discount.StringFixed(2))
	assert.Equal(t, "21.35", totals.Total.StringFixed(2))
	assert.Equal(t, "0.10", totals.VATRate.StringFixed(2))
	assert.Equal(t, "2.14", totals.VAT.StringFixed(2))
	assert.Equal(t, "23.49", totals.Gross.StringFixed(2))
}

func TestComputeTotalsVATOnDiscountedTotal(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 4, Price: 25, Discount: 5, PurchasingType: enums.PurchasingTypeSingle},
	}

	totals := ComputeTotals(9, items, 0.08)
	assert.Equal(t, "80.00", totals.Total.StringFixed(2))
	assert.Equal(t, "6.40", totals.VAT.StringFixed(2))
	assert.Equal(t, "86.40", totals.Gross.StringFixed(2))

	exempt := ComputeTotals(9, items, 0)
	assert.True(t, exempt.VAT.IsZero())
	assert.True(t, exempt.Gross.Equal(exempt.Total))
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(1, nil, DefaultVATRate)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.VAT.IsZero())
	assert.True(t, totals.Gross.IsZero())
	assert.Zero(t, totals.LineCount)
}

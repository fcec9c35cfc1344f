package cart

import (
	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// DefaultVATRate applies when the terminal is not configured with its own rate.
const DefaultVATRate = 0.10

// Totals summarises a cart's lines. Amounts are rounded to cents. Total is net
// of line discounts; VAT is charged on Total and Gross is what the customer pays.
type Totals struct {
	CartID    int64           `json:"cart_id"`
	LineCount int             `json:"line_count"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	VAT       decimal.Decimal `json:"vat"`
	Gross     decimal.Decimal `json:"gross"`
}

// ComputeTotals sums qty*price and qty*discount over items and applies vatRate
// to the discounted total.
func ComputeTotals(cartID int64, items []models.CartItem, vatRate float64) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	count := 0
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price).Mul(qty))
		discount = discount.Add(decimal.NewFromFloat(item.Discount).Mul(qty))
		count += item.Quantity
	}

	rate := decimal.NewFromFloat(vatRate)
	total := subtotal.Sub(discount).Round(2)
	vat := total.Mul(rate).Round(2)

	return Totals{
		CartID:    cartID,
		LineCount: len(items),
		ItemCount: count,
		Subtotal:  subtotal.Round(2),
		Discount:  discount.Round(2),
		Total:     total,
		VATRate:   rate,
		VAT:       vat,
		Gross:     total.Add(vat),
	}
}

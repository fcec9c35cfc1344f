package cart

import (
	cartsvc "github.com/anpos/pos-backend/internal/cart"
	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

type cartResponse struct {
	ID        int64  `json:"cart_id"`
	Name      string `json:"cart_name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func newCartResponse(c *models.Cart) *cartResponse {
	if c == nil {
		return nil
	}
	return &cartResponse{
		ID:        c.ID,
		Name:      c.Name,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt.String(),
	}
}

func newCartList(carts []models.Cart) []cartResponse {
	out := make([]cartResponse, 0, len(carts))
	for i := range carts {
		out = append(out, *newCartResponse(&carts[i]))
	}
	return out
}

type cartItemResponse struct {
	CartID         int64   `json:"cart_id"`
	ProductID      int64   `json:"product_id"`
	ScannedBarcode *string `json:"scanned_barcode,omitempty"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	PurchasingType string  `json:"purchasing_type"`
	Discount       float64 `json:"discount"`
	LineTotal      string  `json:"line_total"`
}

func newCartItemResponse(item models.CartItem) cartItemResponse {
	qty := decimal.NewFromInt(int64(item.Quantity))
	line := decimal.NewFromFloat(item.Price).Sub(decimal.NewFromFloat(item.Discount)).Mul(qty)
	return cartItemResponse{
		CartID:         item.CartID,
		ProductID:      item.ProductID,
		ScannedBarcode: item.ScannedBarcode,
		Quantity:       item.Quantity,
		Price:          item.Price,
		PurchasingType: string(item.PurchasingType),
		Discount:       item.Discount,
		LineTotal:      line.StringFixed(2),
	}
}

func newCartItemList(items []models.CartItem) []cartItemResponse {
	out := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newCartItemResponse(item))
	}
	return out
}

type totalsResponse struct {
	CartID    int64  `json:"cart_id"`
	LineCount int    `json:"line_count"`
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
	Discount  string `json:"discount"`
	Total     string `json:"total"`
	VATRate   string `json:"vat_rate"`
	VAT       string `json:"vat"`
	Gross     string `json:"gross"`
}

func newTotalsResponse(t *cartsvc.Totals) totalsResponse {
	return totalsResponse{
		CartID:    t.CartID,
		LineCount: t.LineCount,
		ItemCount: t.ItemCount,
		Subtotal:  t.Subtotal.StringFixed(2),
		Discount:  t.Discount.StringFixed(2),
		Total:     t.Total.StringFixed(2),
		VATRate:   t.VATRate.String(),
		VAT:       t.VAT.StringFixed(2),
		Gross:     t.Gross.StringFixed(2),
	}
}

type checkoutResponse struct {
	CartID    int64  `json:"cart_id"`
	InvoiceID string `json:"invoice_id"`
}

type cleanupResponse struct {
	TTLMinutes int   `json:"ttl_minutes"`
	Deleted    int64 `json:"deleted"`
}

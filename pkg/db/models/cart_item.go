package models

import (
	"github.com/anpos/pos-backend/pkg/enums"
)

// CartItem is one line of a cart. Price and discount are frozen per unit at insertion.
// Lines have no surrogate key; (cart_id, product_id, purchasing_type) addresses them.
type CartItem struct {
	CartID         int64                `gorm:"column:cart_id;not null" json:"cart_id"`
	ProductID      int64                `gorm:"column:product_id;not null" json:"product_id"`
	ScannedBarcode *string              `gorm:"column:scanned_barcode" json:"scanned_barcode,omitempty"`
	Quantity       int                  `gorm:"column:quantity;not null" json:"quantity"`
	Price          float64              `gorm:"column:price;not null" json:"price"`
	PurchasingType enums.PurchasingType `gorm:"column:purchasing_type;not null" json:"purchasing_type"`
	Discount       float64              `gorm:"column:discount;not null;default:0" json:"discount"`
}

func (CartItem) TableName() string { return "cart_items" }

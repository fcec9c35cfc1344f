package models

// Product is a catalog record. The cart core never reads it; callers resolve
// price and unit from here before adding a line.
type Product struct {
	ID                   int64    `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	Barcode              string   `gorm:"column:barcode;not null" json:"barcode"`
	ItemName             string   `gorm:"column:item_name;not null" json:"item_name"`
	Category             string   `gorm:"column:category;not null;default:''" json:"category"`
	Unit                 string   `gorm:"column:unit;not null;default:''" json:"unit"`
	BulkUnit             *string  `gorm:"column:bulk_unit" json:"bulk_unit,omitempty"`
	BulkCode             *string  `gorm:"column:bulk_code" json:"bulk_code,omitempty"`
	BulkSingleConversion *int     `gorm:"column:bulk_single_conversion" json:"bulk_single_conversion,omitempty"`
	RetailPrice          float64  `gorm:"column:retail_price;not null;default:0" json:"retail_price"`
	BulkPrice            *float64 `gorm:"column:bulk_price" json:"bulk_price,omitempty"`
	Cost                 float64  `gorm:"column:cost;not null;default:0" json:"cost"`
}

func (Product) TableName() string { return "products" }
